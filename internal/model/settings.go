package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date formats accepted by Settings.DateFormat.
const (
	DateFormatDMY = "DD/MM/YYYY"
	DateFormatMDY = "MM/DD/YYYY"
	DateFormatISO = "YYYY-MM-DD"
)

// AccentColors are the accepted values of Settings.AccentColor.
var AccentColors = []string{"blue", "purple", "green", "red", "orange", "pink", "teal", "indigo"}

// Settings is the user's application configuration, persisted alongside the data.
// Intervals and durations are in milliseconds.
type Settings struct {
	Currency             string `json:"currency"`
	DateFormat           string `json:"dateFormat"`
	Theme                string `json:"theme"`
	AccentColor          string `json:"accentColor"`
	AutoSaveInterval     int64  `json:"autoSaveInterval"`
	NotificationDuration int64  `json:"notificationDuration"`
	AutoSave             bool   `json:"autoSave"`
	Notifications        bool   `json:"notifications"`
	AutoUpdateEnabled    bool   `json:"autoUpdateEnabled"`
	AutoDownloadEnabled  bool   `json:"autoDownloadEnabled"`
}

// DefaultSettings returns the settings used when nothing has been stored.
func DefaultSettings() Settings {
	return Settings{
		Currency:             "€",
		DateFormat:           DateFormatDMY,
		Theme:                "light",
		AccentColor:          "blue",
		AutoSave:             true,
		AutoSaveInterval:     30000,
		Notifications:        true,
		NotificationDuration: 5000,
		AutoUpdateEnabled:    true,
		AutoDownloadEnabled:  true,
	}
}

// Merge shallow-merges the JSON object raw over s. Fields absent from raw keep
// their current value. An empty or null document leaves s unchanged.
func (s Settings) Merge(raw json.RawMessage) (Settings, error) {
	merged := s
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return merged, nil
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return s, fmt.Errorf("failed to merge settings: %w", err)
	}
	return merged, nil
}

// AutoSaveEvery returns the autosave interval, or zero when autosave is off.
func (s Settings) AutoSaveEvery() time.Duration {
	if !s.AutoSave || s.AutoSaveInterval <= 0 {
		return 0
	}
	return time.Duration(s.AutoSaveInterval) * time.Millisecond
}

// NotificationTTL returns how long a notification stays visible by default.
func (s Settings) NotificationTTL() time.Duration {
	return time.Duration(s.NotificationDuration) * time.Millisecond
}

// FormatCurrency renders an amount with two decimals followed by the currency symbol.
func (s Settings) FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " " + s.Currency
}

// FormatDate renders a YYYY-MM-DD date in the configured format.
// Unparseable input is returned unchanged.
func (s Settings) FormatDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	switch s.DateFormat {
	case DateFormatMDY:
		return t.Format("01/02/2006")
	case DateFormatISO:
		return t.Format(DateLayout)
	default:
		return t.Format("02/01/2006")
	}
}

// SettingKeys lists the keys accepted by Get and Set, sorted.
func SettingKeys() []string {
	keys := []string{
		"currency", "dateFormat", "theme", "accentColor",
		"autoSave", "autoSaveInterval", "notifications", "notificationDuration",
		"autoUpdateEnabled", "autoDownloadEnabled",
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a setting by its JSON key.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "currency":
		return s.Currency, nil
	case "dateFormat":
		return s.DateFormat, nil
	case "theme":
		return s.Theme, nil
	case "accentColor":
		return s.AccentColor, nil
	case "autoSave":
		return strconv.FormatBool(s.AutoSave), nil
	case "autoSaveInterval":
		return strconv.FormatInt(s.AutoSaveInterval, 10), nil
	case "notifications":
		return strconv.FormatBool(s.Notifications), nil
	case "notificationDuration":
		return strconv.FormatInt(s.NotificationDuration, 10), nil
	case "autoUpdateEnabled":
		return strconv.FormatBool(s.AutoUpdateEnabled), nil
	case "autoDownloadEnabled":
		return strconv.FormatBool(s.AutoDownloadEnabled), nil
	default:
		return "", fmt.Errorf("unknown setting %q", key)
	}
}

// Set returns a copy of s with the setting key parsed from value.
func (s Settings) Set(key, value string) (Settings, error) {
	orig := s
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("setting %s expects true or false, got %q", key, value)
		}
		return b, nil
	}
	parseMillis := func() (int64, error) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("setting %s expects a non-negative number of milliseconds, got %q", key, value)
		}
		return n, nil
	}

	var err error
	switch key {
	case "currency":
		s.Currency = value
	case "dateFormat":
		switch value {
		case DateFormatDMY, DateFormatMDY, DateFormatISO:
			s.DateFormat = value
		default:
			return s, fmt.Errorf("setting dateFormat must be one of %s, %s, %s", DateFormatDMY, DateFormatMDY, DateFormatISO)
		}
	case "theme":
		if value != "light" && value != "dark" {
			return s, fmt.Errorf("setting theme must be light or dark")
		}
		s.Theme = value
	case "accentColor":
		if !slices.Contains(AccentColors, value) {
			return s, fmt.Errorf("setting accentColor must be one of %s", strings.Join(AccentColors, ", "))
		}
		s.AccentColor = value
	case "autoSave":
		s.AutoSave, err = parseBool()
	case "autoSaveInterval":
		s.AutoSaveInterval, err = parseMillis()
	case "notifications":
		s.Notifications, err = parseBool()
	case "notificationDuration":
		s.NotificationDuration, err = parseMillis()
	case "autoUpdateEnabled":
		s.AutoUpdateEnabled, err = parseBool()
	case "autoDownloadEnabled":
		s.AutoDownloadEnabled, err = parseBool()
	default:
		return s, fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return orig, err
	}
	return s, nil
}
