package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Merge(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want func(s Settings) Settings
	}{
		{
			name: "empty document keeps defaults",
			raw:  "",
			want: func(s Settings) Settings { return s },
		},
		{
			name: "null keeps defaults",
			raw:  "null",
			want: func(s Settings) Settings { return s },
		},
		{
			name: "partial override",
			raw:  `{"currency":"$","autoSave":false}`,
			want: func(s Settings) Settings {
				s.Currency = "$"
				s.AutoSave = false
				return s
			},
		},
		{
			name: "unknown fields ignored",
			raw:  `{"language":"fr","theme":"dark"}`,
			want: func(s Settings) Settings {
				s.Theme = "dark"
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultSettings().Merge(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want(DefaultSettings()), got)
		})
	}
}

func TestSettings_MergeInvalid(t *testing.T) {
	base := DefaultSettings()
	got, err := base.Merge(json.RawMessage(`{"currency":`))
	require.Error(t, err)
	assert.Equal(t, base, got)
}

func TestSettings_AutoSaveEvery(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 30*time.Second, s.AutoSaveEvery())

	s.AutoSave = false
	assert.Zero(t, s.AutoSaveEvery())

	s.AutoSave = true
	s.AutoSaveInterval = 0
	assert.Zero(t, s.AutoSaveEvery())
}

func TestSettings_Format(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "12.50 €", s.FormatCurrency(decimal.RequireFromString("12.5")))
	assert.Equal(t, "15/03/2024", s.FormatDate("2024-03-15"))

	s.DateFormat = DateFormatMDY
	assert.Equal(t, "03/15/2024", s.FormatDate("2024-03-15"))

	s.DateFormat = DateFormatISO
	assert.Equal(t, "2024-03-15", s.FormatDate("2024-03-15"))

	assert.Equal(t, "not a date", s.FormatDate("not a date"))
}

func TestSettings_GetSet(t *testing.T) {
	s := DefaultSettings()

	for _, key := range SettingKeys() {
		_, err := s.Get(key)
		assert.NoError(t, err, key)
	}

	updated, err := s.Set("autoSaveInterval", "60000")
	require.NoError(t, err)
	assert.Equal(t, int64(60000), updated.AutoSaveInterval)
	assert.Equal(t, int64(30000), s.AutoSaveInterval, "receiver must not change")

	updated, err = updated.Set("notifications", "false")
	require.NoError(t, err)
	v, err := updated.Get("notifications")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	tests := []struct {
		key   string
		value string
	}{
		{"theme", "sepia"},
		{"accentColor", "chartreuse"},
		{"dateFormat", "YYYY/MM/DD"},
		{"autoSave", "maybe"},
		{"notificationDuration", "-5"},
		{"language", "fr"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := s.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.Equal(t, s, got)
		})
	}
}
