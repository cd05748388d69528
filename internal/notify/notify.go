// Package notify keeps transient, auto-expiring user-facing messages.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
)

// Level is the kind of a notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Title returns the heading shown above a notification of this level.
func (l Level) Title() string {
	switch l {
	case LevelSuccess:
		return "Success"
	case LevelError:
		return "Error"
	case LevelWarning:
		return "Warning"
	default:
		return "Information"
	}
}

// Icon returns the glyph shown next to a notification of this level.
func (l Level) Icon() string {
	switch l {
	case LevelSuccess:
		return "✓"
	case LevelError:
		return "✕"
	case LevelWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Notifier accepts user-facing messages. A zero duration means the default.
type Notifier interface {
	Notify(message string, level Level, duration time.Duration)
}

// Discard is a Notifier that drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(string, Level, time.Duration) {}

// Notification is one message on screen.
type Notification struct {
	CreatedAt time.Time
	ExpiresAt time.Time
	Message   string
	Level     Level
	ID        int
}

// Title returns the heading for the notification.
func (n Notification) Title() string {
	return n.Level.Title()
}

// Remaining returns the fraction of the notification's lifetime still left at now.
func (n Notification) Remaining(now time.Time) float64 {
	total := n.ExpiresAt.Sub(n.CreatedAt)
	if total <= 0 {
		return 0
	}
	left := n.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return float64(left) / float64(total)
}

// Center holds the active notifications. It is safe for concurrent use.
type Center struct {
	now        func() time.Time
	items      []Notification
	defaultTTL time.Duration
	nextID     int
	mu         sync.Mutex
	enabled    bool
}

// NewCenter creates a center configured from settings.
func NewCenter(settings model.Settings, now func() time.Time) *Center {
	if now == nil {
		now = time.Now
	}
	c := &Center{now: now}
	c.Configure(settings)
	return c
}

// Configure applies the notification toggle and default duration from settings.
func (c *Center) Configure(settings model.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = settings.Notifications
	c.defaultTTL = settings.NotificationTTL()
}

// Show adds a notification and returns its id. Nothing is added when
// notifications are disabled, in which case the boolean is false.
func (c *Center) Show(message string, level Level, duration time.Duration) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return 0, false
	}
	if duration <= 0 {
		duration = c.defaultTTL
	}

	c.nextID++
	now := c.now()
	c.items = append(c.items, Notification{
		ID:        c.nextID,
		Message:   message,
		Level:     level,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	})
	return c.nextID, true
}

// Notify implements Notifier.
func (c *Center) Notify(message string, level Level, duration time.Duration) {
	c.Show(message, level, duration)
}

// Active prunes notifications expired at now and returns the rest, oldest first.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.DeleteFunc(c.items, func(n Notification) bool {
		return !now.Before(n.ExpiresAt)
	})
	return slices.Clone(c.items)
}

// Dismiss removes a notification before it expires.
func (c *Center) Dismiss(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(n Notification) bool {
		return n.ID == id
	})
	return len(c.items) != before
}

// Clear removes every notification.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
