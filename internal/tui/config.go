package tui

import (
	"time"

	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/update"
)

// SwitchDebounce is how long a section switch blocks the next one.
const SwitchDebounce = 300 * time.Millisecond

// TickInterval is how often notifications are pruned and redrawn.
const TickInterval = 250 * time.Millisecond

// Config holds TUI configuration.
type Config struct {
	Ledger *ledger.Ledger
	Center *notify.Center
	Bridge *Bridge
	// Host is the release feed. Nil disables updates.
	Host     update.Host
	Now      func() time.Time
	Location *time.Location
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Now:      time.Now,
		Location: time.Local,
		Width:    100,
		Height:   30,
	}
}

// WithLedger sets the ledger the TUI works on.
func WithLedger(l *ledger.Ledger) Option {
	return func(c *Config) {
		c.Ledger = l
	}
}

// WithCenter sets the notification center rendered as toasts.
func WithCenter(center *notify.Center) Option {
	return func(c *Config) {
		c.Center = center
	}
}

// WithBridge sets the bridge the ledger was opened with.
func WithBridge(b *Bridge) Option {
	return func(c *Config) {
		c.Bridge = b
	}
}

// WithUpdateHost enables the update flow against host.
func WithUpdateHost(host update.Host) Option {
	return func(c *Config) {
		c.Host = host
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithLocation sets the zone used to place events in the week view.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		c.Location = loc
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
