// Package update checks for, downloads and installs new application releases.
package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/notify"
)

var (
	// ErrInFlight means the same operation is already running.
	ErrInFlight = errors.New("update operation already in progress")
	// ErrInvalidTransition means the operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid update state transition")
	// ErrNoAsset means the release has nothing to download for this platform.
	ErrNoAsset = errors.New("no release asset for this platform")
)

// State is a step of the update flow.
type State string

// Update states. Installed is terminal.
const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateDownloading State = "downloading"
	StateDownloaded  State = "downloaded"
	StateInstalling  State = "installing"
	StateInstalled   State = "installed"
)

// Label returns the user-facing status line for s.
func (s State) Label() string {
	switch s {
	case StateChecking:
		return "Checking for updates..."
	case StateAvailable:
		return "Update available"
	case StateDownloading:
		return "Downloading..."
	case StateDownloaded:
		return "Update ready to install"
	case StateInstalling:
		return "Installing..."
	case StateInstalled:
		return "Update installed, restart to apply"
	default:
		return "Up to date"
	}
}

// Info describes an available release.
type Info struct {
	PublishedAt time.Time
	Version     string
	Name        string
	Notes       string
	AssetName   string
	AssetURL    string
	Size        int64
}

// Host performs the platform side of the update flow.
type Host interface {
	// Check returns the newest release, or nil when already up to date.
	Check(ctx context.Context) (*Info, error)
	// Download fetches the release asset, reporting progress in percent,
	// and returns the local path of the downloaded file.
	Download(ctx context.Context, info *Info, progress func(percent float64)) (string, error)
	// Install replaces the running application with the downloaded file.
	Install(ctx context.Context, path string) error
}

// Status is a snapshot of the update flow.
type Status struct {
	Info     *Info
	State    State
	Path     string
	Progress int
}

// Checker drives the update state machine against a Host. It is safe for
// concurrent use.
type Checker struct {
	host         Host
	notifier     notify.Notifier
	onChange     func(Status)
	info         *Info
	state        State
	path         string
	progress     int
	autoDownload bool
	mu           sync.Mutex
}

// Option configures a Checker.
type Option func(*Checker)

// WithNotifier sets where user-facing messages go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Checker) {
		c.notifier = n
	}
}

// WithAutoDownload starts a download as soon as an update is available.
func WithAutoDownload(enabled bool) Option {
	return func(c *Checker) {
		c.autoDownload = enabled
	}
}

// WithOnChange registers a callback run after every state change.
func WithOnChange(fn func(Status)) Option {
	return func(c *Checker) {
		c.onChange = fn
	}
}

// NewChecker creates a Checker in the idle state. A nil host means updates
// are unavailable in this build.
func NewChecker(host Host, opts ...Option) *Checker {
	c := &Checker{
		host:     host,
		notifier: notify.Discard,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the current state of the flow.
func (c *Checker) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Checker) statusLocked() Status {
	return Status{State: c.state, Progress: c.progress, Info: c.info, Path: c.path}
}

// transition moves to a new state under the lock and reports the change.
func (c *Checker) transition(fn func()) {
	c.mu.Lock()
	fn()
	st := c.statusLocked()
	c.mu.Unlock()
	c.changed(st)
}

func (c *Checker) changed(st Status) {
	slog.Debug("Update state changed", "state", st.State, "progress", st.Progress)
	if c.onChange != nil {
		c.onChange(st)
	}
}

func (c *Checker) unavailable() error {
	c.notifier.Notify("Updates are not available in this build", notify.LevelWarning, 0)
	return fmt.Errorf("updates: %w", common.ErrUnavailable)
}

// Check asks the host for a newer release. A found release goes through
// HandleAvailable. A second Check while one is running returns ErrInFlight.
func (c *Checker) Check(ctx context.Context) (*Info, error) {
	if c.host == nil {
		return nil, c.unavailable()
	}

	c.mu.Lock()
	switch c.state {
	case StateChecking, StateDownloading, StateInstalling:
		c.mu.Unlock()
		return nil, ErrInFlight
	case StateInstalled:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: check after install", ErrInvalidTransition)
	}
	prev := c.state
	c.state = StateChecking
	st := c.statusLocked()
	c.mu.Unlock()
	c.changed(st)

	info, err := c.host.Check(ctx)
	if err != nil {
		c.HandleError(err)
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if info == nil {
		c.transition(func() {
			if prev == StateDownloaded {
				c.state = prev
				return
			}
			c.state = StateIdle
			c.info = nil
		})
		c.notifier.Notify("No update available", notify.LevelInfo, 0)
		return nil, nil
	}

	c.HandleAvailable(ctx, info)
	return info, nil
}

// HandleAvailable records an available release and, when auto-download is
// enabled, starts downloading it.
func (c *Checker) HandleAvailable(ctx context.Context, info *Info) {
	c.transition(func() {
		c.state = StateAvailable
		c.info = info
		c.path = ""
		c.progress = 0
	})
	c.notifier.Notify(fmt.Sprintf("Version %s available", info.Version), notify.LevelInfo, 0)

	if c.autoDownload {
		if _, err := c.Download(ctx); err != nil {
			slog.Debug("Automatic update download failed", "error", err)
		}
	}
}

// Download fetches the available release. A second Download while one is
// running returns ErrInFlight.
func (c *Checker) Download(ctx context.Context) (string, error) {
	if c.host == nil {
		return "", c.unavailable()
	}

	c.mu.Lock()
	switch c.state {
	case StateDownloading, StateChecking, StateInstalling:
		c.mu.Unlock()
		return "", ErrInFlight
	case StateAvailable:
	default:
		state := c.state
		c.mu.Unlock()
		return "", fmt.Errorf("%w: download from %s", ErrInvalidTransition, state)
	}
	info := c.info
	c.state = StateDownloading
	c.progress = 0
	st := c.statusLocked()
	c.mu.Unlock()
	c.changed(st)

	path, err := c.host.Download(ctx, info, c.HandleProgress)
	if err != nil {
		c.HandleError(err)
		return "", fmt.Errorf("failed to download update: %w", err)
	}

	c.HandleDownloaded(path)
	return path, nil
}

// HandleProgress records download progress. It is ignored outside a download.
func (c *Checker) HandleProgress(percent float64) {
	p := int(math.Round(percent))
	p = max(0, min(100, p))

	c.mu.Lock()
	if c.state != StateDownloading || p == c.progress {
		c.mu.Unlock()
		return
	}
	c.progress = p
	st := c.statusLocked()
	c.mu.Unlock()
	c.changed(st)
}

// HandleDownloaded records a completed download.
func (c *Checker) HandleDownloaded(path string) {
	c.transition(func() {
		c.state = StateDownloaded
		c.path = path
		c.progress = 100
	})
	c.notifier.Notify("Update downloaded and ready to install", notify.LevelSuccess, 0)
}

// HandleError aborts a running check or download. A failed check returns to
// idle; a failed download returns to available.
func (c *Checker) HandleError(err error) {
	c.transition(func() {
		switch c.state {
		case StateChecking:
			c.state = StateIdle
			c.info = nil
		case StateDownloading:
			c.state = StateAvailable
			c.progress = 0
		}
	})
	common.LogError(err, "Update failed", nil)
	c.notifier.Notify("Update error: "+err.Error(), notify.LevelError, 0)
}

// Install applies a downloaded release. A second Install while one is
// running returns ErrInFlight. A failed install returns to downloaded so it
// can be retried.
func (c *Checker) Install(ctx context.Context) error {
	if c.host == nil {
		return c.unavailable()
	}

	c.mu.Lock()
	switch c.state {
	case StateInstalling:
		c.mu.Unlock()
		return ErrInFlight
	case StateDownloaded:
	default:
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: install from %s", ErrInvalidTransition, state)
	}
	path := c.path
	c.state = StateInstalling
	st := c.statusLocked()
	c.mu.Unlock()
	c.changed(st)

	if err := c.host.Install(ctx, path); err != nil {
		c.transition(func() {
			c.state = StateDownloaded
		})
		common.LogError(err, "Update install failed", common.Fields{"path": path})
		c.notifier.Notify("Update error: "+err.Error(), notify.LevelError, 0)
		return fmt.Errorf("failed to install update: %w", err)
	}

	c.transition(func() {
		c.state = StateInstalled
	})
	c.notifier.Notify("Update installed, restart to apply", notify.LevelSuccess, 0)
	return nil
}
