package update

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	checkInfo    *Info
	checkErr     error
	downloadErr  error
	installErr   error
	block        chan struct{}
	installBlock chan struct{}
	checks       int
	downloads    int
	installs     int
	progressStep []float64
	mu           sync.Mutex
}

func (f *fakeHost) Check(context.Context) (*Info, error) {
	f.mu.Lock()
	f.checks++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.checkInfo, f.checkErr
}

func (f *fakeHost) Download(_ context.Context, _ *Info, progress func(float64)) (string, error) {
	f.mu.Lock()
	f.downloads++
	f.mu.Unlock()
	for _, p := range f.progressStep {
		progress(p)
	}
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return "/tmp/ledger-new", nil
}

func (f *fakeHost) Install(context.Context, string) error {
	f.mu.Lock()
	f.installs++
	f.mu.Unlock()
	if f.installBlock != nil {
		<-f.installBlock
	}
	return f.installErr
}

type messages struct {
	items []string
	mu    sync.Mutex
}

func (m *messages) Notify(message string, _ notify.Level, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, message)
}

func TestChecker_FullFlow(t *testing.T) {
	ctx := context.Background()
	host := &fakeHost{checkInfo: &Info{Version: "1.1.0"}, progressStep: []float64{10.4, 49.6, 100}}
	var states []State
	var progress []int
	c := NewChecker(host, WithOnChange(func(s Status) {
		states = append(states, s.State)
		progress = append(progress, s.Progress)
	}))

	info, err := c.Check(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, StateAvailable, c.Status().State)

	path, err := c.Download(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger-new", path)
	assert.Equal(t, StateDownloaded, c.Status().State)
	assert.Equal(t, 100, c.Status().Progress)
	assert.Contains(t, progress, 10)
	assert.Contains(t, progress, 50)

	require.NoError(t, c.Install(ctx))
	assert.Equal(t, StateInstalled, c.Status().State)
	assert.Equal(t, 1, host.installs)

	assert.Equal(t, []State{StateChecking, StateAvailable, StateDownloading}, states[:3])
	assert.Equal(t, []State{StateInstalling, StateInstalled}, states[len(states)-2:])

	_, err = c.Check(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition, "installed is terminal")
}

func TestChecker_NoUpdate(t *testing.T) {
	msgs := &messages{}
	c := NewChecker(&fakeHost{}, WithNotifier(msgs))

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.Equal(t, StateIdle, c.Status().State)
	assert.Equal(t, []string{"No update available"}, msgs.items)
}

func TestChecker_AutoDownload(t *testing.T) {
	host := &fakeHost{checkInfo: &Info{Version: "2.0.0"}}
	c := NewChecker(host, WithAutoDownload(true))

	_, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, host.downloads)
	assert.Equal(t, StateDownloaded, c.Status().State)
}

func TestChecker_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("check failure returns to idle", func(t *testing.T) {
		msgs := &messages{}
		c := NewChecker(&fakeHost{checkErr: errors.New("offline")}, WithNotifier(msgs))

		_, err := c.Check(ctx)
		require.Error(t, err)
		assert.Equal(t, StateIdle, c.Status().State)
		assert.Equal(t, []string{"Update error: offline"}, msgs.items)
	})

	t.Run("download failure returns to available", func(t *testing.T) {
		host := &fakeHost{checkInfo: &Info{Version: "1.1.0"}, downloadErr: errors.New("reset"), progressStep: []float64{30}}
		c := NewChecker(host)
		_, err := c.Check(ctx)
		require.NoError(t, err)

		_, err = c.Download(ctx)
		require.Error(t, err)
		st := c.Status()
		assert.Equal(t, StateAvailable, st.State)
		assert.Equal(t, 0, st.Progress)
	})

	t.Run("install failure stays downloaded", func(t *testing.T) {
		host := &fakeHost{checkInfo: &Info{Version: "1.1.0"}, installErr: errors.New("read-only")}
		c := NewChecker(host, WithAutoDownload(true))
		_, err := c.Check(ctx)
		require.NoError(t, err)

		require.Error(t, c.Install(ctx))
		assert.Equal(t, StateDownloaded, c.Status().State)

		host.installErr = nil
		require.NoError(t, c.Install(ctx), "a failed install can be retried")
		assert.Equal(t, StateInstalled, c.Status().State)
	})

	t.Run("invalid transitions", func(t *testing.T) {
		c := NewChecker(&fakeHost{})
		_, err := c.Download(ctx)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.ErrorIs(t, c.Install(ctx), ErrInvalidTransition)
	})

	t.Run("no host", func(t *testing.T) {
		c := NewChecker(nil)
		_, err := c.Check(ctx)
		assert.ErrorIs(t, err, common.ErrUnavailable)
	})
}

func TestChecker_SingleFlight(t *testing.T) {
	host := &fakeHost{block: make(chan struct{})}
	c := NewChecker(host)

	done := make(chan error, 1)
	go func() {
		_, err := c.Check(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return c.Status().State == StateChecking
	}, time.Second, time.Millisecond)

	_, err := c.Check(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	close(host.block)
	require.NoError(t, <-done)

	host.mu.Lock()
	defer host.mu.Unlock()
	assert.Equal(t, 1, host.checks, "second check never reached the host")
}

func TestChecker_SingleFlightInstall(t *testing.T) {
	ctx := context.Background()
	host := &fakeHost{checkInfo: &Info{Version: "1.1.0"}, installBlock: make(chan struct{})}
	c := NewChecker(host, WithAutoDownload(true))
	_, err := c.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, StateDownloaded, c.Status().State)

	done := make(chan error, 1)
	go func() {
		done <- c.Install(ctx)
	}()

	require.Eventually(t, func() bool {
		return c.Status().State == StateInstalling
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, c.Install(ctx), ErrInFlight)
	_, err = c.Check(ctx)
	assert.ErrorIs(t, err, ErrInFlight)
	_, err = c.Download(ctx)
	assert.ErrorIs(t, err, ErrInFlight)

	close(host.installBlock)
	require.NoError(t, <-done)
	assert.Equal(t, StateInstalled, c.Status().State)

	host.mu.Lock()
	defer host.mu.Unlock()
	assert.Equal(t, 1, host.installs, "second install never reached the host")
}

func TestChecker_ProgressIgnoredOutsideDownload(t *testing.T) {
	c := NewChecker(&fakeHost{})
	c.HandleProgress(40)
	assert.Equal(t, 0, c.Status().Progress)
}
