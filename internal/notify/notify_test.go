package notify

import (
	"testing"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestCenter_ShowAndExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCenter(model.DefaultSettings(), clock.Now)

	first, ok := c.Show("Expense added", LevelSuccess, 0)
	require.True(t, ok)
	clock.Advance(time.Second)
	second, _ := c.Show("Saved", LevelInfo, 2*time.Second)

	active := c.Active(clock.now)
	require.Len(t, active, 2)
	assert.Equal(t, first, active[0].ID)
	assert.Equal(t, second, active[1].ID)
	assert.Equal(t, "Success", active[0].Title())

	clock.Advance(2 * time.Second)
	active = c.Active(clock.now)
	require.Len(t, active, 1, "the 2s notification has expired")
	assert.Equal(t, first, active[0].ID)

	clock.Advance(2 * time.Second)
	assert.Empty(t, c.Active(clock.now), "default 5s duration elapsed")
}

func TestCenter_Disabled(t *testing.T) {
	settings := model.DefaultSettings()
	settings.Notifications = false
	c := NewCenter(settings, nil)

	_, ok := c.Show("hidden", LevelError, 0)
	assert.False(t, ok)
	assert.Empty(t, c.Active(time.Now()))

	settings.Notifications = true
	c.Configure(settings)
	_, ok = c.Show("visible", LevelError, 0)
	assert.True(t, ok)
}

func TestCenter_DismissAndClear(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewCenter(model.DefaultSettings(), func() time.Time { return now })

	id, _ := c.Show("one", LevelInfo, 0)
	c.Show("two", LevelWarning, 0)

	assert.True(t, c.Dismiss(id))
	assert.False(t, c.Dismiss(id))
	assert.Len(t, c.Active(now), 1)

	c.Clear()
	assert.Empty(t, c.Active(now))
}

func TestNotification_Remaining(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	n := Notification{CreatedAt: start, ExpiresAt: start.Add(4 * time.Second)}

	assert.InDelta(t, 1.0, n.Remaining(start), 0.001)
	assert.InDelta(t, 0.25, n.Remaining(start.Add(3*time.Second)), 0.001)
	assert.Zero(t, n.Remaining(start.Add(5*time.Second)))
}

func TestLevel_Presentation(t *testing.T) {
	assert.Equal(t, "✓", LevelSuccess.Icon())
	assert.Equal(t, "Warning", LevelWarning.Title())
	assert.Equal(t, "Information", Level("unknown").Title())
	assert.Equal(t, "ℹ", Level("unknown").Icon())
}
