package sessions

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2019, 6, 12, 10, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

func TestTracker_Reset(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.OnPageChange(at(1), "home")
	tracker.Reset(at(5))

	assert.Equal(t, Sessions{App: at(5), Usage: at(5), Page: at(5)}, tracker.Current())
	assert.Nil(t, tracker.LastPage())
}

func TestTracker_OnPageChange_SameActivityKeepsUsageSession(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.Reset(at(0))

	prev := tracker.OnPageChange(at(10), "player")
	assert.Nil(t, prev)
	afterPlayer := tracker.Current()
	assert.Equal(t, at(10), afterPlayer.Usage)
	assert.Equal(t, at(10), afterPlayer.Page)

	prev = tracker.OnPageChange(at(20), "miniGuide")
	require.NotNil(t, prev)
	assert.Equal(t, "player", *prev)

	afterGuide := tracker.Current()
	assert.Equal(t, afterPlayer.Usage, afterGuide.Usage)
	assert.Equal(t, at(20), afterGuide.Page)
	assert.Equal(t, at(0), afterGuide.App)
}

func TestTracker_OnPageChange_NewActivityRedrawsUsageSession(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.Reset(at(0))
	tracker.OnPageChange(at(10), "home")
	tracker.OnPageChange(at(20), "guide")
	assert.Equal(t, at(10), tracker.Current().Usage)

	prev := tracker.OnPageChange(at(30), "player")
	require.NotNil(t, prev)
	assert.Equal(t, "guide", *prev)
	assert.Equal(t, Sessions{App: at(0), Usage: at(30), Page: at(30)}, tracker.Current())
}

func TestTracker_OnApplicationLaunch(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.Reset(at(0))
	tracker.OnPageChange(at(5), "home")

	prev := tracker.OnApplicationLaunch(at(10), "netflix")
	require.NotNil(t, prev)
	assert.Equal(t, "home", *prev)
	assert.Equal(t, at(10), tracker.Current().Usage)

	last := tracker.LastPage()
	require.NotNil(t, last)
	assert.Equal(t, "app:netflix", *last)
}

func TestTracker_OnPowerOrDisplayEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		powerOn      bool
		wantLastPage bool
	}{
		{name: "power on forgets the last page", powerOn: true, wantLastPage: false},
		{name: "display change keeps the last page", powerOn: false, wantLastPage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tracker := NewTracker()
			tracker.Reset(at(0))
			tracker.OnPageChange(at(5), "home")
			tracker.OnApplicationLaunch(at(7), "netflix")
			require.Equal(t, at(0), tracker.Current().App)

			tracker.OnPowerOrDisplayEvent(at(10), tt.powerOn)

			assert.Equal(t, Sessions{App: at(10), Usage: at(10), Page: at(10)}, tracker.Current(),
				"usage and page windows restart inside the new application session")
			assert.Equal(t, tt.wantLastPage, tracker.LastPage() != nil)
		})
	}
}

func TestTracker_LastPageIsACopy(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.OnPageChange(at(1), "home")
	page := tracker.LastPage()
	*page = "changed"

	assert.Equal(t, "home", *tracker.LastPage())
}

// TestProperty_SessionNesting drives random operation sequences with non-decreasing
// timestamps and checks app <= usage <= page <= now after every step.
func TestProperty_SessionNesting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pages := []string{"home", "guide", "player", "miniGuide", "standby", "search"}

	properties.Property("inner sessions never start before outer ones", prop.ForAll(
		func(ops []int, gaps []int) bool {
			tracker := NewTracker()
			now := base
			tracker.Reset(now)
			for i, op := range ops {
				if i < len(gaps) {
					now = now.Add(time.Duration(gaps[i]) * time.Millisecond)
				}
				switch op % 5 {
				case 0:
					tracker.OnPageChange(now, pages[op%len(pages)])
				case 1:
					tracker.OnApplicationLaunch(now, "app")
				case 2:
					tracker.OnPowerOrDisplayEvent(now, true)
				case 3:
					tracker.OnPowerOrDisplayEvent(now, false)
				case 4:
					// plain event: no session change
				}
				s := tracker.Current()
				if s.App.After(s.Usage) || s.Usage.After(s.Page) || s.Page.After(now) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.SliceOf(gen.IntRange(0, 60000)),
	))

	properties.TestingRun(t)
}
