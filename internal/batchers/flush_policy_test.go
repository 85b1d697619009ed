package batchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2019, 6, 12, 10, 0, 0, 0, time.UTC)

func TestFlushPolicy_Reason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		buffered int
		now      time.Time
		want     string
	}{
		{name: "empty buffer past deadline", buffered: 0, now: epoch.Add(2 * time.Hour), want: ""},
		{name: "at max events", buffered: 2, now: epoch, want: ""},
		{name: "over max events", buffered: 3, now: epoch, want: reasonSize},
		{name: "just before deadline", buffered: 1, now: epoch.Add(time.Hour - time.Nanosecond), want: ""},
		{name: "at deadline", buffered: 1, now: epoch.Add(time.Hour), want: reasonPeriod},
		{name: "size wins over period", buffered: 5, now: epoch.Add(2 * time.Hour), want: reasonSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			policy := NewFlushPolicy(2, time.Hour, epoch)
			assert.Equal(t, tt.want, policy.Reason(tt.buffered, tt.now))
		})
	}
}

// The deadline advances from the previous deadline, not from the flush instant.
func TestFlushPolicy_Advance_KeepsPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flushedAt time.Time
		want      time.Time
	}{
		{name: "flush on time", flushedAt: epoch.Add(time.Hour), want: epoch.Add(2 * time.Hour)},
		{name: "late flush keeps the schedule", flushedAt: epoch.Add(time.Hour + 20*time.Minute), want: epoch.Add(2 * time.Hour)},
		{name: "size flush still advances one period", flushedAt: epoch.Add(10 * time.Minute), want: epoch.Add(2 * time.Hour)},
		{name: "long gap skips missed periods", flushedAt: epoch.Add(5*time.Hour + 30*time.Minute), want: epoch.Add(6 * time.Hour)},
		{name: "gap ending on a boundary", flushedAt: epoch.Add(4 * time.Hour), want: epoch.Add(5 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			policy := NewFlushPolicy(20, time.Hour, epoch)
			policy.Advance(tt.flushedAt)
			assert.Equal(t, tt.want, policy.Deadline())
		})
	}
}
