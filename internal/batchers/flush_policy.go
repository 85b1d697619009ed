package batchers

import "time"

// FlushPolicy decides when the buffer is cut into a batch: when it holds more than MaxEvents
// events or once the deadline has passed. The deadline moves in whole periods from its
// previous value, so a late flush does not shift the schedule.
type FlushPolicy struct {
	maxEvents int
	period    time.Duration
	deadline  time.Time
}

func NewFlushPolicy(maxEvents int, period time.Duration, start time.Time) *FlushPolicy {
	return &FlushPolicy{
		maxEvents: maxEvents,
		period:    period,
		deadline:  start.Add(period),
	}
}

// Deadline returns the instant after which a non-empty buffer is flushed.
func (p *FlushPolicy) Deadline() time.Time { return p.deadline }

// Reason returns the trigger that applies to a buffer of size buffered at now, or "" when the
// buffer should keep accumulating. An empty buffer never triggers.
func (p *FlushPolicy) Reason(buffered int, now time.Time) string {
	switch {
	case buffered == 0:
		return ""
	case buffered > p.maxEvents:
		return reasonSize
	case !now.Before(p.deadline):
		return reasonPeriod
	default:
		return ""
	}
}

// Advance moves the deadline forward by whole periods until it lies after now.
func (p *FlushPolicy) Advance(now time.Time) {
	p.deadline = p.deadline.Add(p.period)
	if !p.deadline.After(now) {
		missed := now.Sub(p.deadline)/p.period + 1
		p.deadline = p.deadline.Add(missed * p.period)
	}
}
