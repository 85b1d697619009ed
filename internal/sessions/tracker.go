package sessions

import (
	"time"

	"stb-telemetry/internal/events"
)

// Sessions holds the start instants of the three nested session windows.
type Sessions struct {
	App   time.Time
	Usage time.Time
	Page  time.Time
}

// Tracker derives session boundaries from the event stream. It is owned by the engine's
// consumer loop and is not safe for concurrent use.
type Tracker struct {
	current  Sessions
	lastPage *string
	activity string
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Reset starts every window at ts and forgets the last page and activity class.
func (t *Tracker) Reset(ts time.Time) {
	t.current = Sessions{App: ts, Usage: ts, Page: ts}
	t.lastPage = nil
	t.activity = ""
}

// OnPageChange opens a page session at ts and returns the page that was active before.
// The usage session is redrawn only when the page's activity class differs from the last one.
func (t *Tracker) OnPageChange(ts time.Time, page string) *string {
	return t.changePage(ts, page, events.PageActivityClass(page))
}

// OnApplicationLaunch treats a launch as navigation to the application's synthetic page.
func (t *Tracker) OnApplicationLaunch(ts time.Time, appName string) *string {
	return t.changePage(ts, events.ApplicationPage(appName), events.ActivityApplication)
}

// OnPowerOrDisplayEvent opens a new application session at ts. Only the application session is
// driven by power and display events; the usage and page windows restart with it so they stay
// nested inside it. A power-on also forgets the last page.
func (t *Tracker) OnPowerOrDisplayEvent(ts time.Time, powerOn bool) {
	if powerOn {
		t.Reset(ts)
		return
	}
	t.current = Sessions{App: ts, Usage: ts, Page: ts}
}

// Current returns the session ids to stamp on the next event.
func (t *Tracker) Current() Sessions {
	return t.current
}

// LastPage returns a copy of the last page seen, or nil before any navigation.
func (t *Tracker) LastPage() *string {
	if t.lastPage == nil {
		return nil
	}
	page := *t.lastPage
	return &page
}

// Stamp writes the current session ids into env.
func (t *Tracker) Stamp(env *events.Envelope) {
	env.AppSession = t.current.App
	env.UsageSession = t.current.Usage
	env.PageSession = t.current.Page
}

func (t *Tracker) changePage(ts time.Time, page, activity string) *string {
	previous := t.lastPage
	t.current.Page = ts
	if activity != t.activity {
		t.current.Usage = ts
		t.activity = activity
	}
	t.lastPage = &page
	return previous
}
