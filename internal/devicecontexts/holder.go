package devicecontexts

import (
	"stb-telemetry/internal/events"
)

// Holder keeps the most recent device context between flushes. It is owned by the engine's
// consumer loop and is not safe for concurrent use.
type Holder struct {
	latest *events.DeviceContext
}

func NewHolder() *Holder {
	return &Holder{}
}

// Update replaces the held snapshot with a copy of ev and returns the device context id that
// later events reference: the Unix seconds of ev's timestamp.
func (h *Holder) Update(ev *events.DeviceContext) int64 {
	snapshot := cloneDeviceContext(ev)
	snapshot.DeviceContextID = ev.Timestamp.Unix()
	h.latest = snapshot
	return snapshot.DeviceContextID
}

// HasSnapshot reports whether a device context has been received.
func (h *Holder) HasSnapshot() bool {
	return h.latest != nil
}

// ID returns the id of the held snapshot, or 0 when there is none.
func (h *Holder) ID() int64 {
	if h.latest == nil {
		return 0
	}
	return h.latest.DeviceContextID
}

// SnapshotForBatch returns a copy of the held snapshot re-stamped with the timestamp and
// session ids of the batch's first event. The held snapshot is not modified. It returns false
// when no device context has been received yet.
func (h *Holder) SnapshotForBatch(first *events.Envelope) (*events.DeviceContext, bool) {
	if h.latest == nil {
		return nil, false
	}
	snapshot := cloneDeviceContext(h.latest)
	snapshot.Timestamp = first.Timestamp
	snapshot.AppSession = first.AppSession
	snapshot.UsageSession = first.UsageSession
	snapshot.PageSession = first.PageSession
	return snapshot, true
}

// Clear drops the held snapshot.
func (h *Holder) Clear() {
	h.latest = nil
}

func cloneDeviceContext(ev *events.DeviceContext) *events.DeviceContext {
	c := *ev
	c.RcuKeysPressed = cloneBytes(ev.RcuKeysPressed)
	c.LocationFlags = cloneBytes(ev.LocationFlags)
	c.ApplicationFlags = cloneBytes(ev.ApplicationFlags)
	c.ModelID = clonePtr(ev.ModelID)
	c.RcuType = clonePtr(ev.RcuType)
	c.Postcode = clonePtr(ev.Postcode)
	c.DttRegion = clonePtr(ev.DttRegion)
	c.RegionCode = clonePtr(ev.RegionCode)
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
