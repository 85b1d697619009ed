package events

import (
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

// Event is one telemetry record. Kind never changes for a constructed value and selects the
// decode path.
type Event interface {
	Kind() Kind
	Header() *Envelope
	Pack() models.FieldMap
}

// PageStamped events carry the page that was active when they were emitted. The engine
// fills the page; producers leave it unset.
type PageStamped interface {
	Event
	SetPage(name *string)
}

// Correlated events are joined downstream by a track id derived from a programme title and
// the application session.
type Correlated interface {
	Event
	CorrelationTitle() string
	SetTrackID(id []byte)
}

// Envelope holds the fields every event carries. Session ids are the instants their
// sessions started; zero values are written as null.
type Envelope struct {
	Timestamp       time.Time `validate:"required"`
	AppSession      time.Time
	UsageSession    time.Time
	PageSession     time.Time
	DeviceContextID int64
}

func (e *Envelope) Header() *Envelope { return e }

func (e *Envelope) packEnvelope(kind Kind, extra int) models.FieldMap {
	m := models.NewFieldMap(6 + extra)
	m.Set(symbols.EventKind, int64(kind))
	m.Set(symbols.Timestamp, e.Timestamp)
	m.Set(symbols.AppSessionID, nullTime(e.AppSession))
	m.Set(symbols.UsageSessionID, nullTime(e.UsageSession))
	m.Set(symbols.PageSessionID, nullTime(e.PageSession))
	if e.DeviceContextID == 0 {
		m.Set(symbols.DeviceContextID, nil)
	} else {
		m.Set(symbols.DeviceContextID, e.DeviceContextID)
	}
	return m
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// PageRef is embedded by events whose page field is stamped by the engine.
type PageRef struct {
	Page *string
}

func (p *PageRef) SetPage(name *string) {
	if name == nil {
		p.Page = nil
		return
	}
	page := *name
	p.Page = &page
}

func (p *PageRef) packPage(m *models.FieldMap) {
	models.SetNullable(m, symbols.PageName, p.Page)
}

// TrackRef is embedded by correlated events.
type TrackRef struct {
	TrackID []byte
}

func (t *TrackRef) SetTrackID(id []byte) {
	t.TrackID = append([]byte(nil), id...)
}

// fieldReader reads typed fields and keeps the first error, so unpack functions can read a
// whole variant before checking once.
type fieldReader struct {
	m   models.FieldMap
	err error
}

func newFieldReader(m models.FieldMap) *fieldReader {
	return &fieldReader{m: m}
}

func (r *fieldReader) keep(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *fieldReader) String(key string) string {
	v, err := r.m.String(key)
	r.keep(err)
	return v
}

func (r *fieldReader) OptString(key string) *string {
	v, err := r.m.OptString(key)
	r.keep(err)
	return v
}

func (r *fieldReader) Int(key string) int64 {
	v, err := r.m.Int(key)
	r.keep(err)
	return v
}

func (r *fieldReader) OptInt(key string) *int64 {
	v, err := r.m.OptInt(key)
	r.keep(err)
	return v
}

func (r *fieldReader) Bool(key string) bool {
	v, err := r.m.Bool(key)
	r.keep(err)
	return v
}

func (r *fieldReader) OptBool(key string) *bool {
	v, err := r.m.OptBool(key)
	r.keep(err)
	return v
}

func (r *fieldReader) Time(key string) time.Time {
	v, err := r.m.Time(key)
	r.keep(err)
	return v
}

func (r *fieldReader) OptTime(key string) *time.Time {
	v, err := r.m.OptTime(key)
	r.keep(err)
	return v
}

// Blob reads a nullable blob.
func (r *fieldReader) Blob(key string) []byte {
	v, err := r.m.OptBytes(key)
	r.keep(err)
	return v
}

func (r *fieldReader) envelope() Envelope {
	env := Envelope{Timestamp: r.Time(symbols.Timestamp)}
	if t := r.OptTime(symbols.AppSessionID); t != nil {
		env.AppSession = *t
	}
	if t := r.OptTime(symbols.UsageSessionID); t != nil {
		env.UsageSession = *t
	}
	if t := r.OptTime(symbols.PageSessionID); t != nil {
		env.PageSession = *t
	}
	if id := r.OptInt(symbols.DeviceContextID); id != nil {
		env.DeviceContextID = *id
	}
	return env
}

func (r *fieldReader) pageRef() PageRef {
	return PageRef{Page: r.OptString(symbols.PageName)}
}

func (r *fieldReader) trackRef() TrackRef {
	return TrackRef{TrackID: r.Blob(symbols.SelectorTrackID)}
}

func finish(e Event, r *fieldReader) (Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}
