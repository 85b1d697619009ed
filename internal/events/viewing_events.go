package events

import (
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

type ApplicationLaunch struct {
	Envelope
	ContentProvider string
	AppName         string `validate:"required"`
	AppProvider     string
	State           AppState `validate:"oneof=start end launch exit suspend resume"`
}

func (*ApplicationLaunch) Kind() Kind { return KindApplicationLaunch }

func (e *ApplicationLaunch) Pack() models.FieldMap {
	m := e.packEnvelope(KindApplicationLaunch, 4)
	m.Set(symbols.ContentProvider, e.ContentProvider)
	m.Set(symbols.AppName, e.AppName)
	m.Set(symbols.AppProvider, e.AppProvider)
	m.Set(symbols.AppState, string(e.State))
	return m
}

func unpackApplicationLaunch(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&ApplicationLaunch{
		Envelope:        r.envelope(),
		ContentProvider: r.String(symbols.ContentProvider),
		AppName:         r.String(symbols.AppName),
		AppProvider:     r.String(symbols.AppProvider),
		State:           AppState(r.String(symbols.AppState)),
	}, r)
}

type LivePlay struct {
	Envelope
	TrackRef
	ViewingStart time.Time `validate:"required"`
	Programme    Programme
	ContentType  ContentType `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	ViewStatus   ViewStatus  `validate:"min=0,max=255"`
}

func (*LivePlay) Kind() Kind { return KindLivePlay }

func (e *LivePlay) CorrelationTitle() string { return e.Programme.Title }

func (e *LivePlay) Pack() models.FieldMap {
	m := e.packEnvelope(KindLivePlay, 13)
	m.Set(symbols.PlayerViewingStart, e.ViewingStart)
	m.Set(symbols.SelectorTrackID, e.TrackID)
	e.Programme.pack(&m)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.PlayerViewStatus, int64(e.ViewStatus))
	return m
}

func unpackLivePlay(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&LivePlay{
		Envelope:     r.envelope(),
		ViewingStart: r.Time(symbols.PlayerViewingStart),
		TrackRef:     r.trackRef(),
		Programme:    r.programme(),
		ContentType:  ContentType(r.Int(symbols.ContentType)),
		ViewStatus:   ViewStatus(r.Int(symbols.PlayerViewStatus)),
	}, r)
}

type Recording struct {
	Envelope
	Programme      Programme
	ContentType    ContentType     `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	BookingSource  BookingSource   `validate:"min=0,max=255"`
	EventSource    EventSource     `validate:"min=0,max=1"`
	RecordStart    time.Time       `validate:"required"`
	RecordDuration int64           `validate:"min=0"`
	RecordStatus   RecordingStatus `validate:"min=0,max=63"`
	Expiry         time.Time       `validate:"required"`
}

func (*Recording) Kind() Kind { return KindRecording }

func (e *Recording) Pack() models.FieldMap {
	m := e.packEnvelope(KindRecording, 16)
	e.Programme.pack(&m)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.MediaBookingSource, int64(e.BookingSource))
	m.Set(symbols.MediaEventSource, int64(e.EventSource))
	m.Set(symbols.MediaRecordStart, e.RecordStart)
	m.Set(symbols.MediaDuration, e.RecordDuration)
	m.Set(symbols.MediaRecordStatus, int64(e.RecordStatus))
	m.Set(symbols.MediaExpiry, e.Expiry)
	return m
}

func unpackRecording(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&Recording{
		Envelope:       r.envelope(),
		Programme:      r.programme(),
		ContentType:    ContentType(r.Int(symbols.ContentType)),
		BookingSource:  BookingSource(r.Int(symbols.MediaBookingSource)),
		EventSource:    EventSource(r.Int(symbols.MediaEventSource)),
		RecordStart:    r.Time(symbols.MediaRecordStart),
		RecordDuration: r.Int(symbols.MediaDuration),
		RecordStatus:   RecordingStatus(r.Int(symbols.MediaRecordStatus)),
		Expiry:         r.Time(symbols.MediaExpiry),
	}, r)
}

// Playback reports playback of recorded or on-demand content, including trick modes.
type Playback struct {
	Envelope
	TrackRef
	ViewingStart   time.Time `validate:"required"`
	Programme      Programme
	ContentType    ContentType   `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	ViewStatus     ViewStatus    `validate:"min=0,max=255"`
	BookingSource  BookingSource `validate:"min=0,max=255"`
	EventSource    EventSource   `validate:"min=0,max=1"`
	RecordStart    time.Time     `validate:"required"`
	RecordDuration int64         `validate:"min=0"`
	MediaOffset    int64         `validate:"min=0"`
	TrickmodeSpeed int64
}

func (*Playback) Kind() Kind { return KindPlayback }

func (e *Playback) CorrelationTitle() string { return e.Programme.Title }

func (e *Playback) Pack() models.FieldMap {
	m := e.packEnvelope(KindPlayback, 19)
	m.Set(symbols.PlayerViewingStart, e.ViewingStart)
	m.Set(symbols.SelectorTrackID, e.TrackID)
	e.Programme.pack(&m)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.PlayerViewStatus, int64(e.ViewStatus))
	m.Set(symbols.MediaBookingSource, int64(e.BookingSource))
	m.Set(symbols.MediaEventSource, int64(e.EventSource))
	m.Set(symbols.MediaRecordStart, e.RecordStart)
	m.Set(symbols.MediaDuration, e.RecordDuration)
	m.Set(symbols.PlayerMediaOffset, e.MediaOffset)
	m.Set(symbols.PlayerTrickmodeSpeed, e.TrickmodeSpeed)
	return m
}

func unpackPlayback(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&Playback{
		Envelope:       r.envelope(),
		ViewingStart:   r.Time(symbols.PlayerViewingStart),
		TrackRef:       r.trackRef(),
		Programme:      r.programme(),
		ContentType:    ContentType(r.Int(symbols.ContentType)),
		ViewStatus:     ViewStatus(r.Int(symbols.PlayerViewStatus)),
		BookingSource:  BookingSource(r.Int(symbols.MediaBookingSource)),
		EventSource:    EventSource(r.Int(symbols.MediaEventSource)),
		RecordStart:    r.Time(symbols.MediaRecordStart),
		RecordDuration: r.Int(symbols.MediaDuration),
		MediaOffset:    r.Int(symbols.PlayerMediaOffset),
		TrickmodeSpeed: r.Int(symbols.PlayerTrickmodeSpeed),
	}, r)
}

// QoS holds optional player quality measurements attached to a viewing stop.
type QoS struct {
	AvgBitrateKbps *int64
	StartupMs      *int64
	BufferingMs    *int64
	BufferingCount *int64
	AbrShifts      *int64
}

// ViewingStop closes a viewing act of any content type. Recording fields are null for live
// viewing.
type ViewingStop struct {
	Envelope
	TrackRef
	ViewingStart   time.Time `validate:"required"`
	Programme      Programme
	ContentType    ContentType `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	ViewStatus     ViewStatus  `validate:"min=0,max=255"`
	BookingSource  *BookingSource
	EventSource    *EventSource
	RecordStart    *time.Time
	RecordDuration *int64
	MediaOffset    int64 `validate:"min=0"`
	ViewedDuration int64 `validate:"min=0"`
	QoS            QoS
}

func (*ViewingStop) Kind() Kind { return KindViewingStop }

func (e *ViewingStop) CorrelationTitle() string { return e.Programme.Title }

func (e *ViewingStop) Pack() models.FieldMap {
	m := e.packEnvelope(KindViewingStop, 24)
	m.Set(symbols.PlayerViewingStart, e.ViewingStart)
	m.Set(symbols.SelectorTrackID, e.TrackID)
	e.Programme.pack(&m)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.PlayerViewStatus, int64(e.ViewStatus))
	models.SetNullable(&m, symbols.MediaBookingSource, optRaw(e.BookingSource))
	models.SetNullable(&m, symbols.MediaEventSource, optRaw(e.EventSource))
	models.SetNullable(&m, symbols.MediaRecordStart, e.RecordStart)
	models.SetNullable(&m, symbols.MediaDuration, e.RecordDuration)
	m.Set(symbols.PlayerMediaOffset, e.MediaOffset)
	m.Set(symbols.PlayerViewedDuration, e.ViewedDuration)
	models.SetOpt(&m, symbols.PlayerAvgBitrateKbps, e.QoS.AvgBitrateKbps)
	models.SetOpt(&m, symbols.PlayerStartupMs, e.QoS.StartupMs)
	models.SetOpt(&m, symbols.PlayerBufferingMs, e.QoS.BufferingMs)
	models.SetOpt(&m, symbols.PlayerBufferingCount, e.QoS.BufferingCount)
	models.SetOpt(&m, symbols.PlayerAbrShifts, e.QoS.AbrShifts)
	return m
}

func unpackViewingStop(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&ViewingStop{
		Envelope:       r.envelope(),
		ViewingStart:   r.Time(symbols.PlayerViewingStart),
		TrackRef:       r.trackRef(),
		Programme:      r.programme(),
		ContentType:    ContentType(r.Int(symbols.ContentType)),
		ViewStatus:     ViewStatus(r.Int(symbols.PlayerViewStatus)),
		BookingSource:  optEnum[BookingSource](r.OptInt(symbols.MediaBookingSource)),
		EventSource:    optEnum[EventSource](r.OptInt(symbols.MediaEventSource)),
		RecordStart:    r.OptTime(symbols.MediaRecordStart),
		RecordDuration: r.OptInt(symbols.MediaDuration),
		MediaOffset:    r.Int(symbols.PlayerMediaOffset),
		ViewedDuration: r.Int(symbols.PlayerViewedDuration),
		QoS: QoS{
			AvgBitrateKbps: r.OptInt(symbols.PlayerAvgBitrateKbps),
			StartupMs:      r.OptInt(symbols.PlayerStartupMs),
			BufferingMs:    r.OptInt(symbols.PlayerBufferingMs),
			BufferingCount: r.OptInt(symbols.PlayerBufferingCount),
			AbrShifts:      r.OptInt(symbols.PlayerAbrShifts),
		},
	}, r)
}
