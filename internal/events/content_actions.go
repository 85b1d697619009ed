package events

import (
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

// ContentActionEvent is implemented by the nine content-action variants, which share a kind
// and are told apart by their action code.
type ContentActionEvent interface {
	PageStamped
	Action() ContentAction
}

func packAction(e *Envelope, page *PageRef, action ContentAction, extra int) models.FieldMap {
	m := e.packEnvelope(KindContentAction, extra+2)
	m.Set(symbols.EventAction, string(action))
	page.packPage(&m)
	return m
}

type BookAction struct {
	Envelope
	PageRef
	UserInitiated  bool
	Provider       string    `validate:"required"`
	ProgramID      string    `validate:"required"`
	ScheduleID     string    `validate:"required"`
	StartTime      time.Time `validate:"required"`
	Title          string    `validate:"required"`
	EpisodeTitle   *string
	Classification string
	Resolution     string
	ContentType    ContentType   `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	BookingSource  BookingSource `validate:"min=0,max=255"`
	EventSource    EventSource   `validate:"min=0,max=1"`
	RecordStart    time.Time     `validate:"required"`
	ExtendDuration int64         `validate:"min=0"`
}

func (*BookAction) Kind() Kind            { return KindContentAction }
func (*BookAction) Action() ContentAction { return ActionBook }

func (e *BookAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionBook, 14)
	m.Set(symbols.UserInitiated, e.UserInitiated)
	m.Set(symbols.ContentProvider, e.Provider)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentScheduleID, e.ScheduleID)
	m.Set(symbols.ContentStartTime, e.StartTime)
	m.Set(symbols.ContentProgramTitle, e.Title)
	models.SetOpt(&m, symbols.ContentEpisodeTitle, e.EpisodeTitle)
	m.Set(symbols.ContentClassification, e.Classification)
	m.Set(symbols.ContentResolution, e.Resolution)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.MediaBookingSource, int64(e.BookingSource))
	m.Set(symbols.MediaEventSource, int64(e.EventSource))
	m.Set(symbols.MediaRecordStart, e.RecordStart)
	m.Set(symbols.MediaExtendRecord, e.ExtendDuration)
	return m
}

func unpackBookAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&BookAction{
		Envelope:       r.envelope(),
		PageRef:        r.pageRef(),
		UserInitiated:  r.Bool(symbols.UserInitiated),
		Provider:       r.String(symbols.ContentProvider),
		ProgramID:      r.String(symbols.ContentProgramID),
		ScheduleID:     r.String(symbols.ContentScheduleID),
		StartTime:      r.Time(symbols.ContentStartTime),
		Title:          r.String(symbols.ContentProgramTitle),
		EpisodeTitle:   r.OptString(symbols.ContentEpisodeTitle),
		Classification: r.String(symbols.ContentClassification),
		Resolution:     r.String(symbols.ContentResolution),
		ContentType:    ContentType(r.Int(symbols.ContentType)),
		BookingSource:  BookingSource(r.Int(symbols.MediaBookingSource)),
		EventSource:    EventSource(r.Int(symbols.MediaEventSource)),
		RecordStart:    r.Time(symbols.MediaRecordStart),
		ExtendDuration: r.Int(symbols.MediaExtendRecord),
	}, r)
}

type WatchAction struct {
	Envelope
	PageRef
	ProgramID   string      `validate:"required"`
	Title       string      `validate:"required"`
	ContentType ContentType `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
}

func (*WatchAction) Kind() Kind            { return KindContentAction }
func (*WatchAction) Action() ContentAction { return ActionWatch }

func (e *WatchAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionWatch, 3)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentProgramTitle, e.Title)
	m.Set(symbols.ContentType, int64(e.ContentType))
	return m
}

func unpackWatchAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&WatchAction{
		Envelope:    r.envelope(),
		PageRef:     r.pageRef(),
		ProgramID:   r.String(symbols.ContentProgramID),
		Title:       r.String(symbols.ContentProgramTitle),
		ContentType: ContentType(r.Int(symbols.ContentType)),
	}, r)
}

type DownloadAction struct {
	Envelope
	PageRef
	UserInitiated  bool
	Provider       string `validate:"required"`
	ProgramID      string `validate:"required"`
	ScheduleID     string `validate:"required"`
	Title          string `validate:"required"`
	Classification string
	Resolution     string
	ContentType    ContentType   `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	State          DownloadState `validate:"oneof=start downloading complete pause failed"`
}

func (*DownloadAction) Kind() Kind            { return KindContentAction }
func (*DownloadAction) Action() ContentAction { return ActionDownload }

func (e *DownloadAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionDownload, 9)
	m.Set(symbols.UserInitiated, e.UserInitiated)
	m.Set(symbols.ContentProvider, e.Provider)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentScheduleID, e.ScheduleID)
	m.Set(symbols.ContentProgramTitle, e.Title)
	m.Set(symbols.ContentClassification, e.Classification)
	m.Set(symbols.ContentResolution, e.Resolution)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.MediaDownloadState, string(e.State))
	return m
}

func unpackDownloadAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&DownloadAction{
		Envelope:       r.envelope(),
		PageRef:        r.pageRef(),
		UserInitiated:  r.Bool(symbols.UserInitiated),
		Provider:       r.String(symbols.ContentProvider),
		ProgramID:      r.String(symbols.ContentProgramID),
		ScheduleID:     r.String(symbols.ContentScheduleID),
		Title:          r.String(symbols.ContentProgramTitle),
		Classification: r.String(symbols.ContentClassification),
		Resolution:     r.String(symbols.ContentResolution),
		ContentType:    ContentType(r.Int(symbols.ContentType)),
		State:          DownloadState(r.String(symbols.MediaDownloadState)),
	}, r)
}

// DeleteAction removes a recording. It carries the full programme and recording details.
type DeleteAction struct {
	Envelope
	PageRef
	UserInitiated   bool
	Programme       Programme
	ContentType     ContentType     `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	BookingSource   BookingSource   `validate:"min=0,max=255"`
	EventSource     EventSource     `validate:"min=0,max=1"`
	RecordStart     time.Time       `validate:"required"`
	RecordDuration  int64           `validate:"min=0"`
	RecordStatus    RecordingStatus `validate:"min=0,max=63"`
	Expiry          time.Time       `validate:"required"`
	MaxViewedOffset int64           `validate:"min=0"`
}

func (*DeleteAction) Kind() Kind            { return KindContentAction }
func (*DeleteAction) Action() ContentAction { return ActionDelete }

func (e *DeleteAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionDelete, 19)
	m.Set(symbols.UserInitiated, e.UserInitiated)
	e.Programme.pack(&m)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.MediaBookingSource, int64(e.BookingSource))
	m.Set(symbols.MediaEventSource, int64(e.EventSource))
	m.Set(symbols.MediaRecordStart, e.RecordStart)
	m.Set(symbols.MediaDuration, e.RecordDuration)
	m.Set(symbols.MediaRecordStatus, int64(e.RecordStatus))
	m.Set(symbols.MediaExpiry, e.Expiry)
	m.Set(symbols.MediaMaxViewedOffset, e.MaxViewedOffset)
	return m
}

func unpackDeleteAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&DeleteAction{
		Envelope:        r.envelope(),
		PageRef:         r.pageRef(),
		UserInitiated:   r.Bool(symbols.UserInitiated),
		Programme:       r.programme(),
		ContentType:     ContentType(r.Int(symbols.ContentType)),
		BookingSource:   BookingSource(r.Int(symbols.MediaBookingSource)),
		EventSource:     EventSource(r.Int(symbols.MediaEventSource)),
		RecordStart:     r.Time(symbols.MediaRecordStart),
		RecordDuration:  r.Int(symbols.MediaDuration),
		RecordStatus:    RecordingStatus(r.Int(symbols.MediaRecordStatus)),
		Expiry:          r.Time(symbols.MediaExpiry),
		MaxViewedOffset: r.Int(symbols.MediaMaxViewedOffset),
	}, r)
}

type KeepAction struct {
	Envelope
	PageRef
	Programme     Programme
	ContentType   ContentType   `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	BookingSource BookingSource `validate:"min=0,max=255"`
}

func (*KeepAction) Kind() Kind            { return KindContentAction }
func (*KeepAction) Action() ContentAction { return ActionKeep }

func (e *KeepAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionKeep, 11)
	e.Programme.pack(&m)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.MediaBookingSource, int64(e.BookingSource))
	return m
}

func unpackKeepAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&KeepAction{
		Envelope:      r.envelope(),
		PageRef:       r.pageRef(),
		Programme:     r.programme(),
		ContentType:   ContentType(r.Int(symbols.ContentType)),
		BookingSource: BookingSource(r.Int(symbols.MediaBookingSource)),
	}, r)
}

type UpgradeAction struct {
	Envelope
	PageRef
	Provider    string      `validate:"required"`
	ProgramID   string      `validate:"required"`
	ScheduleID  string      `validate:"required"`
	StartTime   time.Time   `validate:"required"`
	Title       string      `validate:"required"`
	Resolution  string      `validate:"required"`
	ContentType ContentType `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
}

func (*UpgradeAction) Kind() Kind            { return KindContentAction }
func (*UpgradeAction) Action() ContentAction { return ActionUpgrade }

func (e *UpgradeAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionUpgrade, 7)
	m.Set(symbols.ContentProvider, e.Provider)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentScheduleID, e.ScheduleID)
	m.Set(symbols.ContentStartTime, e.StartTime)
	m.Set(symbols.ContentProgramTitle, e.Title)
	m.Set(symbols.ContentResolution, e.Resolution)
	m.Set(symbols.ContentType, int64(e.ContentType))
	return m
}

func unpackUpgradeAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&UpgradeAction{
		Envelope:    r.envelope(),
		PageRef:     r.pageRef(),
		Provider:    r.String(symbols.ContentProvider),
		ProgramID:   r.String(symbols.ContentProgramID),
		ScheduleID:  r.String(symbols.ContentScheduleID),
		StartTime:   r.Time(symbols.ContentStartTime),
		Title:       r.String(symbols.ContentProgramTitle),
		Resolution:  r.String(symbols.ContentResolution),
		ContentType: ContentType(r.Int(symbols.ContentType)),
	}, r)
}

type RentAction struct {
	Envelope
	PageRef
	ProgramID   string `validate:"required"`
	Title       string `validate:"required"`
	Resolution  string
	ContentType ContentType `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
	Price       int64       `validate:"min=0"`
}

func (*RentAction) Kind() Kind            { return KindContentAction }
func (*RentAction) Action() ContentAction { return ActionRent }

func (e *RentAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionRent, 5)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentProgramTitle, e.Title)
	m.Set(symbols.ContentResolution, e.Resolution)
	m.Set(symbols.ContentType, int64(e.ContentType))
	m.Set(symbols.ContentPrice, e.Price)
	return m
}

func unpackRentAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&RentAction{
		Envelope:    r.envelope(),
		PageRef:     r.pageRef(),
		ProgramID:   r.String(symbols.ContentProgramID),
		Title:       r.String(symbols.ContentProgramTitle),
		Resolution:  r.String(symbols.ContentResolution),
		ContentType: ContentType(r.Int(symbols.ContentType)),
		Price:       r.Int(symbols.ContentPrice),
	}, r)
}

type NextEpisodeAction struct {
	Envelope
	PageRef
	UserInitiated  bool
	Provider       string    `validate:"required"`
	ProgramID      string    `validate:"required"`
	ScheduleID     string    `validate:"required"`
	StartTime      time.Time `validate:"required"`
	Title          string    `validate:"required"`
	EpisodeTitle   *string
	Classification string
	Resolution     string
	ContentType    ContentType `validate:"oneof=2 3 4 5 6 7 21 22 23 41 42 43 44 45 46 51 53 54 55"`
}

func (*NextEpisodeAction) Kind() Kind            { return KindContentAction }
func (*NextEpisodeAction) Action() ContentAction { return ActionNextEpisode }

func (e *NextEpisodeAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionNextEpisode, 10)
	m.Set(symbols.UserInitiated, e.UserInitiated)
	m.Set(symbols.ContentProvider, e.Provider)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentScheduleID, e.ScheduleID)
	m.Set(symbols.ContentStartTime, e.StartTime)
	m.Set(symbols.ContentProgramTitle, e.Title)
	models.SetOpt(&m, symbols.ContentEpisodeTitle, e.EpisodeTitle)
	m.Set(symbols.ContentClassification, e.Classification)
	m.Set(symbols.ContentResolution, e.Resolution)
	m.Set(symbols.ContentType, int64(e.ContentType))
	return m
}

func unpackNextEpisodeAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&NextEpisodeAction{
		Envelope:       r.envelope(),
		PageRef:        r.pageRef(),
		UserInitiated:  r.Bool(symbols.UserInitiated),
		Provider:       r.String(symbols.ContentProvider),
		ProgramID:      r.String(symbols.ContentProgramID),
		ScheduleID:     r.String(symbols.ContentScheduleID),
		StartTime:      r.Time(symbols.ContentStartTime),
		Title:          r.String(symbols.ContentProgramTitle),
		EpisodeTitle:   r.OptString(symbols.ContentEpisodeTitle),
		Classification: r.String(symbols.ContentClassification),
		Resolution:     r.String(symbols.ContentResolution),
		ContentType:    ContentType(r.Int(symbols.ContentType)),
	}, r)
}

type JumpAction struct {
	Envelope
	PageRef
	JumpTo JumpType `validate:"oneof=bookmark start half end time"`
}

func (*JumpAction) Kind() Kind            { return KindContentAction }
func (*JumpAction) Action() ContentAction { return ActionJump }

func (e *JumpAction) Pack() models.FieldMap {
	m := packAction(&e.Envelope, &e.PageRef, ActionJump, 1)
	m.Set(symbols.PlayerJumpTo, string(e.JumpTo))
	return m
}

func unpackJumpAction(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&JumpAction{
		Envelope: r.envelope(),
		PageRef:  r.pageRef(),
		JumpTo:   JumpType(r.String(symbols.PlayerJumpTo)),
	}, r)
}
