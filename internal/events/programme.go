package events

import (
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

// Programme is the schedule metadata block shared by viewing and recording events.
type Programme struct {
	Provider       string    `validate:"required"`
	ProgramID      string    `validate:"required"`
	ScheduleID     string    `validate:"required"`
	StartTime      time.Time `validate:"required"`
	Duration       int64     `validate:"min=0"`
	Title          string    `validate:"required"`
	EpisodeTitle   *string
	Classification string
	Resolution     string
}

func (p *Programme) pack(m *models.FieldMap) {
	m.Set(symbols.ContentProvider, p.Provider)
	m.Set(symbols.ContentProgramID, p.ProgramID)
	m.Set(symbols.ContentScheduleID, p.ScheduleID)
	m.Set(symbols.ContentStartTime, p.StartTime)
	m.Set(symbols.ContentDuration, p.Duration)
	m.Set(symbols.ContentProgramTitle, p.Title)
	models.SetOpt(m, symbols.ContentEpisodeTitle, p.EpisodeTitle)
	m.Set(symbols.ContentClassification, p.Classification)
	m.Set(symbols.ContentResolution, p.Resolution)
}

func (r *fieldReader) programme() Programme {
	return Programme{
		Provider:       r.String(symbols.ContentProvider),
		ProgramID:      r.String(symbols.ContentProgramID),
		ScheduleID:     r.String(symbols.ContentScheduleID),
		StartTime:      r.Time(symbols.ContentStartTime),
		Duration:       r.Int(symbols.ContentDuration),
		Title:          r.String(symbols.ContentProgramTitle),
		EpisodeTitle:   r.OptString(symbols.ContentEpisodeTitle),
		Classification: r.String(symbols.ContentClassification),
		Resolution:     r.String(symbols.ContentResolution),
	}
}

// optEnum converts an optional raw integer into an optional enum value.
func optEnum[T ~int64](v *int64) *T {
	if v == nil {
		return nil
	}
	out := T(*v)
	return &out
}

// optRaw is the inverse of optEnum.
func optRaw[T ~int64](v *T) *int64 {
	if v == nil {
		return nil
	}
	out := int64(*v)
	return &out
}
