package events

import (
	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

// PageView marks navigation to a page. PreviousPage is filled by the engine.
type PageView struct {
	Envelope
	Name         string `validate:"required"`
	PreviousPage *string
	Filter       *string
	Sort         *string
}

func (*PageView) Kind() Kind { return KindPageView }

func (e *PageView) SetPreviousPage(name *string) {
	if name == nil {
		e.PreviousPage = nil
		return
	}
	page := *name
	e.PreviousPage = &page
}

func (e *PageView) Pack() models.FieldMap {
	m := e.packEnvelope(KindPageView, 4)
	m.Set(symbols.PageName, e.Name)
	models.SetNullable(&m, symbols.PreviousPage, e.PreviousPage)
	models.SetOpt(&m, symbols.PageFilter, e.Filter)
	models.SetOpt(&m, symbols.PageSort, e.Sort)
	return m
}

func unpackPageView(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&PageView{
		Envelope:     r.envelope(),
		Name:         r.String(symbols.PageName),
		PreviousPage: r.OptString(symbols.PreviousPage),
		Filter:       r.OptString(symbols.PageFilter),
		Sort:         r.OptString(symbols.PageSort),
	}, r)
}

// SelectorContent is a selection of a programme tile. It shares its kind with
// SelectorCollection and is told apart by the programme id field.
type SelectorContent struct {
	Envelope
	PageRef
	TrackRef
	Type         string `validate:"required"`
	Title        string
	Row          string
	ProgramID    string `validate:"required"`
	ProgramTitle string `validate:"required"`
	Brand        string
	TileLocked   bool
}

func (*SelectorContent) Kind() Kind { return KindSelector }

func (e *SelectorContent) CorrelationTitle() string { return e.ProgramTitle }

func (e *SelectorContent) Pack() models.FieldMap {
	m := e.packEnvelope(KindSelector, 9)
	e.packPage(&m)
	m.Set(symbols.SelectorType, e.Type)
	m.Set(symbols.SelectorTitle, e.Title)
	m.Set(symbols.SelectorRow, e.Row)
	m.Set(symbols.ContentProgramID, e.ProgramID)
	m.Set(symbols.ContentProgramTitle, e.ProgramTitle)
	m.Set(symbols.ContentBrand, e.Brand)
	m.Set(symbols.TileLocked, e.TileLocked)
	m.Set(symbols.SelectorTrackID, e.TrackID)
	return m
}

func unpackSelectorContent(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&SelectorContent{
		Envelope:     r.envelope(),
		PageRef:      r.pageRef(),
		Type:         r.String(symbols.SelectorType),
		Title:        r.String(symbols.SelectorTitle),
		Row:          r.String(symbols.SelectorRow),
		ProgramID:    r.String(symbols.ContentProgramID),
		ProgramTitle: r.String(symbols.ContentProgramTitle),
		Brand:        r.String(symbols.ContentBrand),
		TileLocked:   r.Bool(symbols.TileLocked),
		TrackRef:     r.trackRef(),
	}, r)
}

// SelectorCollection is a selection of a collection tile.
type SelectorCollection struct {
	Envelope
	PageRef
	Type             string `validate:"required"`
	Title            string
	Row              string
	Column           string
	CollectionTitle  string
	CollectionSource string `validate:"required"`
}

func (*SelectorCollection) Kind() Kind { return KindSelector }

func (e *SelectorCollection) Pack() models.FieldMap {
	m := e.packEnvelope(KindSelector, 7)
	e.packPage(&m)
	m.Set(symbols.SelectorType, e.Type)
	m.Set(symbols.SelectorTitle, e.Title)
	m.Set(symbols.SelectorRow, e.Row)
	m.Set(symbols.SelectorColumn, e.Column)
	m.Set(symbols.CollectionTitle, e.CollectionTitle)
	m.Set(symbols.CollectionSource, e.CollectionSource)
	return m
}

func unpackSelectorCollection(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&SelectorCollection{
		Envelope:         r.envelope(),
		PageRef:          r.pageRef(),
		Type:             r.String(symbols.SelectorType),
		Title:            r.String(symbols.SelectorTitle),
		Row:              r.String(symbols.SelectorRow),
		Column:           r.String(symbols.SelectorColumn),
		CollectionTitle:  r.String(symbols.CollectionTitle),
		CollectionSource: r.String(symbols.CollectionSource),
	}, r)
}

type SearchQuery struct {
	Envelope
	PageRef
	Initiator SearchType `validate:"min=1,max=5"`
	Term      string
	Score     string
}

func (*SearchQuery) Kind() Kind { return KindSearchQuery }

func (e *SearchQuery) Pack() models.FieldMap {
	m := e.packEnvelope(KindSearchQuery, 4)
	e.packPage(&m)
	m.Set(symbols.SearchInitiator, int64(e.Initiator))
	m.Set(symbols.SearchTerm, e.Term)
	m.Set(symbols.SearchScore, e.Score)
	return m
}

func unpackSearchQuery(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&SearchQuery{
		Envelope:  r.envelope(),
		PageRef:   r.pageRef(),
		Initiator: SearchType(r.Int(symbols.SearchInitiator)),
		Term:      r.String(symbols.SearchTerm),
		Score:     r.String(symbols.SearchScore),
	}, r)
}
