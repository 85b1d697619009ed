package events

import (
	"fmt"
	"slices"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/shared/svcerrors"
	"stb-telemetry/internal/symbols"
)

// UnpackFunc rebuilds one variant from its packed fields.
type UnpackFunc func(models.FieldMap) (Event, error)

// Registry is the decode table: event kind first, then a nested table for the selector and
// content-action families. It is built once and read-only afterwards.
type Registry struct {
	byKind    map[Kind]UnpackFunc
	selectors map[string]UnpackFunc
	actions   map[ContentAction]UnpackFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		// keyed by the field whose presence identifies the selector variant
		selectors: map[string]UnpackFunc{
			symbols.ContentProgramID: unpackSelectorContent,
			symbols.CollectionSource: unpackSelectorCollection,
		},
		actions: map[ContentAction]UnpackFunc{
			ActionBook:        unpackBookAction,
			ActionWatch:       unpackWatchAction,
			ActionDownload:    unpackDownloadAction,
			ActionDelete:      unpackDeleteAction,
			ActionKeep:        unpackKeepAction,
			ActionUpgrade:     unpackUpgradeAction,
			ActionRent:        unpackRentAction,
			ActionNextEpisode: unpackNextEpisodeAction,
			ActionJump:        unpackJumpAction,
		},
	}
	r.byKind = map[Kind]UnpackFunc{
		KindErrorMessage:      unpackErrorMessage,
		KindEndOfFile:         unpackEndOfFile,
		KindPowerStatus:       unpackPowerStatus,
		KindReboot:            unpackReboot,
		KindCodeDownload:      unpackCodeDownload,
		KindApplicationLaunch: unpackApplicationLaunch,
		KindLivePlay:          unpackLivePlay,
		KindRecording:         unpackRecording,
		KindPlayback:          unpackPlayback,
		KindViewingStop:       unpackViewingStop,
		KindVideoOutput:       unpackVideoOutput,
		KindPageView:          unpackPageView,
		KindSelector:          r.unpackSelector,
		KindContentAction:     r.unpackContentAction,
		KindSearchQuery:       unpackSearchQuery,
		KindDeviceContext:     unpackDeviceContext,
		KindApplicationConfig: unpackApplicationConfig,
	}
	return r
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.byKind))
	for k := range r.byKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Decode looks up the variant for m, unpacks it and validates the result. Unknown kinds and
// sub-kinds fail with EVT_1001, missing or malformed fields with EVT_1000.
func (r *Registry) Decode(m models.FieldMap) (Event, error) {
	raw, err := m.Int(symbols.EventKind)
	if err != nil {
		return nil, errValidationFailed("event kind missing", err)
	}
	kind := Kind(raw)
	unpack, ok := r.byKind[kind]
	if !ok {
		return nil, errUnknownDiscriminator(fmt.Sprintf("unknown event kind %d", raw), nil)
	}

	ev, err := unpack(m)
	if err != nil {
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			return nil, svcErr
		}
		return nil, errValidationFailed(fmt.Sprintf("%s: %v", kind, err), err)
	}
	if err := Validate(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *Registry) unpackSelector(m models.FieldMap) (Event, error) {
	var (
		found  UnpackFunc
		fields []string
	)
	for field, unpack := range r.selectors {
		if m.Has(field) {
			found = unpack
			fields = append(fields, field)
		}
	}
	switch len(fields) {
	case 1:
		return found(m)
	case 0:
		return nil, errUnknownDiscriminator("selector event has neither a programme id nor a collection source", nil)
	default:
		slices.Sort(fields)
		return nil, errUnknownDiscriminator(fmt.Sprintf("selector event is ambiguous: %v", fields), nil)
	}
}

func (r *Registry) unpackContentAction(m models.FieldMap) (Event, error) {
	action, err := m.String(symbols.EventAction)
	if err != nil {
		return nil, errUnknownDiscriminator("content action code missing", err)
	}
	unpack, ok := r.actions[ContentAction(action)]
	if !ok {
		return nil, errUnknownDiscriminator(fmt.Sprintf("unknown content action %q", action), nil)
	}
	return unpack(m)
}
