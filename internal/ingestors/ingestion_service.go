package ingestors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"stb-telemetry/internal/batchers"
	"stb-telemetry/internal/events"
	"stb-telemetry/internal/models"
	"stb-telemetry/internal/shared/loggers"
	"stb-telemetry/internal/shared/metrics"
	"stb-telemetry/internal/shared/svcerrors"
	"stb-telemetry/internal/symbols"
)

const DefaultMaxBodyBytes = 1 << 20

const (
	FormatJSON = "json"
)

// IngestResult represents the result of an ingestion request.
type IngestResult struct {
	Accepted int
}

// IngestionService turns request bodies into events and pushes them into the engine. A body
// is one JSON object keyed by symbol names, or an array of such objects.
//
//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	IngestEvents(ctx context.Context, format string, r io.Reader) (*IngestResult, error)
}

type ingestionService struct {
	registry     *events.Registry
	schema       *symbols.Schema
	engine       batchers.Engine
	maxBodyBytes int64
}

func NewIngestionService(registry *events.Registry, schema *symbols.Schema, engine batchers.Engine, maxBodyBytes int64) IngestionService {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &ingestionService{
		registry:     registry,
		schema:       schema,
		engine:       engine,
		maxBodyBytes: maxBodyBytes,
	}
}

// IngestEvents decodes every item before pushing any, so a malformed item rejects the whole
// request. Push failures stop at the failing item; earlier items stay accepted.
func (s *ingestionService) IngestEvents(ctx context.Context, format string, r io.Reader) (*IngestResult, error) {
	logger := loggers.Ctx(ctx)

	evs, err := s.decodeBody(format, r)
	if err != nil {
		s.count(err)
		return nil, err
	}

	for i, ev := range evs {
		if err := s.engine.PushEvent(ctx, ev); err != nil {
			logger.Warn().
				Err(err).
				Int("accepted", i).
				Int(loggers.FieldEventCount, len(evs)).
				Msg("push rejected")
			if svcErr, ok := svcerrors.AsServiceError(err); ok && len(evs) > 1 {
				err = errItemRejected(i, svcErr)
			}
			s.count(err)
			return nil, err
		}
		metricEventsAcceptedTotal.WithLabelValues(ev.Kind().String()).Inc()
	}

	logger.Debug().Int(loggers.FieldEventCount, len(evs)).Msg("events accepted")
	metricRequestsIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return &IngestResult{Accepted: len(evs)}, nil
}

func (s *ingestionService) count(err error) {
	code := "unknown"
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		code = svcErr.Code
	}
	metricRequestsIngestedTotal.WithLabelValues(code).Inc()
}

func (s *ingestionService) decodeBody(format string, r io.Reader) ([]events.Event, error) {
	if !strings.Contains(strings.ToLower(format), FormatJSON) {
		return nil, errValidationFailed(fmt.Sprintf("unsupported input format: %q", format), nil)
	}
	if r == nil {
		return nil, errValidationFailed("empty request body", nil)
	}

	buf, err := io.ReadAll(io.LimitReader(r, s.maxBodyBytes+1))
	if err != nil {
		return nil, errValidationFailed("failed to read request body", err)
	}
	if int64(len(buf)) > s.maxBodyBytes {
		return nil, errValidationFailed(fmt.Sprintf("request body too large: must be <= %d bytes", s.maxBodyBytes), nil)
	}

	trimmed := bytes.TrimSpace(buf)
	if len(trimmed) == 0 {
		return nil, errValidationFailed("empty request body", nil)
	}
	if trimmed[0] != '[' {
		ev, err := s.decodeItem(trimmed)
		if err != nil {
			return nil, err
		}
		return []events.Event{ev}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, errValidationFailed("invalid json", err)
	}
	if len(items) == 0 {
		return nil, errValidationFailed("events cannot be empty", nil)
	}
	evs := make([]events.Event, 0, len(items))
	for i, item := range items {
		ev, err := s.decodeItem(item)
		if err != nil {
			if svcErr, ok := svcerrors.AsServiceError(err); ok {
				return nil, errItemRejected(i, svcErr)
			}
			return nil, err
		}
		evs = append(evs, ev)
	}
	return evs, nil
}

func (s *ingestionService) decodeItem(raw []byte) (events.Event, error) {
	m, err := models.FieldMapFromJSON(raw, s.schema)
	if err != nil {
		return nil, errValidationFailed(err.Error(), err)
	}
	return s.registry.Decode(m)
}
