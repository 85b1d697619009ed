package catalogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"stb-telemetry/internal/events"
	"stb-telemetry/internal/shared/loggers"
	"stb-telemetry/internal/shared/metrics"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout           = 5 * time.Second
	defaultRequestsPerSecond = 2
	maxResponseBytes         = 4 << 20
)

// ProgrammeMetadata is one scheduled airing of a programme on a channel.
type ProgrammeMetadata struct {
	ContentProvider string
	ProgramID       string
	ScheduleID      string
	StartTime       time.Time
	Duration        time.Duration
	Title           string
	EpisodeTitle    *string
	Classification  string
	Resolution      string
}

// Programme converts the airing into the schedule block carried by viewing events.
func (p ProgrammeMetadata) Programme() events.Programme {
	return events.Programme{
		Provider:       p.ContentProvider,
		ProgramID:      p.ProgramID,
		ScheduleID:     p.ScheduleID,
		StartTime:      p.StartTime,
		Duration:       int64(p.Duration / time.Second),
		Title:          p.Title,
		EpisodeTitle:   p.EpisodeTitle,
		Classification: p.Classification,
		Resolution:     p.Resolution,
	}
}

// MetadataSource looks up programme schedules.
//
//go:generate mockgen -source=metadata_source.go -destination=./mocks/metadata_source_mock.go -package=mocks
type MetadataSource interface {
	// FetchScheduleWindow returns the airings on channel known to the catalog, ordered by start
	// time.
	FetchScheduleWindow(ctx context.Context, channel string) ([]ProgrammeMetadata, error)
}

type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
}

type searchClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewMetadataSource(baseURL string, opts Options) MetadataSource {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRequestsPerSecond
	}
	return &searchClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

type searchHit struct {
	Metadata struct {
		ProgramID         string  `json:"programId"`
		Title             string  `json:"title"`
		ProgramEventTitle *string `json:"programEventTitle"`
		EpisodeTitle      *string `json:"episodeTitle"`
	} `json:"metadata"`
	RelevantSchedules []struct {
		ChannelTag     string `json:"channelTag"`
		ID             string `json:"id"`
		StartTime      int64  `json:"startTime"`
		EndTime        int64  `json:"endTime"`
		Classification string `json:"classification"`
		VideoQuality   string `json:"videoQuality"`
	} `json:"relevantSchedules"`
}

func (c *searchClient) FetchScheduleWindow(ctx context.Context, channel string) ([]ProgrammeMetadata, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil, errInvalidChannel(channel)
	}
	logger := loggers.Ctx(ctx).With().Str(loggers.FieldChannel, channel).Logger()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errInternalUpstreamFailed(err)
	}

	var resp searchResponse
	if err := c.get(ctx, "/search", url.Values{"channel": {channel}}, &resp); err != nil {
		metricRequestsTotal.WithLabelValues(statusLabel(err), codeInternalUpstreamFailed).Inc()
		logger.Warn().Err(err).Msg("catalog request failed")
		return nil, errInternalUpstreamFailed(err)
	}
	metricRequestsTotal.WithLabelValues("200", metrics.ValueNoError).Inc()

	programmes := schedulesOn(channel, resp.Hits)
	logger.Debug().Int("programmes", len(programmes)).Msg("schedule window fetched")
	return programmes, nil
}

// schedulesOn keeps the schedules airing on channel. A missing event title falls back to the
// programme title.
func schedulesOn(channel string, hits []searchHit) []ProgrammeMetadata {
	var programmes []ProgrammeMetadata
	for _, hit := range hits {
		title := hit.Metadata.Title
		if hit.Metadata.ProgramEventTitle != nil {
			title = *hit.Metadata.ProgramEventTitle
		}
		for _, schedule := range hit.RelevantSchedules {
			if schedule.ChannelTag != channel {
				continue
			}
			start := time.UnixMilli(schedule.StartTime).UTC()
			programmes = append(programmes, ProgrammeMetadata{
				ContentProvider: schedule.ChannelTag,
				ProgramID:       hit.Metadata.ProgramID,
				ScheduleID:      schedule.ID,
				StartTime:       start,
				Duration:        time.UnixMilli(schedule.EndTime).Sub(start),
				Title:           title,
				EpisodeTitle:    hit.Metadata.EpisodeTitle,
				Classification:  schedule.Classification,
				Resolution:      schedule.VideoQuality,
			})
		}
	}
	slices.SortStableFunc(programmes, func(a, b ProgrammeMetadata) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return programmes
}

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.status)
}

func statusLabel(err error) string {
	if se, ok := err.(*statusError); ok {
		return strconv.Itoa(se.status)
	}
	return "error"
}

func (c *searchClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metricRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	metricRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode}
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	return nil
}
