package simulators

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"stb-telemetry/internal/catalogs"
	"stb-telemetry/internal/events"
	"stb-telemetry/internal/shared/loggers"
)

var defaultChannels = []string{"BBC1", "ITV", "CH4", "FOX8"}

var pages = []string{"home", "guide", "recordings", "search", "settings"}

type Options struct {
	Start    time.Time
	Channels []string
	// Zaps is the number of channel changes after power on.
	Zaps int
	// Step is the gap between consecutive events.
	Step time.Duration
	Seed uint64
}

// Generator builds a plausible viewing session: device context, power on, some navigation,
// a run of live channel changes and a final standby.
type Generator struct {
	source catalogs.MetadataSource
	opts   Options
	rng    *rand.Rand
}

// NewGenerator returns a generator. source may be nil, in which case programmes are invented
// per channel.
func NewGenerator(source catalogs.MetadataSource, opts Options) *Generator {
	if opts.Start.IsZero() {
		opts.Start = time.Now().UTC().Truncate(time.Second)
	}
	if len(opts.Channels) == 0 {
		opts.Channels = defaultChannels
	}
	if opts.Zaps <= 0 {
		opts.Zaps = 5
	}
	if opts.Step <= 0 {
		opts.Step = 5 * time.Second
	}
	return &Generator{
		source: source,
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed)),
	}
}

// Session returns the events of one session in emission order.
func (g *Generator) Session(ctx context.Context) ([]events.Event, error) {
	ts := g.opts.Start
	next := func() time.Time {
		ts = ts.Add(g.opts.Step)
		return ts
	}

	evs := []events.Event{
		g.deviceContext(ts),
		&events.PowerStatus{Envelope: events.Envelope{Timestamp: next()}, Status: events.PowerOn},
	}
	for i := 0; i < 2; i++ {
		evs = append(evs, &events.PageView{
			Envelope: events.Envelope{Timestamp: next()},
			Name:     pages[g.rng.IntN(len(pages))],
		})
	}

	schedules := make(map[string][]catalogs.ProgrammeMetadata)
	for i := 0; i < g.opts.Zaps; i++ {
		at := next()
		channel := g.opts.Channels[g.rng.IntN(len(g.opts.Channels))]
		programme, err := g.programme(ctx, schedules, channel, at)
		if err != nil {
			return nil, err
		}
		evs = append(evs, &events.LivePlay{
			Envelope:     events.Envelope{Timestamp: at},
			ViewingStart: at,
			Programme:    programme,
			ContentType:  events.ContentTunerSub,
			ViewStatus:   events.ViewViewed,
		})
	}

	evs = append(evs, &events.PowerStatus{Envelope: events.Envelope{Timestamp: next()}, Status: events.StandbyIn})
	return evs, nil
}

func (g *Generator) deviceContext(ts time.Time) *events.DeviceContext {
	return &events.DeviceContext{
		Envelope:          events.Envelope{Timestamp: ts},
		HardwareVersion:   "HW-4K-2",
		OsVersion:         "Q3.2.1",
		Temperature:       int64(38 + g.rng.IntN(10)),
		Uptime:            int64(g.rng.IntN(86400)),
		PvrHddSize:        1000,
		PvrCustFree:       int64(g.rng.IntN(101)),
		PvrPvodFree:       int64(g.rng.IntN(101)),
		PvrNumRecordings:  int64(g.rng.IntN(50)),
		DisplayConnection: "HDMI",
		Network:           events.NetworkEthernet,
		UIVersion:         "ui-12",
		EpgVersion:        "epg-7",
		EpgInstallDate:    ts.Add(-72 * time.Hour),
	}
}

// programme picks the airing on channel at ts. Schedules are fetched once per channel; a
// channel the catalog cannot serve gets an invented programme.
func (g *Generator) programme(ctx context.Context, schedules map[string][]catalogs.ProgrammeMetadata, channel string, at time.Time) (events.Programme, error) {
	if g.source != nil {
		window, ok := schedules[channel]
		if !ok {
			fetched, err := g.source.FetchScheduleWindow(ctx, channel)
			if err != nil {
				if ctx.Err() != nil {
					return events.Programme{}, err
				}
				loggers.Ctx(ctx).Warn().Err(err).Str(loggers.FieldChannel, channel).Msg("catalog lookup failed, inventing programme")
			}
			window = fetched
			schedules[channel] = window
		}
		if p, ok := airingAt(window, at); ok {
			return p.Programme(), nil
		}
	}
	return inventedProgramme(channel, at), nil
}

func airingAt(window []catalogs.ProgrammeMetadata, at time.Time) (catalogs.ProgrammeMetadata, bool) {
	for _, p := range window {
		if !at.Before(p.StartTime) && at.Before(p.StartTime.Add(p.Duration)) {
			return p, true
		}
	}
	if len(window) > 0 {
		return window[0], true
	}
	return catalogs.ProgrammeMetadata{}, false
}

func inventedProgramme(channel string, at time.Time) events.Programme {
	start := at.Truncate(30 * time.Minute)
	return events.Programme{
		Provider:       channel,
		ProgramID:      fmt.Sprintf("%s-%d", channel, start.Unix()),
		ScheduleID:     fmt.Sprintf("%s-S%d", channel, start.Unix()),
		StartTime:      start,
		Duration:       int64((30 * time.Minute) / time.Second),
		Title:          channel + " " + start.Format("15:04"),
		Classification: "G",
		Resolution:     "HD",
	}
}

// Payload renders events as the JSON array accepted by POST /events.
func Payload(evs []events.Event) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, ev := range evs {
		if i > 0 {
			buf.WriteByte(',')
		}
		item, err := ev.Pack().MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Kind(), err)
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
