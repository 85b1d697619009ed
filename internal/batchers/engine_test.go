package batchers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"stb-telemetry/internal/codecs"
	"stb-telemetry/internal/correlations"
	"stb-telemetry/internal/events"
	"stb-telemetry/internal/models"
	"stb-telemetry/internal/shared/filestorages"
	"stb-telemetry/internal/shared/svcerrors"
	"stb-telemetry/internal/stores"
	"stb-telemetry/internal/stores/mocks"
	"stb-telemetry/internal/symbols"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2019, 6, 12, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	return Config{
		MaxEvents:     10,
		SendPeriod:    time.Hour,
		QueueCapacity: 16,
		PollInterval:  5 * time.Millisecond,
	}
}

func testIdentity() Identity {
	return Identity{
		DeviceName:      "living-room",
		HardwareVersion: "HW-2",
		HardwareID:      []byte{0xde, 0xad},
		SoftwareVersion: "sw-1.2.3",
		ClientID:        "CDSN123",
		CardID:          "card-9",
		AmsID:           []byte{0x01},
		AmsPanel:        7,
	}
}

func newTestEngine(t *testing.T, cfg Config, store stores.BatchFileStore, contextStore stores.DeviceContextStore) (*engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: t0}
	e := newEngine(cfg, events.NewRegistry(), codecs.NewCBORCodec(), symbols.V1(), store, contextStore, zerolog.Nop())
	e.now = clock.Now
	return e, clock
}

func newDiskStore(t *testing.T) (stores.BatchFileStore, filestorages.FileStorage) {
	t.Helper()
	fileStorage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return stores.NewBatchFileStore(fileStorage, "batches"), fileStorage
}

func deviceContext(ts time.Time) *events.DeviceContext {
	return &events.DeviceContext{
		Envelope:        events.Envelope{Timestamp: ts},
		HardwareVersion: "HW-2",
		OsVersion:       "linux-4.9",
		PvrCustFree:     40,
		EpgInstallDate:  ts.Add(-48 * time.Hour),
	}
}

func pageView(ts time.Time, name string) *events.PageView {
	return &events.PageView{Envelope: events.Envelope{Timestamp: ts}, Name: name}
}

func livePlay(ts time.Time, title string) *events.LivePlay {
	return &events.LivePlay{
		Envelope:     events.Envelope{Timestamp: ts},
		ViewingStart: ts,
		Programme: events.Programme{
			Provider:   "foxtel",
			ProgramID:  "P1",
			ScheduleID: "S1",
			StartTime:  ts.Add(-10 * time.Minute),
			Duration:   3600,
			Title:      title,
		},
		ContentType: events.ContentTunerSub,
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	svcErr, ok := svcerrors.As(err)
	require.True(t, ok, "expected a service error, got %v", err)
	assert.Equal(t, code, svcErr.Code)
}

func startEngine(t *testing.T, e *engine, withIdentity bool) context.Context {
	t.Helper()
	ctx := context.Background()
	e.Start(ctx)
	if withIdentity {
		require.NoError(t, e.SetIdentity(ctx, testIdentity()))
	}
	return ctx
}

// readBatch decodes a written batch file into its header and events.
func readBatch(t *testing.T, store stores.BatchFileStore, name string) (models.FieldMap, []events.Event) {
	t.Helper()
	data, err := store.Get(context.Background(), name)
	require.NoError(t, err)
	doc, err := codecs.NewCBORCodec().Decode(data, symbols.V1())
	require.NoError(t, err)
	list, err := doc.List(symbols.Batch)
	require.NoError(t, err)

	registry := events.NewRegistry()
	decoded := make([]events.Event, 0, len(list))
	for _, m := range list {
		ev, err := registry.Decode(m)
		require.NoError(t, err)
		decoded = append(decoded, ev)
	}
	return doc, decoded
}

func kinds(evs []events.Event) []events.Kind {
	out := make([]events.Kind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind())
	}
	return out
}

func TestEngine_SizeFlush(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	cfg := testConfig()
	cfg.MaxEvents = 2
	e, _ := newTestEngine(t, cfg, store, nil)
	ctx := startEngine(t, e, true)

	dcAt := t0.Add(time.Second)
	require.NoError(t, e.PushEvent(ctx, deviceContext(dcAt)))
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(2*time.Second), "home")))
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(3*time.Second), "guide")))
	assert.Never(t, func() bool { return len(e.BatchFiles()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(4*time.Second), "player")))
	require.Eventually(t, func() bool { return len(e.BatchFiles()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, e.Stop(ctx))
	files := e.BatchFiles()
	require.Len(t, files, 1, "stop with an empty buffer writes nothing")
	assert.Equal(t, stores.BatchFilename(t0, "CDSN123"), files[0])

	doc, batch := readBatch(t, store, files[0])
	assert.Equal(t, []events.Kind{
		events.KindDeviceContext, events.KindPageView, events.KindPageView, events.KindPageView, events.KindEndOfFile,
	}, kinds(batch))

	dc := batch[0].(*events.DeviceContext)
	assert.True(t, dc.Timestamp.Equal(t0.Add(2*time.Second)), "snapshot carries the first event's timestamp")
	assert.Equal(t, dcAt.Unix(), dc.DeviceContextID)
	for _, ev := range batch[1:4] {
		assert.Equal(t, dcAt.Unix(), ev.Header().DeviceContextID)
	}
	eof := batch[4]
	assert.True(t, eof.Header().Timestamp.Equal(t0.Add(4*time.Second)))
	assert.Zero(t, eof.Header().DeviceContextID)

	guide := batch[2].(*events.PageView)
	require.NotNil(t, guide.PreviousPage)
	assert.Equal(t, "home", *guide.PreviousPage)

	seq, err := doc.Int(symbols.Sequence)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	clientID, err := doc.String(symbols.DeviceClientID)
	require.NoError(t, err)
	assert.Equal(t, "CDSN123", clientID)
	docVersion, err := doc.String(symbols.DocVersion)
	require.NoError(t, err)
	assert.Equal(t, DocumentVersion, docVersion)
}

func TestEngine_StopFlushesOnce(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	e, _ := newTestEngine(t, testConfig(), store, nil)
	ctx := startEngine(t, e, true)

	require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "home")))

	require.NoError(t, e.Stop(ctx))
	require.NoError(t, e.Stop(ctx))
	assert.Len(t, e.BatchFiles(), 1)

	select {
	case <-e.Done():
	default:
		t.Fatal("done is not closed after stop")
	}

	requireCode(t, e.PushEvent(ctx, pageView(t0.Add(2*time.Second), "guide")), codeEngineStopped)
	requireCode(t, e.Flush(ctx), codeEngineStopped)
	assert.NoError(t, e.Err())
}

func TestEngine_FlushHeld(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		identity      bool
		deviceContext bool
		wantCode      string
	}{
		{name: "no device context", identity: true, deviceContext: false, wantCode: codeNoDeviceContext},
		{name: "no identity", identity: false, deviceContext: true, wantCode: codeIdentityNotSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, _ := newDiskStore(t)
			e, _ := newTestEngine(t, testConfig(), store, nil)
			ctx := startEngine(t, e, tt.identity)

			if tt.deviceContext {
				require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
			}
			require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "home")))

			requireCode(t, e.Flush(ctx), tt.wantCode)
			assert.Empty(t, e.BatchFiles())

			requireCode(t, e.Stop(ctx), tt.wantCode)
			assert.Empty(t, e.BatchFiles())
			assert.NoError(t, e.Err(), "a held batch is not fatal")
		})
	}
}

func TestEngine_HeldBatchIsWrittenOnceContextArrives(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	e, _ := newTestEngine(t, testConfig(), store, nil)
	ctx := startEngine(t, e, true)

	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "home")))
	requireCode(t, e.Flush(ctx), codeNoDeviceContext)

	require.NoError(t, e.PushEvent(ctx, deviceContext(t0.Add(2*time.Second))))
	require.NoError(t, e.Flush(ctx))

	files := e.BatchFiles()
	require.Len(t, files, 1)
	_, batch := readBatch(t, store, files[0])
	assert.Equal(t, []events.Kind{events.KindDeviceContext, events.KindPageView, events.KindEndOfFile}, kinds(batch))

	require.NoError(t, e.Stop(ctx))
}

func TestEngine_FatalFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		putErr   error
		wantCode string
	}{
		{name: "write failure", putErr: errors.New("disk full"), wantCode: codeInternalWriteFailed},
		{name: "filename collision", putErr: stores.ErrBatchFileAlreadyExists, wantCode: codeInternalWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			store := mocks.NewMockBatchFileStore(ctrl)
			store.EXPECT().Put(gomock.Any(), stores.BatchFilename(t0, "CDSN123"), gomock.Any()).Return(tt.putErr)

			e, _ := newTestEngine(t, testConfig(), store, nil)
			ctx := startEngine(t, e, true)
			require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
			require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "home")))

			err := e.Flush(ctx)
			requireCode(t, err, tt.wantCode)
			assert.ErrorIs(t, err, tt.putErr)

			select {
			case <-e.Done():
			case <-time.After(time.Second):
				t.Fatal("engine did not stop after a fatal failure")
			}
			requireCode(t, e.Err(), tt.wantCode)
			requireCode(t, e.PushEvent(ctx, pageView(t0.Add(2*time.Second), "guide")), codeEngineStopped)
			requireCode(t, e.Stop(ctx), tt.wantCode)
			assert.Empty(t, e.BatchFiles())
		})
	}
}

func TestEngine_PeriodFlush(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	cfg := testConfig()
	cfg.SendPeriod = time.Minute
	e, clock := newTestEngine(t, cfg, store, nil)
	ctx := startEngine(t, e, true)

	require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "home")))
	assert.Never(t, func() bool { return len(e.BatchFiles()) > 0 }, 30*time.Millisecond, 5*time.Millisecond)

	clock.Advance(61 * time.Second)
	require.Eventually(t, func() bool { return len(e.BatchFiles()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, e.Stop(ctx))
	assert.Equal(t, t0.Add(2*time.Minute), e.policy.Deadline(), "the schedule moves in whole periods")
}

func TestEngine_SessionsAndCorrelation(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	e, _ := newTestEngine(t, testConfig(), store, nil)
	ctx := startEngine(t, e, true)

	require.NoError(t, e.ClearState(ctx, t0))
	require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(10*time.Second), "player")))
	require.NoError(t, e.PushEvent(ctx, livePlay(t0.Add(15*time.Second), "The Simpsons")))
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(20*time.Second), "miniGuide")))
	require.NoError(t, e.Stop(ctx))

	files := e.BatchFiles()
	require.Len(t, files, 1)
	_, batch := readBatch(t, store, files[0])
	require.Len(t, batch, 5)

	player := batch[1].Header()
	play := batch[2].(*events.LivePlay)
	guide := batch[3].Header()

	assert.True(t, player.AppSession.Equal(t0))
	assert.True(t, player.UsageSession.Equal(t0.Add(10*time.Second)))
	assert.True(t, guide.UsageSession.Equal(player.UsageSession), "same activity keeps the usage session")
	assert.True(t, guide.PageSession.Equal(t0.Add(20*time.Second)))

	assert.Equal(t, correlations.Compute("The Simpsons", t0), play.TrackID)
	assert.True(t, play.PageSession.Equal(player.PageSession))
}

func TestEngine_PushEvent_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		event    events.Event
		wantCode string
	}{
		{name: "nil event", event: nil, wantCode: "EVT_1000"},
		{name: "missing required field", event: pageView(t0, ""), wantCode: "EVT_1000"},
		{name: "missing timestamp", event: pageView(time.Time{}, "home"), wantCode: "EVT_1000"},
		{name: "end of file is reserved", event: events.NewEndOfFile(t0, 0), wantCode: codeReservedKind},
	}

	store, _ := newDiskStore(t)
	e, _ := newTestEngine(t, testConfig(), store, nil)
	ctx := startEngine(t, e, true)
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, e.PushEvent(ctx, tt.event), tt.wantCode)
		})
	}
}

func TestEngine_SetIdentity_Invalid(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	e, _ := newTestEngine(t, testConfig(), store, nil)
	ctx := startEngine(t, e, false)
	defer func() { _ = e.Stop(ctx) }()

	id := testIdentity()
	id.ClientID = "../etc"
	err := e.SetIdentity(ctx, id)
	requireCode(t, err, codeInvalidIdentity)
	assert.Contains(t, err.Error(), "clientid (excludesall)")

	id = testIdentity()
	id.HardwareID = nil
	requireCode(t, e.SetIdentity(ctx, id), codeInvalidIdentity)
}

func TestEngine_BackpressureAndStopBeforeStart(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	cfg := testConfig()
	cfg.QueueCapacity = 1
	e, _ := newTestEngine(t, cfg, store, nil)

	require.NoError(t, e.PushEvent(context.Background(), pageView(t0, "home")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := e.PushEvent(ctx, pageView(t0.Add(time.Second), "guide"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, e.Stop(context.Background()))
	requireCode(t, e.PushEvent(context.Background(), pageView(t0, "home")), codeEngineStopped)
}

func TestEngine_StopReleasesBlockedProducers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := mocks.NewMockBatchFileStore(ctrl)
	entered := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, []byte) error {
			close(entered)
			<-release
			return errors.New("disk gone")
		})

	cfg := testConfig()
	cfg.QueueCapacity = 1
	e, _ := newTestEngine(t, cfg, store, nil)
	ctx := startEngine(t, e, true)
	require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
	require.NoError(t, e.PushEvent(ctx, pageView(t0, "home")))

	flushErr := make(chan error, 1)
	go func() { flushErr <- e.Flush(ctx) }()

	// the consumer is stuck in Put; fill the queue and block one more producer
	<-entered
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "guide")))
	pushErr := make(chan error, 1)
	go func() { pushErr <- e.PushEvent(ctx, pageView(t0.Add(2*time.Second), "search")) }()

	close(release)
	requireCode(t, <-flushErr, codeInternalWriteFailed)
	requireCode(t, <-pushErr, codeEngineStopped)
	requireCode(t, e.Stop(ctx), codeInternalWriteFailed)
}

func TestEngine_StartAfterStop(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	e, _ := newTestEngine(t, testConfig(), store, nil)
	ctx := context.Background()

	require.NoError(t, e.Stop(ctx))
	e.Start(ctx)

	select {
	case <-e.Done():
	default:
		t.Fatal("done is not closed after stop")
	}
	requireCode(t, e.PushEvent(ctx, pageView(t0, "home")), codeEngineStopped)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(stopCtx), "a second stop returns without a consumer to wait for")
	assert.NoError(t, stopCtx.Err())
}

// gatedStore blocks its first Put until release is closed.
type gatedStore struct {
	stores.BatchFileStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) Put(ctx context.Context, name string, data []byte) error {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return s.BatchFileStore.Put(ctx, name, data)
}

func TestEngine_StopRetriesAfterFullQueue(t *testing.T) {
	t.Parallel()

	disk, _ := newDiskStore(t)
	store := &gatedStore{BatchFileStore: disk, entered: make(chan struct{}), release: make(chan struct{})}
	cfg := testConfig()
	cfg.QueueCapacity = 1
	e, _ := newTestEngine(t, cfg, store, nil)
	ctx := startEngine(t, e, true)
	require.NoError(t, e.PushEvent(ctx, deviceContext(t0)))
	require.NoError(t, e.PushEvent(ctx, pageView(t0, "home")))

	flushErr := make(chan error, 1)
	go func() { flushErr <- e.Flush(ctx) }()

	// the consumer is stuck in Put and the queue is full
	<-store.entered
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "guide")))

	stopCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Stop(stopCtx), context.DeadlineExceeded)
	requireCode(t, e.PushEvent(ctx, pageView(t0.Add(2*time.Second), "search")), codeEngineStopped)

	close(store.release)
	require.NoError(t, <-flushErr)
	require.NoError(t, e.Stop(ctx), "a later stop queues the request again")
	assert.Len(t, e.BatchFiles(), 2, "the event admitted before stop is written")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines(substrs ...string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, line := range strings.Split(b.buf.String(), "\n") {
		matched := line != ""
		for _, sub := range substrs {
			matched = matched && strings.Contains(line, sub)
		}
		if matched {
			n++
		}
	}
	return n
}

func TestEngine_HeldBatchLoggedOncePerDeadline(t *testing.T) {
	t.Parallel()

	store, _ := newDiskStore(t)
	out := &syncBuffer{}
	cfg := testConfig()
	cfg.SendPeriod = time.Minute
	clock := &fakeClock{now: t0}
	e := newEngine(cfg, events.NewRegistry(), codecs.NewCBORCodec(), symbols.V1(), store, nil, zerolog.New(out))
	e.now = clock.Now
	ctx := startEngine(t, e, true)

	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(time.Second), "home")))
	clock.Advance(61 * time.Second)
	require.NoError(t, e.PushEvent(ctx, pageView(t0.Add(62*time.Second), "guide")))
	// let the consumer poll past the deadline many times
	time.Sleep(20 * cfg.PollInterval)

	requireCode(t, e.Stop(ctx), codeNoDeviceContext)

	held := `"error_code":"` + codeNoDeviceContext + `"`
	assert.Equal(t, 1, out.lines(held, `"flush_reason":"period"`), "a missed deadline is noted once")
	assert.Equal(t, 1, out.lines(held, `"flush_reason":"stop"`))
}

func TestEngine_RestoresDeviceContext(t *testing.T) {
	t.Parallel()

	store, fileStorage := newDiskStore(t)
	contextStore := stores.NewDeviceContextStore(fileStorage, codecs.NewCBORCodec(), symbols.V1())

	first, _ := newTestEngine(t, testConfig(), store, contextStore)
	ctx := startEngine(t, first, true)
	require.NoError(t, first.PushEvent(ctx, deviceContext(t0)))
	require.NoError(t, first.Stop(ctx))
	assert.Empty(t, first.BatchFiles(), "a device context alone is not a batch")

	second, clock := newTestEngine(t, testConfig(), store, contextStore)
	clock.Advance(time.Minute)
	ctx = startEngine(t, second, true)
	require.NoError(t, second.PushEvent(ctx, pageView(t0.Add(time.Minute), "home")))
	require.NoError(t, second.Flush(ctx))
	require.NoError(t, second.Stop(ctx))

	files := second.BatchFiles()
	require.Len(t, files, 1)
	_, batch := readBatch(t, store, files[0])
	require.Len(t, batch, 3)
	assert.Equal(t, t0.Unix(), batch[0].Header().DeviceContextID)
	assert.Equal(t, t0.Unix(), batch[1].Header().DeviceContextID)
}
