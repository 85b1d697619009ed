package batchers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"stb-telemetry/internal/codecs"
	"stb-telemetry/internal/correlations"
	"stb-telemetry/internal/devicecontexts"
	"stb-telemetry/internal/events"
	"stb-telemetry/internal/models"
	"stb-telemetry/internal/sessions"
	"stb-telemetry/internal/shared/loggers"
	"stb-telemetry/internal/shared/metrics"
	"stb-telemetry/internal/shared/svcerrors"
	"stb-telemetry/internal/shared/ulid"
	"stb-telemetry/internal/stores"
	"stb-telemetry/internal/streams"
	"stb-telemetry/internal/symbols"
)

const streamEvents = "events"

type Config struct {
	MaxEvents     int
	SendPeriod    time.Duration
	QueueCapacity int
	PollInterval  time.Duration
}

// Engine turns a stream of events into batch files. Producers may call it from any goroutine;
// a single consumer goroutine started by Start owns all session, device-context and buffer
// state.
//
// Administrative calls (Flush, ClearState, SetIdentity) travel through the same queue as
// events, so they take effect after every event pushed before them. They wait for the consumer
// and must be called after Start.
//
//go:generate mockgen -source=engine.go -destination=./mocks/engine_mock.go -package=mocks
type Engine interface {
	Start(ctx context.Context)
	// PushEvent validates ev and enqueues it, blocking while the queue is full. The engine
	// takes ownership of ev; callers must not modify it afterwards.
	PushEvent(ctx context.Context, ev events.Event) error
	// Flush writes the buffered events now, regardless of size and deadline.
	Flush(ctx context.Context) error
	// ClearState restarts every session window at ts.
	ClearState(ctx context.Context, ts time.Time) error
	// SetIdentity sets the header fields of every later batch.
	SetIdentity(ctx context.Context, id Identity) error
	// Stop flushes what is buffered and ends the consumer. Events pushed afterwards are
	// rejected with ENG_1000. Calling Stop again waits for the same outcome.
	Stop(ctx context.Context) error
	// Done is closed once the consumer has exited, after Stop or a fatal failure.
	Done() <-chan struct{}
	// Err reports the fatal failure that stopped the consumer, if any.
	Err() error
	// BatchFiles lists the files written so far, in write order.
	BatchFiles() []string
}

type controlKind int

const (
	controlFlush controlKind = iota + 1
	controlClearState
	controlSetIdentity
	controlStop
)

type controlRequest struct {
	kind     controlKind
	at       time.Time
	identity Identity
	reply    chan error
}

// queueItem carries either an event or a control request.
type queueItem struct {
	event   events.Event
	control *controlRequest
}

type engine struct {
	cfg          Config
	registry     *events.Registry
	queue        *streams.BoundedQueue[queueItem]
	codec        codecs.Codec
	schema       *symbols.Schema
	batchStore   stores.BatchFileStore
	contextStore stores.DeviceContextStore
	logger       loggers.Logger
	now          func() time.Time

	// owned by the consumer goroutine
	tracker  *sessions.Tracker
	contexts *devicecontexts.Holder
	policy   *FlushPolicy
	identity *Identity
	buffer   []events.Event
	sequence int64
	lastHold heldBatch

	// lifecycle orders Start against Stop
	lifecycle     sync.Mutex
	started       bool
	stopRequested bool

	admission sync.RWMutex
	stopping  bool

	startOnce  sync.Once
	stopOnce   sync.Once
	finishOnce sync.Once
	done       chan struct{}
	exited     chan struct{}

	// stopSlot serializes Stop callers publishing the stop request
	stopSlot   chan struct{}
	stopQueued bool
	life       context.Context
	endLife    context.CancelFunc

	mu      sync.Mutex
	fatal   error
	stopErr error
	files   []string
}

// NewEngine builds an engine. contextStore may be nil, in which case the device context is
// not kept across restarts.
func NewEngine(cfg Config, registry *events.Registry, codec codecs.Codec, schema *symbols.Schema, batchStore stores.BatchFileStore, contextStore stores.DeviceContextStore, logger loggers.Logger) Engine {
	return newEngine(cfg, registry, codec, schema, batchStore, contextStore, logger)
}

func newEngine(cfg Config, registry *events.Registry, codec codecs.Codec, schema *symbols.Schema, batchStore stores.BatchFileStore, contextStore stores.DeviceContextStore, logger loggers.Logger) *engine {
	life, endLife := context.WithCancel(context.Background())
	return &engine{
		cfg:          cfg,
		registry:     registry,
		queue:        streams.NewBoundedQueue[queueItem](streamEvents, cfg.QueueCapacity),
		codec:        codec,
		schema:       schema,
		batchStore:   batchStore,
		contextStore: contextStore,
		logger:       logger.With().Str(loggers.FieldComponent, "engine").Logger(),
		now:          time.Now,
		tracker:      sessions.NewTracker(),
		contexts:     devicecontexts.NewHolder(),
		buffer:       make([]events.Event, 0, cfg.MaxEvents+1),
		done:         make(chan struct{}),
		exited:       make(chan struct{}),
		stopSlot:     make(chan struct{}, 1),
		life:         life,
		endLife:      endLife,
	}
}

// Start spawns the consumer goroutine. Flushes run on a context detached from ctx's
// cancellation so a final flush during shutdown still completes. Start after Stop does
// nothing.
func (e *engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.lifecycle.Lock()
		defer e.lifecycle.Unlock()
		if e.stopRequested {
			e.logger.Debug().Msg("engine already stopped, not starting")
			return
		}

		loopCtx := e.logger.WithContext(context.WithoutCancel(ctx))
		e.policy = NewFlushPolicy(e.cfg.MaxEvents, e.cfg.SendPeriod, e.now())
		e.restoreDeviceContext(loopCtx)

		e.started = true
		go func() {
			defer close(e.exited)
			defer e.finish()

			e.run(loopCtx)
		}()
	})
}

func (e *engine) PushEvent(ctx context.Context, ev events.Event) error {
	if err := events.Validate(ev); err != nil {
		return err
	}
	switch ev.Kind() {
	case events.KindEndOfFile, events.KindStop:
		return errReservedKind(ev.Kind())
	}
	return e.enqueue(ctx, queueItem{event: ev})
}

func (e *engine) Flush(ctx context.Context) error {
	return e.request(ctx, &controlRequest{kind: controlFlush})
}

func (e *engine) ClearState(ctx context.Context, ts time.Time) error {
	return e.request(ctx, &controlRequest{kind: controlClearState, at: ts})
}

func (e *engine) SetIdentity(ctx context.Context, id Identity) error {
	if err := id.validate(); err != nil {
		return err
	}
	return e.request(ctx, &controlRequest{kind: controlSetIdentity, identity: id.clone()})
}

func (e *engine) Stop(ctx context.Context) error {
	e.stopOnce.Do(func() {
		e.lifecycle.Lock()
		e.stopRequested = true
		e.lifecycle.Unlock()

		// waits for pushes already past the admission check to land in the queue
		e.admission.Lock()
		e.stopping = true
		e.admission.Unlock()
	})

	e.lifecycle.Lock()
	started := e.started
	e.lifecycle.Unlock()
	if !started {
		e.finish()
		return nil
	}

	if err := e.queueStop(ctx); err != nil {
		return err
	}
	select {
	case <-e.exited:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fatal != nil {
		return e.fatal
	}
	return e.stopErr
}

// queueStop publishes the stop request unless an earlier call already did. A call whose ctx
// ends while the queue is full leaves the request for the next Stop.
func (e *engine) queueStop(ctx context.Context) error {
	select {
	case e.stopSlot <- struct{}{}:
	case <-e.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.stopSlot }()

	if e.stopQueued {
		return nil
	}
	err := e.publish(ctx, queueItem{control: &controlRequest{kind: controlStop, reply: make(chan error, 1)}})
	switch {
	case err == nil:
		e.stopQueued = true
		return nil
	case e.life.Err() != nil:
		// the consumer already exited
		return nil
	default:
		e.logger.Warn().Err(err).Msg("failed to enqueue stop request")
		return err
	}
}

func (e *engine) Done() <-chan struct{} { return e.done }

func (e *engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fatal
}

func (e *engine) BatchFiles() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.files...)
}

func (e *engine) enqueue(ctx context.Context, item queueItem) error {
	e.admission.RLock()
	defer e.admission.RUnlock()

	if e.stopping || e.life.Err() != nil {
		return errEngineStopped(e.Err())
	}
	return e.publish(ctx, item)
}

// publish waits for room in the queue until ctx ends or the consumer exits.
func (e *engine) publish(ctx context.Context, item queueItem) error {
	pubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	release := context.AfterFunc(e.life, cancel)
	defer release()

	if err := e.queue.Publish(pubCtx, item); err != nil {
		if e.life.Err() != nil {
			return errEngineStopped(e.Err())
		}
		return err
	}
	return nil
}

func (e *engine) request(ctx context.Context, req *controlRequest) error {
	req.reply = make(chan error, 1)
	if err := e.enqueue(ctx, queueItem{control: req}); err != nil {
		return err
	}
	select {
	case err := <-req.reply:
		return err
	case <-e.done:
		select {
		case err := <-req.reply:
			return err
		default:
		}
		return errEngineStopped(e.Err())
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *engine) finish() {
	e.finishOnce.Do(func() {
		e.endLife()
		close(e.done)
	})
}

func (e *engine) run(ctx context.Context) {
	logger := loggers.Ctx(ctx)
	logger.Info().
		Int("max_events", e.cfg.MaxEvents).
		Dur("send_period", e.cfg.SendPeriod).
		Int("queue_capacity", e.queue.Cap()).
		Msg("engine started")

	for {
		item, ok := e.queue.Receive(e.cfg.PollInterval)
		if exit := e.step(ctx, item, ok); exit {
			logger.Info().Int64("batches", e.sequence).Msg("engine stopped")
			return
		}
	}
}

// step handles one dequeued item, or a poll timeout when ok is false. It reports whether the
// consumer should exit.
func (e *engine) step(ctx context.Context, item queueItem, ok bool) (exit bool) {
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("engine panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}
			e.fail(ctx, svcerrors.NewInternalErrorPanic(panicErr), "panic")
			exit = true
		}
	}()

	switch {
	case !ok:
		e.maybeFlush(ctx)
	case item.control != nil:
		exit = e.handleControl(ctx, item.control)
	default:
		e.process(ctx, item.event)
	}
	return exit || e.Err() != nil
}

func (e *engine) handleControl(ctx context.Context, req *controlRequest) bool {
	switch req.kind {
	case controlFlush:
		req.reply <- nilIfNone(e.flush(ctx, reasonForced))
	case controlClearState:
		e.tracker.Reset(req.at)
		loggers.Ctx(ctx).Debug().Time("at", req.at).Msg("session state cleared")
		req.reply <- nil
	case controlSetIdentity:
		id := req.identity
		e.identity = &id
		req.reply <- nil
	case controlStop:
		err := e.flush(ctx, reasonStop)
		if err != nil && !err.IsInternalError() {
			loggers.Ctx(ctx).Warn().
				Str(loggers.FieldErrorCode, err.Code).
				Int(loggers.FieldEventCount, len(e.buffer)).
				Msg("dropping held events on stop")
			e.buffer = e.buffer[:0]
		}
		e.mu.Lock()
		e.stopErr = nilIfNone(err)
		e.mu.Unlock()
		req.reply <- nilIfNone(err)
		return true
	}
	return false
}

// process derives session state for ev, stamps it and appends it to the buffer. Device
// contexts replace the held snapshot instead of being buffered.
func (e *engine) process(ctx context.Context, ev events.Event) {
	metricEventsReceivedTotal.WithLabelValues(ev.Kind().String()).Inc()
	header := ev.Header()

	switch v := ev.(type) {
	case *events.DeviceContext:
		e.tracker.Stamp(header)
		id := e.contexts.Update(v)
		loggers.Ctx(ctx).Debug().Int64("device_context_id", id).Msg("device context updated")
		e.persistDeviceContext(ctx, v)
		return
	case *events.PageView:
		v.SetPreviousPage(e.tracker.OnPageChange(header.Timestamp, v.Name))
	case *events.PowerStatus:
		e.tracker.OnPowerOrDisplayEvent(header.Timestamp, v.Status == events.PowerOn)
	case *events.VideoOutput:
		e.tracker.OnPowerOrDisplayEvent(header.Timestamp, false)
	case *events.ApplicationLaunch:
		e.tracker.OnApplicationLaunch(header.Timestamp, v.AppName)
	case events.PageStamped:
		v.SetPage(e.tracker.LastPage())
	}

	e.tracker.Stamp(header)
	if c, ok := ev.(events.Correlated); ok {
		c.SetTrackID(correlations.Compute(c.CorrelationTitle(), header.AppSession))
	}

	e.buffer = append(e.buffer, ev)
	e.maybeFlush(ctx)
}

func (e *engine) maybeFlush(ctx context.Context) {
	reason := e.policy.Reason(len(e.buffer), e.now())
	if reason == "" {
		return
	}
	_ = e.flush(ctx, reason)
}

// flush writes the buffer as one batch: the re-stamped device context, the buffered events
// and an end-of-file marker. Without an identity or a device context the batch is held and a
// conflict error is returned. Encode and write failures are fatal.
func (e *engine) flush(ctx context.Context, reason string) *svcerrors.ServiceError {
	held := len(e.buffer)
	if held == 0 {
		return nil
	}
	logger := loggers.Ctx(ctx)

	if e.identity == nil {
		return e.hold(ctx, reason, errIdentityNotSet(held))
	}
	first := e.buffer[0].Header()
	snapshot, ok := e.contexts.SnapshotForBatch(first)
	if !ok {
		return e.hold(ctx, reason, errNoDeviceContext(held))
	}

	flushedAt := e.now()
	batchLogger := logger.With().
		Str(loggers.FieldBatchID, ulid.NewULID()).
		Str(loggers.FieldFlushReason, reason).
		Int(loggers.FieldEventCount, held).
		Logger()
	ctx = batchLogger.WithContext(ctx)

	contextID := e.contexts.ID()
	batch := make([]models.FieldMap, 0, held+2)
	batch = append(batch, snapshot.Pack())
	for _, ev := range e.buffer {
		ev.Header().DeviceContextID = contextID
		batch = append(batch, ev.Pack())
	}
	last := e.buffer[held-1].Header().Timestamp
	batch = append(batch, events.NewEndOfFile(last, 0).Pack())

	e.sequence++
	doc := e.identity.packHeader(flushedAt, e.sequence, batch)

	data, err := e.codec.Encode(doc, e.schema)
	if err != nil {
		svcErr := errInternalEncodeFailed(err)
		e.fail(ctx, svcErr, reason)
		return svcErr
	}
	filename := stores.BatchFilename(flushedAt, e.identity.ClientID)
	if err := e.batchStore.Put(ctx, filename, data); err != nil {
		svcErr := errInternalWriteFailed(err)
		e.fail(ctx, svcErr, reason)
		return svcErr
	}

	e.mu.Lock()
	e.files = append(e.files, filename)
	e.mu.Unlock()

	e.buffer = make([]events.Event, 0, e.cfg.MaxEvents+1)
	e.policy.Advance(flushedAt)
	e.lastHold = heldBatch{}

	metricBatchesFlushedTotal.WithLabelValues(reason, metrics.ValueNoError).Inc()
	metricBatchSizeEvents.WithLabelValues(reason).Observe(float64(held))
	metricFlushDurationSeconds.WithLabelValues(reason).Observe(e.now().Sub(flushedAt).Seconds())
	batchLogger.Info().
		Str(loggers.FieldFilename, filename).
		Int("bytes", len(data)).
		Time("next_deadline", e.policy.Deadline()).
		Msg("batch written")
	return nil
}

// heldBatch identifies an automatic hold: the deadline in force and the reason code.
type heldBatch struct {
	deadline time.Time
	code     string
}

// hold reports a batch that cannot be written yet. Size and period holds are noted once per
// deadline and code; forced and stop flushes are always reported.
func (e *engine) hold(ctx context.Context, reason string, err *svcerrors.ServiceError) *svcerrors.ServiceError {
	if reason == reasonSize || reason == reasonPeriod {
		current := heldBatch{deadline: e.policy.Deadline(), code: err.Code}
		if e.lastHold == current {
			return err
		}
		e.lastHold = current
	}
	metricBatchesFlushedTotal.WithLabelValues(reason, err.Code).Inc()
	loggers.Ctx(ctx).Warn().
		Str(loggers.FieldErrorCode, err.Code).
		Str(loggers.FieldFlushReason, reason).
		Msg(err.Message)
	return err
}

// fail records a fatal failure. The batch in progress is dropped and the consumer exits.
func (e *engine) fail(ctx context.Context, err *svcerrors.ServiceError, reason string) {
	metricBatchesFlushedTotal.WithLabelValues(reason, err.Code).Inc()
	loggers.Ctx(ctx).Error().
		Err(err.Cause).
		Str(loggers.FieldErrorCode, err.Code).
		Int(loggers.FieldEventCount, len(e.buffer)).
		Msg("engine stopping after fatal failure")

	e.buffer = nil
	e.mu.Lock()
	if e.fatal == nil {
		e.fatal = err
	}
	e.mu.Unlock()
}

func (e *engine) persistDeviceContext(ctx context.Context, ev *events.DeviceContext) {
	if e.contextStore == nil {
		return
	}
	if err := e.contextStore.Save(ctx, ev.Pack()); err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Msg("failed to persist device context")
	}
}

func (e *engine) restoreDeviceContext(ctx context.Context) {
	if e.contextStore == nil {
		return
	}
	logger := loggers.Ctx(ctx)
	packed, err := e.contextStore.Load(ctx)
	if err != nil {
		if errors.Is(err, stores.ErrDeviceContextNotFound) {
			logger.Debug().Msg("no stored device context")
			return
		}
		logger.Warn().Err(err).Msg("failed to load stored device context")
		return
	}
	ev, err := e.registry.Decode(packed)
	if err != nil {
		logger.Warn().Err(err).Msg("stored device context is invalid")
		return
	}
	dc, ok := ev.(*events.DeviceContext)
	if !ok {
		logger.Warn().Str(loggers.FieldEventKind, ev.Kind().String()).Msg("stored device context has the wrong kind")
		return
	}
	id := e.contexts.Update(dc)
	logger.Info().Int64("device_context_id", id).Msg("device context restored")
}

// nilIfNone keeps a nil *ServiceError from becoming a non-nil error interface.
func nilIfNone(err *svcerrors.ServiceError) error {
	if err == nil {
		return nil
	}
	return err
}
