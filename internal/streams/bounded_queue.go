package streams

import (
	"context"
	"time"

	"stb-telemetry/internal/shared/loggers"
)

// BoundedQueue is a FIFO with a fixed capacity shared by any number of producers and read by
// a single consumer. Publishing to a full queue blocks the producer.
type BoundedQueue[T any] struct {
	streamID string
	items    chan T
}

func NewBoundedQueue[T any](streamID string, capacity int) *BoundedQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedQueue[T]{
		streamID: streamID,
		items:    make(chan T, capacity),
	}
}

func (queue *BoundedQueue[T]) Len() int { return len(queue.items) }

func (queue *BoundedQueue[T]) Cap() int { return cap(queue.items) }

// Publish appends msg, waiting for room when the queue is full. A stall is logged and counted
// but is not an error; only ctx ending aborts the wait.
func (queue *BoundedQueue[T]) Publish(ctx context.Context, msg T) error {
	select {
	case queue.items <- msg:
		metricQueuePublishedTotal.WithLabelValues(queue.streamID).Inc()
		return nil
	default:
	}

	metricQueueBackpressureTotal.WithLabelValues(queue.streamID).Inc()
	loggers.Ctx(ctx).Debug().
		Str(loggers.FieldStreamID, queue.streamID).
		Int("capacity", cap(queue.items)).
		Msg("queue full, producer waiting")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case queue.items <- msg:
		metricQueuePublishedTotal.WithLabelValues(queue.streamID).Inc()
		return nil
	}
}

// Receive waits up to timeout for the next item. ok is false when the wait timed out.
func (queue *BoundedQueue[T]) Receive(timeout time.Duration) (msg T, ok bool) {
	select {
	case msg = <-queue.items:
		return msg, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg = <-queue.items:
		return msg, true
	case <-timer.C:
		return msg, false
	}
}
