package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	processTimeout = 10 * time.Second
)

// ErrStopped is returned by Enqueue once Stop has been called.
var ErrStopped = errors.New("dispatcher stopped")

// Dispatcher routes webhook status events to a fixed set of workers using
// consistent hashing on the message id, so events for one message are
// applied in arrival order.
type Dispatcher struct {
	workers []chan domain.StatusEvent
	service ports.EventService
	log     zerolog.Logger
	wg      sync.WaitGroup

	// mu guards closed; Enqueue holds it shared while sending so Stop never
	// closes a channel under a pending send.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.StatusEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StatusEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx carries values into event
// processing; workers run until Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop refuses new events, lets every worker finish what is already queued
// and waits for them. Events in the buffers were acknowledged to the provider,
// so they are applied rather than dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its message. It blocks
// while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, ev domain.StatusEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrStopped
	}

	idx := d.shardIndex(ev.MessageID)
	select {
	case d.workers[idx] <- ev:
		metrics.WebhookQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueBatch enqueues multiple events preserving per-message ordering.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, events []domain.StatusEvent) error {
	for _, ev := range events {
		if err := d.Enqueue(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// shardIndex maps a message id deterministically to a worker index.
func (d *Dispatcher) shardIndex(messageID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(messageID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StatusEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for ev := range ch {
		metrics.WebhookQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		// Processing outlives the request that enqueued the event.
		procCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), processTimeout)
		if err := d.service.Process(procCtx, ev); err != nil {
			d.log.Error().Err(err).
				Str("message_id", ev.MessageID).
				Str("status", string(ev.Status)).
				Int("worker_id", id).
				Msg("status event processing failed")
		}
		cancel()
	}
}
