package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/astrape/storefront/internal/api/metrics"
	"github.com/astrape/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes cart activity events to a fixed set of workers using
// consistent hashing on the user id, guaranteeing per-user event ordering in
// the audit trail.
type Dispatcher struct {
	workers []chan ports.CartActivityInput
	service ports.ActivityService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CartActivityInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CartActivityInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its user id. The call
// is non-blocking up to channelBuffer capacity; when the worker's buffer is
// full the event is dropped rather than stalling a cart mutation.
func (d *Dispatcher) Enqueue(event ports.CartActivityInput) {
	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("user_id", event.UserID).Str("action", event.Action).Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CartActivityInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.service.Process(ctx, event); err != nil {
				metrics.ActivityErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("user_id", event.UserID).
					Int("worker_id", id).
					Msg("activity processing failed")
			}
		}
	}
}
