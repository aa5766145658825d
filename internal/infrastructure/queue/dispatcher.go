package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/finanzapp/finance-api/internal/api/metrics"
	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher delivers audit records to an ActivityStore off the request path.
// Records are sharded by actor so each actor's history is written in order.
type Dispatcher struct {
	workers []chan domain.Activity
	store   ports.ActivityStore
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store ports.ActivityStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Activity, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Activity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and
// return once ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues a without blocking. When the target worker is saturated the
// record is dropped and logged rather than stalling the caller.
func (d *Dispatcher) Record(a domain.Activity) {
	idx := d.shardIndex(a)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(a.Kind)).Int("worker_id", idx).Msg("activity queue full, record dropped")
	}
}

// shardIndex maps the record's actor deterministically to a worker index.
func (d *Dispatcher) shardIndex(a domain.Activity) int {
	key := a.Email
	if key == "" {
		key = string(a.Kind)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan domain.Activity) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case a := <-ch:
			d.insert(context.WithoutCancel(ctx), id, a)
		}
	}
}

// drain flushes whatever is still buffered after shutdown was requested.
func (d *Dispatcher) drain(id int, ch chan domain.Activity) {
	for {
		select {
		case a := <-ch:
			d.insert(context.Background(), id, a)
		default:
			return
		}
	}
}

func (d *Dispatcher) insert(ctx context.Context, id int, a domain.Activity) {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(d.workers[id])))
	if err := d.store.Insert(ctx, &a); err != nil {
		d.log.Error().Err(err).
			Str("kind", string(a.Kind)).
			Int("worker_id", id).
			Msg("activity insert failed")
	}
}
