package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/awesome-restaurant/restaurant-api/internal/api/metrics"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// CartCleaner removes cart entries left behind by a recorded payment.
type CartCleaner interface {
	RemoveMany(ctx context.Context, email string, ids []string) (int64, error)
}

// Dispatcher retries cart deletions that did not complete during settlement.
// Jobs are sharded by payer email so one payer's cleanups run in order.
type Dispatcher struct {
	workers []chan ports.CartCleanupJob
	cleaner CartCleaner
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, cleaner CartCleaner, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CartCleanupJob, numWorkers),
		cleaner: cleaner,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CartCleanupJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a job to the worker responsible for its payer. It never blocks
// and returns false when that worker's buffer is full.
func (d *Dispatcher) Enqueue(job ports.CartCleanupJob) bool {
	idx := d.shardIndex(job.Email)
	select {
	case d.workers[idx] <- job:
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		metrics.CleanupJobsTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

// shardIndex maps a payer email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CartCleanupJob) {
	defer d.wg.Done()
	depth := metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()

			n, err := d.cleaner.RemoveMany(ctx, job.Email, job.CartItemIDs)
			if err != nil {
				metrics.CleanupJobsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("payment_id", job.PaymentID).
					Strs("cart_ids", job.CartItemIDs).
					Int("worker_id", id).
					Msg("cart cleanup failed")
				continue
			}
			metrics.CleanupJobsTotal.WithLabelValues("ok").Inc()
			d.log.Debug().
				Str("payment_id", job.PaymentID).
				Int64("deleted", n).
				Int("worker_id", id).
				Msg("cart cleanup done")
		}
	}
}
