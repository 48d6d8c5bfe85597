package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Finalizer re-drives a campaign left pending by an interrupted create.
type Finalizer interface {
	FinalizePending(ctx context.Context, campaignID string) error
}

// Dispatcher routes pending campaign ids to a fixed set of workers using
// consistent hashing on the id, so one campaign is never finalized by two
// workers at once.
type Dispatcher struct {
	workers []chan string
	service Finalizer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service Finalizer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// TryEnqueue hands campaignID to its worker without blocking. It reports
// false when that worker's buffer is full; the next sweep picks it up again.
func (d *Dispatcher) TryEnqueue(campaignID string) bool {
	idx := d.shardIndex(campaignID)
	select {
	case d.workers[idx] <- campaignID:
		metrics.RecoveryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		return false
	}
}

// shardIndex maps a campaign id deterministically to a worker index.
func (d *Dispatcher) shardIndex(campaignID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(campaignID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	depth := metrics.RecoveryQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case campaignID, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.service.FinalizePending(ctx, campaignID); err != nil {
				d.log.Error().Err(err).
					Str("campaign_id", campaignID).
					Int("worker_id", id).
					Msg("pending campaign recovery failed")
			}
		}
	}
}
