package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

const (
	defaultGrace = 2 * time.Minute
	sweepBatch   = 100
)

// PendingSource lists campaigns still pending after a cutoff.
type PendingSource interface {
	FindPending(ctx context.Context, olderThan time.Time, limit int64) ([]*domain.Campaign, error)
}

// Sweeper finds campaigns stuck in pending longer than grace and hands them
// to the Dispatcher. It implements cron.Job.
type Sweeper struct {
	ctx        context.Context
	source     PendingSource
	dispatcher *Dispatcher
	grace      time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewSweeper builds a Sweeper whose runs are bound to ctx.
func NewSweeper(ctx context.Context, source PendingSource, dispatcher *Dispatcher, grace time.Duration, log zerolog.Logger) *Sweeper {
	if grace <= 0 {
		grace = defaultGrace
	}
	return &Sweeper{
		ctx:        ctx,
		source:     source,
		dispatcher: dispatcher,
		grace:      grace,
		now:        time.Now,
		log:        log,
	}
}

func (s *Sweeper) Run() {
	if s.ctx.Err() != nil {
		return
	}
	if _, err := s.Sweep(s.ctx); err != nil {
		s.log.Error().Err(err).Msg("pending campaign sweep failed")
	}
}

// Sweep enqueues one batch of stale pending campaigns and returns how many
// were handed off.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	pending, err := s.source.FindPending(ctx, s.now().Add(-s.grace), sweepBatch)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, c := range pending {
		if s.dispatcher.TryEnqueue(c.ID) {
			queued++
		}
	}
	if len(pending) > 0 {
		s.log.Info().Int("pending", len(pending)).Int("queued", queued).Msg("pending campaigns swept")
	}
	return queued, nil
}
