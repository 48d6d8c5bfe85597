package queue

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the recovery sweeper on a cron schedule.
type Scheduler struct {
	engine *cron.Cron
	log    zerolog.Logger
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		engine: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:    log,
	}
}

// Register adds job under spec, e.g. "@every 1m".
func (s *Scheduler) Register(spec string, job cron.Job) error {
	_, err := s.engine.AddJob(spec, job)
	return err
}

func (s *Scheduler) Start() {
	s.log.Info().Msg("scheduler started")
	s.engine.Start()
}

// Stop halts scheduling and waits for a running job to return.
func (s *Scheduler) Stop() {
	<-s.engine.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}
