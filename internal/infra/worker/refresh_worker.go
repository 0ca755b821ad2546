package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

// Refresher is a session repository the worker can refetch.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Source lists the repositories of the live sessions. Prune drops the ones
// whose session expired or was removed.
type Source interface {
	All() []*usecase.LeadRepository
	Prune(ctx context.Context) []string
}

// RefreshWorker periodically refetches the lead list of every open session so
// a stale view recovers without a manual retry.
type RefreshWorker struct {
	cron     *cron.Cron
	schedule string
	prune    func(ctx context.Context) []string
	list     func() []Refresher
	timeout  time.Duration
	log      *zap.Logger
}

func NewRefreshWorker(src Source, schedule string, log *zap.Logger) *RefreshWorker {
	return newRefreshWorker(src.Prune, func() []Refresher {
		repos := src.All()
		out := make([]Refresher, len(repos))
		for i, r := range repos {
			out[i] = r
		}
		return out
	}, schedule, log)
}

func newRefreshWorker(prune func(ctx context.Context) []string, list func() []Refresher, schedule string, log *zap.Logger) *RefreshWorker {
	return &RefreshWorker{
		cron:     cron.New(),
		schedule: schedule,
		prune:    prune,
		list:     list,
		timeout:  2 * time.Minute,
		log:      log,
	}
}

// Start registers the job and starts the scheduler in its own goroutine.
func (w *RefreshWorker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.RunOnce); err != nil {
		return fmt.Errorf("REFRESH_SCHEDULE inválido %q: %w", w.schedule, err)
	}
	w.cron.Start()
	w.log.Info("refresh worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop waits for a running refresh to finish.
func (w *RefreshWorker) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("refresh worker stopped")
}

// RunOnce closes expired sessions, then refetches the remaining ones one
// after another.
func (w *RefreshWorker) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if gone := w.prune(ctx); len(gone) > 0 {
		w.log.Debug("expired sessions skipped", zap.Int("sessions", len(gone)))
	}
	repos := w.list()
	if len(repos) == 0 {
		return
	}

	failed := 0
	for _, r := range repos {
		if err := r.Refresh(ctx); err != nil {
			failed++
		}
	}
	w.log.Debug("scheduled refresh done", zap.Int("sessions", len(repos)), zap.Int("failed", failed))
}
