package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/config"
	"github.com/iohusni/garaadsom-book-shop/internal/logger"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

// SchedulerJob runs the periodic book lifecycle sweeps.
type SchedulerJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SchedulerJob) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}

// ProvideSchedulerJob provides the periodic book lifecycle job. It sweeps
// overdue active books on the close interval and considers auto-opening
// the next weekly book on the generate interval.
func ProvideSchedulerJob(i do.Injector) (*SchedulerJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	scheduler := do.MustInvoke[*service.SchedulerService](i)
	log := do.MustInvoke[*logger.Logger](i)

	// The system user backs scheduler audit entries.
	_ = do.MustInvoke[*Bootstrap](i)

	if !cfg.Scheduler.Enabled {
		log.Info("Book lifecycle scheduler disabled by configuration")
		return &SchedulerJob{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		closeTicker := time.NewTicker(cfg.Scheduler.CloseInterval)
		defer closeTicker.Stop()
		generateTicker := time.NewTicker(cfg.Scheduler.GenerateInterval)
		defer generateTicker.Stop()

		// Initial sweep on startup catches books that went overdue while
		// the server was down.
		runCloseSweep(ctx, scheduler, log)

		for {
			select {
			case <-closeTicker.C:
				runCloseSweep(ctx, scheduler, log)
			case <-generateTicker.C:
				book, err := scheduler.GenerateNextBook(ctx)
				if err != nil {
					log.Warn("Book generation failed", "error", err)
				} else if book != nil {
					log.Info("Next weekly book opened", "book_id", book.ID, "title", book.Title)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Book lifecycle scheduler started",
		"close_interval", cfg.Scheduler.CloseInterval,
		"generate_interval", cfg.Scheduler.GenerateInterval,
	)

	return &SchedulerJob{cancel: cancel}, nil
}

func runCloseSweep(ctx context.Context, scheduler *service.SchedulerService, log *logger.Logger) {
	count, err := scheduler.CloseExpiredBooks(ctx)
	if err != nil {
		log.Warn("Overdue book sweep failed", "error", err)
	} else if count > 0 {
		log.Info("Overdue books closed", "count", count)
	}
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := sessionService.CleanupExpired(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := sessionService.CleanupExpired(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}
