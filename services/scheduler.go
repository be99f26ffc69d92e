package services

import (
	"context"
	"time"

	"game-night-service/logger"

	"github.com/go-co-op/gocron/v2"
)

// Job is a periodic background task. A non-positive Every disables it.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// StartScheduler registers jobs on a gocron scheduler and starts it. Each job
// runs in singleton mode so a slow run is never overlapped by the next one.
func StartScheduler(ctx context.Context, log *logger.Logger, jobs ...Job) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	for _, j := range jobs {
		if j.Every <= 0 {
			log.Info("⏸️ scheduled job disabled", "job", j.Name)
			continue
		}
		job := j
		_, err := sched.NewJob(
			gocron.DurationJob(job.Every),
			gocron.NewTask(func() {
				start := time.Now()
				if err := job.Run(ctx); err != nil {
					log.Error("scheduled job failed", "job", job.Name, "error", err)
					return
				}
				log.Debug("scheduled job finished", "job", job.Name, "took", time.Since(start))
			}),
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return nil, err
		}
		log.Info("⏰ scheduled job registered", "job", job.Name, "every", job.Every)
	}

	sched.Start()
	return sched, nil
}

// SweepJob wraps the stale session sweeper.
func SweepJob(sweeper *SessionSweeper, every time.Duration) Job {
	return Job{
		Name:  "stale-session-sweep",
		Every: every,
		Run: func(ctx context.Context) error {
			_, err := sweeper.Sweep(ctx)
			return err
		},
	}
}

// SnapshotJob wraps the leaderboard exporter.
func SnapshotJob(exporter *SnapshotExporter, every time.Duration) Job {
	return Job{
		Name:  "leaderboard-snapshot",
		Every: every,
		Run: func(ctx context.Context) error {
			_, err := exporter.Export(ctx)
			return err
		},
	}
}
