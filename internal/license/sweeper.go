package license

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/rs/zerolog/log"
)

// SweepArgs are the job arguments for a pending-license expiry sweep.
type SweepArgs struct {
	TTLSeconds int `json:"ttl_seconds"`
}

// Kind returns the job kind for River
func (SweepArgs) Kind() string { return "expire_pending_licenses" }

// SweepWorker expires stale pending-payment license keys.
type SweepWorker struct {
	river.WorkerDefaults[SweepArgs]
	store *Store
}

// Work runs one expiry sweep.
func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepArgs]) error {
	ttl := time.Duration(job.Args.TTLSeconds) * time.Second
	count, err := w.store.ExpireStale(ctx, ttl)
	if err != nil {
		return err
	}

	log.Debug().
		Int64("expired", count).
		Msg("Pending license sweep complete")

	return nil
}

// Sweeper runs the periodic pending-license expiry job on a River queue.
// Purchase attempts create a fresh pending record each time, so abandoned
// checkouts accumulate; the sweeper keeps that set bounded.
type Sweeper struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
}

// NewSweeper creates a River client wired with the expiry worker and a
// periodic job that enqueues a sweep every interval.
func NewSweeper(databaseURL string, store *Store, ttl, interval time.Duration) (*Sweeper, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &SweepWorker{store: store})

	periodic := river.NewPeriodicJob(
		river.PeriodicInterval(interval),
		func() (river.JobArgs, *river.InsertOpts) {
			return SweepArgs{TTLSeconds: int(ttl.Seconds())}, nil
		},
		&river.PeriodicJobOpts{RunOnStart: true},
	)

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers:      workers,
		PeriodicJobs: []*river.PeriodicJob{periodic},
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	return &Sweeper{client: client, pool: pool}, nil
}

// Start starts the sweeper workers.
func (s *Sweeper) Start(ctx context.Context) error {
	return s.client.Start(ctx)
}

// Stop stops the sweeper workers and releases the pool.
func (s *Sweeper) Stop(ctx context.Context) error {
	err := s.client.Stop(ctx)
	s.pool.Close()
	return err
}
