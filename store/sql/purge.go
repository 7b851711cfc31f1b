package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-crm-connect/core"
)

// PurgeJobID identifies the periodic cleanup of expired kv rows.
const PurgeJobID = "crmconnect.kv.purge"

const defaultPurgeInterval = 15 * time.Minute

// PurgeScheduler enqueues purge jobs on a fixed interval. It owns no queue
// infrastructure; it only speaks the core.JobEnqueuer contract so the same
// scheduler works against any backing queue.
type PurgeScheduler struct {
	enqueuer core.JobEnqueuer
	interval time.Duration
	logger   core.Logger
	now      func() time.Time
}

func NewPurgeScheduler(enqueuer core.JobEnqueuer, interval time.Duration, logger core.Logger) *PurgeScheduler {
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	return &PurgeScheduler{
		enqueuer: enqueuer,
		interval: interval,
		logger:   logger,
	}
}

// EnqueueOnce pushes a single purge job. The idempotency key buckets requests
// by interval so duplicate schedulers collapse to one job per window.
func (s *PurgeScheduler) EnqueueOnce(ctx context.Context) error {
	if s == nil || s.enqueuer == nil {
		return fmt.Errorf("sqlstore: purge enqueuer is not configured")
	}
	window := s.timeNow().Truncate(s.interval).Unix()
	return s.enqueuer.Enqueue(ctx, &core.JobExecutionMessage{
		JobID:          PurgeJobID,
		IdempotencyKey: PurgeJobID + ":" + strconv.FormatInt(window, 10),
		DedupPolicy:    "drop",
	})
}

// Run enqueues a purge job every interval until the context is done.
func (s *PurgeScheduler) Run(ctx context.Context) error {
	if s == nil || s.enqueuer == nil {
		return fmt.Errorf("sqlstore: purge enqueuer is not configured")
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.EnqueueOnce(ctx); err != nil {
				if s.logger != nil {
					s.logger.Error("enqueue purge job", "error", err)
				}
			}
		}
	}
}

func (s *PurgeScheduler) timeNow() time.Time {
	if s != nil && s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// PurgeWorker drains purge deliveries from a queue and runs the actual
// delete. Unknown job ids are nacked back to the queue for whoever owns them.
type PurgeWorker struct {
	dequeuer core.JobDequeuer
	store    *KVStore
	logger   core.Logger
}

func NewPurgeWorker(dequeuer core.JobDequeuer, store *KVStore, logger core.Logger) *PurgeWorker {
	return &PurgeWorker{
		dequeuer: dequeuer,
		store:    store,
		logger:   logger,
	}
}

// ProcessOne blocks for the next delivery and handles it. It returns the
// number of rows purged when the delivery was a purge job.
func (w *PurgeWorker) ProcessOne(ctx context.Context) (int64, error) {
	if w == nil || w.dequeuer == nil || w.store == nil {
		return 0, fmt.Errorf("sqlstore: purge worker is not configured")
	}
	delivery, err := w.dequeuer.Dequeue(ctx)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: dequeue purge job: %w", err)
	}
	return w.handle(ctx, delivery)
}

// Run processes deliveries until the context is done.
func (w *PurgeWorker) Run(ctx context.Context) error {
	if w == nil || w.dequeuer == nil || w.store == nil {
		return fmt.Errorf("sqlstore: purge worker is not configured")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.ProcessOne(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if w.logger != nil {
				w.logger.Error("process purge delivery", "error", err)
			}
		}
	}
}

func (w *PurgeWorker) handle(ctx context.Context, delivery core.JobDelivery) (int64, error) {
	if delivery == nil {
		return 0, fmt.Errorf("sqlstore: nil purge delivery")
	}
	msg := delivery.Message()
	if msg == nil || msg.JobID != PurgeJobID {
		jobID := ""
		if msg != nil {
			jobID = msg.JobID
		}
		_ = delivery.Nack(ctx, core.JobNackOptions{
			Requeue: true,
			Reason:  "not a kv purge job",
		})
		return 0, fmt.Errorf("sqlstore: unexpected job id %q", jobID)
	}

	purged, err := w.store.PurgeExpired(ctx)
	if err != nil {
		_ = delivery.Nack(ctx, core.JobNackOptions{
			Requeue: true,
			Delay:   time.Minute,
			Reason:  err.Error(),
		})
		return 0, fmt.Errorf("sqlstore: purge expired rows: %w", err)
	}
	if err := delivery.Ack(ctx); err != nil {
		return purged, fmt.Errorf("sqlstore: ack purge delivery: %w", err)
	}
	if w.logger != nil && purged > 0 {
		w.logger.Debug("purged expired kv rows", "count", purged)
	}
	return purged, nil
}
