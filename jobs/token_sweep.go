package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/aegis-iam/aegis/internal/jobs"
)

const defaultSweepBatch = 1000

// TokenSweepJob deletes expired auth token audit rows. Redis drops the live
// tokens on its own via TTL; this keeps the database trail bounded.
type TokenSweepJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewTokenSweepJob initialises the sweep handler.
func NewTokenSweepJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *TokenSweepJob {
	return &TokenSweepJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the sweep.
func (j *TokenSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("token sweep: handler not configured")
	}
	var payload TokenSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.BatchSize <= 0 {
		payload.BatchSize = defaultSweepBatch
	}

	tracker := j.metrics().Track(TaskTokenSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := j.now()
	tag, err := j.Pool.Exec(ctx, `
		DELETE FROM auth_tokens
		WHERE token IN (
			SELECT token FROM auth_tokens
			WHERE expires_at < $1
			LIMIT $2
		)`, now, payload.BatchSize)
	if err != nil {
		resultErr = err
		j.logger().Error("token sweep failed", slog.Any("error", err))
		return resultErr
	}

	j.metrics().AddSwept(tag.RowsAffected())
	j.logger().Info("token sweep completed",
		slog.Int64("removed", tag.RowsAffected()),
		slog.Time("cutoff", now),
	)
	return nil
}

func (j *TokenSweepJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *TokenSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *TokenSweepJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
