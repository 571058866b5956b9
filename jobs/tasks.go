// Package jobs defines background task types and the Asynq worker scaffolding.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTokenSweep removes expired auth token records from the database.
	TaskTokenSweep = "auth:token_sweep"
)

// TokenSweepPayload bounds a single sweep run.
type TokenSweepPayload struct {
	BatchSize int `json:"batch_size"`
}

// NewTokenSweepTask constructs an Asynq task for the token sweeper.
func NewTokenSweepTask(batchSize int) (*asynq.Task, error) {
	data, err := json.Marshal(TokenSweepPayload{BatchSize: batchSize})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTokenSweep, data), nil
}
