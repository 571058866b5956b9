package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTokenSweepTask(t *testing.T) {
	task, err := NewTokenSweepTask(250)
	require.NoError(t, err)
	require.Equal(t, TaskTokenSweep, task.Type())

	var payload TokenSweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, 250, payload.BatchSize)
}

func TestTokenSweepRequiresPool(t *testing.T) {
	task, err := NewTokenSweepTask(0)
	require.NoError(t, err)

	job := &TokenSweepJob{}
	require.Error(t, job.Handle(context.Background(), task))
}
