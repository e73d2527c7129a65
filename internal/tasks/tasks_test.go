package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mboiraai/rork-automarketconnect/internal/config"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
	"github.com/Mboiraai/rork-automarketconnect/internal/tasks"
)

func TestHandlePersistSliceTask_Success(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := tasks.NewTaskProcessor(&config.Config{}, kv, nil, nil, slog.Default())

	payloadBytes, _ := json.Marshal(tasks.PersistTaskPayload{
		Key:   storage.KeyFavorites,
		Value: json.RawMessage(`["car-1","part-2"]`),
	})
	task := asynq.NewTask(tasks.TypePersistSlice, payloadBytes)

	err = p.HandlePersistSliceTask(context.Background(), task)
	require.NoError(t, err)

	stored, err := kv.Get(context.Background(), storage.KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `["car-1","part-2"]`, string(stored))
}

func TestHandlePersistSliceTask_MalformedPayloadSkipsRetry(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := tasks.NewTaskProcessor(&config.Config{}, kv, nil, nil, slog.Default())

	task := asynq.NewTask(tasks.TypePersistSlice, []byte("{not json"))
	err = p.HandlePersistSliceTask(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleImageProcessTask_MalformedPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewTaskProcessor(&config.Config{}, nil, nil, nil, slog.Default())

	task := asynq.NewTask(tasks.TypeImageProcess, []byte("nope"))
	err := p.HandleImageProcessTask(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
