package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-chat-analyzer/internal/domain"
)

func TestTaskStore(t *testing.T) {
	t.Run("NewTaskStore", func(t *testing.T) {
		ts := NewTaskStore()
		assert.NotNil(t, ts)
		assert.NotNil(t, ts.tasks)
	})

	t.Run("CreateAndGetTask", func(t *testing.T) {
		ts := NewTaskStore()
		taskID := "task-1"
		ttl := 5 * time.Minute

		ts.CreateTask(taskID, ttl)

		task, err := ts.GetTask(taskID)
		require.NoError(t, err)
		require.NotNil(t, task)

		assert.Equal(t, taskID, task.ID)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.WithinDuration(t, time.Now().Add(ttl), task.ExpiresAt, time.Second)
	})

	t.Run("GetNonExistentTask", func(t *testing.T) {
		ts := NewTaskStore()
		_, err := ts.GetTask("non-existent")
		assert.Error(t, err)
	})

	t.Run("UpdateTaskStatus", func(t *testing.T) {
		ts := NewTaskStore()
		taskID := "task-1"
		ts.CreateTask(taskID, time.Minute)

		err := ts.UpdateTaskStatus(taskID, TaskStatusProcessing)
		require.NoError(t, err)

		task, _ := ts.GetTask(taskID)
		assert.Equal(t, TaskStatusProcessing, task.Status)
	})

	t.Run("UpdateTaskStatusNonExistent", func(t *testing.T) {
		ts := NewTaskStore()
		err := ts.UpdateTaskStatus("non-existent", TaskStatusProcessing)
		assert.Error(t, err)
	})

	t.Run("UpdateTaskResult", func(t *testing.T) {
		ts := NewTaskStore()
		taskID := "task-1"
		ts.CreateTask(taskID, time.Minute)

		report := &domain.StatisticsReport{TotalMessages: 7}
		err := ts.UpdateTaskResult(taskID, report)
		require.NoError(t, err)

		task, _ := ts.GetTask(taskID)
		assert.Equal(t, TaskStatusCompleted, task.Status)
		assert.Equal(t, report, task.Result)
	})

	t.Run("UpdateTaskError", func(t *testing.T) {
		ts := NewTaskStore()
		taskID := "task-1"
		ts.CreateTask(taskID, time.Minute)

		err := ts.UpdateTaskError(taskID, "формат не распознан")
		require.NoError(t, err)

		task, _ := ts.GetTask(taskID)
		assert.Equal(t, TaskStatusFailed, task.Status)
		assert.Equal(t, "формат не распознан", task.ErrorMessage)
	})

	t.Run("CleanupExpired", func(t *testing.T) {
		ts := NewTaskStore()
		ts.CreateTask("stale", -time.Second)
		ts.CreateTask("fresh", time.Minute)

		ts.CleanupExpired()

		_, err := ts.GetTask("stale")
		assert.Error(t, err)

		_, err = ts.GetTask("fresh")
		assert.NoError(t, err)
	})
}
