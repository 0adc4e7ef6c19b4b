package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whatsapp-chat-analyzer/internal/cache"
	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/pkg/config"
)

// Mock implementation for ChatProcessor
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) AnalyzeChat(ctx context.Context, filePath string, platform domain.Platform) (*domain.StatisticsReport, error) {
	args := m.Called(ctx, filePath, platform)
	if res := args.Get(0); res != nil {
		return res.(*domain.StatisticsReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func buildMultipart(t *testing.T, content string, platform string) (*bytes.Buffer, string) {
	t.Helper()
	var b bytes.Buffer
	writer := multipart.NewWriter(&b)
	fw, err := writer.CreateFormFile("file", "chat.txt")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	if platform != "" {
		require.NoError(t, writer.WriteField("platform", platform))
	}
	require.NoError(t, writer.Close())
	return &b, writer.FormDataContentType()
}

func waitForStatus(t *testing.T, srv *Server, taskID string, status TaskStatus) *Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		task, err := srv.taskStore.GetTask(taskID)
		require.NoError(t, err)
		if task.Status == status {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("задача %s не достигла статуса %s", taskID, status)
	return nil
}

func TestServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.Server{Host: "localhost", Port: 8080, MaxUploadSizeMB: 10},
	}
	mockProc := new(mockProcessor)
	taskStore := NewTaskStore()
	cacheStore := cache.NewCacheStore()

	srv, err := New(cfg, mockProc, taskStore, cacheStore)
	require.NoError(t, err)

	t.Run("Health Check", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		err := json.NewDecoder(rr.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp["status"])
	})

	t.Run("Analyze Endpoint", func(t *testing.T) {
		report := &domain.StatisticsReport{TotalMessages: 3}
		mockProc.On("AnalyzeChat", mock.Anything, mock.AnythingOfType("string"), domain.PlatformAndroid).
			Return(report, nil).Once()

		body, contentType := buildMultipart(t, "12/1/23, 9:00 AM - Alice: Hi", "android")
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		taskID := resp["task_id"]
		require.NotEmpty(t, taskID)

		task := waitForStatus(t, srv, taskID, TaskStatusCompleted)
		assert.Equal(t, report, task.Result)
		mockProc.AssertExpectations(t)
	})

	t.Run("Analyze Endpoint Rejects Unknown Platform", func(t *testing.T) {
		body, contentType := buildMultipart(t, "12/1/23, 9:00 AM - Alice: Hi", "blackberry")
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Analyze Endpoint Without File", func(t *testing.T) {
		var b bytes.Buffer
		writer := multipart.NewWriter(&b)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/api/v1/analyze", &b)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failed Analysis Marks Task Failed", func(t *testing.T) {
		mockProc.On("AnalyzeChat", mock.Anything, mock.AnythingOfType("string"), domain.PlatformAuto).
			Return(nil, domain.ErrFormatUnrecognized).Once()

		body, contentType := buildMultipart(t, "не экспорт", "auto")
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

		task := waitForStatus(t, srv, resp["task_id"], TaskStatusFailed)
		assert.NotEmpty(t, task.ErrorMessage)
	})

	t.Run("Task Status Endpoint", func(t *testing.T) {
		taskStore.CreateTask("status-task", time.Minute)

		req := httptest.NewRequest("GET", "/api/v1/tasks/status-task", nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "status-task", resp["task_id"])
		assert.Equal(t, string(TaskStatusPending), resp["status"])
	})

	t.Run("Task Status Not Found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/tasks/unknown-task", nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Task Result Endpoint", func(t *testing.T) {
		taskStore.CreateTask("result-task", time.Minute)
		report := &domain.StatisticsReport{TotalMessages: 9, TotalParticipants: 2}
		require.NoError(t, taskStore.UpdateTaskResult("result-task", report))

		req := httptest.NewRequest("GET", "/api/v1/tasks/result-task/result", nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var decoded domain.StatisticsReport
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&decoded))
		assert.Equal(t, 9, decoded.TotalMessages)
	})

	t.Run("Task Result Before Completion", func(t *testing.T) {
		taskStore.CreateTask("pending-task", time.Minute)

		req := httptest.NewRequest("GET", "/api/v1/tasks/pending-task/result", nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Analyze By Hash Cache Hit", func(t *testing.T) {
		report := &domain.StatisticsReport{TotalMessages: 4}
		cacheStore.Put("known-hash", report, time.Minute)

		payload := bytes.NewBufferString(`{"hash": "known-hash"}`)
		req := httptest.NewRequest("POST", "/api/v1/analyze-by-hash", payload)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

		task := waitForStatus(t, srv, resp["task_id"], TaskStatusCompleted)
		assert.Equal(t, report, task.Result)
	})

	t.Run("Analyze By Hash Cache Miss", func(t *testing.T) {
		payload := bytes.NewBufferString(`{"hash": "unknown-hash"}`)
		req := httptest.NewRequest("POST", "/api/v1/analyze-by-hash", payload)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

		task := waitForStatus(t, srv, resp["task_id"], TaskStatusFailed)
		assert.NotEmpty(t, task.ErrorMessage)
	})

	t.Run("Analyze By Hash Without Hash", func(t *testing.T) {
		payload := bytes.NewBufferString(`{}`)
		req := httptest.NewRequest("POST", "/api/v1/analyze-by-hash", payload)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
