package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"whatsapp-chat-analyzer/internal/cache"
	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/pkg/config"
)

// ChatProcessor определяет интерфейс для варианта использования, который анализирует чаты.
type ChatProcessor interface {
	AnalyzeChat(ctx context.Context, filePath string, platform domain.Platform) (*domain.StatisticsReport, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	processor  ChatProcessor
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor ChatProcessor, taskStore *TaskStore, cacheStore *cache.CacheStore) (*Server, error) {
	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		// Конечная точка для запуска новой задачи анализа
		r.Post("/analyze", func(w http.ResponseWriter, r *http.Request) {
			// Разбор мультипарт-формы
			maxUpload := int64(cfg.Server.MaxUploadSizeMB) << 20
			err := r.ParseMultipartForm(maxUpload)
			if err != nil {
				http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
				return
			}

			file, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
				return
			}
			defer file.Close()

			// Платформа опциональна: по умолчанию auto-определение
			platform := domain.Platform(r.FormValue("platform"))
			switch platform {
			case "", domain.PlatformAuto, domain.PlatformAndroid, domain.PlatformIOS:
				// all good
			default:
				http.Error(w, "Недопустимая платформа: ожидается auto, android или ios", http.StatusBadRequest)
				return
			}

			// Генерация уникального идентификатора задачи
			taskID := uuid.NewString()

			// Создание временного файла для хранения загруженных данных
			tempDir := os.TempDir()
			tempFilePath := filepath.Join(tempDir, fmt.Sprintf("chat_%s.txt", taskID))

			out, err := os.Create(tempFilePath)
			if err != nil {
				http.Error(w, "Не удалось создать временный файл", http.StatusInternalServerError)
				return
			}
			defer out.Close()

			size, err := io.Copy(out, file)
			if err != nil {
				http.Error(w, "Не удалось сохранить загруженный файл", http.StatusInternalServerError)
				return
			}
			slog.Info("Загружен файл экспорта чата", "task_id", taskID, "size_bytes", size)

			// Создание задачи в хранилище
			taskStore.CreateTask(taskID, config.DefaultTaskTTL)

			// Запуск анализа в горутине
			go func() {
				// Обновление статуса до "в обработке"
				taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

				// Создание контекста для задачи с таймаутом из конфигурации.
				taskCtx := context.Background()
				if cfg.Processing.TaskTimeoutSeconds > 0 {
					var cancel context.CancelFunc
					taskCtx, cancel = context.WithTimeout(context.Background(), cfg.TaskTimeout())
					defer cancel()
				}

				result, err := processor.AnalyzeChat(taskCtx, tempFilePath, platform)
				if err != nil {
					taskStore.UpdateTaskError(taskID, err.Error())
					// Очистка временного файла при ошибке
					os.Remove(tempFilePath)
					return
				}

				// Обновление задачи с результатом
				taskStore.UpdateTaskResult(taskID, result)

				// Сырой экспорт не хранится дольше, чем нужно для анализа
				os.Remove(tempFilePath)
			}()

			// Возврат идентификатора задачи
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
		})

		// Конечная точка для получения кешированного отчета по хешу содержимого
		r.Post("/analyze-by-hash", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Hash string `json:"hash"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Не удалось декодировать тело запроса", http.StatusBadRequest)
				return
			}

			if req.Hash == "" {
				http.Error(w, "Требуется хеш", http.StatusBadRequest)
				return
			}

			taskID := uuid.NewString()
			taskStore.CreateTask(taskID, config.DefaultTaskTTL)

			go func() {
				taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

				if cachedItem, found := cacheStore.Get(req.Hash); found {
					taskStore.UpdateTaskResult(taskID, cachedItem.Data)
					slog.Info("Попадание в кеш для хеша", "hash", req.Hash, "task_id", taskID)
					return
				}

				// Сырой текст не персистится, поэтому промах кеша означает,
				// что файл нужно загрузить заново через /analyze.
				taskStore.UpdateTaskError(taskID, "Отчет не найден в кеше для данного хеша")
				slog.Info("Промах кеша для хеша", "hash", req.Hash, "task_id", taskID)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
		})

		// Конечная точка для проверки статуса задачи
		r.Get("/tasks/{taskID}", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"task_id":       task.ID,
				"status":        task.Status,
				"error_message": task.ErrorMessage,
			})
		})

		// Конечная точка для получения отчета завершенной задачи
		r.Get("/tasks/{taskID}/result", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			if task.Status != TaskStatusCompleted {
				http.Error(w, "Задача не завершена", http.StatusBadRequest)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(task.Result)
		})
	})

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s := &Server{
		HTTPServer: httpServer,
		cfg:        cfg,
		taskStore:  taskStore,
		cacheStore: cacheStore,
		processor:  processor,
	}

	// Тикеры очистки просроченных задач и элементов кеша живут до завершения
	// процесса; их контекст отменяется при остановке сервера.
	ctx, cancel := context.WithCancel(context.Background())
	s.taskStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
	s.cacheStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
	httpServer.RegisterOnShutdown(cancel)

	return s, nil
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Handler возвращает корневой обработчик сервера (используется в тестах)
func (s *Server) Handler() http.Handler {
	return s.HTTPServer.Handler
}

// Shutdown корректно завершает работу HTTP-сервера
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Завершение работы HTTP-сервера")
	return s.HTTPServer.Shutdown(ctx)
}
