// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию HTTP-сервера
type Server struct {
	Host                   string `json:"host" yaml:"host"`
	Port                   int    `json:"port" yaml:"port"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	MaxUploadSizeMB        int    `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`
}

// Processing содержит конфигурацию обработки задач
type Processing struct {
	TaskTimeoutSeconds int `json:"task_timeout_seconds" yaml:"task_timeout_seconds"` // 0 - без ограничений
	CacheTTLMinutes    int `json:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
}

// Analysis содержит конфигурацию статистического анализа
type Analysis struct {
	GapThresholdMinutes int    `json:"gap_threshold_minutes" yaml:"gap_threshold_minutes"`
	DefaultPlatform     string `json:"default_platform" yaml:"default_platform"` // auto, android, ios
	IncludeMedia        bool   `json:"include_media" yaml:"include_media"`
	Anonymize           bool   `json:"anonymize" yaml:"anonymize"`
	TopWords            int    `json:"top_words" yaml:"top_words"`
	TopEmojis           int    `json:"top_emojis" yaml:"top_emojis"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Processing Processing `json:"processing" yaml:"processing"`
	Analysis   Analysis   `json:"analysis" yaml:"analysis"`
	Logging    Logging    `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию приложения из config.yml, .env файла
// или переменных окружения
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	if err := godotenv.Load(); err != nil {
		// Отсутствие .env файла — это нормально, полагаемся на переменные
		// окружения или config.yml
	}

	// Попытка загрузки из config.yml сначала
	cfg, err := loadFromYAML("config.yml")
	if err != nil {
		// Если загрузка YAML не удалась, используем переменные окружения
		cfg, err = loadFromEnv()
		if err != nil {
			return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения.
// Имена переменных совпадают с именами, которые понимает анализатор
// в остальных инструментах: WHATSAPP_*.
func loadFromEnv() (*Config, error) {
	host := getEnv("SERVER_HOST", DefaultServerHost)
	portStr := getEnv("SERVER_PORT", strconv.Itoa(DefaultServerPort))
	gapStr := getEnv("WHATSAPP_GAP_THRESHOLD_MINUTES", strconv.Itoa(int(DefaultGapThreshold.Minutes())))
	platform := getEnv("WHATSAPP_DEFAULT_PLATFORM", DefaultPlatform)
	logLevel := getEnv("WHATSAPP_LOG_LEVEL", DefaultLogLevel)
	includeMedia := getEnvBool("WHATSAPP_INCLUDE_MEDIA", false)
	anonymize := getEnvBool("WHATSAPP_ANONYMIZE", false)

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый SERVER_PORT: %w", err)
	}

	gapMinutes, err := strconv.Atoi(gapStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый WHATSAPP_GAP_THRESHOLD_MINUTES: %w", err)
	}

	return &Config{
		Server: Server{
			Host: host,
			Port: port,
		},
		Analysis: Analysis{
			GapThresholdMinutes: gapMinutes,
			DefaultPlatform:     platform,
			IncludeMedia:        includeMedia,
			Anonymize:           anonymize,
		},
		Logging: Logging{
			Level: logLevel,
		},
	}, nil
}

// applyDefaults заполняет незаданные значения значениями по умолчанию
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = int(DefaultShutdownTimeout.Seconds())
	}
	if c.Server.MaxUploadSizeMB == 0 {
		c.Server.MaxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	if c.Processing.TaskTimeoutSeconds == 0 {
		c.Processing.TaskTimeoutSeconds = int(DefaultTaskTimeout.Seconds())
	}
	if c.Processing.CacheTTLMinutes == 0 {
		c.Processing.CacheTTLMinutes = int(DefaultCacheTTL.Minutes())
	}
	if c.Analysis.GapThresholdMinutes == 0 {
		c.Analysis.GapThresholdMinutes = int(DefaultGapThreshold.Minutes())
	}
	if c.Analysis.DefaultPlatform == "" {
		c.Analysis.DefaultPlatform = DefaultPlatform
	}
	if c.Analysis.TopWords == 0 {
		c.Analysis.TopWords = DefaultTopWords
	}
	if c.Analysis.TopEmojis == 0 {
		c.Analysis.TopEmojis = DefaultTopEmojis
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ShutdownTimeout возвращает таймаут корректного завершения сервера
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// TaskTimeout возвращает таймаут одной задачи анализа (0 - без ограничений)
func (c *Config) TaskTimeout() time.Duration {
	return time.Duration(c.Processing.TaskTimeoutSeconds) * time.Second
}

// CacheTTL возвращает срок жизни кешированных отчетов
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Processing.CacheTTLMinutes) * time.Minute
}

// GapThreshold возвращает порог неактивности для сегментации беседы
func (c *Config) GapThreshold() time.Duration {
	return time.Duration(c.Analysis.GapThresholdMinutes) * time.Minute
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds должно быть положительным")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("server.max_upload_size_mb должно быть положительным")
	}

	if c.Processing.TaskTimeoutSeconds < 0 {
		return fmt.Errorf("processing.task_timeout_seconds должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.CacheTTLMinutes <= 0 {
		return fmt.Errorf("processing.cache_ttl_minutes должно быть положительным целым числом")
	}

	if c.Analysis.GapThresholdMinutes <= 0 {
		return fmt.Errorf("analysis.gap_threshold_minutes должно быть положительным")
	}

	switch c.Analysis.DefaultPlatform {
	case "auto", "android", "ios":
		// all good
	default:
		return fmt.Errorf("analysis.default_platform должен быть одним из: auto, android, ios")
	}

	if c.Analysis.TopWords <= 0 || c.Analysis.TopEmojis <= 0 {
		return fmt.Errorf("analysis.top_words и analysis.top_emojis должны быть положительными")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool интерпретирует переменную окружения как булево значение
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch value {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
