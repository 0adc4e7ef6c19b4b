package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-chat-analyzer/internal/adapters/parser"
	"whatsapp-chat-analyzer/internal/cache"
	"whatsapp-chat-analyzer/internal/core/services"
	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/pkg/config"
)

const androidExport = `12/1/23, 9:00 AM - Alice: Hi there
12/1/23, 9:05 AM - Bob: Hello
how are you
12/1/23, 9:06 AM - Alice: <Media omitted>
12/1/23, 11:30 AM - Bob: new conversation`

func newTestUseCase(t *testing.T) (*AnalyzeChatUseCase, *cache.CacheStore, *config.Config) {
	t.Helper()
	// Конфигурация по умолчанию, как ее построил бы LoadConfig.
	cfgFull := &config.Config{
		Processing: config.Processing{CacheTTLMinutes: 60},
		Analysis: config.Analysis{
			GapThresholdMinutes: 60,
			DefaultPlatform:     "auto",
			TopWords:            20,
			TopEmojis:           10,
		},
	}
	cacheStore := cache.NewCacheStore()
	uc := NewAnalyzeChatUseCase(
		cfgFull,
		parser.NewWhatsAppParser(),
		services.NewSegmentationService(),
		services.NewAnalysisService(),
		services.NewAnonymizationService(),
		cacheStore,
	)
	return uc, cacheStore, cfgFull
}

func writeChatFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzeChatUseCase(t *testing.T) {
	t.Run("AnalyzesExportEndToEnd", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		path := writeChatFile(t, androidExport)

		report, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAuto)
		require.NoError(t, err)
		require.NotNil(t, report)

		assert.Equal(t, 4, report.TotalMessages)
		assert.Equal(t, 3, report.TextMessages)
		assert.Equal(t, 1, report.MediaMessages)
		assert.Equal(t, 2, report.TotalParticipants)
		// Пауза в 2.5 часа открывает второй сегмент.
		assert.Equal(t, 2, report.SessionCount)
	})

	t.Run("SecondCallServedFromCache", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		path := writeChatFile(t, androidExport)

		first, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAuto)
		require.NoError(t, err)

		second, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAuto)
		require.NoError(t, err)

		// Кеш возвращает тот же самый отчет.
		assert.Same(t, first, second)
	})

	t.Run("DifferentPlatformBypassesCache", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		path := writeChatFile(t, androidExport)

		first, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAuto)
		require.NoError(t, err)

		// Явная платформа меняет кеш-ключ, поэтому второй вызов не попадает
		// в уже сохраненный элемент.
		second, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAndroid)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, first.TotalMessages, second.TotalMessages)
	})

	t.Run("AnonymizationAppliedBeforeAnalysis", func(t *testing.T) {
		uc, _, cfg := newTestUseCase(t)
		cfg.Analysis.Anonymize = true
		path := writeChatFile(t, androidExport)

		report, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAuto)
		require.NoError(t, err)

		for _, p := range report.Participants {
			assert.Regexp(t, `^Participant \d+$`, p.Name)
		}
	})

	t.Run("MissingFileReturnsError", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		_, err := uc.AnalyzeChat(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), domain.PlatformAuto)
		assert.Error(t, err)
	})

	t.Run("UnrecognizedFormatReturnsError", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		path := writeChatFile(t, "просто текст\nбез заголовков")

		_, err := uc.AnalyzeChat(context.Background(), path, domain.PlatformAuto)
		assert.True(t, errors.Is(err, domain.ErrFormatUnrecognized))
	})

	t.Run("CancelledContextAbortsAnalysis", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		path := writeChatFile(t, androidExport)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := uc.AnalyzeChat(ctx, path, domain.PlatformAuto)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("EmptyPlatformFallsBackToConfig", func(t *testing.T) {
		uc, _, cfg := newTestUseCase(t)
		cfg.Analysis.DefaultPlatform = "android"
		path := writeChatFile(t, androidExport)

		report, err := uc.AnalyzeChat(context.Background(), path, "")
		require.NoError(t, err)
		assert.Equal(t, 4, report.TotalMessages)
	})
}
