package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"whatsapp-chat-analyzer/internal/adapters/source"
	"whatsapp-chat-analyzer/internal/cache"
	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/pkg/config"
	"whatsapp-chat-analyzer/internal/ports"
)

// AnalyzeChatUseCase инкапсулирует бизнес-логику анализа файла экспорта чата.
type AnalyzeChatUseCase struct {
	cfg        *config.Config
	parser     ports.ChatParser
	segmenter  ports.Segmenter
	analyzer   ports.Analyzer
	anonymizer ports.Anonymizer
	cacheStore *cache.CacheStore
}

// NewAnalyzeChatUseCase создает новый экземпляр AnalyzeChatUseCase.
func NewAnalyzeChatUseCase(
	cfg *config.Config,
	parser ports.ChatParser,
	segmenter ports.Segmenter,
	analyzer ports.Analyzer,
	anonymizer ports.Anonymizer,
	cacheStore *cache.CacheStore,
) *AnalyzeChatUseCase {
	return &AnalyzeChatUseCase{
		cfg:        cfg,
		parser:     parser,
		segmenter:  segmenter,
		analyzer:   analyzer,
		anonymizer: anonymizer,
		cacheStore: cacheStore,
	}
}

// AnalyzeChat обрабатывает один файл экспорта чата: разбор, опциональная
// анонимизация, сегментация и вычисление статистики. Результат кешируется
// по хешу содержимого и параметрам анализа.
func (uc *AnalyzeChatUseCase) AnalyzeChat(ctx context.Context, filePath string, platform domain.Platform) (*domain.StatisticsReport, error) {
	if platform == "" {
		platform = domain.Platform(uc.cfg.Analysis.DefaultPlatform)
	}

	fileHash, err := cache.CalculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось вычислить хеш файла %s: %w", filePath, err)
	}

	// Ядро — чистая функция входа и параметров, поэтому кеш-ключ включает
	// и то и другое.
	cacheKey := cache.CalculateHashFromBytes([]byte(fmt.Sprintf(
		"%s|%s|%v|%v|%s|%d|%d",
		fileHash, platform,
		uc.cfg.Analysis.IncludeMedia, uc.cfg.Analysis.Anonymize,
		uc.cfg.GapThreshold(), uc.cfg.Analysis.TopWords, uc.cfg.Analysis.TopEmojis,
	)))

	if cachedItem, found := uc.cacheStore.Get(cacheKey); found {
		slog.Info("Попадание в кеш для файла", "hash", fileHash)
		return cachedItem.Data, nil
	}

	slog.Info("Обработка файла", "path", filePath, "platform", platform)

	ds := source.NewCliSource(filePath)
	data, err := ds.Fetch()
	if err != nil {
		return nil, fmt.Errorf("не удалось извлечь данные из %s: %w", filePath, err)
	}

	messages, warnings, err := uc.parser.Parse(data, platform)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать данные из %s: %w", filePath, err)
	}
	slog.Info("Разобран чат", "path", filePath, "message_count", len(messages), "warning_count", len(warnings))
	for _, w := range warnings {
		slog.Debug("Предупреждение разбора", "line", w.Line, "reason", w.Reason)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("анализ прерван: %w", err)
	}

	if uc.cfg.Analysis.Anonymize {
		anonymized, mapping := uc.anonymizer.Anonymize(messages)
		messages = anonymized
		slog.Info("Участники анонимизированы", "count", len(mapping))
	}

	opts := uc.options()
	sessions, outOfOrder := uc.segmenter.Segment(messages, opts.GapThreshold)
	if len(outOfOrder) > 0 {
		slog.Warn("Обнаружены сообщения с немонотонными временными метками", "count", len(outOfOrder))
	}

	report := uc.analyzer.Analyze(messages, sessions, opts)

	ttl := uc.cfg.CacheTTL()
	uc.cacheStore.Put(cacheKey, report, ttl)
	slog.Info("Отчет кеширован", "hash", fileHash, "ttl", ttl.String())

	slog.Info("Анализ успешно завершен",
		"message_count", report.TotalMessages,
		"participant_count", report.TotalParticipants,
		"session_count", report.SessionCount,
	)
	return report, nil
}

// options строит параметры анализа из конфигурации приложения.
func (uc *AnalyzeChatUseCase) options() domain.AnalysisOptions {
	opts := domain.DefaultAnalysisOptions()
	opts.GapThreshold = uc.cfg.GapThreshold()
	opts.IncludeMedia = uc.cfg.Analysis.IncludeMedia
	opts.Anonymize = uc.cfg.Analysis.Anonymize
	opts.TopWords = uc.cfg.Analysis.TopWords
	opts.TopEmojis = uc.cfg.Analysis.TopEmojis
	return opts
}
