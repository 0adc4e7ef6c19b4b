package ports

import (
	"time"

	"whatsapp-chat-analyzer/internal/domain"
)

// DataSource определяет интерфейс для получения исходных данных чата.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// ChatParser определяет интерфейс для разбора текстового экспорта чата.
type ChatParser interface {
	// Parse преобразует сырой текст экспорта в упорядоченную последовательность
	// сообщений. Нефатальные проблемы возвращаются вторым значением.
	Parse(data []byte, platform domain.Platform) ([]domain.Message, []domain.ParseWarning, error)
}

// Segmenter определяет интерфейс для сегментации беседы по паузам неактивности.
type Segmenter interface {
	// Segment разбивает последовательность сообщений на сегменты и возвращает
	// индексы сообщений с отрицательной дельтой времени.
	Segment(messages []domain.Message, gapThreshold time.Duration) ([]domain.Session, []int)
}

// Analyzer определяет интерфейс для вычисления статистики чата.
type Analyzer interface {
	Analyze(messages []domain.Message, sessions []domain.Session, opts domain.AnalysisOptions) *domain.StatisticsReport
}

// Anonymizer определяет интерфейс для замены имен участников псевдонимами.
type Anonymizer interface {
	// Anonymize возвращает копию последовательности со стабильными псевдонимами
	// и отображение оригинальное имя -> псевдоним.
	Anonymize(messages []domain.Message) ([]domain.Message, map[string]string)
}

// Exporter определяет интерфейс для вывода отчета.
type Exporter interface {
	// Export принимает финальный отчет и выводит его.
	Export(report *domain.StatisticsReport) error
}
