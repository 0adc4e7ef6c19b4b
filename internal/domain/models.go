package domain

import "time"

// Platform определяет формат экспорта чата WhatsApp.
type Platform string

const (
	PlatformAuto    Platform = "auto"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// MessageKind определяет тип сообщения.
type MessageKind string

const (
	KindText    MessageKind = "text"
	KindMedia   MessageKind = "media"
	KindSystem  MessageKind = "system"
	KindDeleted MessageKind = "deleted"
)

// Message представляет одно логическое сообщение чата.
// Строки-продолжения объединяются в Body через перевод строки.
type Message struct {
	// Временная метка без часового пояса, как в экспорте устройства.
	Timestamp time.Time `json:"timestamp"`
	// Отображаемое имя отправителя. Пусто для системных сообщений.
	Sender string      `json:"sender"`
	Body   string      `json:"body"`
	Kind   MessageKind `json:"kind"`
	// Диапазон исходных строк (1-based), которые заняло сообщение.
	// Нужен для диагностики, не для пользователя.
	FirstLine int `json:"first_line"`
	LastLine  int `json:"last_line"`
}

// Session представляет сегмент беседы: максимальный отрезок подряд идущих
// сообщений, между которыми пауза не превышает порог неактивности.
// Границы — включительные индексы в последовательности сообщений.
type Session struct {
	StartIndex int       `json:"start_index"`
	EndIndex   int       `json:"end_index"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Len возвращает количество сообщений в сегменте.
func (s Session) Len() int {
	return s.EndIndex - s.StartIndex + 1
}

// ParseWarning описывает нефатальную проблему разбора одной строки.
type ParseWarning struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// AnalysisOptions задает параметры статистического анализа.
type AnalysisOptions struct {
	// Порог неактивности для сегментации беседы.
	GapThreshold time.Duration
	// Включать ли медиа-сообщения в частотные таблицы.
	IncludeMedia bool
	// Заменять ли имена участников стабильными псевдонимами до анализа.
	Anonymize bool
	// Размер топа частотной таблицы слов.
	TopWords int
	// Размер топа частотной таблицы эмодзи.
	TopEmojis int
	// Стоп-слова, исключаемые из частотной таблицы слов.
	StopWords map[string]struct{}
}

// DefaultStopWords — стоп-слова по умолчанию для частотного анализа.
var DefaultStopWords = []string{
	"the", "a", "an", "in", "is", "it", "to", "for", "of", "on", "and",
	"i", "you", "that", "be", "with", "was", "are", "this", "have",
	"but", "not", "at", "my", "me",
}

// DefaultAnalysisOptions возвращает параметры анализа по умолчанию.
func DefaultAnalysisOptions() AnalysisOptions {
	stopWords := make(map[string]struct{}, len(DefaultStopWords))
	for _, w := range DefaultStopWords {
		stopWords[w] = struct{}{}
	}
	return AnalysisOptions{
		GapThreshold: time.Hour,
		IncludeMedia: false,
		Anonymize:    false,
		TopWords:     20,
		TopEmojis:    10,
		StopWords:    stopWords,
	}
}

// DateRange представляет диапазон дат чата в формате YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParticipantStats содержит статистику одного участника.
type ParticipantStats struct {
	Name       string `json:"name"`
	Messages   int    `json:"messages"`
	Words      int    `json:"words"`
	Characters int    `json:"characters"`
	MediaSent  int    `json:"media_sent"`
	// Среднее число слов в текстовом сообщении.
	AvgWords float64 `json:"avg_words"`
	// Среднее время ответа в секундах. nil — у участника нет ни одного ответа.
	AvgResponseSeconds *float64 `json:"avg_response_seconds"`
	// Сколько сегментов беседы участник начал первым сообщением.
	ConversationsStarted int `json:"conversations_started"`
}

// FrequencyEntry — одна позиция частотной таблицы.
type FrequencyEntry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// WordStats содержит частотную статистику слов.
type WordStats struct {
	TotalWords  int              `json:"total_words"`
	UniqueWords int              `json:"unique_words"`
	Top         []FrequencyEntry `json:"top"`
}

// EmojiStats содержит частотную статистику эмодзи.
type EmojiStats struct {
	TotalEmojis  int              `json:"total_emojis"`
	UniqueEmojis int              `json:"unique_emojis"`
	Top          []FrequencyEntry `json:"top"`
}

// StatisticsReport — агрегированный результат анализа чата.
// Содержит только данные; сериализация выполняется экспортерами.
type StatisticsReport struct {
	TotalMessages   int `json:"total_messages"`
	TextMessages    int `json:"text_messages"`
	MediaMessages   int `json:"media_messages"`
	SystemMessages  int `json:"system_messages"`
	DeletedMessages int `json:"deleted_messages"`

	TotalParticipants int       `json:"total_participants"`
	DaysActive        int       `json:"days_active"`
	DateRange         DateRange `json:"date_range"`

	SessionCount int `json:"session_count"`
	// Сколько соседних пар сообщений имели отрицательную дельту времени
	// (экспорт может содержать записи не по порядку около полуночи).
	OutOfOrderCount int `json:"out_of_order_count"`

	// Участники, отсортированные по числу сообщений по убыванию.
	Participants []ParticipantStats `json:"participants"`

	// Активность по часам суток (0-23).
	HourlyActivity [24]int `json:"hourly_activity"`
	// Активность по дням недели (0 - воскресенье, 6 - суббота).
	WeekdayActivity [7]int `json:"weekday_activity"`
	// Активность по датам (YYYY-MM-DD -> число сообщений).
	DailyActivity map[string]int `json:"daily_activity"`

	Words  WordStats  `json:"words"`
	Emojis EmojiStats `json:"emojis"`
}
