package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/pkg/emoji"
	"whatsapp-chat-analyzer/internal/ports"
)

// wordRe выделяет словесные токены: буквы, цифры и подчеркивания.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// AnalysisServiceImpl реализует интерфейс Analyzer.
type AnalysisServiceImpl struct{}

// NewAnalysisService создает новый экземпляр AnalysisServiceImpl.
func NewAnalysisService() ports.Analyzer {
	return &AnalysisServiceImpl{}
}

// participantAcc — накопитель статистики одного участника за один проход.
type participantAcc struct {
	messages      int
	words         int
	characters    int
	mediaSent     int
	responseTotal float64 // суммарное время ответа в секундах
	responses     int
	started       int
}

// Analyze вычисляет весь отчет за один проход по сообщениям плюс O(1)
// вспомогательных проходов для сортировки и топ-K. Сервис не хранит
// состояния: повторный вызов на тех же данных дает идентичный отчет.
func (a *AnalysisServiceImpl) Analyze(messages []domain.Message, sessions []domain.Session, opts domain.AnalysisOptions) *domain.StatisticsReport {
	report := &domain.StatisticsReport{
		TotalMessages: len(messages),
		SessionCount:  len(sessions),
		DailyActivity: make(map[string]int),
	}

	participants := make(map[string]*participantAcc)
	wordCounts := make(map[string]int)
	emojiCounts := make(map[string]int)
	dates := make(map[string]struct{})

	var minDate, maxDate string

	for i := range messages {
		msg := &messages[i]

		switch msg.Kind {
		case domain.KindText:
			report.TextMessages++
		case domain.KindMedia:
			report.MediaMessages++
		case domain.KindSystem:
			report.SystemMessages++
		case domain.KindDeleted:
			report.DeletedMessages++
		}

		if i > 0 && msg.Timestamp.Before(messages[i-1].Timestamp) {
			report.OutOfOrderCount++
		}

		date := msg.Timestamp.Format("2006-01-02")
		dates[date] = struct{}{}
		report.DailyActivity[date]++
		report.HourlyActivity[msg.Timestamp.Hour()]++
		report.WeekdayActivity[int(msg.Timestamp.Weekday())]++
		if minDate == "" || date < minDate {
			minDate = date
		}
		if date > maxDate {
			maxDate = date
		}

		if msg.Sender != "" {
			acc := accFor(participants, msg.Sender)
			acc.messages++
			if msg.Kind == domain.KindMedia {
				acc.mediaSent++
			}
		}

		// Медиа и служебные заглушки не участвуют в контентной статистике,
		// если это не включено явно.
		countContent := msg.Kind == domain.KindText ||
			(opts.IncludeMedia && msg.Kind == domain.KindMedia)
		if !countContent {
			continue
		}

		words := wordRe.FindAllString(strings.ToLower(msg.Body), -1)
		if msg.Sender != "" {
			acc := participants[msg.Sender]
			acc.words += len(words)
			acc.characters += utf8.RuneCountInString(msg.Body)
		}
		for _, w := range words {
			if utf8.RuneCountInString(w) < 2 {
				continue
			}
			if _, stop := opts.StopWords[w]; stop {
				continue
			}
			wordCounts[w]++
			report.Words.TotalWords++
		}
		for _, e := range emoji.Extract(msg.Body) {
			emojiCounts[e]++
			report.Emojis.TotalEmojis++
		}
	}

	// Время ответа: внутри сегмента, для соседних пар сообщений разных
	// отправителей, дельта приписывается отвечающему. Отрицательные дельты
	// обнуляются, как и при сегментации.
	for _, session := range sessions {
		for j := session.StartIndex + 1; j <= session.EndIndex; j++ {
			prev, cur := &messages[j-1], &messages[j]
			if prev.Sender == "" || cur.Sender == "" || prev.Sender == cur.Sender {
				continue
			}
			delta := cur.Timestamp.Sub(prev.Timestamp).Seconds()
			if delta < 0 {
				delta = 0
			}
			acc := accFor(participants, cur.Sender)
			acc.responseTotal += delta
			acc.responses++
		}

		// Зачинатель беседы: отправитель первого сообщения сегмента.
		// Системные первые сообщения пропускаются, но сегмент учитывается.
		if starter := messages[session.StartIndex].Sender; starter != "" {
			accFor(participants, starter).started++
		}
	}

	report.TotalParticipants = len(participants)
	report.DaysActive = len(dates)
	report.DateRange = domain.DateRange{Start: minDate, End: maxDate}
	report.Participants = participantTable(participants)
	report.Words.UniqueWords = len(wordCounts)
	report.Words.Top = topK(wordCounts, opts.TopWords)
	report.Emojis.UniqueEmojis = len(emojiCounts)
	report.Emojis.Top = topK(emojiCounts, opts.TopEmojis)

	return report
}

func accFor(participants map[string]*participantAcc, name string) *participantAcc {
	acc, ok := participants[name]
	if !ok {
		acc = &participantAcc{}
		participants[name] = acc
	}
	return acc
}

// participantTable превращает накопители в детерминированную таблицу:
// сортировка по числу сообщений по убыванию, затем по имени.
func participantTable(participants map[string]*participantAcc) []domain.ParticipantStats {
	table := make([]domain.ParticipantStats, 0, len(participants))
	for name, acc := range participants {
		stats := domain.ParticipantStats{
			Name:                 name,
			Messages:             acc.messages,
			Words:                acc.words,
			Characters:           acc.characters,
			MediaSent:            acc.mediaSent,
			ConversationsStarted: acc.started,
		}
		if textMessages := acc.messages - acc.mediaSent; textMessages > 0 {
			stats.AvgWords = round2(float64(acc.words) / float64(textMessages))
		}
		if acc.responses > 0 {
			avg := round2(acc.responseTotal / float64(acc.responses))
			stats.AvgResponseSeconds = &avg
		}
		table = append(table, stats)
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Messages != table[j].Messages {
			return table[i].Messages > table[j].Messages
		}
		return table[i].Name < table[j].Name
	})
	return table
}

// topK возвращает K самых частых токенов; порядок детерминирован:
// по убыванию счетчика, при равенстве — лексикографически.
func topK(counts map[string]int, k int) []domain.FrequencyEntry {
	entries := make([]domain.FrequencyEntry, 0, len(counts))
	for token, count := range counts {
		entries = append(entries, domain.FrequencyEntry{Token: token, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
	if k > 0 && len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
