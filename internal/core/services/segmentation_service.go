package services

import (
	"time"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// SegmentationServiceImpl реализует интерфейс Segmenter.
type SegmentationServiceImpl struct{}

// NewSegmentationService создает новый экземпляр SegmentationServiceImpl.
func NewSegmentationService() ports.Segmenter {
	return &SegmentationServiceImpl{}
}

// Segment разбивает последовательность сообщений на сегменты беседы одним
// проходом слева направо. Новый сегмент открывается, когда пауза между
// соседними сообщениями превышает порог. Отрицательные дельты (экспорт может
// содержать записи не по порядку около полуночи) обнуляются и не рвут сегмент;
// их индексы возвращаются вторым значением.
//
// Сегменты точно покрывают индексы 0..n-1 без пропусков и пересечений.
// Пустой вход дает пустой список сегментов, это не ошибка.
func (s *SegmentationServiceImpl) Segment(messages []domain.Message, gapThreshold time.Duration) ([]domain.Session, []int) {
	if len(messages) == 0 {
		return []domain.Session{}, nil
	}

	var outOfOrder []int
	sessions := make([]domain.Session, 0, 1)
	start := 0

	for i := 1; i < len(messages); i++ {
		delta := messages[i].Timestamp.Sub(messages[i-1].Timestamp)
		if delta < 0 {
			outOfOrder = append(outOfOrder, i)
			delta = 0
		}
		if delta > gapThreshold {
			sessions = append(sessions, makeSession(messages, start, i-1))
			start = i
		}
	}
	sessions = append(sessions, makeSession(messages, start, len(messages)-1))

	return sessions, outOfOrder
}

func makeSession(messages []domain.Message, start, end int) domain.Session {
	return domain.Session{
		StartIndex: start,
		EndIndex:   end,
		Start:      messages[start].Timestamp,
		End:        messages[end].Timestamp,
	}
}
