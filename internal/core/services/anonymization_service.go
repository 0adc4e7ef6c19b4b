package services

import (
	"fmt"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// AnonymizationServiceImpl реализует интерфейс Anonymizer.
type AnonymizationServiceImpl struct{}

// NewAnonymizationService создает новый экземпляр AnonymizationServiceImpl.
func NewAnonymizationService() ports.Anonymizer {
	return &AnonymizationServiceImpl{}
}

// Anonymize заменяет каждое отличное имя отправителя стабильным псевдонимом
// "Participant N" в порядке первого появления. Системные сообщения без
// отправителя не изменяются. Исходная последовательность не мутируется:
// возвращается копия и отображение оригинал -> псевдоним.
//
// Анонимизация выполняется между разбором и анализом, чтобы отчет был
// консистентен с псевдонимами.
func (s *AnonymizationServiceImpl) Anonymize(messages []domain.Message) ([]domain.Message, map[string]string) {
	pseudonyms := make(map[string]string)
	result := make([]domain.Message, len(messages))

	for i, msg := range messages {
		if msg.Sender != "" {
			pseudonym, ok := pseudonyms[msg.Sender]
			if !ok {
				pseudonym = fmt.Sprintf("Participant %d", len(pseudonyms)+1)
				pseudonyms[msg.Sender] = pseudonym
			}
			msg.Sender = pseudonym
		}
		result[i] = msg
	}

	return result, pseudonyms
}
