package source

import (
	"fmt"
	"io"

	"whatsapp-chat-analyzer/internal/ports"
)

// StdinSource реализует интерфейс DataSource для чтения данных из
// стандартного ввода (или любого io.Reader).
type StdinSource struct {
	reader io.Reader
}

// NewStdinSource создает новый экземпляр StdinSource.
func NewStdinSource(reader io.Reader) ports.DataSource {
	return &StdinSource{reader: reader}
}

// Fetch читает все содержимое потока до EOF.
func (s *StdinSource) Fetch() ([]byte, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("источник ввода не задан")
	}

	data, err := io.ReadAll(s.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	return data, nil
}
