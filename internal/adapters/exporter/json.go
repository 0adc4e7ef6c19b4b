package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// JSONExporter реализует интерфейс Exporter для сериализации отчета в JSON.
type JSONExporter struct {
	writer io.Writer
}

// NewJSONExporter создает новый экземпляр JSONExporter.
func NewJSONExporter(writer io.Writer) ports.Exporter {
	return &JSONExporter{writer: writer}
}

// Export записывает отчет в JSON с отступами.
func (e *JSONExporter) Export(report *domain.StatisticsReport) error {
	enc := json.NewEncoder(e.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report as json: %w", err)
	}
	return nil
}
