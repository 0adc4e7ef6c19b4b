package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// CSVExporter реализует интерфейс Exporter для вывода таблицы участников в CSV.
type CSVExporter struct {
	writer io.Writer
}

// NewCSVExporter создает новый экземпляр CSVExporter.
func NewCSVExporter(writer io.Writer) ports.Exporter {
	return &CSVExporter{writer: writer}
}

// Export записывает таблицу участников построчно. Сводные показатели чата
// в эту выгрузку не входят: CSV предназначен для статистики по участникам.
func (e *CSVExporter) Export(report *domain.StatisticsReport) error {
	w := csv.NewWriter(e.writer)

	header := []string{
		"participant", "messages", "words", "characters", "media_sent",
		"avg_words", "avg_response_seconds", "conversations_started",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range report.Participants {
		avgResponse := ""
		if p.AvgResponseSeconds != nil {
			avgResponse = strconv.FormatFloat(*p.AvgResponseSeconds, 'f', 2, 64)
		}
		row := []string{
			p.Name,
			strconv.Itoa(p.Messages),
			strconv.Itoa(p.Words),
			strconv.Itoa(p.Characters),
			strconv.Itoa(p.MediaSent),
			strconv.FormatFloat(p.AvgWords, 'f', 2, 64),
			avgResponse,
			strconv.Itoa(p.ConversationsStarted),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
