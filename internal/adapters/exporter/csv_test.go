package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"whatsapp-chat-analyzer/internal/domain"
)

func TestCSVExporter(t *testing.T) {
	t.Run("Export записывает заголовок и строки участников", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := NewCSVExporter(&buf)

		if err := exporter.Export(sampleReport()); err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("Не удалось прочитать CSV обратно: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("Ожидалось 3 строки (заголовок + 2 участника), получено %d", len(records))
		}

		if records[0][0] != "participant" {
			t.Errorf("Ожидался столбец participant, получено %q", records[0][0])
		}

		if records[1][0] != "Alice" {
			t.Errorf("Ожидалась Alice в первой строке данных, получено %q", records[1][0])
		}

		if records[1][6] != "42.50" {
			t.Errorf("Ожидалось среднее время ответа 42.50, получено %q", records[1][6])
		}

		// У Bob нет ответов: колонка среднего времени пуста.
		if records[2][6] != "" {
			t.Errorf("Ожидалась пустая колонка для участника без ответов, получено %q", records[2][6])
		}
	})

	t.Run("Export пустого отчета дает только заголовок", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := NewCSVExporter(&buf)

		if err := exporter.Export(&domain.StatisticsReport{}); err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("Не удалось прочитать CSV обратно: %v", err)
		}

		if len(records) != 1 {
			t.Errorf("Ожидалась 1 строка заголовка, получено %d", len(records))
		}
	})
}
