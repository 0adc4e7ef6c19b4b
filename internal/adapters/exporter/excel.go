package exporter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// ExcelExporter реализует интерфейс Exporter для выгрузки отчета в xlsx-файл
// с несколькими листами.
type ExcelExporter struct {
	filePath string
}

// NewExcelExporter создает новый экземпляр ExcelExporter.
func NewExcelExporter(filePath string) ports.Exporter {
	return &ExcelExporter{filePath: filePath}
}

// Export записывает отчет в файл: листы Summary, Participants, Hourly Activity,
// Top Words и Top Emojis.
func (e *ExcelExporter) Export(report *domain.StatisticsReport) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := e.writeSummary(f, report); err != nil {
		return err
	}
	if err := e.writeParticipants(f, report); err != nil {
		return err
	}
	if err := e.writeHourlyActivity(f, report); err != nil {
		return err
	}
	if err := e.writeFrequency(f, "Top Words", report.Words.Top); err != nil {
		return err
	}
	if err := e.writeFrequency(f, "Top Emojis", report.Emojis.Top); err != nil {
		return err
	}

	// Удаляем лист по умолчанию, создаваемый excelize
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.SaveAs(e.filePath); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeSummary(f *excelize.File, report *domain.StatisticsReport) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][2]interface{}{
		{"Export date", time.Now().Format(time.RFC3339)},
		{"Total messages", report.TotalMessages},
		{"Text messages", report.TextMessages},
		{"Media messages", report.MediaMessages},
		{"System messages", report.SystemMessages},
		{"Deleted messages", report.DeletedMessages},
		{"Participants", report.TotalParticipants},
		{"Days active", report.DaysActive},
		{"Date range start", report.DateRange.Start},
		{"Date range end", report.DateRange.End},
		{"Conversation sessions", report.SessionCount},
		{"Out-of-order timestamps", report.OutOfOrderCount},
		{"Total words", report.Words.TotalWords},
		{"Unique words", report.Words.UniqueWords},
		{"Total emojis", report.Emojis.TotalEmojis},
		{"Unique emojis", report.Emojis.UniqueEmojis},
	}
	for i, row := range rows {
		rowNo := i + 1
		if err := f.SetCellValue(sheet, "A"+strconv.Itoa(rowNo), row[0]); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		if err := f.SetCellValue(sheet, "B"+strconv.Itoa(rowNo), row[1]); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func (e *ExcelExporter) writeParticipants(f *excelize.File, report *domain.StatisticsReport) error {
	const sheet = "Participants"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{
		"Participant", "Messages", "Words", "Characters", "Media sent",
		"Avg words", "Avg response (s)", "Conversations started",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write participants header: %w", err)
		}
	}

	for i, p := range report.Participants {
		row := i + 2
		values := []interface{}{
			p.Name, p.Messages, p.Words, p.Characters, p.MediaSent, p.AvgWords,
		}
		if p.AvgResponseSeconds != nil {
			values = append(values, *p.AvgResponseSeconds)
		} else {
			values = append(values, "")
		}
		values = append(values, p.ConversationsStarted)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write participant row: %w", err)
			}
		}
	}
	return nil
}

func (e *ExcelExporter) writeHourlyActivity(f *excelize.File, report *domain.StatisticsReport) error {
	const sheet = "Hourly Activity"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := f.SetCellValue(sheet, "A1", "Hour"); err != nil {
		return fmt.Errorf("failed to write hourly header: %w", err)
	}
	if err := f.SetCellValue(sheet, "B1", "Messages"); err != nil {
		return fmt.Errorf("failed to write hourly header: %w", err)
	}
	for hour, count := range report.HourlyActivity {
		row := strconv.Itoa(hour + 2)
		if err := f.SetCellValue(sheet, "A"+row, hour); err != nil {
			return fmt.Errorf("failed to write hourly row: %w", err)
		}
		if err := f.SetCellValue(sheet, "B"+row, count); err != nil {
			return fmt.Errorf("failed to write hourly row: %w", err)
		}
	}
	return nil
}

func (e *ExcelExporter) writeFrequency(f *excelize.File, sheet string, entries []domain.FrequencyEntry) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := f.SetCellValue(sheet, "A1", "Token"); err != nil {
		return fmt.Errorf("failed to write frequency header: %w", err)
	}
	if err := f.SetCellValue(sheet, "B1", "Count"); err != nil {
		return fmt.Errorf("failed to write frequency header: %w", err)
	}
	for i, entry := range entries {
		row := strconv.Itoa(i + 2)
		if err := f.SetCellValue(sheet, "A"+row, entry.Token); err != nil {
			return fmt.Errorf("failed to write frequency row: %w", err)
		}
		if err := f.SetCellValue(sheet, "B"+row, entry.Count); err != nil {
			return fmt.Errorf("failed to write frequency row: %w", err)
		}
	}
	return nil
}
