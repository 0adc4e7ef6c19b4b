package exporter

import (
	"fmt"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// ConsoleExporter реализует интерфейс Exporter для вывода отчета в консоль.
type ConsoleExporter struct{}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
func NewConsoleExporter() ports.Exporter {
	return &ConsoleExporter{}
}

// Export выводит финальный отчет в консоль.
func (e *ConsoleExporter) Export(report *domain.StatisticsReport) error {
	fmt.Println("--- Chat Statistics ---")
	fmt.Printf("Messages: %d (text: %d, media: %d, system: %d, deleted: %d)\n",
		report.TotalMessages, report.TextMessages, report.MediaMessages,
		report.SystemMessages, report.DeletedMessages)
	fmt.Printf("Participants: %d\n", report.TotalParticipants)
	fmt.Printf("Date range: %s — %s (%d active days)\n",
		report.DateRange.Start, report.DateRange.End, report.DaysActive)
	fmt.Printf("Conversation sessions: %d\n", report.SessionCount)
	if report.OutOfOrderCount > 0 {
		fmt.Printf("Out-of-order timestamps: %d\n", report.OutOfOrderCount)
	}

	fmt.Println("\n--- Participants ---")
	if len(report.Participants) == 0 {
		fmt.Println("No participants found.")
	} else {
		for i, p := range report.Participants {
			line := fmt.Sprintf("%d. %s: %d messages, %d words, %d media, started %d conversations",
				i+1, p.Name, p.Messages, p.Words, p.MediaSent, p.ConversationsStarted)
			if p.AvgResponseSeconds != nil {
				line += fmt.Sprintf(", avg response %.2fs", *p.AvgResponseSeconds)
			}
			fmt.Println(line)
		}
	}

	if len(report.Words.Top) > 0 {
		fmt.Printf("\n--- Top Words (%d total, %d unique) ---\n",
			report.Words.TotalWords, report.Words.UniqueWords)
		for _, entry := range report.Words.Top {
			fmt.Printf("%s: %d\n", entry.Token, entry.Count)
		}
	}

	if len(report.Emojis.Top) > 0 {
		fmt.Printf("\n--- Top Emojis (%d total, %d unique) ---\n",
			report.Emojis.TotalEmojis, report.Emojis.UniqueEmojis)
		for _, entry := range report.Emojis.Top {
			fmt.Printf("%s: %d\n", entry.Token, entry.Count)
		}
	}

	return nil
}
