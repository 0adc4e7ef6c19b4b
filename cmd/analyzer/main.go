package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"whatsapp-chat-analyzer/internal/adapters/exporter"
	"whatsapp-chat-analyzer/internal/adapters/parser"
	"whatsapp-chat-analyzer/internal/adapters/source"
	"whatsapp-chat-analyzer/internal/core/services"
	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/pkg/config"
	"whatsapp-chat-analyzer/internal/ports"
)

func main() {
	var (
		platform     string
		format       string
		output       string
		gapMinutes   int
		includeMedia bool
		anonymize    bool
		useStdin     bool
	)
	flag.StringVar(&platform, "platform", string(config.DefaultPlatform), "Chat export platform: auto, android or ios")
	flag.StringVar(&format, "format", "console", "Output format: console, json, csv or excel")
	flag.StringVar(&output, "output", "", "Output file path (required for excel, defaults to stdout otherwise)")
	flag.IntVar(&gapMinutes, "gap", int(config.DefaultGapThreshold.Minutes()), "Inactivity gap threshold in minutes for conversation segmentation")
	flag.BoolVar(&includeMedia, "include-media", false, "Include media placeholders in word/emoji frequency tables")
	flag.BoolVar(&anonymize, "anonymize", false, "Replace participant names with stable pseudonyms")
	flag.BoolVar(&useStdin, "stdin", false, "Read the chat export from stdin instead of a file")
	flag.Parse()

	var ds ports.DataSource
	switch {
	case useStdin:
		ds = source.NewStdinSource(os.Stdin)
	case flag.NArg() == 1:
		ds = source.NewCliSource(flag.Arg(0))
	default:
		log.Fatal("Exactly one file path is required (or -stdin). Usage: analyzer [flags] <chat_export.txt>")
	}

	data, err := ds.Fetch()
	if err != nil {
		log.Fatalf("Не удалось прочитать вход: %v", err)
	}

	messages, warnings, err := parser.NewWhatsAppParser().Parse(data, domain.Platform(platform))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFormatUnrecognized):
			log.Fatal("Формат экспорта не распознан: укажите платформу через -platform")
		case errors.Is(err, domain.ErrNoMessagesFound):
			log.Fatal("Во входных данных не найдено ни одного сообщения")
		default:
			log.Fatalf("Не удалось разобрать экспорт: %v", err)
		}
	}

	if anonymize {
		messages, _ = services.NewAnonymizationService().Anonymize(messages)
	}

	opts := domain.DefaultAnalysisOptions()
	opts.GapThreshold = time.Duration(gapMinutes) * time.Minute
	opts.IncludeMedia = includeMedia
	opts.Anonymize = anonymize

	sessions, outOfOrder := services.NewSegmentationService().Segment(messages, opts.GapThreshold)
	report := services.NewAnalysisService().Analyze(messages, sessions, opts)

	exp, cleanup, err := buildExporter(format, output)
	if err != nil {
		log.Fatalf("Не удалось подготовить экспортер: %v", err)
	}
	defer cleanup()

	if err := exp.Export(report); err != nil {
		log.Fatalf("Не удалось выгрузить отчет: %v", err)
	}

	// Сводка частичного успеха: сколько разобрано и сколько строк пропущено
	fmt.Fprintf(os.Stderr, "%d messages parsed, %d warnings", len(messages), len(warnings))
	if len(outOfOrder) > 0 {
		fmt.Fprintf(os.Stderr, ", %d out-of-order timestamps", len(outOfOrder))
	}
	fmt.Fprintln(os.Stderr)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  line %d: %s\n", w.Line, w.Reason)
	}
}

// buildExporter выбирает экспортер по формату вывода.
func buildExporter(format, output string) (ports.Exporter, func(), error) {
	noop := func() {}

	writerFor := func() (*os.File, func(), error) {
		if output == "" {
			return os.Stdout, noop, nil
		}
		f, err := os.Create(output)
		if err != nil {
			return nil, nil, fmt.Errorf("не удалось создать файл %s: %w", output, err)
		}
		return f, func() { _ = f.Close() }, nil
	}

	switch format {
	case "console":
		return exporter.NewConsoleExporter(), noop, nil
	case "json":
		w, cleanup, err := writerFor()
		if err != nil {
			return nil, nil, err
		}
		return exporter.NewJSONExporter(w), cleanup, nil
	case "csv":
		w, cleanup, err := writerFor()
		if err != nil {
			return nil, nil, err
		}
		return exporter.NewCSVExporter(w), cleanup, nil
	case "excel":
		if output == "" {
			return nil, nil, fmt.Errorf("для формата excel требуется -output")
		}
		return exporter.NewExcelExporter(output), noop, nil
	default:
		return nil, nil, fmt.Errorf("неизвестный формат вывода: %s", format)
	}
}
