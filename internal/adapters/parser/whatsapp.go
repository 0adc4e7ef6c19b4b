package parser

import (
	"bufio"
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/xerrors"

	"whatsapp-chat-analyzer/internal/domain"
	"whatsapp-chat-analyzer/internal/ports"
)

// WhatsAppParser реализует интерфейс ChatParser для текстовых экспортов WhatsApp.
type WhatsAppParser struct{}

// NewWhatsAppParser создает новый экземпляр WhatsAppParser.
func NewWhatsAppParser() ports.ChatParser {
	return &WhatsAppParser{}
}

// Parse преобразует сырой текст экспорта в последовательность сообщений.
// Порядок сообщений всегда совпадает с порядком в источнике, даже если
// временные метки немонотонны. Нефатальные проблемы накапливаются в
// предупреждениях; фатальны только неопознанный формат и пустой результат.
func (p *WhatsAppParser) Parse(data []byte, platform domain.Platform) ([]domain.Message, []domain.ParseWarning, error) {
	text, err := decodeContent(data)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to decode chat export: %w", err)
	}

	if platform == domain.PlatformAuto || platform == "" {
		detected, err := DetectPlatform(strings.SplitN(text, "\n", detectSampleSize*4))
		if err != nil {
			return nil, nil, xerrors.Errorf("failed to detect platform: %w", err)
		}
		platform = detected
	}
	spec := specFor(platform)

	var (
		messages []domain.Message
		warnings []domain.ParseWarning
		open     *builder
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := cleanLine(scanner.Text())

		parts, malformed := spec.matchHeader(line)
		switch {
		case parts != nil:
			if open != nil {
				messages = append(messages, open.close(spec, &warnings))
			}
			open = newBuilder(parts, lineNo)

		case malformed:
			warnings = append(warnings, domain.ParseWarning{
				Line:   lineNo,
				Text:   line,
				Reason: "line resembles a message header but its timestamp could not be parsed",
			})
			if open != nil {
				open.appendLine(line, lineNo)
			}

		default:
			if open == nil {
				// До первого заголовка пустые строки пропускаются молча,
				// непустые — с предупреждением.
				if line != "" {
					warnings = append(warnings, domain.ParseWarning{
						Line:   lineNo,
						Text:   line,
						Reason: "continuation line before any message header",
					})
				}
				continue
			}
			open.appendLine(line, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, xerrors.Errorf("failed to scan chat export: %w", err)
	}

	if open != nil {
		messages = append(messages, open.close(spec, &warnings))
	}

	if len(messages) == 0 {
		return nil, warnings, domain.ErrNoMessagesFound
	}

	return messages, warnings, nil
}

// builder собирает одно сообщение из заголовка и строк-продолжений.
type builder struct {
	parts     headerParts
	body      strings.Builder
	firstLine int
	lastLine  int
}

func newBuilder(parts *headerParts, lineNo int) *builder {
	b := &builder{parts: *parts, firstLine: lineNo, lastLine: lineNo}
	b.body.WriteString(parts.body)
	return b
}

// appendLine добавляет строку-продолжение к телу сообщения.
// Пустые строки внутри тела сохраняются намеренно.
func (b *builder) appendLine(line string, lineNo int) {
	b.body.WriteString("\n")
	b.body.WriteString(line)
	b.lastLine = lineNo
}

// close завершает сборку: тело очищается от завершающих пробелов,
// сообщению присваивается тип по таблице заглушек платформы.
func (b *builder) close(spec *platformSpec, warnings *[]domain.ParseWarning) domain.Message {
	body := strings.TrimRight(b.body.String(), " \t\r\n")
	kind, unknownPlaceholder := spec.classifyKind(b.parts.sender, body)
	if unknownPlaceholder {
		*warnings = append(*warnings, domain.ParseWarning{
			Line:   b.firstLine,
			Text:   body,
			Reason: "unknown media placeholder token",
		})
	}
	return domain.Message{
		Timestamp: b.parts.timestamp,
		Sender:    b.parts.sender,
		Body:      body,
		Kind:      kind,
		FirstLine: b.firstLine,
		LastLine:  b.lastLine,
	}
}

// cleanLine убирает из строки маркеры направления письма и BOM,
// характерные для iOS-экспортов, и завершающий перевод строки.
func cleanLine(line string) string {
	cleaned := strings.ReplaceAll(line, "‎", "")
	cleaned = strings.ReplaceAll(cleaned, "‏", "")
	return strings.Trim(cleaned, "\uFEFF\r\n")
}

// decodeContent декодирует содержимое экспорта. WhatsApp отдает файлы в
// UTF-8 либо UTF-16 (обычно с BOM); без BOM кодировка угадывается по
// расположению нулевых байтов.
func decodeContent(data []byte) (string, error) {
	if len(data) >= 2 {
		switch {
		case data[0] == 0xFF && data[1] == 0xFE,
			data[0] == 0xFE && data[1] == 0xFF:
			dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
			decoded, _, err := transform.Bytes(dec, data)
			if err != nil {
				return "", err
			}
			return string(decoded), nil
		}
	}

	if looksLikeUTF16(data) {
		endian := unicode.LittleEndian
		if countZerosAt(data, 0) > countZerosAt(data, 1) {
			endian = unicode.BigEndian
		}
		dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
		decoded, _, err := transform.Bytes(dec, data)
		if err == nil {
			return string(decoded), nil
		}
	}

	return string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})), nil
}

// looksLikeUTF16 эвристически распознает UTF-16 без BOM по доле нулевых байтов.
func looksLikeUTF16(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	zeros := 0
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	for _, b := range data[:limit] {
		if b == 0 {
			zeros++
		}
	}
	return zeros*4 > limit
}

func countZerosAt(data []byte, offset int) int {
	zeros := 0
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	for i := offset; i < limit; i += 2 {
		if data[i] == 0 {
			zeros++
		}
	}
	return zeros
}
