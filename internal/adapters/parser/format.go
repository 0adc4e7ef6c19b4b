package parser

import (
	"regexp"
	"strings"
	"time"

	"whatsapp-chat-analyzer/internal/domain"
)

// Класс пробельных символов, встречающихся в заголовках iOS-экспортов
// (обычный пробел, неразрывные и узкие юникод-пробелы).
const iosSpace = `[ \x{00A0}\x{202F}\x{2009}\x{200A}\x{2002}-\x{2008}]`

var (
	// Android: "12/31/2023, 10:15 PM - Автор: Сообщение"
	androidHeaderRe = regexp.MustCompile(
		`^(\d{1,2}/\d{1,2}/\d{2,4}), (\d{1,2}:\d{2})\s*([AaPp][Mm])? -`)

	// iOS: "[31/12/23, 22:15:01] Автор: Сообщение"
	iosHeaderRe = regexp.MustCompile(
		`^\[(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})(?:,?` + iosSpace + `+)` +
			`(\d{1,2}:\d{2}(?::\d{2})?)(?:` + iosSpace + `*([AaPp][Mm]))?\]`)

	// Свободные шаблоны начала даты: строка похожа на заголовок, но не
	// соответствует полной грамматике. Такие строки понижаются до
	// продолжения с предупреждением, а не рвут сообщение.
	androidLooseRe = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4},`)
	iosLooseRe     = regexp.MustCompile(`^\[\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
)

// Наборы временных форматов в порядке попытки разбора. Первый подошедший
// выигрывает, как и в исходных экспортах порядок month-first/day-first
// неразличим по самой строке.
var androidLayouts = []string{
	// Месяц первым (US-формат)
	"1/2/2006 3:04 PM", "1/2/06 3:04 PM",
	"1/2/2006 15:04", "1/2/06 15:04",
	// День первым (европейский/индийский формат)
	"2/1/2006 3:04 PM", "2/1/06 3:04 PM",
	"2/1/2006 15:04", "2/1/06 15:04",
}

var iosLayouts = []string{
	// День первым
	"2-1-2006 15:04:05", "2-1-06 15:04:05", "2/1/2006 15:04:05", "2/1/06 15:04:05",
	"2-1-2006 15:04", "2-1-06 15:04", "2/1/2006 15:04", "2/1/06 15:04",
	"2-1-2006 3:04:05 PM", "2-1-06 3:04:05 PM", "2/1/2006 3:04:05 PM", "2/1/06 3:04:05 PM",
	"2-1-2006 3:04 PM", "2-1-06 3:04 PM", "2/1/2006 3:04 PM", "2/1/06 3:04 PM",
	// Месяц первым (US-формат iOS-экспортов)
	"1-2-2006 15:04:05", "1-2-06 15:04:05", "1/2/2006 15:04:05", "1/2/06 15:04:05",
	"1-2-2006 15:04", "1-2-06 15:04", "1/2/2006 15:04", "1/2/06 15:04",
	"1-2-2006 3:04:05 PM", "1-2-06 3:04:05 PM", "1/2/2006 3:04:05 PM", "1/2/06 3:04:05 PM",
	"1-2-2006 3:04 PM", "1-2-06 3:04 PM", "1/2/2006 3:04 PM", "1/2/06 3:04 PM",
}

// platformSpec описывает грамматику одного формата экспорта как данные:
// шаблон заголовка, форматы времени и таблица токенов-заглушек.
// Выбор логики разбора — это выбор значения, а не подкласса парсера.
type platformSpec struct {
	platform domain.Platform
	headerRe *regexp.Regexp
	looseRe  *regexp.Regexp
	layouts  []string
	// Точные токены-заглушки для медиа и удаленных сообщений.
	mediaTokens   map[string]struct{}
	deletedTokens map[string]struct{}
}

var androidSpec = &platformSpec{
	platform: domain.PlatformAndroid,
	headerRe: androidHeaderRe,
	looseRe:  androidLooseRe,
	layouts:  androidLayouts,
	mediaTokens: tokenSet(
		"<Media omitted>",
	),
	deletedTokens: tokenSet(
		"This message was deleted",
		"You deleted this message",
	),
}

var iosSpec = &platformSpec{
	platform: domain.PlatformIOS,
	headerRe: iosHeaderRe,
	looseRe:  iosLooseRe,
	layouts:  iosLayouts,
	mediaTokens: tokenSet(
		"<Media omitted>",
		"image omitted",
		"video omitted",
		"audio omitted",
		"sticker omitted",
		"GIF omitted",
		"document omitted",
		"Contact card omitted",
	),
	deletedTokens: tokenSet(
		"This message was deleted.",
		"You deleted this message.",
	),
}

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// specFor возвращает грамматику для платформы. PlatformAuto не имеет
// грамматики: вызывающий обязан сначала определить платформу.
func specFor(platform domain.Platform) *platformSpec {
	if platform == domain.PlatformIOS {
		return iosSpec
	}
	return androidSpec
}

// detectSampleSize — сколько первых непустых строк участвует в определении формата.
const detectSampleSize = 20

// DetectPlatform определяет формат экспорта по первым непустым строкам.
// Побеждает формат с наибольшим числом совпадений заголовков; при равенстве
// предпочитается Android как более распространенный. Если не совпала ни одна
// строка, возвращается ErrFormatUnrecognized.
func DetectPlatform(lines []string) (domain.Platform, error) {
	androidCount := 0
	iosCount := 0
	sampled := 0

	for _, line := range lines {
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		sampled++
		if androidHeaderRe.MatchString(cleaned) {
			androidCount++
		} else if iosHeaderRe.MatchString(cleaned) {
			iosCount++
		}
		if sampled >= detectSampleSize {
			break
		}
	}

	switch {
	case androidCount == 0 && iosCount == 0:
		return domain.PlatformAuto, domain.ErrFormatUnrecognized
	case iosCount > androidCount:
		return domain.PlatformIOS, nil
	default:
		return domain.PlatformAndroid, nil
	}
}

// parseTimestamp разбирает дату и время заголовка, перебирая форматы платформы.
func (s *platformSpec) parseTimestamp(date, timeOfDay string) (time.Time, bool) {
	// Нормализуем маркер AM/PM: time.Parse чувствителен к регистру.
	value := date + " " + strings.ToUpper(timeOfDay)
	for _, layout := range s.layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// headerParts — разобранная заголовочная строка до сборки сообщения.
type headerParts struct {
	timestamp time.Time
	sender    string
	body      string
}

// matchHeader пытается разобрать строку как заголовок сообщения.
// Возвращает (nil, true), если строка похожа на заголовок, но ее временная
// метка не разбирается ни одним форматом: такая строка понижается до
// продолжения, чтобы вставленный пользователем текст с датой не рвал сообщение.
func (s *platformSpec) matchHeader(line string) (parts *headerParts, malformed bool) {
	m := s.headerRe.FindStringSubmatch(line)
	if m == nil {
		if s.looseRe.MatchString(line) {
			return nil, true
		}
		return nil, false
	}

	date, timeOfDay := m[1], m[2]
	if m[3] != "" {
		timeOfDay += " " + m[3]
	}

	ts, ok := s.parseTimestamp(date, timeOfDay)
	if !ok {
		return nil, true
	}

	rest := line[len(m[0]):]
	sender, body := s.splitSenderBody(rest)
	return &headerParts{timestamp: ts, sender: sender, body: body}, false
}

// splitSenderBody отделяет отправителя от начала тела сообщения.
// Строки без разделителя — системные: у них нет отправителя.
func (s *platformSpec) splitSenderBody(rest string) (sender, body string) {
	if s.platform == domain.PlatformAndroid {
		rest = strings.TrimPrefix(rest, " ")
		// Android: "Автор: Сообщение" либо системная строка без двоеточия.
		if idx := strings.Index(rest, ": "); idx >= 0 {
			return rest[:idx], rest[idx+2:]
		}
		return "", rest
	}

	rest = strings.TrimSpace(rest)
	// iOS: системные строки могут не иметь двоеточия вовсе либо иметь
	// пустое тело после него.
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return "", rest
	}
	sender = strings.TrimSpace(rest[:idx])
	body = strings.TrimSpace(rest[idx+1:])
	if body == "" {
		return "", rest
	}
	return sender, body
}

// classifyKind определяет тип закрытого сообщения по таблице токенов-заглушек
// и наличию отправителя. Сообщение с подстрокой "omitted", не совпавшее с
// точным токеном, все равно считается медиа (поведение исходных экспортов),
// но вызывающий получает предупреждение о неизвестной заглушке.
func (s *platformSpec) classifyKind(sender, body string) (kind domain.MessageKind, unknownPlaceholder bool) {
	if sender == "" {
		return domain.KindSystem, false
	}
	if _, ok := s.deletedTokens[body]; ok {
		return domain.KindDeleted, false
	}
	if _, ok := s.mediaTokens[body]; ok {
		return domain.KindMedia, false
	}
	if strings.Contains(strings.ToLower(body), "omitted") {
		return domain.KindMedia, true
	}
	return domain.KindText, false
}
