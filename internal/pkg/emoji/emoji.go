// Package emoji предоставляет извлечение эмодзи из текста сообщений.
// Текст разбивается на графемные кластеры, чтобы составные эмодзи
// (ZWJ-последовательности, флаги, модификаторы тона кожи) считались
// одним вхождением.
package emoji

import "github.com/rivo/uniseg"

// emojiRanges — диапазоны кодовых точек, распознаваемых как эмодзи.
var emojiRanges = [][2]rune{
	{0x1F004, 0x1F004}, // Mahjong tile red dragon
	{0x1F0CF, 0x1F0CF}, // Playing card black joker
	{0x1F170, 0x1F171}, // Negative squared A/B
	{0x1F17E, 0x1F17F}, // Negative squared O/P
	{0x1F18E, 0x1F18E}, // Negative squared AB
	{0x1F191, 0x1F19A}, // Squared CL..UP
	{0x1F1E6, 0x1F1FF}, // Regional indicator symbols (флаги)
	{0x1F201, 0x1F202}, // Squared katakana
	{0x1F21A, 0x1F21A},
	{0x1F22F, 0x1F22F},
	{0x1F232, 0x1F23A}, // Squared CJK ideographs
	{0x1F250, 0x1F251},
	{0x1F300, 0x1F5FF}, // Misc symbols and pictographs
	{0x1F600, 0x1F64F}, // Emoticons
	{0x1F680, 0x1F6FF}, // Transport and map
	{0x1F900, 0x1F9FF}, // Supplemental symbols and pictographs
	{0x1FA70, 0x1FAFF}, // Symbols and pictographs extended-A
	{0x2600, 0x26FF},   // Miscellaneous symbols
	{0x2700, 0x27BF},   // Dingbats
	{0xFE00, 0xFE0F},   // Variation selectors
	{0x20E3, 0x20E3},   // Combining enclosing keycap
	{0x23CF, 0x23CF},   // Eject button
	{0x24C2, 0x24C2},   // Circled M
}

const zwj = '‍'

func isEmojiRune(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// IsEmoji сообщает, содержит ли графемный кластер эмодзи.
func IsEmoji(grapheme string) bool {
	hasZWJ := false
	for _, r := range grapheme {
		if isEmojiRune(r) {
			return true
		}
		if r == zwj {
			hasZWJ = true
		}
	}
	// ZWJ-последовательности (например, семейные эмодзи) распознаются
	// по любой кодовой точке пиктографического блока.
	if hasZWJ {
		for _, r := range grapheme {
			if r >= 0x1F000 && r <= 0x1FAFF {
				return true
			}
		}
	}
	return false
}

// Extract возвращает все эмодзи текста в порядке появления,
// по одному элементу на графемный кластер.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	var emojis []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		if IsEmoji(cluster) {
			emojis = append(emojis, cluster)
		}
	}
	return emojis
}
