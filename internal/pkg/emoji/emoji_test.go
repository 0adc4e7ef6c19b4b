package emoji

import "testing"

func TestIsEmoji(t *testing.T) {
	tests := []struct {
		name     string
		grapheme string
		want     bool
	}{
		{"Смайлик", "😂", true},
		{"Пиктограмма", "🎉", true},
		{"Сердце с вариационным селектором", "❤️", true},
		{"Флаг из региональных индикаторов", "🇷🇺", true},
		{"Эмодзи с модификатором тона кожи", "👍🏽", true},
		{"ZWJ-последовательность семьи", "👨‍👩‍👧", true},
		{"Обычная буква", "a", false},
		{"Кириллица", "ж", false},
		{"Цифра", "7", false},
		{"Пробел", " ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmoji(tt.grapheme); got != tt.want {
				t.Errorf("IsEmoji(%q) = %v, ожидалось %v", tt.grapheme, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("Пустой текст", func(t *testing.T) {
		if got := Extract(""); got != nil {
			t.Errorf("Ожидался nil, получено %v", got)
		}
	})

	t.Run("Текст без эмодзи", func(t *testing.T) {
		if got := Extract("просто текст без картинок"); len(got) != 0 {
			t.Errorf("Ожидался пустой результат, получено %v", got)
		}
	})

	t.Run("Эмодзи внутри текста в порядке появления", func(t *testing.T) {
		got := Extract("привет 😂 как дела 🎉😂")
		want := []string{"😂", "🎉", "😂"}
		if len(got) != len(want) {
			t.Fatalf("Ожидалось %d эмодзи, получено %d: %v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Позиция %d: ожидалось %q, получено %q", i, want[i], got[i])
			}
		}
	})

	t.Run("Составное эмодзи считается одним вхождением", func(t *testing.T) {
		got := Extract("семья 👨‍👩‍👧 собралась")
		if len(got) != 1 {
			t.Fatalf("Ожидалось 1 эмодзи, получено %d: %v", len(got), got)
		}
		if got[0] != "👨‍👩‍👧" {
			t.Errorf("Ожидался целый кластер, получено %q", got[0])
		}
	})

	t.Run("Флаг считается одним вхождением", func(t *testing.T) {
		got := Extract("🇷🇺")
		if len(got) != 1 {
			t.Fatalf("Ожидалось 1 эмодзи, получено %d: %v", len(got), got)
		}
	})
}
