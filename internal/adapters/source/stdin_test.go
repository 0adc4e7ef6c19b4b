package source

import (
	"strings"
	"testing"
)

func TestStdinSource(t *testing.T) {
	t.Run("Fetch читает весь поток до конца", func(t *testing.T) {
		text := "12/1/23, 9:00 AM - Alice: Hi"
		source := NewStdinSource(strings.NewReader(text))

		data, err := source.Fetch()
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if string(data) != text {
			t.Errorf("Ожидалось %q, получено %q", text, string(data))
		}
	})

	t.Run("Fetch возвращает ошибку для nil-источника", func(t *testing.T) {
		source := &StdinSource{reader: nil}

		data, err := source.Fetch()
		if err == nil {
			t.Error("Ожидалась ошибка для nil-источника, получено nil")
		}

		if data != nil {
			t.Error("Ожидались nil данные для nil-источника, получены данные")
		}
	})

	t.Run("Fetch для пустого потока возвращает пустые данные", func(t *testing.T) {
		source := NewStdinSource(strings.NewReader(""))

		data, err := source.Fetch()
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if len(data) != 0 {
			t.Errorf("Ожидались пустые данные, получено %d байт", len(data))
		}
	})
}
