package source

import "testing"

func TestMemorySource(t *testing.T) {
	t.Run("Fetch возвращает данные из памяти", func(t *testing.T) {
		data := []byte("12/1/23, 9:00 AM - Alice: Hi")
		source := NewMemorySource(data)

		got, err := source.Fetch()
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if string(got) != string(data) {
			t.Errorf("Ожидалось %q, получено %q", string(data), string(got))
		}
	})

	t.Run("Fetch возвращает ошибку для неустановленных данных", func(t *testing.T) {
		source := &MemorySource{data: nil}

		got, err := source.Fetch()
		if err == nil {
			t.Error("Ожидалась ошибка для неустановленных данных, получено nil")
		}

		if got != nil {
			t.Error("Ожидались nil данные, получены данные")
		}
	})

	t.Run("Fetch возвращает копию, а не оригинал", func(t *testing.T) {
		data := []byte("original")
		source := NewMemorySource(data)

		got, err := source.Fetch()
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		got[0] = 'X'
		if data[0] != 'o' {
			t.Error("Изменение возвращенного среза не должно затрагивать оригинал")
		}
	})
}
