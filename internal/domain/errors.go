package domain

import "errors"

// Фатальные ошибки разбора. Нефатальные проблемы возвращаются как ParseWarning.
var (
	// ErrFormatUnrecognized возвращается, когда ни одна строка выборки
	// не совпала с шаблоном известного формата и платформа не задана явно.
	ErrFormatUnrecognized = errors.New("chat export format not recognized")

	// ErrNoMessagesFound возвращается, когда вход не содержит ни одной
	// заголовочной строки сообщения.
	ErrNoMessagesFound = errors.New("no messages found in chat export")
)
