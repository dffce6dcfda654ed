// Package sl содержит вспомогательные атрибуты для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
//
//	log.Error("failed to load course", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op возвращает атрибут "op" с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
