// Package logger оборачивает zerolog.Logger для вывода хода генерации и диагностики.
package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger тонкая обёртка над zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// New создаёт логгер с человекочитаемым выводом в w.
// При verbose выводятся сообщения уровня debug.
func New(w io.Writer, verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return &Logger{zerolog.New(out).Level(level)}
}

// NewJSON создаёт логгер с JSON выводом, удобный для CI
func NewJSON(w io.Writer, verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &Logger{zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
