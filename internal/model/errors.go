package model

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки разбора, проверки и слияния конфигурации
var (
	// ErrParse: некорректный TOML или синтаксис, который не поддерживается
	ErrParse = errors.New("ошибка разбора")
	// ErrInvalidTypeAnnotation: нераспознанная аннотация типа в комментарии
	ErrInvalidTypeAnnotation = errors.New("некорректная аннотация типа")
	// ErrInvalidValue: литерал, не являющийся значением конфигурации (float, дата, таблица)
	ErrInvalidValue = errors.New("неподдерживаемое значение")
	// ErrTypeMismatch: значение не соответствует аннотации типа
	ErrTypeMismatch = errors.New("значение не соответствует типу")
	// ErrInconsistentArrayType: элементы массива не сводятся к одному типу
	ErrInconsistentArrayType = errors.New("несогласованный тип элементов массива")
	// ErrAmbiguousEmptyArrayType: тип пустого массива нельзя вывести без аннотации
	ErrAmbiguousEmptyArrayType = errors.New("тип пустого массива не определён, нужна аннотация")
	// ErrConflictingType: переопределение записи несовместимым типом
	ErrConflictingType = errors.New("конфликт типов")
	// ErrPathNotFound: путь отсутствует в конфигурации
	ErrPathNotFound = errors.New("путь не найден")
)

// Error несёт контекст ошибки: источник, точечный путь и оба типа при конфликте
type Error struct {
	Err         error  // Одна из ошибок Err*
	Source      string // Файл или иной источник спецификации
	Line        int    // Строка в источнике, 0 если неизвестна
	Path        string // Точечный путь записи (table.key)
	Expected    string // Ожидаемый тип
	Actual      string // Фактический тип или литерал
	OtherSource string // Источник, с которым возник конфликт
	Detail      string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "`%s`: ", e.Path)
	}
	b.WriteString(e.Err.Error())
	switch {
	case e.Expected != "" && e.Actual != "":
		fmt.Fprintf(&b, ": ожидался `%s`, получен `%s`", e.Expected, e.Actual)
	case e.Actual != "":
		fmt.Fprintf(&b, ": `%s`", e.Actual)
	}
	if e.OtherSource != "" {
		fmt.Fprintf(&b, " (ранее определено в %s)", e.OtherSource)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// At дополняет ошибку источником, путём и строкой, если они ещё не заданы
func At(err error, source, path string, line int) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Err: ErrParse, Source: source, Path: path, Line: line, Detail: err.Error()}
	}
	out := *e
	if out.Source == "" {
		out.Source = source
	}
	if out.Path == "" {
		out.Path = path
	}
	if out.Line == 0 {
		out.Line = line
	}
	return &out
}
