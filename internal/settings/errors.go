package settings

import (
	"errors"

	"github.com/vovanwin/axconfiggen/internal/accessor"
)

// Ошибки проверки настроек
var (
	// ErrNoSpecs не задан ни один файл спецификации
	ErrNoSpecs = errors.New("не задан ни один файл спецификации (--spec)")
	// ErrInvalidFormat неизвестный формат вывода
	ErrInvalidFormat = errors.New("некорректный формат вывода")
	// ErrInvalidAssignment присваивание не в виде path=literal
	ErrInvalidAssignment = accessor.ErrInvalidAssignment
)
