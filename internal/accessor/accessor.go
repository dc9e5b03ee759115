// Package accessor читает и изменяет отдельные значения конфигурации по точечному пути.
package accessor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovanwin/axconfiggen/internal/model"
	"github.com/vovanwin/axconfiggen/internal/parser"
)

// Read возвращает значение по пути в записи TOML
func Read(cfg *model.Config, path string) (string, bool) {
	v, _, err := Lookup(cfg, path)
	if err != nil {
		return "", false
	}
	return v.TOML(), true
}

// Lookup возвращает значение по пути вместе с его типом
func Lookup(cfg *model.Config, path string) (model.Value, model.Type, error) {
	e, err := cfg.Lookup(path)
	if err != nil {
		return model.Value{}, model.Type{}, err
	}
	return e.Value, e.Type, nil
}

// Write разбирает литерал и заменяет значение существующей записи.
// Новые пути не создаются, тип записи не меняется.
func Write(cfg *model.Config, path, literal string) error {
	e, err := cfg.Lookup(path)
	if err != nil {
		return err
	}

	v, err := parser.ParseLiteral(literal)
	if err != nil {
		return model.At(err, "", path, 0)
	}
	if err := model.Validate(v, e.Type); err != nil {
		return &model.Error{
			Err:      model.ErrConflictingType,
			Path:     path,
			Expected: e.Type.String(),
			Actual:   v.TOML(),
			Source:   e.Source,
			Detail:   err.Error(),
		}
	}

	e.Value = v
	return nil
}

// Assignment одна пара path=literal из командной строки
type Assignment struct {
	Path    string
	Literal string
}

// ErrInvalidAssignment присваивание не в виде path=literal
var ErrInvalidAssignment = errors.New("ожидалось присваивание path=literal")

// ParseAssignment разбирает строку path=literal.
// Литерал может содержать '=', путь делится по первому вхождению.
func ParseAssignment(s string) (Assignment, error) {
	path, literal, ok := strings.Cut(s, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return Assignment{}, fmt.Errorf("%w: %q", ErrInvalidAssignment, s)
	}
	return Assignment{Path: path, Literal: strings.TrimSpace(literal)}, nil
}

// ParseAssignments разбирает список присваиваний, сохраняя порядок
func ParseAssignments(list []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(list))
	for _, s := range list {
		a, err := ParseAssignment(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// WriteAll применяет присваивания по порядку и останавливается на первой ошибке
func WriteAll(cfg *model.Config, assignments []Assignment) error {
	for _, a := range assignments {
		if err := Write(cfg, a.Path, a.Literal); err != nil {
			return err
		}
	}
	return nil
}
