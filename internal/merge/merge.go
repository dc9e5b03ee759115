// Package merge объединяет несколько спецификаций и предыдущую сгенерированную
// конфигурацию в одно дерево.
package merge

import (
	"errors"
	"fmt"

	"github.com/vovanwin/axconfiggen/internal/model"
)

// DiagnosticKind описывает причину нефатального отказа от старого значения
type DiagnosticKind int

const (
	// DiagnosticIncompatible: старое значение несовместимо с типом из спецификации
	DiagnosticIncompatible DiagnosticKind = iota
	// DiagnosticRemoved: путь старой конфигурации больше не объявлен в спецификациях
	DiagnosticRemoved
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticIncompatible:
		return "incompatible"
	case DiagnosticRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Diagnostic предупреждение о значении старой конфигурации, которое было отброшено
type Diagnostic struct {
	Kind     DiagnosticKind
	Path     string
	Source   string // Файл старой конфигурации
	Line     int
	Expected string // Тип из спецификации
	Actual   string // Тип старого значения
	Value    string // Отброшенное значение в записи TOML
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagnosticIncompatible:
		return fmt.Sprintf("%s:%d: `%s`: значение %s типа `%s` несовместимо с `%s`, оставлено значение из спецификации",
			d.Source, d.Line, d.Path, d.Value, d.Actual, d.Expected)
	default:
		return fmt.Sprintf("%s:%d: `%s`: ключ отсутствует в спецификациях, значение %s отброшено",
			d.Source, d.Line, d.Path, d.Value)
	}
}

// Result содержит итоговое дерево и диагностику переноса старых значений
type Result struct {
	Config      *model.Config
	Diagnostics []Diagnostic
}

// Merge объединяет спецификации в порядке следования и переносит совместимые
// значения из старой конфигурации old (может быть nil).
//
// Повторное определение пути должно иметь совместимый тип. Значение, тип и
// комментарий берутся из последней спецификации, а позиция записи остаётся той,
// где путь появился впервые.
func Merge(specs []*model.Config, old *model.Config) (*Result, error) {
	acc := model.NewConfig("")

	for _, spec := range specs {
		if err := mergeSpec(acc, spec); err != nil {
			return nil, err
		}
	}

	res := &Result{Config: acc}
	if old != nil {
		res.Diagnostics = carryForward(acc, old)
	}
	return res, nil
}

func mergeSpec(acc, spec *model.Config) error {
	for tablePath, table := range spec.Tables() {
		dst, err := acc.EnsureTable(tablePath)
		if err != nil {
			return relocate(err, spec.Source)
		}
		if table.Comment != "" {
			dst.Comment = table.Comment
		}

		for _, e := range table.Entries() {
			path := model.JoinPath(tablePath, e.Name)
			if prev, ok := dst.Entry(e.Name); ok && !model.Compatible(prev.Type, e.Type) {
				return &model.Error{
					Err:         model.ErrConflictingType,
					Source:      sourceOf(e, spec),
					Line:        e.Line,
					Path:        path,
					Expected:    prev.Type.String(),
					Actual:      e.Type.String(),
					OtherSource: prev.Source,
				}
			}

			entry := *e
			if entry.Source == "" {
				entry.Source = spec.Source
			}
			if err := acc.Insert(path, entry); err != nil {
				return relocate(model.At(err, "", path, e.Line), entry.Source)
			}
		}
	}
	return nil
}

// carryForward заменяет значения по умолчанию значениями старой конфигурации.
// Старое значение принимается, если его тип совпадает с типом из спецификации
// или его литерал проходит проверку этим типом.
func carryForward(acc, old *model.Config) []Diagnostic {
	var diags []Diagnostic

	for path, prev := range old.All() {
		cur, err := acc.Lookup(path)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:   DiagnosticRemoved,
				Path:   path,
				Source: sourceOf(prev, old),
				Line:   prev.Line,
				Actual: prev.Type.String(),
				Value:  prev.Value.TOML(),
			})
			continue
		}

		if model.Compatible(cur.Type, prev.Type) || model.Validate(prev.Value, cur.Type) == nil {
			cur.Value = prev.Value
			continue
		}

		diags = append(diags, Diagnostic{
			Kind:     DiagnosticIncompatible,
			Path:     path,
			Source:   sourceOf(prev, old),
			Line:     prev.Line,
			Expected: cur.Type.String(),
			Actual:   prev.Type.String(),
			Value:    prev.Value.TOML(),
		})
	}

	return diags
}

// relocate переносит источник существующего определения в OtherSource,
// а источником ошибки делает текущую спецификацию
func relocate(err error, source string) error {
	var e *model.Error
	if !errors.As(err, &e) {
		return model.At(err, source, "", 0)
	}
	out := *e
	if out.Source != source {
		out.OtherSource = out.Source
	}
	out.Source = source
	return &out
}

func sourceOf(e *model.Entry, cfg *model.Config) string {
	if e.Source != "" {
		return e.Source
	}
	return cfg.Source
}
