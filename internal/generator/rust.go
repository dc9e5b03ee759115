package generator

import (
	"fmt"
	"strings"

	"github.com/vovanwin/axconfiggen/internal/model"
	"github.com/vovanwin/axconfiggen/internal/parser"
)

// RenderRust выводит конфигурацию как набор Rust констант.
// Таблицы становятся вложенными модулями `pub mod`.
func RenderRust(cfg *model.Config) (string, error) {
	w := &rustWriter{}
	if err := w.table(cfg.Root(), ""); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

type rustWriter struct {
	b      strings.Builder
	indent int
}

func (w *rustWriter) println(s string) {
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		if line != "" {
			w.b.WriteString(strings.Repeat(" ", w.indent))
		}
		w.b.WriteString(line)
		w.b.WriteString("\n")
	}
}

func (w *rustWriter) table(t *model.Table, path string) error {
	for _, e := range t.Entries() {
		if err := w.constant(e, model.JoinPath(path, e.Name)); err != nil {
			return err
		}
	}

	for _, sub := range t.Tables() {
		if w.b.Len() > 0 {
			w.b.WriteString("\n")
		}
		if sub.Comment != "" {
			w.println(formatComment(sub.Comment, "///"))
		}
		w.println(fmt.Sprintf("pub mod %s {", parser.ToModName(sub.Name)))
		w.indent += 4
		if err := w.table(sub, model.JoinPath(path, sub.Name)); err != nil {
			return err
		}
		w.indent -= 4
		w.println("}")
	}
	return nil
}

func (w *rustWriter) constant(e *model.Entry, path string) error {
	val, err := rustValue(e.Value, e.Type, 0)
	if err != nil {
		return model.At(err, e.Source, path, e.Line)
	}
	if e.Comment != "" {
		w.println(formatComment(e.Comment, "///"))
	}
	w.println(fmt.Sprintf("pub const %s: %s = %s;", parser.ToConstName(e.Name), rustType(e.Type), val))
	return nil
}

// rustType возвращает Rust тип для типа записи
func rustType(t model.Type) string {
	switch t.Kind {
	case model.KindBool:
		return "bool"
	case model.KindInt:
		return "isize"
	case model.KindUint:
		return "usize"
	case model.KindStr:
		return "&str"
	case model.KindArray:
		return "&[" + rustType(*t.Elem) + "]"
	case model.KindTuple:
		items := make([]string, 0, len(t.Items))
		for _, it := range t.Items {
			items = append(items, rustType(it))
		}
		return rustTuple(items)
	}
	return "()"
}

func rustTuple(items []string) string {
	if len(items) == 1 {
		return "(" + items[0] + ",)"
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// rustValue записывает значение как Rust выражение.
// Массивы с вложенными массивами разбиваются на строки с отступом относительно indent.
func rustValue(v model.Value, t model.Type, indent int) (string, error) {
	mismatch := &model.Error{Err: model.ErrTypeMismatch, Expected: t.String(), Actual: v.TOML()}

	switch t.Kind {
	case model.KindBool:
		if v.Kind != model.ValueBool {
			return "", mismatch
		}
		return fmt.Sprint(v.Bool), nil

	case model.KindInt, model.KindUint:
		lit := v.IntLiteral()
		if lit == "" {
			return "", mismatch
		}
		return lit, nil

	case model.KindStr:
		if v.Kind != model.ValueString {
			return "", mismatch
		}
		return rustString(v.Str), nil

	case model.KindArray:
		if v.Kind != model.ValueArray {
			return "", mismatch
		}
		elems := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			s, err := rustValue(it, *t.Elem, indent+4)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
		if !v.HasNestedArray() {
			return "&[" + strings.Join(elems, ", ") + "]", nil
		}
		pad := strings.Repeat(" ", indent+4)
		var b strings.Builder
		b.WriteString("&[\n")
		for _, s := range elems {
			b.WriteString(pad + s + ",\n")
		}
		b.WriteString(strings.Repeat(" ", indent) + "]")
		return b.String(), nil

	case model.KindTuple:
		if v.Kind != model.ValueArray || len(v.Items) != len(t.Items) {
			return "", mismatch
		}
		elems := make([]string, 0, len(v.Items))
		for i, it := range v.Items {
			s, err := rustValue(it, t.Items[i], indent)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
		return rustTuple(elems), nil
	}
	return "", mismatch
}

// rustString записывает строковый литерал Rust
func rustString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
