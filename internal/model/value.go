package model

import (
	"strconv"
	"strings"
)

// ValueKind представляет форму литерала, как она записана в спецификации
type ValueKind int

const (
	ValueBool ValueKind = iota
	ValueInteger
	ValueString
	ValueArray
)

func (k ValueKind) String() string {
	switch k {
	case ValueBool:
		return "bool"
	case ValueInteger:
		return "integer"
	case ValueString:
		return "string"
	case ValueArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value хранит литерал значения вместе с исходной записью скаляров.
// Типизированная интерпретация значения задаётся парой (Value, Type) в Entry.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Str   string
	Items []Value
	Raw   string // Исходная запись скаляра (0xb000_0000, "0x1000", 'abc')
}

// BoolValue создаёт булево значение
func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b, Raw: strconv.FormatBool(b)}
}

// IntValue создаёт целое значение в десятичной записи
func IntValue(i int64) Value {
	return Value{Kind: ValueInteger, Int: i, Raw: strconv.FormatInt(i, 10)}
}

// StringValue создаёт строковое значение в виде базовой TOML-строки
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s, Raw: QuoteTOML(s)}
}

// ArrayValue создаёт массив (или кортеж, в зависимости от типа записи)
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: ValueArray, Items: items}
}

// Equal сравнивает значения вместе с их исходной записью
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind != ValueArray {
		return v.Raw == o.Raw && v.Bool == o.Bool && v.Int == o.Int && v.Str == o.Str
	}
	if len(v.Items) != len(o.Items) {
		return false
	}
	for i := range v.Items {
		if !v.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// HasNestedArray сообщает, содержит ли массив вложенные массивы
func (v Value) HasNestedArray() bool {
	for _, it := range v.Items {
		if it.Kind == ValueArray {
			return true
		}
	}
	return false
}

// TOML возвращает запись значения в синтаксисе TOML.
// Массивы с вложенными массивами записываются в несколько строк.
func (v Value) TOML() string {
	switch v.Kind {
	case ValueArray:
		elems := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			elems = append(elems, it.TOML())
		}
		if v.HasNestedArray() {
			body := strings.ReplaceAll(strings.Join(elems, ",\n"), "\n", "\n    ")
			return "[\n    " + body + "\n]"
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ValueString:
		if v.Raw != "" {
			return v.Raw
		}
		return QuoteTOML(v.Str)
	default:
		if v.Raw != "" {
			return v.Raw
		}
		if v.Kind == ValueBool {
			return strconv.FormatBool(v.Bool)
		}
		return strconv.FormatInt(v.Int, 10)
	}
}

// Number интерпретирует строку как целочисленный литерал ("0xb000_0000", "-12").
// Возвращает модуль числа и признак отрицательности.
func Number(s string) (mag uint64, neg bool, ok bool) {
	s = strings.ReplaceAll(strings.ToLower(s), "_", "")
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false, false
	}
	n, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false, false
	}
	if neg && n > 1<<63 {
		return 0, false, false
	}
	return n, neg, true
}

// IntLiteral возвращает запись целого числа, пригодную для исходного кода
// (Go и Rust принимают префиксы 0x/0o/0b и подчёркивания).
func (v Value) IntLiteral() string {
	switch v.Kind {
	case ValueInteger:
		raw := strings.TrimPrefix(v.Raw, "+")
		if raw == "" || !validCodeInt(raw) {
			return strconv.FormatInt(v.Int, 10)
		}
		return raw
	case ValueString:
		mag, neg, ok := Number(v.Str)
		if !ok {
			return ""
		}
		lit := strings.TrimPrefix(v.Str, "-")
		if len(lit) > 1 && (lit[1] == 'X' || lit[1] == 'O' || lit[1] == 'B') {
			lit = lit[:1] + strings.ToLower(lit[1:2]) + lit[2:]
		}
		if !validCodeInt(lit) {
			if strings.HasPrefix(strings.ToLower(lit), "0x") {
				lit = "0x" + strconv.FormatUint(mag, 16)
			} else {
				lit = strconv.FormatUint(mag, 10)
			}
		}
		if neg {
			return "-" + lit
		}
		return lit
	}
	return ""
}

// validCodeInt проверяет запись по правилам целочисленных литералов Go,
// которые строже правил Rust в части подчёркиваний.
func validCodeInt(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		return false
	}
	_, err := strconv.ParseUint(s, 0, 64)
	return err == nil
}

// QuoteTOML записывает строку как базовую строку TOML
func QuoteTOML(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u00`)
				b.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				b.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
