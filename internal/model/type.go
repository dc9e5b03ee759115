package model

import (
	"strings"
)

// Kind представляет вид типа значения конфигурации
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindStr
	KindArray
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindStr:
		return "str"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Type описывает тип записи конфигурации
type Type struct {
	Kind  Kind   // Вид типа
	Elem  *Type  // Для массивов: тип элементов
	Items []Type // Для кортежей: типы позиций
}

func Bool() Type { return Type{Kind: KindBool} }
func Int() Type  { return Type{Kind: KindInt} }
func Uint() Type { return Type{Kind: KindUint} }
func Str() Type  { return Type{Kind: KindStr} }

// ArrayOf возвращает однородный массив элементов типа elem
func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// TupleOf возвращает кортеж фиксированной длины
func TupleOf(items ...Type) Type {
	if items == nil {
		items = []Type{}
	}
	return Type{Kind: KindTuple, Items: items}
}

// Equal сравнивает типы структурно
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.Equal(*o.Elem)
	case KindTuple:
		if len(t.Items) != len(o.Items) {
			return false
		}
		for i := range t.Items {
			if !t.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
	}
	return true
}

// Compatible сообщает, может ли значение типа b заменить значение типа a.
// Совместимыми считаются только структурно одинаковые типы.
func Compatible(a, b Type) bool {
	return a.Equal(b)
}

// String возвращает каноническую запись типа: bool, int, uint, str, [T], (T, U)
func (t Type) String() string {
	switch t.Kind {
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindTuple:
		items := make([]string, 0, len(t.Items))
		for _, it := range t.Items {
			items = append(items, it.String())
		}
		return "(" + strings.Join(items, ", ") + ")"
	default:
		return t.Kind.String()
	}
}

// IsScalar сообщает, является ли тип скалярным
func (t Type) IsScalar() bool {
	return t.Kind != KindArray && t.Kind != KindTuple
}

// ParseType разбирает аннотацию типа из хвостового комментария.
// Пробелы игнорируются: "( uint , str )" эквивалентно "(uint,str)".
func ParseType(s string) (Type, error) {
	t, err := parseType(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return Type{}, &Error{Err: ErrInvalidTypeAnnotation, Actual: s}
	}
	return t, nil
}

func parseType(s string) (Type, error) {
	switch s {
	case "bool":
		return Bool(), nil
	case "int":
		return Int(), nil
	case "uint":
		return Uint(), nil
	case "str":
		return Str(), nil
	}

	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		inner := s[1 : len(s)-1]
		if inner == "" {
			return TupleOf(), nil
		}
		parts, ok := splitTupleItems(inner)
		if !ok {
			return Type{}, ErrInvalidTypeAnnotation
		}
		items := make([]Type, 0, len(parts))
		for _, p := range parts {
			it, err := parseType(p)
			if err != nil {
				return Type{}, err
			}
			items = append(items, it)
		}
		return TupleOf(items...), nil

	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		inner := s[1 : len(s)-1]
		if inner == "" {
			return Type{}, ErrInvalidTypeAnnotation
		}
		elem, err := parseType(inner)
		if err != nil {
			return Type{}, err
		}
		return ArrayOf(elem), nil
	}

	return Type{}, ErrInvalidTypeAnnotation
}

// splitTupleItems делит содержимое кортежа по запятым верхнего уровня
func splitTupleItems(s string) ([]string, bool) {
	var items []string
	start, level := 0, 0
	for i, c := range s {
		switch c {
		case '(', '[':
			level++
		case ')', ']':
			level--
		case ',':
			if level == 0 {
				if start == i {
					return nil, false
				}
				items = append(items, s[start:i])
				start = i + 1
			}
		}
		if level < 0 {
			return nil, false
		}
	}
	if level != 0 || start >= len(s) {
		return nil, false
	}
	return append(items, s[start:]), true
}
