package model

// Check выводит или проверяет тип значения.
// При непустой аннотации тип берётся из неё и значение проверяется на соответствие,
// иначе тип выводится по форме литерала.
func Check(v Value, annotation string) (Type, error) {
	if annotation == "" {
		return Infer(v)
	}
	t, err := ParseType(annotation)
	if err != nil {
		return Type{}, err
	}
	if err := Validate(v, t); err != nil {
		return Type{}, err
	}
	return t, nil
}

// Infer выводит тип значения по форме литерала
func Infer(v Value) (Type, error) {
	switch v.Kind {
	case ValueBool:
		return Bool(), nil

	case ValueInteger:
		if v.Int < 0 {
			return Int(), nil
		}
		return Uint(), nil

	case ValueString:
		// Строки-числа ("0xb000_0000") считаются адресами
		if _, neg, ok := Number(v.Str); ok {
			if neg {
				return Int(), nil
			}
			return Uint(), nil
		}
		return Str(), nil

	case ValueArray:
		if len(v.Items) == 0 {
			return Type{}, &Error{Err: ErrAmbiguousEmptyArrayType, Actual: v.TOML()}
		}
		types := make([]Type, 0, len(v.Items))
		for _, it := range v.Items {
			t, err := Infer(it)
			if err != nil {
				return Type{}, err
			}
			types = append(types, t)
		}
		return unify(types)
	}
	return Type{}, &Error{Err: ErrInvalidValue, Actual: v.Kind.String()}
}

// unify сводит типы элементов массива к Array(T) или Tuple(...).
// Массив, элементы которого отличаются только знаковостью целых, не расширяется
// до общего типа и считается ошибкой.
func unify(types []Type) (Type, error) {
	same, uniform := true, true
	var odd Type
	for _, t := range types[1:] {
		if t.Equal(types[0]) {
			continue
		}
		same = false
		odd = t
		if !sameShape(t, types[0]) {
			uniform = false
		}
	}
	switch {
	case same:
		return ArrayOf(types[0]), nil
	case uniform:
		return Type{}, &Error{
			Err:      ErrInconsistentArrayType,
			Expected: types[0].String(),
			Actual:   odd.String(),
		}
	}
	return TupleOf(types...), nil
}

// sameShape сравнивает типы, не различая знаковость целых
func sameShape(a, b Type) bool {
	if isInteger(a) && isInteger(b) {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindArray:
		return sameShape(*a.Elem, *b.Elem)
	case KindTuple:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !sameShape(a.Items[i], b.Items[i]) {
				return false
			}
		}
	}
	return true
}

func isInteger(t Type) bool {
	return t.Kind == KindInt || t.Kind == KindUint
}

// Validate проверяет, что значение соответствует заданному типу
func Validate(v Value, t Type) error {
	mismatch := func() error {
		return &Error{Err: ErrTypeMismatch, Expected: t.String(), Actual: v.TOML()}
	}

	switch t.Kind {
	case KindBool:
		if v.Kind != ValueBool {
			return mismatch()
		}

	case KindInt, KindUint:
		switch v.Kind {
		case ValueInteger:
			if t.Kind == KindUint && v.Int < 0 {
				return mismatch()
			}
		case ValueString:
			_, neg, ok := Number(v.Str)
			if !ok || (neg && t.Kind == KindUint) {
				return mismatch()
			}
		default:
			return mismatch()
		}

	case KindStr:
		if v.Kind != ValueString {
			return mismatch()
		}

	case KindArray:
		if v.Kind != ValueArray {
			return mismatch()
		}
		for _, it := range v.Items {
			if err := Validate(it, *t.Elem); err != nil {
				return &Error{
					Err:      ErrInconsistentArrayType,
					Expected: t.String(),
					Actual:   v.TOML(),
					Detail:   err.Error(),
				}
			}
		}

	case KindTuple:
		if v.Kind != ValueArray || len(v.Items) != len(t.Items) {
			return mismatch()
		}
		for i, it := range v.Items {
			if err := Validate(it, t.Items[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
