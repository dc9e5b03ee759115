package generator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vovanwin/axconfiggen/internal/model"
	"github.com/vovanwin/axconfiggen/internal/parser"
)

// goDecl данные одного объявления верхнего уровня для шаблона
type goDecl struct {
	Keyword string // const или var
	Name    string
	Type    string // Пусто, если тип задан составным литералом
	Value   string
	Comment string
}

// RenderGo выводит конфигурацию как Go пакет.
// Скаляры корня становятся константами, массивы и кортежи становятся переменными.
// Таблица выводится переменной анонимного структурного типа.
func RenderGo(cfg *model.Config, pkg string) ([]byte, error) {
	root := cfg.Root()
	decls := make([]goDecl, 0, len(root.Entries())+len(root.Tables()))
	seen := make(map[string]string)

	declare := func(name, path string) error {
		if prev, ok := seen[name]; ok {
			return &model.Error{Err: model.ErrConflictingType, Path: path, Detail: fmt.Sprintf("имя %s уже занято `%s`", name, prev)}
		}
		seen[name] = path
		return nil
	}

	for _, e := range root.Entries() {
		name := goIdent(e.Name)
		if err := declare(name, e.Name); err != nil {
			return nil, err
		}
		val, err := goValue(e.Value, e.Type, false)
		if err != nil {
			return nil, model.At(err, e.Source, e.Name, e.Line)
		}
		d := goDecl{Keyword: "var", Name: name, Value: val, Comment: e.Comment}
		if e.Type.IsScalar() {
			d.Keyword, d.Type = "const", goType(e.Type)
		}
		decls = append(decls, d)
	}

	for _, t := range root.Tables() {
		name := goIdent(t.Name)
		if err := declare(name, t.Name); err != nil {
			return nil, err
		}
		typ, err := goStructType(t, t.Name)
		if err != nil {
			return nil, err
		}
		val, err := goStructValue(t, t.Name)
		if err != nil {
			return nil, err
		}
		decls = append(decls, goDecl{
			Keyword: "var",
			Name:    name,
			Value:   typ + val,
			Comment: t.Comment,
		})
	}

	data := map[string]any{
		"Package": pkg,
		"Decls":   decls,
	}
	return executeTemplate("config", "templates/config.go.tmpl", data)
}

// goIdent превращает имя ключа в экспортируемый Go идентификатор
func goIdent(name string) string {
	id := parser.ToGoName(name)
	id = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, id)
	if id == "" || !unicode.IsUpper([]rune(id)[0]) {
		id = "X" + id
	}
	return id
}

// goType возвращает Go тип для типа записи
func goType(t model.Type) string {
	switch t.Kind {
	case model.KindBool:
		return "bool"
	case model.KindInt:
		return "int"
	case model.KindUint:
		return "uint"
	case model.KindStr:
		return "string"
	case model.KindArray:
		return "[]" + goType(*t.Elem)
	case model.KindTuple:
		fields := make([]string, 0, len(t.Items))
		for i, it := range t.Items {
			fields = append(fields, fmt.Sprintf("F%d %s", i, goType(it)))
		}
		return "struct{ " + strings.Join(fields, "; ") + " }"
	}
	return "any"
}

// goValue записывает значение как Go выражение.
// elide опускает тип составного литерала внутри элементов среза.
func goValue(v model.Value, t model.Type, elide bool) (string, error) {
	mismatch := &model.Error{Err: model.ErrTypeMismatch, Expected: t.String(), Actual: v.TOML()}

	switch t.Kind {
	case model.KindBool:
		if v.Kind != model.ValueBool {
			return "", mismatch
		}
		return strconv.FormatBool(v.Bool), nil

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
		return strconv.Quote(v.Str), nil

	case model.KindArray:
		if v.Kind != model.ValueArray {
			return "", mismatch
		}
		elems := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			s, err := goValue(it, *t.Elem, true)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
		return compositeLit(goType(t), elems, elide, v.HasNestedArray()), nil

	case model.KindTuple:
		if v.Kind != model.ValueArray || len(v.Items) != len(t.Items) {
			return "", mismatch
		}
		elems := make([]string, 0, len(v.Items))
		for i, it := range v.Items {
			s, err := goValue(it, t.Items[i], false)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
		return compositeLit(goType(t), elems, elide, false), nil
	}
	return "", mismatch
}

func compositeLit(typ string, elems []string, elide, multiline bool) string {
	prefix := typ
	if elide {
		prefix = ""
	}
	if multiline {
		return prefix + "{\n" + strings.Join(elems, ",\n") + ",\n}"
	}
	return prefix + "{" + strings.Join(elems, ", ") + "}"
}

// goStructType строит анонимный структурный тип таблицы
func goStructType(t *model.Table, path string) (string, error) {
	var b strings.Builder
	b.WriteString("struct {\n")
	for _, e := range t.Entries() {
		b.WriteString(formatComment(e.Comment, "//"))
		fmt.Fprintf(&b, "%s %s\n", goIdent(e.Name), goType(e.Type))
	}
	for _, sub := range t.Tables() {
		typ, err := goStructType(sub, model.JoinPath(path, sub.Name))
		if err != nil {
			return "", err
		}
		b.WriteString(formatComment(sub.Comment, "//"))
		fmt.Fprintf(&b, "%s %s\n", goIdent(sub.Name), typ)
	}
	b.WriteString("}")

	if err := uniqueFields(t, path); err != nil {
		return "", err
	}
	return b.String(), nil
}

// goStructValue строит составной литерал таблицы с именованными полями
func goStructValue(t *model.Table, path string) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")
	for _, e := range t.Entries() {
		val, err := goValue(e.Value, e.Type, false)
		if err != nil {
			return "", model.At(err, e.Source, model.JoinPath(path, e.Name), e.Line)
		}
		fmt.Fprintf(&b, "%s: %s,\n", goIdent(e.Name), val)
	}
	for _, sub := range t.Tables() {
		subPath := model.JoinPath(path, sub.Name)
		typ, err := goStructType(sub, subPath)
		if err != nil {
			return "", err
		}
		val, err := goStructValue(sub, subPath)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s: %s%s,\n", goIdent(sub.Name), typ, val)
	}
	b.WriteString("}")
	return b.String(), nil
}

// uniqueFields проверяет, что имена полей таблицы не совпадают после преобразования
func uniqueFields(t *model.Table, path string) error {
	seen := make(map[string]string)
	check := func(name string) error {
		id := goIdent(name)
		if prev, ok := seen[id]; ok {
			return &model.Error{
				Err:    model.ErrConflictingType,
				Path:   model.JoinPath(path, name),
				Detail: fmt.Sprintf("поле %s уже занято `%s`", id, model.JoinPath(path, prev)),
			}
		}
		seen[id] = name
		return nil
	}
	for _, e := range t.Entries() {
		if err := check(e.Name); err != nil {
			return err
		}
	}
	for _, sub := range t.Tables() {
		if err := check(sub.Name); err != nil {
			return err
		}
	}
	return nil
}
