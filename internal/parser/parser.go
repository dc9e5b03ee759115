package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vovanwin/axconfiggen/internal/model"
)

// ParseFile читает файл спецификации и возвращает дерево конфигурации
func ParseFile(path string) (*model.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла %s: %w", path, err)
	}
	return Parse(path, string(b))
}

// Parse разбирает текст спецификации в дерево конфигурации.
// source используется только в сообщениях об ошибках и для слияния.
func Parse(source, text string) (*model.Config, error) {
	md, err := decode(source, text)
	if err != nil {
		return nil, err
	}

	items, err := scanDocument(text)
	if err != nil {
		return nil, &model.Error{Err: model.ErrParse, Source: source, Detail: err.Error()}
	}

	cfg := model.NewConfig(source)
	var table []string

	for _, it := range items {
		if it.header {
			table = it.path
			t, err := cfg.EnsureTable(model.JoinPath(table...))
			if err != nil {
				return nil, model.At(err, source, "", it.line)
			}
			t.Comment = strings.Join(it.comment, "\n")
			continue
		}

		full := append(append([]string{}, table...), it.path...)
		path := model.JoinPath(full...)
		if !md.IsDefined(full...) {
			return nil, &model.Error{Err: model.ErrParse, Source: source, Path: path, Line: it.line, Detail: "ключ не распознан декодером"}
		}

		entry, err := buildEntry(it)
		if err != nil {
			return nil, model.At(err, source, path, it.line)
		}
		entry.Source = source
		if err := cfg.Insert(path, entry); err != nil {
			return nil, model.At(err, source, path, it.line)
		}
	}

	return cfg, nil
}

// buildEntry разбирает значение и выводит или проверяет его тип
func buildEntry(it item) (model.Entry, error) {
	value, err := parseLiteral(it.raw)
	if err != nil {
		return model.Entry{}, err
	}
	typ, err := model.Check(value, it.annotation)
	if err != nil {
		return model.Entry{}, err
	}
	return model.Entry{
		Value:   value,
		Type:    typ,
		Comment: strings.Join(it.comment, "\n"),
		Line:    it.line,
	}, nil
}

// decode проверяет документ декодером TOML и отсекает неподдерживаемые значения
func decode(source, text string) (toml.MetaData, error) {
	var root map[string]any
	md, err := toml.Decode(text, &root)
	if err != nil {
		e := &model.Error{Err: model.ErrParse, Source: source, Detail: parseErrorMessage(err)}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			e.Line = perr.Position.Line
		}
		return md, e
	}

	for _, key := range md.Keys() {
		switch typ := md.Type(key...); typ {
		case "Float", "Datetime", "ArrayHash":
			return md, &model.Error{Err: model.ErrInvalidValue, Source: source, Path: key.String(), Actual: typ}
		}
	}
	return md, nil
}

func parseErrorMessage(err error) string {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}

// ToGoName конвертирует snake_case и kebab-case в CamelCase
func ToGoName(s string) string {
	b := []rune(s)
	out := make([]rune, 0, len(b))
	capNext := true
	for _, r := range b {
		if r == '_' || r == '-' || r == ' ' {
			capNext = true
			continue
		}
		if capNext {
			if 'a' <= r && r <= 'z' {
				r = r - 'a' + 'A'
			}
			capNext = false
		}
		out = append(out, r)
	}
	return string(out)
}

// ToConstName конвертирует имя ключа в UPPER_SNAKE_CASE
func ToConstName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}

// ToModName конвертирует имя таблицы в lower_snake_case
func ToModName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "-", "_"))
}
