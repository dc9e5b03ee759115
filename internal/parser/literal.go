package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vovanwin/axconfiggen/internal/model"
)

// ParseLiteral разбирает одиночный литерал значения (true, 0x10, "abc", [1, 2]).
// Синтаксис проверяется декодером TOML, исходная запись скаляров сохраняется.
func ParseLiteral(raw string) (model.Value, error) {
	raw = strings.TrimSpace(raw)

	var root map[string]any
	md, err := toml.Decode("v = "+raw+"\n", &root)
	if err != nil {
		return model.Value{}, &model.Error{Err: model.ErrParse, Actual: raw, Detail: parseErrorMessage(err)}
	}
	if typ := md.Type("v"); !supportedTOMLType(typ) {
		return model.Value{}, &model.Error{Err: model.ErrInvalidValue, Actual: raw, Detail: typ}
	}
	if keys := md.Keys(); len(keys) != 1 {
		return model.Value{}, &model.Error{Err: model.ErrParse, Actual: raw, Detail: "ожидался один литерал"}
	}

	return parseLiteral(raw)
}

// parseLiteral разбирает литерал, синтаксис которого уже проверен
func parseLiteral(raw string) (model.Value, error) {
	p := &literalParser{src: raw}
	v, err := p.value()
	if err != nil {
		return model.Value{}, err
	}
	p.skip()
	if p.pos < len(p.src) {
		return model.Value{}, p.errorf("лишние символы %q", p.src[p.pos:])
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return &model.Error{Err: model.ErrParse, Actual: p.src, Detail: fmt.Sprintf(format, args...)}
}

func (p *literalParser) skip() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		case '#':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *literalParser) value() (model.Value, error) {
	p.skip()
	if p.pos >= len(p.src) {
		return model.Value{}, p.errorf("ожидалось значение")
	}

	switch p.src[p.pos] {
	case '[':
		return p.array()
	case '"':
		return p.basicString()
	case '\'':
		return p.literalString()
	case '{':
		return model.Value{}, &model.Error{Err: model.ErrInvalidValue, Actual: p.src, Detail: "встроенные таблицы не поддерживаются"}
	}

	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(" \t\r\n,]#", rune(p.src[p.pos])) {
		p.pos++
	}
	tok := p.src[start:p.pos]

	switch tok {
	case "true":
		return model.Value{Kind: model.ValueBool, Bool: true, Raw: tok}, nil
	case "false":
		return model.Value{Kind: model.ValueBool, Bool: false, Raw: tok}, nil
	}
	return parseInteger(tok, p.src)
}

func parseInteger(tok, src string) (model.Value, error) {
	lower := strings.ToLower(tok)
	isPrefixed := strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b")
	if !isPrefixed && (strings.ContainsAny(lower, ".e:") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan")) {
		return model.Value{}, &model.Error{Err: model.ErrInvalidValue, Actual: tok, Detail: "поддерживаются только целые числа"}
	}
	if strings.LastIndex(tok, "-") > 0 {
		return model.Value{}, &model.Error{Err: model.ErrInvalidValue, Actual: tok, Detail: "даты не поддерживаются"}
	}

	i, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return model.Value{}, &model.Error{Err: model.ErrParse, Actual: src, Detail: fmt.Sprintf("некорректное число %q", tok)}
	}
	return model.Value{Kind: model.ValueInteger, Int: i, Raw: tok}, nil
}

func (p *literalParser) array() (model.Value, error) {
	p.pos++ // '['
	items := []model.Value{}
	for {
		p.skip()
		if p.pos >= len(p.src) {
			return model.Value{}, p.errorf("незакрытый массив")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return model.ArrayValue(items...), nil
		}

		v, err := p.value()
		if err != nil {
			return model.Value{}, err
		}
		items = append(items, v)

		p.skip()
		if p.pos >= len(p.src) {
			return model.Value{}, p.errorf("незакрытый массив")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return model.ArrayValue(items...), nil
		default:
			return model.Value{}, p.errorf("ожидалась ',' или ']'")
		}
	}
}

func (p *literalParser) basicString() (model.Value, error) {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			tok := p.src[start:p.pos]
			s, err := strconv.Unquote(tok)
			if err != nil {
				return model.Value{}, p.errorf("некорректная строка %s", tok)
			}
			return model.Value{Kind: model.ValueString, Str: s, Raw: tok}, nil
		}
		p.pos++
	}
	return model.Value{}, p.errorf("незакрытая строка")
}

func (p *literalParser) literalString() (model.Value, error) {
	start := p.pos
	end := strings.IndexByte(p.src[start+1:], '\'')
	if end < 0 {
		return model.Value{}, p.errorf("незакрытая строка")
	}
	p.pos = start + 1 + end + 1
	tok := p.src[start:p.pos]
	return model.Value{Kind: model.ValueString, Str: tok[1 : len(tok)-1], Raw: tok}, nil
}

// supportedTOMLType отсекает значения, которые не бывают записями конфигурации
func supportedTOMLType(typ string) bool {
	switch typ {
	case "Integer", "String", "Bool", "Array":
		return true
	}
	return false
}
