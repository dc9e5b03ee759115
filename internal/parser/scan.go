package parser

import (
	"fmt"
	"strings"
)

// item представляет строку документа: заголовок таблицы или пару ключ = значение
type item struct {
	header     bool     // Заголовок [table]
	path       []string // Путь таблицы или (возможно точечный) ключ
	raw        string   // Текст значения без комментариев внутри массивов
	annotation string   // Хвостовой комментарий после значения без '#'
	comment    []string // Комментарии, непосредственно предшествующие строке
	line       int
}

// scanner проходит по тексту спецификации и восстанавливает то, что теряет
// декодер TOML: комментарии, аннотации типов и исходную запись значений.
// Синтаксис документа к этому моменту уже проверен декодером.
type scanner struct {
	src  string
	pos  int
	line int
}

func scanDocument(src string) ([]item, error) {
	s := &scanner{src: src, line: 1}

	var items []item
	var pending []string

	for {
		s.skipBlank()
		if s.eof() {
			break
		}

		switch s.peek() {
		case '\n':
			// Пустая строка сбрасывает накопленные комментарии
			s.advance()
			pending = nil

		case '#':
			pending = append(pending, commentText(s.untilEOL()))
			s.advance()

		case '[':
			it, err := s.header()
			if err != nil {
				return nil, err
			}
			it.comment = pending
			pending = nil
			items = append(items, it)

		default:
			it, err := s.keyValue()
			if err != nil {
				return nil, err
			}
			it.comment = pending
			pending = nil
			items = append(items, it)
		}
	}

	return items, nil
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}
	if s.src[s.pos] == '\n' {
		s.line++
	}
	s.pos++
}

func (s *scanner) skipBlank() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\r':
			s.pos++
		default:
			return
		}
	}
}

// untilEOL возвращает остаток строки, не поглощая перевод строки
func (s *scanner) untilEOL() string {
	start := s.pos
	for !s.eof() && s.src[s.pos] != '\n' {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("строка %d: %s", s.line, fmt.Sprintf(format, args...))
}

// endLine допускает хвостовой комментарий и поглощает перевод строки
func (s *scanner) endLine() (string, error) {
	s.skipBlank()
	var tail string
	if s.peek() == '#' {
		tail = s.untilEOL()[1:]
	}
	if !s.eof() && s.peek() != '\n' {
		return "", s.errorf("лишние символы после значения: %q", s.untilEOL())
	}
	s.advance()
	return strings.TrimSpace(tail), nil
}

func (s *scanner) header() (item, error) {
	it := item{header: true, line: s.line}
	s.advance()
	if s.peek() == '[' {
		return it, s.errorf("массивы таблиц [[...]] не поддерживаются")
	}
	path, err := s.key(']')
	if err != nil {
		return it, err
	}
	it.path = path
	if _, err := s.endLine(); err != nil {
		return it, err
	}
	return it, nil
}

func (s *scanner) keyValue() (item, error) {
	it := item{line: s.line}
	path, err := s.key('=')
	if err != nil {
		return it, err
	}
	it.path = path

	s.skipBlank()
	raw, err := s.value()
	if err != nil {
		return it, err
	}
	if raw == "" {
		return it, s.errorf("нет значения для ключа %q", strings.Join(path, "."))
	}
	it.raw = raw

	it.annotation, err = s.endLine()
	if err != nil {
		return it, err
	}
	return it, nil
}

// key читает точечный ключ до символа end
func (s *scanner) key(end byte) ([]string, error) {
	var segs []string
	for {
		s.skipBlank()
		seg, err := s.keySegment()
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)

		s.skipBlank()
		switch s.peek() {
		case '.':
			s.advance()
		case end:
			s.advance()
			return segs, nil
		default:
			return nil, s.errorf("ожидался %q после ключа %q", end, strings.Join(segs, "."))
		}
	}
}

func (s *scanner) keySegment() (string, error) {
	switch c := s.peek(); c {
	case '"', '\'':
		tok, err := s.quoted()
		if err != nil {
			return "", err
		}
		v, err := parseLiteral(tok)
		if err != nil {
			return "", err
		}
		return v.Str, nil
	}

	start := s.pos
	for !s.eof() && isBareKeyChar(s.peek()) {
		s.pos++
	}
	if start == s.pos {
		return "", s.errorf("ожидался ключ")
	}
	return s.src[start:s.pos], nil
}

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// value читает текст значения; массивы могут занимать несколько строк
func (s *scanner) value() (string, error) {
	var b strings.Builder
	depth := 0

	for !s.eof() {
		switch c := s.peek(); c {
		case '"', '\'':
			tok, err := s.quoted()
			if err != nil {
				return "", err
			}
			b.WriteString(tok)

		case '[':
			depth++
			b.WriteByte(c)
			s.advance()

		case ']':
			if depth == 0 {
				return "", s.errorf("лишняя закрывающая скобка")
			}
			depth--
			b.WriteByte(c)
			s.advance()
			if depth == 0 {
				return b.String(), nil
			}

		case '{':
			return "", s.errorf("встроенные таблицы не поддерживаются")

		case '#':
			if depth == 0 {
				return strings.TrimSpace(b.String()), nil
			}
			// Комментарий внутри многострочного массива
			s.untilEOL()

		case '\n':
			if depth == 0 {
				return strings.TrimSpace(b.String()), nil
			}
			b.WriteByte(c)
			s.advance()

		default:
			b.WriteByte(c)
			s.advance()
		}
	}

	if depth > 0 {
		return "", s.errorf("незакрытый массив")
	}
	return strings.TrimSpace(b.String()), nil
}

// quoted возвращает строковый токен вместе с кавычками
func (s *scanner) quoted() (string, error) {
	q := s.peek()
	if strings.HasPrefix(s.src[s.pos:], strings.Repeat(string(q), 3)) {
		return "", s.errorf("многострочные строки не поддерживаются")
	}

	start := s.pos
	s.pos++
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			return "", s.errorf("незакрытая строка")
		case c == '\\' && q == '"':
			s.pos += 2
			continue
		case c == q:
			s.pos++
			return s.src[start:s.pos], nil
		}
		s.pos++
	}
	return "", s.errorf("незакрытая строка")
}

// commentText убирает '#' и один пробел после него
func commentText(line string) string {
	line = strings.TrimPrefix(line, "#")
	line = strings.TrimPrefix(line, " ")
	return strings.TrimRight(line, " \t\r")
}
