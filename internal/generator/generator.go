package generator

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/vovanwin/axconfiggen/internal/model"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Format формат выходного файла
type Format int

const (
	FormatTOML Format = iota
	FormatRust
	FormatGo
)

var formatNames = []string{
	FormatTOML: "toml",
	FormatRust: "rust",
	FormatGo:   "go",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat разбирает имя формата (toml, rust, go)
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестный формат %q, ожидался один из: %s", s, strings.Join(formatNames, ", "))
}

// Options настройки рендеринга
type Options struct {
	Format  Format // Формат вывода
	Package string // Имя пакета для формата go
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Format:  FormatTOML,
		Package: "config",
	}
}

// Render выводит конфигурацию в выбранном формате
func Render(cfg *model.Config, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatTOML:
		return []byte(RenderTOML(cfg)), nil
	case FormatRust:
		out, err := RenderRust(cfg)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case FormatGo:
		pkg := opts.Package
		if pkg == "" {
			pkg = DefaultOptions().Package
		}
		return RenderGo(cfg, pkg)
	}
	return nil, fmt.Errorf("неизвестный формат %s", opts.Format)
}

// templateFuncs возвращает функции для использования в шаблонах
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"comment": func(s string) string {
			return formatComment(s, "//")
		},
	}
}

// formatComment превращает комментарий записи в строки с маркером.
// Пустая строка комментария выводится как одиночный маркер.
func formatComment(comment, marker string) string {
	if comment == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(comment, "\n") {
		b.WriteString(marker)
		if line != "" {
			b.WriteString(" ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// executeTemplate выполняет шаблон и форматирует результат как Go код.
// При ошибке форматирования возвращается и неотформатированный текст.
func executeTemplate(name, file string, data any) ([]byte, error) {
	tmplB, err := templatesFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("чтение шаблона %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(string(tmplB))
	if err != nil {
		return nil, fmt.Errorf("парсинг шаблона %s: %w", name, err)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("выполнение шаблона %s: %w", name, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("форматирование %s: %w", name, err)
	}
	return formatted, nil
}
