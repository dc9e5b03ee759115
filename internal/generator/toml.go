package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vovanwin/axconfiggen/internal/model"
)

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// RenderTOML выводит конфигурацию в канонический TOML.
// Каждая запись получает аннотацию типа, поэтому повторный разбор вывода
// даёт то же дерево.
func RenderTOML(cfg *model.Config) string {
	var b strings.Builder

	for path, t := range cfg.Tables() {
		if path != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(formatComment(t.Comment, "#"))
			fmt.Fprintf(&b, "[%s]\n", tomlPath(path))
		}
		for _, e := range t.Entries() {
			b.WriteString(formatComment(e.Comment, "#"))
			fmt.Fprintf(&b, "%s = %s # %s\n", tomlKey(e.Name), e.Value.TOML(), e.Type)
		}
	}

	return b.String()
}

// tomlKey оставляет ключ голым, если это допускает TOML, иначе берёт в кавычки
func tomlKey(name string) string {
	if bareKey.MatchString(name) {
		return name
	}
	return model.QuoteTOML(name)
}

func tomlPath(path string) string {
	segs := model.SplitPath(path)
	for i, s := range segs {
		segs[i] = tomlKey(s)
	}
	return strings.Join(segs, ".")
}
