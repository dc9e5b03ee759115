// Package source разрешает пути к спецификациям и читает или записывает файлы конфигурации.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvPrefix префикс ссылки на путь из переменной окружения
const EnvPrefix = "env:"

// ErrUnresolved переменная окружения не задана и запасной путь не указан
var ErrUnresolved = errors.New("путь к спецификации не задан")

// Resolve превращает ссылку на спецификацию в путь к файлу.
// Ссылка env:NAME берёт путь из переменной NAME, env:NAME:fallback
// использует fallback, если переменная не задана или пуста.
// Остальные ссылки возвращаются как есть.
func Resolve(ref string) (string, error) {
	rest, ok := strings.CutPrefix(ref, EnvPrefix)
	if !ok {
		return ref, nil
	}

	name, fallback, hasFallback := strings.Cut(rest, ":")
	if name == "" {
		return "", fmt.Errorf("%w: пустое имя переменной в %q", ErrUnresolved, ref)
	}
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v, nil
	}
	if hasFallback && fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("%w: переменная %s не задана", ErrUnresolved, name)
}

// ResolveAll разрешает список ссылок, сохраняя порядок
func ResolveAll(refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadOptional читает файл, отсутствие файла не считается ошибкой
func ReadOptional(path string) (string, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("чтение файла %s: %w", path, err)
	}
	return string(b), true, nil
}

// WriteIfChanged записывает data в path, только если содержимое отличается.
// Возвращает true, если файл был записан.
func WriteIfChanged(path string, data []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("создание директории %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("запись %s: %w", path, err)
	}
	return true, nil
}
