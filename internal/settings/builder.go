package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// builder накапливает слои настроек в порядке убывания приоритета
type builder struct {
	layers    []*Settings
	overrides []func(*Settings) // Явно заданные флаги, применяются после слияния
	err       error
}

func newBuilder() *builder {
	return &builder{
		layers: make([]*Settings, 0, 4),
	}
}

func (b *builder) build() (*Settings, error) {
	if b.err != nil {
		return nil, fmt.Errorf("чтение настроек: %w", b.err)
	}

	s := new(Settings)
	for _, layer := range b.layers {
		if err := mergo.Merge(s, layer); err != nil {
			return nil, fmt.Errorf("слияние настроек: %w", err)
		}
	}
	for _, apply := range b.overrides {
		apply(s)
	}
	return s, nil
}

// withFlags добавляет слой флагов. mergo не переносит false поверх true, поэтому
// явно заданные булевы флаги записываются в итог после слияния.
func (b *builder) withFlags(args []string) *builder {
	s, fs, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.layers = append(b.layers, s)

	if fs.Changed("verbose") {
		verbose := s.Verbose
		b.overrides = append(b.overrides, func(o *Settings) { o.Verbose = verbose })
	}
	if fs.Changed("log-json") {
		logJSON := s.LogJSON
		b.overrides = append(b.overrides, func(o *Settings) { o.LogJSON = logJSON })
	}
	return b
}

func (b *builder) withEnv() *builder {
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("переменные окружения: %w", err))
		return b
	}
	b.layers = append(b.layers, s)
	return b
}

// withJob читает манифест, путь к которому задан в одном из предыдущих слоёв
func (b *builder) withJob() *builder {
	var path string
	for _, layer := range b.layers {
		if layer.Job != "" {
			path = layer.Job
			break
		}
	}
	if path == "" {
		return b
	}

	s, err := ParseJob(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.layers = append(b.layers, s)
	return b
}

func (b *builder) withDefaults() *builder {
	b.layers = append(b.layers, Defaults())
	return b
}

// ParseFlags разбирает аргументы командной строки
func ParseFlags(args []string) (*Settings, error) {
	s, _, err := parseFlags(args)
	return s, err
}

func parseFlags(args []string) (*Settings, *pflag.FlagSet, error) {
	s := &Settings{}

	fs := pflag.NewFlagSet("axconfig-gen", pflag.ContinueOnError)
	fs.StringArrayVarP(&s.Specs, "spec", "s", nil, "файл спецификации, можно указать несколько раз; env:NAME[:fallback] берёт путь из переменной окружения")
	fs.StringVarP(&s.OldConfig, "oldconfig", "c", "", "ранее сгенерированный файл, совместимые значения из него сохраняются")
	fs.StringVarP(&s.Output, "output", "o", "", "файл для результата (по умолчанию stdout)")
	fs.StringVarP(&s.Format, "fmt", "f", "", "формат вывода: toml, rust или go (по умолчанию toml)")
	fs.StringVar(&s.Package, "package", "", "имя пакета для формата go (по умолчанию config)")
	fs.StringArrayVarP(&s.Reads, "read", "r", nil, "вывести значение по пути table.key")
	fs.StringArrayVarP(&s.Writes, "write", "w", nil, "записать значение: table.key=literal")
	fs.StringVarP(&s.Job, "job", "j", "", "YAML манифест задания")
	fs.BoolVarP(&s.Verbose, "verbose", "v", false, "подробный вывод")
	fs.BoolVar(&s.LogJSON, "log-json", false, "писать логи в формате JSON")
	fs.BoolVar(&s.ShowVersion, "version", false, "показать версию")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, nil, fmt.Errorf("лишние аргументы: %v", rest)
	}
	return s, fs, nil
}

// ParseJob читает YAML манифест задания. Неизвестные ключи считаются ошибкой.
func ParseJob(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение манифеста %s: %w", path, err)
	}

	s := &Settings{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("разбор манифеста %s: %w", path, err)
	}
	return s, nil
}
