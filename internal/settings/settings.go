// Package settings собирает настройки запуска генератора из флагов командной строки,
// переменных окружения и YAML манифеста задания.
package settings

import (
	"fmt"

	"github.com/vovanwin/axconfiggen/internal/accessor"
	"github.com/vovanwin/axconfiggen/internal/generator"
)

// Settings настройки одного запуска генератора
type Settings struct {
	Specs     []string `yaml:"specs" env:"AXCONFIG_SPECS" envSeparator:","` // Файлы спецификаций в порядке слияния
	OldConfig string   `yaml:"oldconfig" env:"AXCONFIG_OLDCONFIG"`          // Ранее сгенерированный файл
	Output    string   `yaml:"output" env:"AXCONFIG_OUTPUT"`                // Пусто: вывод в stdout
	Format    string   `yaml:"fmt" env:"AXCONFIG_FMT"`                      // toml, rust или go
	Package   string   `yaml:"package" env:"AXCONFIG_PACKAGE"`              // Имя пакета для формата go
	Reads     []string `yaml:"reads"`                                       // Пути для чтения значений
	Writes    []string `yaml:"writes"`                                      // Присваивания path=literal
	Verbose   bool     `yaml:"verbose" env:"AXCONFIG_VERBOSE"`
	LogJSON   bool     `yaml:"log_json" env:"AXCONFIG_LOG_JSON"` // Логи в JSON для CI

	Job         string `yaml:"-" env:"AXCONFIG_JOB"` // Путь к YAML манифесту задания
	ShowVersion bool   `yaml:"-"`
}

// Defaults значения по умолчанию
func Defaults() *Settings {
	opts := generator.DefaultOptions()
	return &Settings{
		Format:  opts.Format.String(),
		Package: opts.Package,
	}
}

// Load собирает настройки: флаги важнее окружения, окружение важнее манифеста,
// манифест важнее значений по умолчанию
func Load(args []string) (*Settings, error) {
	s, err := newBuilder().
		withFlags(args).
		withEnv().
		withJob().
		withDefaults().
		build()
	if err != nil {
		return nil, err
	}
	if s.ShowVersion {
		return s, nil
	}
	return s, s.validate()
}

// RenderOptions возвращает настройки рендеринга
func (s *Settings) RenderOptions() (generator.Options, error) {
	f, err := generator.ParseFormat(s.Format)
	if err != nil {
		return generator.Options{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return generator.Options{Format: f, Package: s.Package}, nil
}

// Assignments разбирает присваивания path=literal
func (s *Settings) Assignments() ([]accessor.Assignment, error) {
	return accessor.ParseAssignments(s.Writes)
}

func (s *Settings) validate() error {
	if len(s.Specs) == 0 {
		return ErrNoSpecs
	}
	if _, err := s.RenderOptions(); err != nil {
		return err
	}
	if _, err := s.Assignments(); err != nil {
		return err
	}
	return nil
}
