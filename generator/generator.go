// Package generator собирает конфигурацию из TOML спецификаций и выводит её
// как канонический TOML, Rust или Go константы.
//
// Пакет используется утилитой axconfig-gen и может вызываться из сборочных
// скриптов напрямую:
//
//	res, err := generator.Generate(generator.Options{
//		Specs:  []string{"configs/defconfig.toml", "env:AX_PLATFORM_CONFIG:configs/platform.toml"},
//		Output: ".axconfig.toml",
//	})
package generator

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vovanwin/axconfiggen/internal/accessor"
	igen "github.com/vovanwin/axconfiggen/internal/generator"
	"github.com/vovanwin/axconfiggen/internal/merge"
	"github.com/vovanwin/axconfiggen/internal/model"
	"github.com/vovanwin/axconfiggen/internal/parser"
	"github.com/vovanwin/axconfiggen/internal/source"
)

// Options настройки генерации
type Options struct {
	Specs     []string        // Спецификации в порядке слияния, допускаются ссылки env:NAME[:fallback]
	OldConfig string          // Ранее сгенерированный файл (может отсутствовать)
	Output    string          // Файл результата, пусто: только Result.Data
	Format    string          // toml, rust или go (default: toml)
	Package   string          // Имя пакета для формата go (default: config)
	Writes    []string        // Присваивания path=literal, применяются после слияния
	Reads     []string        // Пути, значения которых попадут в Result.Reads
	Log       *zerolog.Logger // nil: без логирования
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	opts := igen.DefaultOptions()
	return Options{
		Format:  opts.Format.String(),
		Package: opts.Package,
	}
}

// ReadResult значение, прочитанное по пути
type ReadResult struct {
	Path  string
	Value string // Запись TOML
	Found bool
}

// Result результат генерации
type Result struct {
	Data        []byte       // Отрендеренный вывод
	Written     bool         // Файл Output был перезаписан
	Reads       []ReadResult // Значения по Options.Reads
	Diagnostics []string     // Отброшенные значения старой конфигурации
}

// Config объединённая конфигурация
type Config struct {
	cfg         *model.Config
	diagnostics []string
}

// Load разбирает спецификации, объединяет их и переносит совместимые значения
// из старой конфигурации
func Load(opts Options) (*Config, error) {
	log := opts.logger()

	paths, err := source.ResolveAll(opts.Specs)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("не задан ни один файл спецификации")
	}

	specs := make([]*model.Config, 0, len(paths))
	for _, p := range paths {
		cfg, err := parser.ParseFile(p)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("spec", p).Int("entries", cfg.Len()).Msg("спецификация разобрана")
		specs = append(specs, cfg)
	}

	var old *model.Config
	if opts.OldConfig != "" {
		text, ok, err := source.ReadOptional(opts.OldConfig)
		if err != nil {
			return nil, err
		}
		if ok {
			old, err = parser.Parse(opts.OldConfig, text)
			if err != nil {
				return nil, fmt.Errorf("старая конфигурация: %w", err)
			}
			log.Debug().Str("oldconfig", opts.OldConfig).Int("entries", old.Len()).Msg("старая конфигурация разобрана")
		} else {
			log.Debug().Str("oldconfig", opts.OldConfig).Msg("старая конфигурация отсутствует")
		}
	}

	res, err := merge.Merge(specs, old)
	if err != nil {
		return nil, err
	}

	c := &Config{cfg: res.Config}
	for _, d := range res.Diagnostics {
		log.Warn().Str("path", d.Path).Str("kind", d.Kind.String()).Msg(d.String())
		c.diagnostics = append(c.diagnostics, d.String())
	}
	return c, nil
}

// Read возвращает значение по пути в записи TOML
func (c *Config) Read(path string) (string, bool) {
	return accessor.Read(c.cfg, path)
}

// Write заменяет значение существующей записи литералом TOML
func (c *Config) Write(path, literal string) error {
	return accessor.Write(c.cfg, path, literal)
}

// Render выводит конфигурацию в формате format (toml, rust, go)
func (c *Config) Render(format, pkg string) ([]byte, error) {
	f, err := igen.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return igen.Render(c.cfg, igen.Options{Format: f, Package: pkg})
}

// Diagnostics возвращает предупреждения о значениях, отброшенных при слиянии
func (c *Config) Diagnostics() []string {
	return c.diagnostics
}

// Generate выполняет полный цикл: слияние, присваивания, чтение значений,
// рендеринг и запись результата, если он изменился
func Generate(opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.logger()

	cfg, err := Load(opts)
	if err != nil {
		return nil, err
	}

	writes, err := accessor.ParseAssignments(opts.Writes)
	if err != nil {
		return nil, err
	}
	if err := accessor.WriteAll(cfg.cfg, writes); err != nil {
		return nil, err
	}
	for _, a := range writes {
		log.Debug().Str("path", a.Path).Str("value", a.Literal).Msg("значение записано")
	}

	res := &Result{Diagnostics: cfg.Diagnostics()}
	for _, path := range opts.Reads {
		v, ok := cfg.Read(path)
		res.Reads = append(res.Reads, ReadResult{Path: path, Value: v, Found: ok})
	}

	res.Data, err = cfg.Render(opts.Format, opts.Package)
	if err != nil {
		return nil, err
	}

	if opts.Output != "" {
		res.Written, err = source.WriteIfChanged(opts.Output, res.Data)
		if err != nil {
			return nil, err
		}
		if res.Written {
			log.Info().Str("output", opts.Output).Str("fmt", opts.Format).Msg("конфигурация записана")
		} else {
			log.Info().Str("output", opts.Output).Msg("конфигурация не изменилась")
		}
	}

	return res, nil
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Format == "" {
		o.Format = def.Format
	}
	if o.Package == "" {
		o.Package = def.Package
	}
	return o
}

func (o Options) logger() *zerolog.Logger {
	if o.Log != nil {
		return o.Log
	}
	nop := zerolog.Nop()
	return &nop
}
