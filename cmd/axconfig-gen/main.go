package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/vovanwin/axconfiggen/generator"
	igen "github.com/vovanwin/axconfiggen/internal/generator"
	"github.com/vovanwin/axconfiggen/internal/logger"
	"github.com/vovanwin/axconfiggen/internal/settings"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stderr)
	}

	s, err := settings.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "✗ Ошибка: %v\n", err)
		return 1
	}
	if s.ShowVersion {
		fmt.Fprintf(stdout, "axconfig-gen %s\n", version)
		return 0
	}

	log := newLogger(stderr, s)
	log.Debug().Strs("specs", s.Specs).Str("fmt", s.Format).Msg("запуск генерации")

	res, err := generator.Generate(generator.Options{
		Specs:     s.Specs,
		OldConfig: s.OldConfig,
		Output:    s.Output,
		Format:    s.Format,
		Package:   s.Package,
		Writes:    s.Writes,
		Reads:     s.Reads,
		Log:       &log.Logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "✗ Ошибка: %v\n", err)
		return 1
	}

	code := 0
	for _, r := range res.Reads {
		if !r.Found {
			fmt.Fprintf(stderr, "✗ Ошибка: путь `%s` не найден\n", r.Path)
			code = 1
			continue
		}
		fmt.Fprintln(stdout, r.Value)
	}

	if s.Output == "" && len(s.Reads) == 0 {
		if _, err := stdout.Write(res.Data); err != nil {
			fmt.Fprintf(stderr, "✗ Ошибка: %v\n", err)
			return 1
		}
	}
	return code
}

// runInit создаёт стартовые файлы спецификаций в указанной директории
func runInit(args []string, stderr io.Writer) int {
	dir := "configs"
	switch len(args) {
	case 0:
	case 1:
		dir = args[0]
	default:
		fmt.Fprintf(stderr, "✗ Ошибка: init принимает не больше одного аргумента, получено %v\n", args)
		return 1
	}

	log := logger.New(stderr, false)
	created, err := igen.Init(dir)
	if err != nil {
		fmt.Fprintf(stderr, "✗ Ошибка: %v\n", err)
		return 1
	}
	if len(created) == 0 {
		log.Info().Str("dir", dir).Msg("все файлы уже существуют")
	}
	for _, name := range created {
		log.Info().Str("dir", dir).Str("file", name).Msg("создан файл")
	}
	return 0
}

func newLogger(w io.Writer, s *settings.Settings) *logger.Logger {
	if s.LogJSON {
		return logger.NewJSON(w, s.Verbose)
	}
	return logger.New(w, s.Verbose)
}
