package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovanwin/axconfiggen/internal/accessor"
	"github.com/vovanwin/axconfiggen/internal/generator"
)

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFlags(t *testing.T) {
	s, err := ParseFlags([]string{
		"-s", "defconfig.toml",
		"--spec", "platform.toml",
		"-c", ".axconfig.toml",
		"-o", "out.rs",
		"-f", "rust",
		"-r", "kernel.smp",
		"-w", "kernel.smp=4",
		"-w", `arch="x86=64"`,
		"-v",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"defconfig.toml", "platform.toml"}, s.Specs)
	assert.Equal(t, ".axconfig.toml", s.OldConfig)
	assert.Equal(t, "out.rs", s.Output)
	assert.Equal(t, "rust", s.Format)
	assert.Equal(t, []string{"kernel.smp"}, s.Reads)
	assert.Equal(t, []string{"kernel.smp=4", `arch="x86=64"`}, s.Writes)
	assert.True(t, s.Verbose)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := ParseFlags([]string{"--unknown"})
	assert.Error(t, err)

	_, err = ParseFlags([]string{"-s", "a.toml", "extra"})
	assert.Error(t, err)

	_, err = ParseFlags([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load([]string{"-s", "defconfig.toml"})
	require.NoError(t, err)

	assert.Equal(t, "toml", s.Format)
	assert.Equal(t, "config", s.Package)

	opts, err := s.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, generator.FormatTOML, opts.Format)
}

func TestLoadPrecedence(t *testing.T) {
	job := writeJob(t, `
specs: [job.toml]
oldconfig: job-old.toml
output: job-out.toml
fmt: go
package: fromjob
`)
	t.Setenv("AXCONFIG_JOB", job)
	t.Setenv("AXCONFIG_OUTPUT", "env-out.toml")
	t.Setenv("AXCONFIG_SPECS", "env1.toml,env2.toml")

	s, err := Load([]string{"-f", "rust"})
	require.NoError(t, err)

	// Флаг важнее окружения, окружение важнее манифеста
	assert.Equal(t, "rust", s.Format)
	assert.Equal(t, "env-out.toml", s.Output)
	assert.Equal(t, []string{"env1.toml", "env2.toml"}, s.Specs)
	assert.Equal(t, "job-old.toml", s.OldConfig)
	assert.Equal(t, "fromjob", s.Package)
	assert.Equal(t, job, s.Job)
}

func TestLoadJobFromFlag(t *testing.T) {
	job := writeJob(t, `
specs:
  - defconfig.toml
  - platform.toml
writes:
  - kernel.smp=4
`)
	s, err := Load([]string{"-j", job})
	require.NoError(t, err)

	assert.Equal(t, []string{"defconfig.toml", "platform.toml"}, s.Specs)
	a, err := s.Assignments()
	require.NoError(t, err)
	assert.Equal(t, []accessor.Assignment{{Path: "kernel.smp", Literal: "4"}}, a)
}

func TestLoadJobErrors(t *testing.T) {
	_, err := Load([]string{"-j", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	job := writeJob(t, "specs: [a.toml]\nunknown: 1\n")
	_, err = Load([]string{"-j", job})
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  error
	}{
		{"no specs", []string{"-f", "toml"}, ErrNoSpecs},
		{"bad format", []string{"-s", "a.toml", "-f", "yaml"}, ErrInvalidFormat},
		{"bad write", []string{"-s", "a.toml", "-w", "kernel.smp"}, ErrInvalidAssignment},
		{"empty path", []string{"-s", "a.toml", "-w", "=4"}, ErrInvalidAssignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "получено: %v", err)
		})
	}
}

func TestLoadVersionSkipsValidation(t *testing.T) {
	s, err := Load([]string{"--version"})
	require.NoError(t, err)
	assert.True(t, s.ShowVersion)
}

func TestAssignments(t *testing.T) {
	s := &Settings{Writes: []string{"kernel.smp = 4", `arch="a=b"`}}
	a, err := s.Assignments()
	require.NoError(t, err)
	assert.Equal(t, []accessor.Assignment{
		{Path: "kernel.smp", Literal: "4"},
		{Path: "arch", Literal: `"a=b"`},
	}, a)
}

func TestParseJobExample(t *testing.T) {
	s, err := ParseJob("../../example/job.yaml")
	require.NoError(t, err)
	assert.Len(t, s.Specs, 2)
	assert.Equal(t, "toml", s.Format)
	assert.Equal(t, []string{"smp=4"}, s.Writes)
}

func TestLoadExplicitFalseFlags(t *testing.T) {
	job := writeJob(t, "specs: [job.toml]\nlog_json: true\n")
	t.Setenv("AXCONFIG_JOB", job)
	t.Setenv("AXCONFIG_VERBOSE", "true")

	s, err := Load(nil)
	require.NoError(t, err)
	assert.True(t, s.Verbose)
	assert.True(t, s.LogJSON)

	s, err = Load([]string{"--verbose=false", "--log-json=false"})
	require.NoError(t, err)
	assert.False(t, s.Verbose)
	assert.False(t, s.LogJSON)
	assert.Equal(t, []string{"job.toml"}, s.Specs)
}
