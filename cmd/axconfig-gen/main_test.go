package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spec = `# Number of CPUs
smp = 1

[kernel]
task-stack-size = 0x40000
`

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defconfig.toml")
	require.NoError(t, os.WriteFile(path, []byte(spec), 0o644))
	return path
}

func TestRunPrintsToStdout(t *testing.T) {
	path := writeSpec(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-s", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "# Number of CPUs\nsmp = 1 # uint\n\n[kernel]\ntask-stack-size = 0x40000 # uint\n", stdout.String())
}

func TestRunReadsAndWrites(t *testing.T) {
	path := writeSpec(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-s", path, "-w", "smp=2", "-r", "smp", "-r", "kernel.task-stack-size"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "2\n0x40000\n", stdout.String())

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"-s", path, "-r", "kernel.nope"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "kernel.nope")
}

func TestRunWritesOutput(t *testing.T) {
	path := writeSpec(t)
	out := filepath.Join(t.TempDir(), "axconfig.rs")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-s", path, "-f", "rust", "-o", out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "pub const SMP: usize = 1;")
	assert.Contains(t, stderr.String(), "конфигурация записана")
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "✗ Ошибка")

	stderr.Reset()
	path := writeSpec(t)
	assert.Equal(t, 1, run([]string{"-s", path, "-w", "kernel.nope=1"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "kernel.nope")
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--version"}, &stdout, &stderr))
	assert.Equal(t, "axconfig-gen dev\n", stdout.String())
}

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "configs")
	var stdout, stderr bytes.Buffer

	require.Equal(t, 0, run([]string{"init", dir}, &stdout, &stderr))
	assert.FileExists(t, filepath.Join(dir, "defconfig.toml"))
	assert.FileExists(t, filepath.Join(dir, "platform.toml.example"))
	assert.Contains(t, stderr.String(), "создан файл")

	assert.Equal(t, 1, run([]string{"init", "a", "b"}, &stdout, &stderr))
}
