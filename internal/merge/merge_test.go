package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovanwin/axconfiggen/internal/model"
	"github.com/vovanwin/axconfiggen/internal/parser"
)

func mustParse(t *testing.T, source, text string) *model.Config {
	t.Helper()
	cfg, err := parser.Parse(source, text)
	require.NoError(t, err)
	return cfg
}

func paths(cfg *model.Config) []string {
	var out []string
	for path := range cfg.All() {
		out = append(out, path)
	}
	return out
}

func TestMergeSingleSpec(t *testing.T) {
	spec := mustParse(t, "a.toml", "smp = 1\n[kernel]\nstack = 0x1000\n")

	res, err := Merge([]*model.Config{spec}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []string{"smp", "kernel.stack"}, paths(res.Config))

	e, err := res.Config.Lookup("kernel.stack")
	require.NoError(t, err)
	assert.Equal(t, "a.toml", e.Source)
}

func TestMergeOverride(t *testing.T) {
	base := mustParse(t, "base.toml", "# CPUs\nsmp = 1\narch = \"x86_64\"\n")
	plat := mustParse(t, "plat.toml", "arch = \"aarch64\"\n# Number of CPUs\nsmp = 4\nextra = true\n")

	res, err := Merge([]*model.Config{base, plat}, nil)
	require.NoError(t, err)

	// Позиция по первому появлению, значение из последней спецификации
	assert.Equal(t, []string{"smp", "arch", "extra"}, paths(res.Config))

	smp, err := res.Config.Lookup("smp")
	require.NoError(t, err)
	assert.Equal(t, int64(4), smp.Value.Int)
	assert.Equal(t, "Number of CPUs", smp.Comment)
	assert.Equal(t, "plat.toml", smp.Source)

	arch, err := res.Config.Lookup("arch")
	require.NoError(t, err)
	assert.Equal(t, "aarch64", arch.Value.Str)
}

func TestMergeTableComment(t *testing.T) {
	a := mustParse(t, "a.toml", "# Kernel\n[kernel]\nx = 1\n")
	b := mustParse(t, "b.toml", "[kernel]\ny = 2\n")
	c := mustParse(t, "c.toml", "# Kernel options\n[kernel]\nz = 3\n")

	res, err := Merge([]*model.Config{a, b}, nil)
	require.NoError(t, err)
	kernel, err := res.Config.LookupTable("kernel")
	require.NoError(t, err)
	assert.Equal(t, "Kernel", kernel.Comment)

	res, err = Merge([]*model.Config{a, b, c}, nil)
	require.NoError(t, err)
	kernel, err = res.Config.LookupTable("kernel")
	require.NoError(t, err)
	assert.Equal(t, "Kernel options", kernel.Comment)
	assert.Equal(t, []string{"kernel.x", "kernel.y", "kernel.z"}, paths(res.Config))
}

func TestMergeConflictingType(t *testing.T) {
	a := mustParse(t, "a.toml", "smp = 1\n")
	b := mustParse(t, "b.toml", "\nsmp = \"four\"\n")

	_, err := Merge([]*model.Config{a, b}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConflictingType))

	var e *model.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "smp", e.Path)
	assert.Equal(t, "b.toml", e.Source)
	assert.Equal(t, "a.toml", e.OtherSource)
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, "uint", e.Expected)
	assert.Equal(t, "str", e.Actual)
}

func TestMergeTableOverEntry(t *testing.T) {
	a := mustParse(t, "a.toml", "kernel = 1\n")
	b := mustParse(t, "b.toml", "[kernel]\nx = 1\n")

	_, err := Merge([]*model.Config{a, b}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConflictingType))

	var e *model.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "b.toml", e.Source)
	assert.Equal(t, "a.toml", e.OtherSource)
}

func TestMergeOrderIndependentForDisjointSpecs(t *testing.T) {
	a := mustParse(t, "a.toml", "x = 1\n[t]\ny = true\n")
	b := mustParse(t, "b.toml", "z = \"s\"\n[u]\nw = [1, 2]\n")

	ab, err := Merge([]*model.Config{a, b}, nil)
	require.NoError(t, err)
	ba, err := Merge([]*model.Config{b, a}, nil)
	require.NoError(t, err)

	for path, e := range ab.Config.All() {
		other, err := ba.Config.Lookup(path)
		require.NoError(t, err, path)
		assert.True(t, e.Value.Equal(other.Value), path)
		assert.True(t, e.Type.Equal(other.Type), path)
	}
	assert.Equal(t, ab.Config.Len(), ba.Config.Len())
}

func TestMergeCarryForward(t *testing.T) {
	spec := mustParse(t, "defconfig.toml", `
smp = 1
arch = "x86_64"
[devices]
mmio = [] # [(uint, uint)]
pci-bus-end = 0
`)
	old := mustParse(t, ".axconfig.toml", `
smp = 4 # uint
arch = "riscv64" # str
removed = true # bool
[devices]
mmio = [["0xfe00_0000", "0xc0_0000"]] # [(uint, uint)]
pci-bus-end = "fast" # str
`)

	res, err := Merge([]*model.Config{spec}, old)
	require.NoError(t, err)

	smp, err := res.Config.Lookup("smp")
	require.NoError(t, err)
	assert.Equal(t, int64(4), smp.Value.Int)

	arch, err := res.Config.Lookup("arch")
	require.NoError(t, err)
	assert.Equal(t, "riscv64", arch.Value.Str)

	mmio, err := res.Config.Lookup("devices.mmio")
	require.NoError(t, err)
	assert.Len(t, mmio.Value.Items, 1)

	// Несовместимое значение не переносится
	pci, err := res.Config.Lookup("devices.pci-bus-end")
	require.NoError(t, err)
	assert.Equal(t, int64(0), pci.Value.Int)

	assert.False(t, res.Config.Has("removed"))

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, DiagnosticRemoved, res.Diagnostics[0].Kind)
	assert.Equal(t, "removed", res.Diagnostics[0].Path)
	assert.Equal(t, DiagnosticIncompatible, res.Diagnostics[1].Kind)
	assert.Equal(t, "devices.pci-bus-end", res.Diagnostics[1].Path)
	assert.Equal(t, "uint", res.Diagnostics[1].Expected)
	assert.Equal(t, "str", res.Diagnostics[1].Actual)
	assert.Contains(t, res.Diagnostics[1].String(), ".axconfig.toml:7: `devices.pci-bus-end`")
}

func TestMergeCarryForwardValidatesLiteral(t *testing.T) {
	// Строка-число из старой конфигурации подходит под uint
	spec := mustParse(t, "spec.toml", "base = 0\n")
	old := mustParse(t, "old.toml", "base = \"0xffff_ff80_0000_0000\" # str\n")

	res, err := Merge([]*model.Config{spec}, old)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	base, err := res.Config.Lookup("base")
	require.NoError(t, err)
	assert.Equal(t, "uint", base.Type.String())
	assert.Equal(t, `"0xffff_ff80_0000_0000"`, base.Value.TOML())
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	spec := mustParse(t, "spec.toml", "smp = 1\n")
	old := mustParse(t, "old.toml", "smp = 8\n")

	_, err := Merge([]*model.Config{spec}, old)
	require.NoError(t, err)

	smp, err := spec.Lookup("smp")
	require.NoError(t, err)
	assert.Equal(t, int64(1), smp.Value.Int)
}

func TestMergeEmpty(t *testing.T) {
	res, err := Merge(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Config.Len())
}
