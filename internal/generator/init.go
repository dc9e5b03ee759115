package generator

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

var initFiles = map[string]string{
	"defconfig.toml": `# Architecture identifier.
arch = "x86_64"             # str
# Platform identifier.
plat = "x86_64-qemu-q35"    # str
# Number of CPUs.
smp = 1                     # uint

#
# Kernel configs
#
[kernel]
# Stack size of each task.
task-stack-size = 0x40000   # uint
# Number of timer ticks per second (Hz).
ticks-per-sec = 100         # uint

#
# Device specifications
#
[devices]
# MMIO regions with format (` + "`base_paddr`, `size`" + `).
mmio-regions = []           # [(uint, uint)]
# End PCI bus number.
pci-bus-end = 0             # uint
`,

	"platform.toml.example": `# platform.toml.example: скопируйте в platform.toml и передайте вторым --spec,
# значения перекрывают defconfig.toml

smp = 4

[devices]
mmio-regions = [
    ["0xfe00_0000", "0xc0_0000"],   # PCI devices
    ["0xfec0_0000", "0x1000"],      # IO APIC
]                                   # [(uint, uint)]
`,
}

// Init создаёт начальные файлы спецификаций в указанной директории.
// Существующие файлы не перезаписываются. Возвращает имена созданных файлов.
func Init(specDir string) ([]string, error) {
	if err := os.MkdirAll(specDir, 0o755); err != nil {
		return nil, fmt.Errorf("создание директории %s: %w", specDir, err)
	}

	var created []string
	for _, name := range slices.Sorted(maps.Keys(initFiles)) {
		path := filepath.Join(specDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(initFiles[name]), 0o644); err != nil {
			return created, fmt.Errorf("запись %s: %w", name, err)
		}
		created = append(created, name)
	}

	return created, nil
}
