//go:build darwin

package helpers

import (
	"os/exec"
	"strconv"
	"strings"
)

// TotalSystemMemoryMB asks sysctl for hw.memsize. Zero means unknown.
func TotalSystemMemoryMB() int {
	out, err := exec.Command("sysctl", "-n", "hw.memsize").Output()
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0
	}
	return int(n >> 20)
}
