//go:build linux

package helpers

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// TotalSystemMemoryMB reads MemTotal from /proc/meminfo. Zero means unknown.
func TotalSystemMemoryMB() int {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0
		}
		return kb / 1024
	}
	return 0
}
