//go:build !linux && !darwin

package helpers

// TotalSystemMemoryMB is unknown on this platform; callers fall back to a
// fixed budget.
func TotalSystemMemoryMB() int {
	return 0
}
