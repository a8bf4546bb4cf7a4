package helpers

const (
	fallbackMemoryMB = 512
	memoryShare      = 0.25
)

// RecommendedMemoryLimitMB is the budget the in-memory series store may use
// before it starts shrinking buffers: a quarter of physical RAM, never less
// than 512MB unless the machine has less than that.
func RecommendedMemoryLimitMB() int {
	return memoryLimitFor(TotalSystemMemoryMB())
}

func memoryLimitFor(totalMB int) int {
	if totalMB <= 0 {
		return fallbackMemoryMB
	}
	limit := int(float64(totalMB) * memoryShare)
	if limit < fallbackMemoryMB {
		if totalMB < fallbackMemoryMB {
			return totalMB
		}
		return fallbackMemoryMB
	}
	return limit
}
