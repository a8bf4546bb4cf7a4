package utils

import (
	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------
// CandleRingBuffer is a fixed-capacity circular buffer of candles. When full,
// appending overwrites the oldest candle.
// -----------------------------------------------------------------------------

type CandleRingBuffer struct {
	data     []models.MCandle
	capacity int
	index    int // Next write position
	size     int
}

// -----------------------------------------------------------------------------

// NewCandleRingBuffer creates a buffer holding at most capacity candles.
func NewCandleRingBuffer(capacity int) *CandleRingBuffer {
	if capacity <= 0 {
		capacity = DefaultMaxCandles
	}
	return &CandleRingBuffer{
		data:     make([]models.MCandle, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append adds c as the newest candle.
func (rb *CandleRingBuffer) Append(c models.MCandle) {
	rb.data[rb.index] = c
	rb.index = (rb.index + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// Last returns the newest candle.
func (rb *CandleRingBuffer) Last() (models.MCandle, bool) {
	if rb.size == 0 {
		return models.MCandle{}, false
	}
	return rb.data[(rb.index-1+rb.capacity)%rb.capacity], true
}

// SetLast overwrites the newest candle. It is a no-op on an empty buffer.
func (rb *CandleRingBuffer) SetLast(c models.MCandle) {
	if rb.size == 0 {
		return
	}
	rb.data[(rb.index-1+rb.capacity)%rb.capacity] = c
}

// -----------------------------------------------------------------------------

// GetLatest returns up to n newest candles, oldest first.
func (rb *CandleRingBuffer) GetLatest(n int) []models.MCandle {
	if rb.size == 0 || n <= 0 {
		return []models.MCandle{}
	}
	if n > rb.size {
		n = rb.size
	}

	result := make([]models.MCandle, n)
	start := (rb.index - n + rb.capacity) % rb.capacity
	for i := 0; i < n; i++ {
		result[i] = rb.data[(start+i)%rb.capacity]
	}
	return result
}

// GetAll returns a copy of every candle, oldest first.
func (rb *CandleRingBuffer) GetAll() []models.MCandle {
	return rb.GetLatest(rb.size)
}

// -----------------------------------------------------------------------------

func (rb *CandleRingBuffer) Size() int {
	return rb.size
}

func (rb *CandleRingBuffer) Capacity() int {
	return rb.capacity
}

// -----------------------------------------------------------------------------

// Resize changes the capacity. Shrinking keeps the newest candles.
func (rb *CandleRingBuffer) Resize(newCapacity int) {
	if newCapacity <= 0 || newCapacity == rb.capacity {
		return
	}

	keep := rb.GetLatest(newCapacity)
	rb.data = make([]models.MCandle, newCapacity)
	copy(rb.data, keep)
	rb.capacity = newCapacity
	rb.size = len(keep)
	rb.index = rb.size % newCapacity
}
