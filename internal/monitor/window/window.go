package window

// DefaultCapacity bounds a window when no capacity is configured.
const DefaultCapacity = 1000

// Window is a fixed-capacity FIFO ring of latency samples in milliseconds.
// Once full, appending evicts the oldest sample. Size never exceeds capacity.
type Window struct {
	samples  []float64
	capacity int
	start    int
	size     int
}

func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		samples:  make([]float64, capacity),
		capacity: capacity,
	}
}

func (w *Window) Add(value float64) {
	if w.size < w.capacity {
		w.samples[(w.start+w.size)%w.capacity] = value
		w.size++
		return
	}
	w.samples[w.start] = value
	w.start = (w.start + 1) % w.capacity
}

func (w *Window) Len() int {
	return w.size
}

// Snapshot returns the current samples oldest-first. The returned slice is a
// copy; callers may sort or mutate it freely without affecting the window.
func (w *Window) Snapshot() []float64 {
	out := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.samples[(w.start+i)%w.capacity]
	}
	return out
}
