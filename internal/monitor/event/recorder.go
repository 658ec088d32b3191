package event

import (
	"math"
	"sync"
	"time"

	"github.com/oneagent-ai/oneagent/internal/monitor/taxonomy"
	"github.com/oneagent-ai/oneagent/internal/monitor/window"
)

// DefaultRecentCapacity bounds the recent-event ring when unconfigured.
const DefaultRecentCapacity = 500

// Recorder ingests operation outcomes from producers. It owns the recent
// event ring, the per (component, operation) counters and the per-code error
// counters, and forwards latency samples to the window store. Ingestion
// never fails back to the caller: a reporting defect must not break the
// producer's primary workflow.
type Recorder struct {
	mu          sync.Mutex
	classifier  *taxonomy.Classifier
	windows     *window.Store
	capacity    int
	events      []OperationEvent
	start       int
	size        int
	counters    map[string]map[string]*Counters
	errorCounts map[string]map[string]map[taxonomy.Code]uint64
	stream      *Stream
	startTime   time.Time
	clock       func() time.Time
}

func NewRecorder(classifier *taxonomy.Classifier, windows *window.Store, recentCapacity int) *Recorder {
	if recentCapacity <= 0 {
		recentCapacity = DefaultRecentCapacity
	}
	return &Recorder{
		classifier:  classifier,
		windows:     windows,
		capacity:    recentCapacity,
		events:      make([]OperationEvent, recentCapacity),
		counters:    map[string]map[string]*Counters{},
		errorCounts: map[string]map[string]map[taxonomy.Code]uint64{},
		stream:      NewStream(),
		startTime:   time.Now(),
		clock:       time.Now,
	}
}

// WithClock overrides the clock for tests.
func (r *Recorder) WithClock(clock func() time.Time) *Recorder {
	r.clock = clock
	return r
}

// TrackOperation records one operation outcome. Side effects, in order:
// append to the recent-event ring (classifying the error when present),
// bump counters, forward a valid latency sample to the window store, then
// publish the event to subscribers.
func (r *Recorder) TrackOperation(component string, operation string, status Status, md Metadata) {
	ev := OperationEvent{
		Component:  component,
		Operation:  operation,
		Status:     status,
		Time:       r.clock(),
		RawError:   md.Error,
		Extra:      md.Extra,
	}
	if validDuration(md.DurationMs) {
		d := *md.DurationMs
		ev.DurationMs = &d
	}
	if status == StatusError {
		ev.Code = r.classifier.Classify(md.Error)
	}

	r.mu.Lock()
	r.appendEvent(ev)
	counters := r.countersFor(component, operation)
	counters.Total++
	if status == StatusError {
		counters.Error++
		r.bumpErrorCount(component, operation, ev.Code)
	} else {
		counters.Success++
	}
	r.mu.Unlock()

	if ev.DurationMs != nil {
		r.windows.Record(operation, *ev.DurationMs)
	}
	r.stream.publish(ev)
}

// Subscribe registers a callback for every subsequently recorded event and
// returns a handle whose Unsubscribe stops delivery.
func (r *Recorder) Subscribe(callback func(OperationEvent)) *Subscription {
	return r.stream.Subscribe(callback)
}

// RecentEvents returns up to n of the most recent events, most-recent-last.
func (r *Recorder) RecentEvents(n int) []OperationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.size || n < 0 {
		n = r.size
	}
	out := make([]OperationEvent, n)
	for i := 0; i < n; i++ {
		out[i] = r.events[(r.start+r.size-n+i)%r.capacity]
	}
	return out
}

// RecentTotal is the number of events currently held in the ring.
func (r *Recorder) RecentTotal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// CounterSnapshot copies the component -> operation -> counters map.
func (r *Recorder) CounterSnapshot() map[string]map[string]Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]map[string]Counters, len(r.counters))
	for component, operations := range r.counters {
		out[component] = make(map[string]Counters, len(operations))
		for operation, counters := range operations {
			out[component][operation] = *counters
		}
	}
	return out
}

// ErrorCountSnapshot copies the component -> operation -> code counts.
func (r *Recorder) ErrorCountSnapshot() map[string]map[string]map[taxonomy.Code]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]map[string]map[taxonomy.Code]uint64, len(r.errorCounts))
	for component, operations := range r.errorCounts {
		out[component] = make(map[string]map[taxonomy.Code]uint64, len(operations))
		for operation, codes := range operations {
			out[component][operation] = make(map[taxonomy.Code]uint64, len(codes))
			for code, count := range codes {
				out[component][operation][code] = count
			}
		}
	}
	return out
}

// StartTime is when this recorder was constructed.
func (r *Recorder) StartTime() time.Time {
	return r.startTime
}

// Reset clears counters, the event ring and the window store. Test hook only.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = make([]OperationEvent, r.capacity)
	r.start = 0
	r.size = 0
	r.counters = map[string]map[string]*Counters{}
	r.errorCounts = map[string]map[string]map[taxonomy.Code]uint64{}
	r.mu.Unlock()
	r.windows.Reset()
}

func (r *Recorder) appendEvent(ev OperationEvent) {
	if r.size < r.capacity {
		r.events[(r.start+r.size)%r.capacity] = ev
		r.size++
		return
	}
	r.events[r.start] = ev
	r.start = (r.start + 1) % r.capacity
}

func (r *Recorder) countersFor(component string, operation string) *Counters {
	operations, ok := r.counters[component]
	if !ok {
		operations = map[string]*Counters{}
		r.counters[component] = operations
	}
	counters, ok := operations[operation]
	if !ok {
		counters = &Counters{}
		operations[operation] = counters
	}
	return counters
}

func (r *Recorder) bumpErrorCount(component string, operation string, code taxonomy.Code) {
	operations, ok := r.errorCounts[component]
	if !ok {
		operations = map[string]map[taxonomy.Code]uint64{}
		r.errorCounts[component] = operations
	}
	codes, ok := operations[operation]
	if !ok {
		codes = map[taxonomy.Code]uint64{}
		operations[operation] = codes
	}
	codes[code]++
}

func validDuration(d *float64) bool {
	return d != nil && !math.IsNaN(*d) && !math.IsInf(*d, 0) && *d >= 0
}
