package logging

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// Printer receives the router's own diagnostics.
type Printer interface {
	Printf(format string, args ...any)
}

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

// Router fans published events out to sinks. Publish never blocks: events
// are dropped when the queue or a sink backlog is full, and a sink that is
// backing off after a failure skips events instead of stalling the feed.
type Router struct {
	cfg      Config
	queue    chan Event
	sinks    []*sinkWorker
	clock    Clock
	fallback Printer
	ctx      context.Context
	cancel   context.CancelFunc
	closed   atomic.Bool
	floors   severityFloors
	fields   map[string]any
	wg       sync.WaitGroup

	eventsTotal   atomic.Uint64
	droppedTotal  atomic.Uint64
	filteredTotal atomic.Uint64
	lastDropLog   atomic.Int64

	mu     sync.Mutex
	byType map[EventType]uint64
}

type RouterStats struct {
	EventsTotal   uint64
	DroppedTotal  uint64
	FilteredTotal uint64
	ByType        map[EventType]uint64
	Sinks         map[string]SinkStats
}

// SinkStats counts write outcomes for one sink.
type SinkStats struct {
	Written  uint64
	Failures uint64
	Skipped  uint64
}

// severityFloors resolves the minimum severity for an event: an exact event
// type wins over its category, which wins over the router default.
type severityFloors struct {
	base     Severity
	override map[string]Severity
}

func (f severityFloors) admit(event Event) bool {
	if floor, ok := f.override[string(event.Type)]; ok {
		return event.Severity >= floor
	}
	if floor, ok := f.override[event.Category]; ok && event.Category != "" {
		return event.Severity >= floor
	}
	return event.Severity >= f.base
}

func NewRouter(cfg Config, clock Clock, fallback Printer, namedSinks []NamedSink) *Router {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	if fallback == nil {
		fallback = log.Default()
	}
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 512
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Router{
		cfg:      cfg,
		queue:    make(chan Event, bufferSize),
		clock:    clock,
		fallback: fallback,
		ctx:      ctx,
		cancel:   cancel,
		floors:   severityFloors{base: cfg.MinimumSeverity, override: cfg.CloneFloors()},
		fields:   cfg.CloneFields(),
		byType:   make(map[EventType]uint64),
	}

	sinkBuffer := min(max(bufferSize, 32), 1024)
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		r.sinks = append(r.sinks, newSinkWorker(named.Name, named.Sink, sinkBuffer, fallback, clock))
	}

	r.start()
	return r
}

func (r *Router) start() {
	r.wg.Add(1)
	go func() {
		defer func() {
			for _, worker := range r.sinks {
				close(worker.events)
			}
			r.wg.Done()
		}()
		for {
			select {
			case <-r.ctx.Done():
				r.drain()
				return
			case event := <-r.queue:
				r.forward(event)
			}
		}
	}()
	for _, worker := range r.sinks {
		r.wg.Add(1)
		go func(w *sinkWorker) {
			defer r.wg.Done()
			w.run()
		}(worker)
	}
}

func (r *Router) drain() {
	for {
		select {
		case event := <-r.queue:
			r.forward(event)
		default:
			return
		}
	}
}

func (r *Router) forward(event Event) {
	if !r.floors.admit(event) {
		r.filteredTotal.Add(1)
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = withFields(event, r.fields)
	r.eventsTotal.Add(1)
	r.mu.Lock()
	r.byType[event.Type]++
	r.mu.Unlock()
	for _, worker := range r.sinks {
		worker.enqueue(event)
	}
}

func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || r.closed.Load() {
		return
	}
	select {
	case r.queue <- event:
	default:
		r.handleDrop(event)
	}
}

func (r *Router) handleDrop(event Event) {
	r.droppedTotal.Add(1)
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	now := r.clock.Now().UnixNano()
	next := r.lastDropLog.Load()
	if next == 0 || now >= next {
		if r.lastDropLog.CompareAndSwap(next, now+interval.Nanoseconds()) {
			r.fallback.Printf("[logging] dropping event type=%s tick=%d", event.Type, event.Tick)
		}
	}
}

// Close flushes queued events and closes every sink.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var firstErr error
	for _, worker := range r.sinks {
		if err := worker.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:   r.eventsTotal.Load(),
		DroppedTotal:  r.droppedTotal.Load(),
		FilteredTotal: r.filteredTotal.Load(),
		ByType:        make(map[EventType]uint64),
		Sinks:         make(map[string]SinkStats, len(r.sinks)),
	}
	r.mu.Lock()
	for eventType, count := range r.byType {
		stats.ByType[eventType] = count
	}
	r.mu.Unlock()
	for _, worker := range r.sinks {
		stats.Sinks[worker.name] = worker.stats()
	}
	return stats
}

func (r *Router) Sink(name string) Sink {
	for _, worker := range r.sinks {
		if worker.name == name {
			return worker.sink
		}
	}
	return nil
}

type sinkWorker struct {
	name      string
	sink      Sink
	events    chan Event
	fallback  Printer
	clock     Clock
	failures  int
	nextRetry time.Time

	written      atomic.Uint64
	failureTotal atomic.Uint64
	skipped      atomic.Uint64
}

func newSinkWorker(name string, sink Sink, buffer int, fallback Printer, clock Clock) *sinkWorker {
	return &sinkWorker{
		name:     name,
		sink:     sink,
		events:   make(chan Event, buffer),
		fallback: fallback,
		clock:    clock,
	}
}

func (w *sinkWorker) enqueue(event Event) {
	select {
	case w.events <- event.Clone():
	default:
		w.skipped.Add(1)
		w.fallback.Printf("[logging] sink %s backlog full dropping event type=%s", w.name, event.Type)
	}
}

// run writes events in order. After a failure the sink backs off
// exponentially; events arriving before the retry time are skipped so a
// recovered sink resumes at the live tick rather than replaying a backlog.
func (w *sinkWorker) run() {
	pending := uint64(0)
	for event := range w.events {
		if !w.nextRetry.IsZero() && w.clock.Now().Before(w.nextRetry) {
			pending++
			w.skipped.Add(1)
			continue
		}
		if err := w.sink.Write(event); err != nil {
			w.failures++
			w.failureTotal.Add(1)
			delay := time.Duration(1<<min(w.failures, 5)) * time.Second
			w.nextRetry = w.clock.Now().Add(delay)
			w.fallback.Printf("[logging] sink %s failed: %v (retry in %s)", w.name, err, delay)
			continue
		}
		if pending > 0 {
			w.fallback.Printf("[logging] sink %s recovered after skipping %d events", w.name, pending)
			pending = 0
		}
		w.written.Add(1)
		w.failures = 0
		w.nextRetry = time.Time{}
	}
}

func (w *sinkWorker) stats() SinkStats {
	return SinkStats{
		Written:  w.written.Load(),
		Failures: w.failureTotal.Load(),
		Skipped:  w.skipped.Load(),
	}
}
