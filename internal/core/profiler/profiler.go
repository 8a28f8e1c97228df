// Package profiler provides named-section timing for the mining pipeline.
//
// A Profiler is a capability selected once at construction: the active
// Simple implementation when profiling is enabled, the no-op otherwise.
// Call sites never branch on whether profiling is on.
package profiler

import (
	"sort"
	"sync"
	"time"

	"github.com/ohrn/loghive-go/internal/telemetry/logger"
)

// Profiler times named sections and periodically reports them.
type Profiler interface {
	// StartSection opens a timed section. Sections may nest as long as
	// names differ.
	StartSection(name string)

	// EndSection closes a section. An empty name closes the most recently
	// started one.
	EndSection(name string)

	// Report emits section statistics when at least every has elapsed
	// since the previous report. A non-positive interval disables
	// reporting.
	Report(every time.Duration)
}

type nopProfiler struct{}

func (nopProfiler) StartSection(string)  {}
func (nopProfiler) EndSection(string)    {}
func (nopProfiler) Report(time.Duration) {}

// Nop returns the no-op profiler.
func Nop() Profiler {
	return nopProfiler{}
}

// SectionStats is a point-in-time view of one section.
type SectionStats struct {
	Name    string
	Samples int64
	Total   time.Duration
}

type section struct {
	startedAt time.Time
	running   bool
	samples   int64
	total     time.Duration
}

// Simple accumulates per-section sample counts and total durations.
type Simple struct {
	mu          sync.Mutex
	sections    map[string]*section
	lastStarted string
	lastReport  time.Time

	log   logger.Logger
	clock func() time.Time
}

// SimpleOption configures a Simple profiler.
type SimpleOption func(*Simple)

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) SimpleOption {
	return func(p *Simple) {
		p.clock = clock
	}
}

// NewSimple creates an active profiler reporting through log.
func NewSimple(log logger.Logger, opts ...SimpleOption) *Simple {
	p := &Simple{
		sections: make(map[string]*section),
		log:      log,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastReport = p.clock()
	return p
}

// StartSection opens a timed section.
func (p *Simple) StartSection(name string) {
	if name == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sections[name]
	if !ok {
		s = &section{}
		p.sections[name] = s
	}
	s.startedAt = p.clock()
	s.running = true
	p.lastStarted = name
}

// EndSection closes a section and accounts one sample.
func (p *Simple) EndSection(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name == "" {
		name = p.lastStarted
	}
	s, ok := p.sections[name]
	if !ok || !s.running {
		return
	}
	s.total += p.clock().Sub(s.startedAt)
	s.samples++
	s.running = false
}

// Stats returns section statistics sorted by total time, descending.
func (p *Simple) Stats() []SectionStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SectionStats, 0, len(p.sections))
	for name, s := range p.sections {
		out = append(out, SectionStats{Name: name, Samples: s.samples, Total: s.total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// Report logs one line per section when the report interval has elapsed.
func (p *Simple) Report(every time.Duration) {
	if every <= 0 {
		return
	}

	p.mu.Lock()
	now := p.clock()
	if now.Sub(p.lastReport) < every {
		p.mu.Unlock()
		return
	}
	p.lastReport = now
	p.mu.Unlock()

	for _, s := range p.Stats() {
		perSample := time.Duration(0)
		if s.Samples > 0 {
			perSample = s.Total / time.Duration(s.Samples)
		}
		p.log.Info("profile section",
			"section", s.Name,
			"samples", s.Samples,
			"total_ms", s.Total.Milliseconds(),
			"per_sample", perSample.String(),
		)
	}
}
