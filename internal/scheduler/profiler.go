package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// Profiler is a CPU-side recording-time profiler with one named scope per
// recorded stage; RecordFrame times the three temporal resolves, the GI
// inject/propagate pair, and the two G-buffer raster passes as one scope
// each.
type Profiler struct {
	scopes     map[string]time.Duration
	startTimes map[string]time.Time
	order      []string
}

// NewProfiler returns an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{
		scopes:     make(map[string]time.Duration),
		startTimes: make(map[string]time.Time),
	}
}

// Begin starts timing name, registering it in first-seen order if new.
func (p *Profiler) Begin(name string) {
	p.startTimes[name] = time.Now()
	for _, n := range p.order {
		if n == name {
			return
		}
	}
	p.order = append(p.order, name)
}

// End stops timing name.
func (p *Profiler) End(name string) {
	if start, ok := p.startTimes[name]; ok {
		p.scopes[name] = time.Since(start)
	}
}

// Reset zeroes every scope's duration while keeping display order stable.
func (p *Profiler) Reset() {
	for k := range p.scopes {
		p.scopes[k] = 0
	}
}

// Report renders one line per scope in first-seen order, in milliseconds.
func (p *Profiler) Report() string {
	var sb strings.Builder
	for _, name := range p.order {
		ms := float64(p.scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("%-24s %.2f ms\n", name, ms))
	}
	return sb.String()
}
