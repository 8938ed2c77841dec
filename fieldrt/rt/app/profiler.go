package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler collects per-frame CPU timings and counters for the debug log line.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
	p.StartTimes[name] = time.Now()
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
		delete(p.StartTimes, name)
	}
}

// Time runs fn inside the named scope. The scope is closed even when fn fails.
func (p *Profiler) Time(name string, fn func() error) error {
	p.BeginScope(name)
	defer p.EndScope(name)
	return fn()
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Summary renders timings in first-seen order followed by sorted counters,
// e.g. "update=0.05ms render=0.31ms points=9216".
func (p *Profiler) Summary() string {
	parts := make([]string, 0, len(p.Order)+len(p.Counts))
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s=%.2fms", name, ms))
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, p.Counts[k]))
	}
	return strings.Join(parts, " ")
}
