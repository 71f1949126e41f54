package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

type family interface {
	writeTo(w io.Writer) error
}

type meta struct {
	name   string
	help   string
	kind   string
	labels []string
}

func (m meta) header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", m.name, m.help, m.name, m.kind)
	return err
}

// sample is a float series keyed by its rendered label set.
type sample struct {
	meta
	mu     sync.Mutex
	values map[string]float64
}

func (s *sample) apply(fn func(float64) float64, labels ...string) {
	key := labelString(s.labels, labels)
	s.mu.Lock()
	s.values[key] = fn(s.values[key])
	s.mu.Unlock()
}

func (s *sample) writeTo(w io.Writer) error {
	if err := s.header(w); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range sortedKeys(s.values) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.name, k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type counterVec struct{ sample }

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{sample{meta: meta{name, help, "counter", labels}, values: map[string]float64{}}}
}

func (c *counterVec) add(v float64, labels ...string) {
	if v < 0 {
		return
	}
	c.apply(func(cur float64) float64 { return cur + v }, labels...)
}

type gaugeVec struct{ sample }

func newGaugeVec(name, help string, labels ...string) *gaugeVec {
	return &gaugeVec{sample{meta: meta{name, help, "gauge", labels}, values: map[string]float64{}}}
}

func (g *gaugeVec) set(v float64, labels ...string) {
	g.apply(func(float64) float64 { return v }, labels...)
}

func (g *gaugeVec) add(v float64, labels ...string) {
	g.apply(func(cur float64) float64 { return cur + v }, labels...)
}

type histogramVec struct {
	meta
	buckets []float64
	mu      sync.Mutex
	series  map[string]*histogram
}

type histogram struct {
	counts []uint64 // cumulative per bucket, last entry is +Inf
	sum    float64
	total  uint64
}

func newHistogramVec(name, help string, buckets []float64, labels ...string) *histogramVec {
	return &histogramVec{meta: meta{name, help, "histogram", labels}, buckets: buckets, series: map[string]*histogram{}}
}

func (h *histogramVec) observe(v float64, labels ...string) {
	key := labelString(h.labels, labels)
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.series[key]
	if s == nil {
		s = &histogram{counts: make([]uint64, len(h.buckets)+1)}
		h.series[key] = s
	}
	s.sum += v
	s.total++
	for i, b := range h.buckets {
		if v <= b {
			s.counts[i]++
		}
	}
	s.counts[len(h.buckets)]++
}

func (h *histogramVec) writeTo(w io.Writer) error {
	if err := h.header(w); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.series))
	for k := range h.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := h.series[k]
		for i, b := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), s.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %g\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), s.counts[len(h.buckets)],
			h.name, k, s.sum,
			h.name, k, s.total); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		parts[i] = name + `="` + escapeLabel(val) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeLabel(v string) string { return labelEscaper.Replace(v) }

func withLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}
