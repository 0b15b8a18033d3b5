// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics instruments blink lines with Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warthog618/blink"
)

// Collector holds the line metrics registered with a single registry.
type Collector struct {
	writes *prometheus.CounterVec
	faults *prometheus.CounterVec
	level  *prometheus.GaugeVec
}

// NewCollector registers the line metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		writes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blink",
			Subsystem: "line",
			Name:      "writes_total",
			Help:      "Number of successful writes to a line, by level",
		}, []string{"line", "level"}),
		faults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blink",
			Subsystem: "line",
			Name:      "faults_total",
			Help:      "Number of failed line operations",
		}, []string{"line", "op"}),
		level: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "blink",
			Subsystem: "line",
			Name:      "level",
			Help:      "Last level written to a line (1 high, 0 low)",
		}, []string{"line"}),
	}
}

// Instrument wraps the line so its operations are counted.
func (c *Collector) Instrument(l blink.Line) blink.Line {
	return &line{Line: l, c: c}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type line struct {
	blink.Line
	c *Collector
}

func (l *line) SetLevel(v blink.Level) error {
	name := l.Name()
	if err := l.Line.SetLevel(v); err != nil {
		l.c.faults.WithLabelValues(name, "write").Inc()
		return err
	}
	l.c.writes.WithLabelValues(name, v.String()).Inc()
	g := 0.0
	if v {
		g = 1
	}
	l.c.level.WithLabelValues(name).Set(g)
	return nil
}

func (l *line) Level() (blink.Level, error) {
	v, err := l.Line.Level()
	if err != nil {
		l.c.faults.WithLabelValues(l.Name(), "read").Inc()
	}
	return v, err
}
