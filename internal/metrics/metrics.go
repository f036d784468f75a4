// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package metrics wires engine-level counters and histograms through
// github.com/prometheus/client_golang into a private registry, reachable
// through Metrics.Gatherer. The control channel's `usage` command does not
// report them, and cmd/ukvctl has no command that serves them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's prometheus collectors. The zero value is not
// usable; construct one with New.
type Metrics struct {
	registry *prometheus.Registry

	commits      prometheus.Counter
	conflicts    prometheus.Counter
	writeLatency prometheus.Histogram
	readLatency  prometheus.Histogram
	scanLatency  prometheus.Histogram
}

// New returns a Metrics with a private registry, so multiple DBs in one
// process don't collide on collector registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ukv",
			Name:      "commits_total",
			Help:      "Total number of batches committed against the live store.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ukv",
			Name:      "txn_conflicts_total",
			Help:      "Total number of transaction commits rejected by OCC validation.",
		}),
		writeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ukv",
			Name:      "batch_write_seconds",
			Help:      "Latency of BatchWrite calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		readLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ukv",
			Name:      "batch_read_seconds",
			Help:      "Latency of BatchRead calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		scanLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ukv",
			Name:      "batch_scan_seconds",
			Help:      "Latency of BatchScan calls.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.commits, m.conflicts, m.writeLatency, m.readLatency, m.scanLatency)
	return m
}

// Registerer exposes the private registry so a backend (e.g. badgerdb)
// can register its own collectors alongside the engine's.
func (m *Metrics) Registerer() prometheus.Registerer { return m.registry }

// Gatherer exposes the private registry for an HTTP /metrics handle.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

func (m *Metrics) ObserveCommit() { m.commits.Inc() }

func (m *Metrics) ObserveConflict() { m.conflicts.Inc() }

func (m *Metrics) ObserveWrite(d time.Duration) { m.writeLatency.Observe(d.Seconds()) }

func (m *Metrics) ObserveRead(d time.Duration) { m.readLatency.Observe(d.Seconds()) }

func (m *Metrics) ObserveScan(d time.Duration) { m.scanLatency.Observe(d.Seconds()) }
