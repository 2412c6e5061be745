package ndstats

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// MetricsCollector receives one record per public operation.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordQuantile is called after each axis quantile computation.
	// lanes is the number of lanes evaluated and levels the number of
	// requested quantiles; err is nil if successful.
	RecordQuantile(lanes, levels int, duration time.Duration, err error)

	// RecordReduce is called after each min/max reduction. op names the
	// reduction, e.g. "min" or "max_axis".
	RecordReduce(op string, duration time.Duration, err error)
}

// NoopMetricsCollector discards all records.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuantile(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReduce(string, time.Duration, error)     {}

// BasicMetricsCollector keeps in-memory counters. The quantile and reduce
// groups sit on separate cache lines since concurrent callers usually
// update only one of them.
type BasicMetricsCollector struct {
	QuantileCount      atomic.Int64
	QuantileErrors     atomic.Int64
	QuantileLanes      atomic.Int64
	QuantileLevels     atomic.Int64
	QuantileTotalNanos atomic.Int64
	_                  cpu.CacheLinePad
	ReduceCount        atomic.Int64
	ReduceErrors       atomic.Int64
	ReduceTotalNanos   atomic.Int64
	_                  cpu.CacheLinePad
}

// RecordQuantile implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantile(lanes, levels int, duration time.Duration, err error) {
	b.QuantileCount.Add(1)
	b.QuantileTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantileErrors.Add(1)
		return
	}
	b.QuantileLanes.Add(int64(lanes))
	b.QuantileLevels.Add(int64(levels))
}

// RecordReduce implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReduce(_ string, duration time.Duration, err error) {
	b.ReduceCount.Add(1)
	b.ReduceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReduceErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QuantileCount:    b.QuantileCount.Load(),
		QuantileErrors:   b.QuantileErrors.Load(),
		QuantileLanes:    b.QuantileLanes.Load(),
		QuantileLevels:   b.QuantileLevels.Load(),
		QuantileAvgNanos: avg(b.QuantileTotalNanos.Load(), b.QuantileCount.Load()),
		ReduceCount:      b.ReduceCount.Load(),
		ReduceErrors:     b.ReduceErrors.Load(),
		ReduceAvgNanos:   avg(b.ReduceTotalNanos.Load(), b.ReduceCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QuantileCount    int64
	QuantileErrors   int64
	QuantileLanes    int64
	QuantileLevels   int64
	QuantileAvgNanos int64
	ReduceCount      int64
	ReduceErrors     int64
	ReduceAvgNanos   int64
}
