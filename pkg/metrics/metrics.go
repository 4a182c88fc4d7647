// Package metrics keeps process gauges in an embedded time-series store so the
// latest values can be served by the HTTP boundary.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

const retention = 24 * time.Hour

var (
	mu      sync.RWMutex
	storage tstorage.Storage
	names   = map[string]struct{}{}
)

// InitMetrics opens the metric store under workdir/data/metrics. An empty
// workdir keeps the points in memory only.
func InitMetrics(workdir string) error {
	opts := []tstorage.Option{
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(retention),
	}
	if workdir != "" {
		opts = append(opts, tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")))
	}
	s, err := tstorage.NewStorage(opts...)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}

	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		_ = storage.Close()
	}
	storage = s
	names = map[string]struct{}{}
	return nil
}

// SetGauge records the current value of a gauge.
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
	names[name] = struct{}{}
}

// Latest returns the most recent value recorded for name.
func Latest(name string) (int64, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return latest(name)
}

func latest(name string) (int64, bool) {
	if storage == nil {
		return 0, false
	}
	now := time.Now()
	points, err := storage.Select(name, nil, now.Add(-retention).Unix(), now.Unix()+1)
	if err != nil || len(points) == 0 {
		return 0, false
	}
	last := points[0]
	for _, p := range points[1:] {
		if p.Timestamp >= last.Timestamp {
			last = p
		}
	}
	return int64(last.Value), true
}

// Snapshot returns the latest value of every gauge written so far.
func Snapshot() map[string]int64 {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]int64, len(names))
	for k := range names {
		if v, ok := latest(k); ok {
			out[k] = v
		}
	}
	return out
}

// Close flushes and closes the metric store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
