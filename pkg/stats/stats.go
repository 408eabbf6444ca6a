package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

const namespace = "numi"

// Batch outcomes.
const (
	BatchScanned = "scanned"
	BatchFailed  = "failed"
	BatchEmpty   = "empty"
)

// Recorder collects the wallet metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	syncBatches   *prometheus.CounterVec
	syncBlocks    prometheus.Counter
	syncHeight    prometheus.Gauge
	submissions   *prometheus.CounterVec
	operationWait prometheus.Histogram
}

// NewRecorder returns a Recorder with the wallet metrics and the default go
// runtime collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		syncBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "batches_total",
			Help:      "Number of processed sync batches by outcome.",
		}, []string{"outcome"}),
		syncBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "blocks_total",
			Help:      "Number of compact blocks fetched.",
		}),
		syncHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "height",
			Help:      "Last height covered by the sync.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Number of payment submissions by status.",
		}, []string{"status"}),
		operationWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_wait_seconds",
			Help:      "Time spent waiting for remote operations to settle.",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}),
	}

	r.registry.MustRegister(
		r.syncBatches, r.syncBlocks, r.syncHeight, r.submissions,
		r.operationWait,
		collectors.NewGoCollector(),
	)
	return r
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordBatch tracks the outcome of a sync batch of the given size that
// advanced the sync to height.
func (r *Recorder) RecordBatch(outcome string, blocks int, height uint64) {
	r.syncBatches.WithLabelValues(outcome).Inc()
	r.syncBlocks.Add(float64(blocks))
	r.syncHeight.Set(float64(height))
}

func (r *Recorder) RecordSubmission(status string) {
	r.submissions.WithLabelValues(status).Inc()
}

func (r *Recorder) RecordOperationWait(d time.Duration) {
	r.operationWait.Observe(d.Seconds())
}

// Dump writes the metric families of the gatherer in text form.
func Dump(w io.Writer, gatherer prometheus.Gatherer) error {
	metricFamilies, err := gatherer.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(w)
	for _, mf := range metricFamilies {
		if _, err := writer.WriteString(mf.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// DumpToFile overwrites the file at path with the metrics of the gatherer.
func DumpToFile(path string, gatherer prometheus.Gatherer) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	return Dump(file, gatherer)
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics(w io.Writer) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fmt.Fprintf(
		w,
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v\n",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
	fmt.Fprintf(w, "Num of go routines: %v\n", runtime.NumGoroutine())
}

// LogMemoryStatistics logs the memory statistics at debug level.
func LogMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Debugf(
		"heap allocated: %.3fGB, go routines: %d",
		toGigabytes(memStats.HeapAlloc), runtime.NumGoroutine(),
	)
}
