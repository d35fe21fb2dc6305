package metrics

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name string
	help string
	val  atomic.Uint64
}

func (c *counter) inc() { c.val.Add(1) }

var (
	ingestStarted     = &counter{name: "ingest_started_total", help: "Total document ingestions started"}
	ingestCompleted   = &counter{name: "ingest_completed_total", help: "Total document ingestions completed"}
	ingestRejected    = &counter{name: "ingest_rejected_total", help: "Total uploads rejected before storage"}
	extractionEmpty   = &counter{name: "extraction_empty_total", help: "Total ingestions with no extractable text"}
	summaryFallback   = &counter{name: "summary_fallback_total", help: "Total summaries produced by the deterministic fallback"}
	jobsReceived      = &counter{name: "ingest_jobs_received_total", help: "Total queue tasks picked up by the worker"}
	jobsCompleted     = &counter{name: "ingest_jobs_completed_total", help: "Total queue tasks processed and deleted"}
	jobsFailed        = &counter{name: "ingest_jobs_failed_total", help: "Total queue tasks left for redelivery"}
	jobsUnrecoverable = &counter{name: "ingest_jobs_deleted_unrecoverable_total", help: "Total malformed queue tasks deleted without processing"}

	// Registration order is exposition order.
	counters = []*counter{
		ingestStarted,
		ingestCompleted,
		ingestRejected,
		extractionEmpty,
		summaryFallback,
		jobsReceived,
		jobsCompleted,
		jobsFailed,
		jobsUnrecoverable,
	}

	ingestDuration = newHistogram("ingest_duration_ms", "Ingestion duration in milliseconds",
		[]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncIngestStarted increments the started counter.
func IncIngestStarted() { ingestStarted.inc() }

// IncIngestCompleted increments the completed counter.
func IncIngestCompleted() { ingestCompleted.inc() }

// IncIngestRejected increments the rejected-upload counter.
func IncIngestRejected() { ingestRejected.inc() }

// IncExtractionEmpty counts ingestions whose extracted text came back empty.
func IncExtractionEmpty() { extractionEmpty.inc() }

// IncSummaryFallback counts summaries produced by the deterministic fallback.
func IncSummaryFallback() { summaryFallback.inc() }

// IncIngestJobsReceived counts queue tasks picked up by the worker.
func IncIngestJobsReceived() { jobsReceived.inc() }

// IncIngestJobsCompleted counts queue tasks processed and deleted.
func IncIngestJobsCompleted() { jobsCompleted.inc() }

// IncIngestJobsFailed counts queue tasks left for redelivery after a
// processing failure.
func IncIngestJobsFailed() { jobsFailed.inc() }

// IncIngestJobsDeletedUnrecoverable counts malformed queue tasks deleted
// without processing.
func IncIngestJobsDeletedUnrecoverable() { jobsUnrecoverable.inc() }

// ObserveIngestDurationMs records an ingestion duration in milliseconds.
func ObserveIngestDurationMs(value float64) {
	ingestDuration.observe(math.Max(value, 0))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; version=0.0.4", []byte(Render()))
	}
}

// Render renders all registered metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	for _, c := range counters {
		fmt.Fprintf(&buf, "# HELP %s %s\n", c.name, c.help)
		fmt.Fprintf(&buf, "# TYPE %s counter\n", c.name)
		fmt.Fprintf(&buf, "%s %d\n", c.name, c.val.Load())
	}
	ingestDuration.write(&buf)
	return buf.String()
}

// histogram tracks observations against a sorted set of upper bounds.
// hits holds per-bucket counts; the writer accumulates them into the
// cumulative form the text format requires.
type histogram struct {
	name   string
	help   string
	bounds []float64

	mu    sync.Mutex
	hits  []uint64
	sum   float64
	count uint64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{
		name:   name,
		help:   help,
		bounds: bounds,
		hits:   make([]uint64, len(bounds)),
	}
}

func (h *histogram) observe(v float64) {
	idx := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	if idx < len(h.bounds) {
		h.hits[idx]++
	}
}

func (h *histogram) write(buf *bytes.Buffer) {
	h.mu.Lock()
	hits := append([]uint64(nil), h.hits...)
	sum, count := h.sum, h.count
	h.mu.Unlock()

	fmt.Fprintf(buf, "# HELP %s %s\n", h.name, h.help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", h.name)
	var cumulative uint64
	for i, bound := range h.bounds {
		cumulative += hits[i]
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", h.name, fmtValue(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", h.name, count)
	fmt.Fprintf(buf, "%s_sum %s\n", h.name, fmtValue(sum))
	fmt.Fprintf(buf, "%s_count %d\n", h.name, count)
}

func fmtValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
