package metrics

import (
	"strings"
	"testing"
)

func TestRenderExposition(t *testing.T) {
	IncIngestStarted()
	IncIngestStarted()
	IncIngestCompleted()
	ObserveIngestDurationMs(120)
	ObserveIngestDurationMs(80)
	ObserveIngestDurationMs(99999)
	ObserveIngestDurationMs(-1)

	out := Render()
	for _, want := range []string{
		"# TYPE ingest_started_total counter",
		"ingest_started_total 2",
		"ingest_completed_total 1",
		"# TYPE ingest_duration_ms histogram",
		`ingest_duration_ms_bucket{le="100"} 2`,
		`ingest_duration_ms_bucket{le="250"} 3`,
		`ingest_duration_ms_bucket{le="60000"} 3`,
		`ingest_duration_ms_bucket{le="+Inf"} 4`,
		"ingest_duration_ms_sum 100199",
		"ingest_duration_ms_count 4",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Fatalf("missing %q in exposition:\n%s", want, out)
		}
	}
}
