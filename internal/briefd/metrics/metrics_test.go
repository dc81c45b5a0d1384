package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsExport(t *testing.T) {
	Reset()
	m := Get()

	m.RecordBrief(2*time.Second, nil)
	m.RecordBrief(time.Second, assert.AnError)
	m.RecordChunks(7, 2)
	m.RecordEdit(true)
	m.RecordEdit(false)
	m.RecordAsk(true, nil)
	m.RecordAsk(false, nil)
	m.RecordCitations(3, 1)
	m.RecordLLMCall(500*time.Millisecond, nil)

	out := m.Export("briefd")

	assert.Contains(t, out, "briefd_briefs_created_total 1")
	assert.Contains(t, out, "briefd_briefs_failed_total 1")
	assert.Contains(t, out, "briefd_chunks_summarized_total 7")
	assert.Contains(t, out, "briefd_chunks_filtered_total 2")
	assert.Contains(t, out, "briefd_edits_applied_total 1")
	assert.Contains(t, out, "briefd_edits_malformed_total 1")
	assert.Contains(t, out, "briefd_ask_cache_hits_total 1")
	assert.Contains(t, out, "briefd_ask_cache_misses_total 1")
	assert.Contains(t, out, "briefd_citations_resolved_total 3")
	assert.Contains(t, out, "briefd_llm_calls_total 1")
	assert.True(t, strings.Contains(out, "briefd_pipeline_duration_seconds_total 2.0"))
}

func TestRecordAskError(t *testing.T) {
	Reset()
	m := Get()

	m.RecordAsk(false, assert.AnError)
	out := m.Export("briefd")

	assert.Contains(t, out, "briefd_ask_total 1")
	assert.Contains(t, out, "briefd_ask_errors_total 1")
	assert.Contains(t, out, "briefd_ask_cache_misses_total 0")
}
