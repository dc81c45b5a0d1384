// Package metrics collects business metrics for the briefd service.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds service counters. All counters are updated atomically and
// exported in Prometheus text format.
type Metrics struct {
	briefsCreated    uint64
	briefsFailed     uint64
	chunksSummarized uint64
	chunksFiltered   uint64

	pipelineDuration float64

	editsApplied     uint64
	editsMalformed   uint64
	editorQuestions  uint64
	slideDecksBuilt  uint64
	briefsReindexed  uint64
	reindexErrors    uint64

	askTotal            uint64
	askCacheHits        uint64
	askCacheMisses      uint64
	askErrors           uint64
	citationsResolved   uint64
	citationsUnresolved uint64

	llmCallsTotal    uint64
	llmCallsErrors   uint64
	llmCallsDuration float64

	durationMu sync.Mutex
	startTime  time.Time
}

var global = &Metrics{startTime: time.Now()}

// Get returns the global metrics instance.
func Get() *Metrics {
	return global
}

// RecordBrief records a completed or failed summarization pipeline run.
func (m *Metrics) RecordBrief(duration time.Duration, err error) {
	if err != nil {
		atomic.AddUint64(&m.briefsFailed, 1)
		return
	}
	atomic.AddUint64(&m.briefsCreated, 1)

	m.durationMu.Lock()
	m.pipelineDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordChunks records how many chunks were summarized and how many were
// filtered out before summarization.
func (m *Metrics) RecordChunks(summarized, filtered int) {
	if summarized > 0 {
		atomic.AddUint64(&m.chunksSummarized, uint64(summarized))
	}
	if filtered > 0 {
		atomic.AddUint64(&m.chunksFiltered, uint64(filtered))
	}
}

// RecordEdit records an editor turn outcome.
func (m *Metrics) RecordEdit(applied bool) {
	if applied {
		atomic.AddUint64(&m.editsApplied, 1)
	} else {
		atomic.AddUint64(&m.editsMalformed, 1)
	}
}

// RecordEditorQuestion records an editor turn answered as a question.
func (m *Metrics) RecordEditorQuestion() {
	atomic.AddUint64(&m.editorQuestions, 1)
}

// RecordSlideDeck records a generated slide bullet deck.
func (m *Metrics) RecordSlideDeck() {
	atomic.AddUint64(&m.slideDecksBuilt, 1)
}

// RecordReindex records a brief re-embedding.
func (m *Metrics) RecordReindex(err error) {
	if err != nil {
		atomic.AddUint64(&m.reindexErrors, 1)
		return
	}
	atomic.AddUint64(&m.briefsReindexed, 1)
}

// RecordAsk records a knowledgebase question.
func (m *Metrics) RecordAsk(cacheHit bool, err error) {
	atomic.AddUint64(&m.askTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.askErrors, 1)
		return
	}
	if cacheHit {
		atomic.AddUint64(&m.askCacheHits, 1)
	} else {
		atomic.AddUint64(&m.askCacheMisses, 1)
	}
}

// RecordCitations records how many citation markers resolved to a brief.
func (m *Metrics) RecordCitations(resolved, unresolved int) {
	if resolved > 0 {
		atomic.AddUint64(&m.citationsResolved, uint64(resolved))
	}
	if unresolved > 0 {
		atomic.AddUint64(&m.citationsUnresolved, uint64(unresolved))
	}
}

// RecordLLMCall records an LLM chat or embedding call.
func (m *Metrics) RecordLLMCall(duration time.Duration, err error) {
	atomic.AddUint64(&m.llmCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.llmCallsErrors, 1)
	}

	m.durationMu.Lock()
	m.llmCallsDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// Export renders the metrics in Prometheus text format.
func (m *Metrics) Export(namespace string) string {
	var sb strings.Builder

	counter := func(name, help string, value uint64) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", namespace, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s counter\n", namespace, name))
		sb.WriteString(fmt.Sprintf("%s_%s %d\n\n", namespace, name, value))
	}
	gauge := func(name, help string, value float64) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", namespace, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s gauge\n", namespace, name))
		sb.WriteString(fmt.Sprintf("%s_%s %.6f\n\n", namespace, name, value))
	}

	counter("briefs_created_total", "Total briefs created by the summarization pipeline.", atomic.LoadUint64(&m.briefsCreated))
	counter("briefs_failed_total", "Total summarization pipeline failures.", atomic.LoadUint64(&m.briefsFailed))
	counter("chunks_summarized_total", "Total document chunks summarized.", atomic.LoadUint64(&m.chunksSummarized))
	counter("chunks_filtered_total", "Total document chunks dropped by the language filter.", atomic.LoadUint64(&m.chunksFiltered))

	counter("edits_applied_total", "Total editor revisions applied.", atomic.LoadUint64(&m.editsApplied))
	counter("edits_malformed_total", "Total editor replies that violated the output contract.", atomic.LoadUint64(&m.editsMalformed))
	counter("editor_questions_total", "Total editor turns answered as questions.", atomic.LoadUint64(&m.editorQuestions))
	counter("slide_decks_total", "Total slide bullet decks generated.", atomic.LoadUint64(&m.slideDecksBuilt))
	counter("reindex_total", "Total brief re-embeddings.", atomic.LoadUint64(&m.briefsReindexed))
	counter("reindex_errors_total", "Total re-embedding failures.", atomic.LoadUint64(&m.reindexErrors))

	counter("ask_total", "Total knowledgebase questions.", atomic.LoadUint64(&m.askTotal))
	counter("ask_cache_hits_total", "Knowledgebase answers served from cache.", atomic.LoadUint64(&m.askCacheHits))
	counter("ask_cache_misses_total", "Knowledgebase answers computed fresh.", atomic.LoadUint64(&m.askCacheMisses))
	counter("ask_errors_total", "Knowledgebase question failures.", atomic.LoadUint64(&m.askErrors))
	counter("citations_resolved_total", "Citation markers resolved to a brief.", atomic.LoadUint64(&m.citationsResolved))
	counter("citations_unresolved_total", "Citation markers with no matching brief.", atomic.LoadUint64(&m.citationsUnresolved))

	counter("llm_calls_total", "Total LLM calls.", atomic.LoadUint64(&m.llmCallsTotal))
	counter("llm_calls_errors_total", "Total LLM call failures.", atomic.LoadUint64(&m.llmCallsErrors))

	m.durationMu.Lock()
	pipelineDuration := m.pipelineDuration
	llmDuration := m.llmCallsDuration
	m.durationMu.Unlock()

	gauge("pipeline_duration_seconds_total", "Cumulative summarization pipeline duration.", pipelineDuration)
	gauge("llm_calls_duration_seconds_total", "Cumulative LLM call duration.", llmDuration)
	gauge("uptime_seconds", "Service uptime.", time.Since(m.startTime).Seconds())

	return sb.String()
}

// Reset clears the global instance. Intended for tests.
func Reset() {
	global = &Metrics{startTime: time.Now()}
}
