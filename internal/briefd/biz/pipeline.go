package biz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kart-io/logger"
	"github.com/oklog/ulid/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/internal/pkg/docutil"
	"github.com/thrust-io/briefd/internal/pkg/textutil"
)

// avgTimePerChunk feeds the client-facing processing time estimate.
const avgTimePerChunk = 10 * time.Second

// DefaultMetaThreshold is the chunk count above which chunk summaries are
// meta-summarized instead of concatenated.
const DefaultMetaThreshold = 5

// maxTitleRunes keeps derived titles and filenames inside their columns.
const maxTitleRunes = 255

// ErrFetchFailed marks a source document that could not be downloaded.
var ErrFetchFailed = errors.New("could not fetch file from storage")

// ErrNoInput marks an ingest request with neither a file URL nor a prompt.
var ErrNoInput = errors.New("must provide either a file_url or a prompt")

// IngestRequest describes one summarization job.
type IngestRequest struct {
	ProjectID string
	UserID    string
	FileURL   string
	Prompt    string
}

// IngestResult is the outcome of a summarization job.
type IngestResult struct {
	SummaryMarkdown  string
	ExecutiveSummary string
	ChunksUsed       int
	TimeEstimate     int // seconds
	Brief            *model.Brief
}

// Pipeline turns a source document (or a bare prompt) into a persisted,
// indexed brief.
type Pipeline struct {
	chunker       *Chunker
	summarizer    *Summarizer
	indexer       *Indexer
	factory       store.Factory
	httpClient    *http.Client
	workers       int
	metaThreshold int
	englishRatio  float64
}

// NewPipeline creates a Pipeline. workers bounds concurrent chunk
// summarization; values below 1 run chunks sequentially. metaThreshold is
// the chunk count above which summaries are meta-summarized, englishRatio
// the ASCII fraction a chunk must exceed to be kept; non-positive values
// fall back to the defaults.
func NewPipeline(chunker *Chunker, summarizer *Summarizer, indexer *Indexer, factory store.Factory, httpClient *http.Client, workers, metaThreshold int, englishRatio float64) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if metaThreshold < 1 {
		metaThreshold = DefaultMetaThreshold
	}
	if englishRatio <= 0 {
		englishRatio = textutil.DefaultEnglishRatio
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Pipeline{
		chunker:       chunker,
		summarizer:    summarizer,
		indexer:       indexer,
		factory:       factory,
		httpClient:    httpClient,
		workers:       workers,
		metaThreshold: metaThreshold,
		englishRatio:  englishRatio,
	}
}

// Run executes one summarization job. A brief row is created in status
// "processing" up front so clients can watch progress; it moves to "done" or
// "failed" when the job finishes.
func (p *Pipeline) Run(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	start := time.Now()

	title := "New Brief"
	filename := ""
	if req.FileURL != "" {
		if name := textutil.TruncateRunes(docutil.FilenameFromURL(req.FileURL), maxTitleRunes); name != "" {
			filename = name
			title = name
		}
	}

	brief := &model.Brief{
		ID:        ulid.Make().String(),
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		Title:     title,
		Filename:  filename,
		FileURL:   req.FileURL,
		Prompt:    req.Prompt,
		Status:    model.StatusProcessing,
	}
	if err := p.factory.Briefs().Create(ctx, brief); err != nil {
		return nil, fmt.Errorf("failed to create brief: %w", err)
	}

	result, err := p.summarize(ctx, brief, req)
	metrics.Get().RecordBrief(time.Since(start), err)
	if err != nil {
		if _, uerr := p.factory.Briefs().Update(ctx, brief.ID, map[string]any{"status": model.StatusFailed}); uerr != nil {
			logger.Errorw("failed to mark brief failed", "brief_id", brief.ID, "error", uerr.Error())
		}
		return nil, err
	}

	logger.Infow("brief created",
		"brief_id", brief.ID,
		"project_id", brief.ProjectID,
		"chunks_used", result.ChunksUsed,
		"duration", time.Since(start).String(),
	)
	return result, nil
}

func (p *Pipeline) summarize(ctx context.Context, brief *model.Brief, req IngestRequest) (*IngestResult, error) {
	var (
		summary      string
		execSummary  string
		chunksUsed   int
		timeEstimate int
		err          error
	)

	switch {
	case req.FileURL != "":
		summary, execSummary, chunksUsed, timeEstimate, err = p.summarizeDocument(ctx, req)
	case req.Prompt != "":
		summary, execSummary, err = p.summarizePrompt(ctx, req.Prompt)
		chunksUsed = 1
		timeEstimate = int(avgTimePerChunk.Seconds())
	default:
		err = ErrNoInput
	}
	if err != nil {
		return nil, err
	}

	brief.Summary = summary
	brief.ExecutiveSummary = execSummary
	brief.Status = model.StatusDone
	if _, err := p.factory.Briefs().Update(ctx, brief.ID, map[string]any{
		"summary":           summary,
		"executive_summary": execSummary,
		"status":            model.StatusDone,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist brief %s: %w", brief.ID, err)
	}

	if err := p.indexer.Reindex(ctx, brief); err != nil {
		return nil, err
	}

	return &IngestResult{
		SummaryMarkdown:  summary,
		ExecutiveSummary: execSummary,
		ChunksUsed:       chunksUsed,
		TimeEstimate:     timeEstimate,
		Brief:            brief,
	}, nil
}

func (p *Pipeline) summarizeDocument(ctx context.Context, req IngestRequest) (summary, execSummary string, chunksUsed, timeEstimate int, err error) {
	data, err := docutil.Fetch(ctx, p.httpClient, req.FileURL)
	if err != nil {
		logger.Errorw("failed to fetch source document", "file_url", req.FileURL, "error", err.Error())
		return "", "", 0, 0, ErrFetchFailed
	}

	text, err := docutil.ExtractText(data)
	if err != nil {
		return "", "", 0, 0, fmt.Errorf("failed to extract text: %w", err)
	}
	logger.Infow("extracted document text", "file_url", req.FileURL, "chars", len(text))

	return p.summarizeText(ctx, text, req.Prompt)
}

// summarizeText runs the chunk/filter/summarize/aggregate stages over
// extracted document text.
func (p *Pipeline) summarizeText(ctx context.Context, text, instruction string) (summary, execSummary string, chunksUsed, timeEstimate int, err error) {
	chunks := p.chunker.Split(text)
	kept := FilterEnglish(chunks, p.englishRatio)
	metrics.Get().RecordChunks(len(kept), len(chunks)-len(kept))
	if len(kept) == 0 {
		return "", "", 0, 0, fmt.Errorf("document contains no usable text")
	}

	timeEstimate = len(kept) * int(avgTimePerChunk.Seconds())

	chunkSummaries, err := p.summarizeChunks(ctx, kept, instruction)
	if err != nil {
		return "", "", 0, 0, err
	}

	if len(kept) <= p.metaThreshold {
		summary = strings.Join(chunkSummaries, "\n\n")
		execSummary, err = p.summarizer.ExecutiveSummary(ctx, chunkSummaries, instruction)
	} else {
		summary, err = p.summarizer.MetaSummarize(ctx, chunkSummaries, instruction)
		if err == nil {
			execSummary, err = p.summarizer.ExecutiveSummary(ctx, []string{summary}, instruction)
		}
	}
	if err != nil {
		return "", "", 0, 0, err
	}

	return summary, execSummary, len(kept), timeEstimate, nil
}

// summarizeChunks summarizes chunks on a bounded worker pool, preserving
// chunk order in the result. The first error aborts the job.
func (p *Pipeline) summarizeChunks(ctx context.Context, chunks []Chunk, instruction string) ([]string, error) {
	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	summaries := make([]string, len(chunks))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if jobCtx.Err() != nil {
				return
			}

			out, err := p.summarizer.SummarizeChunk(jobCtx, chunk.Text, instruction)
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("failed to summarize chunk %d: %w", chunk.Index, err)
					cancel()
				})
				return
			}

			logger.Debugw("chunk summarized", "index", chunk.Index, "chars", len(out))
			summaries[i] = out
		})
		if submitErr != nil {
			wg.Done()
			errOnce.Do(func() {
				firstErr = fmt.Errorf("failed to submit chunk %d: %w", chunk.Index, submitErr)
				cancel()
			})
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return summaries, nil
}

func (p *Pipeline) summarizePrompt(ctx context.Context, prompt string) (string, string, error) {
	summary, err := p.summarizer.SummarizeChunk(ctx, prompt, "")
	if err != nil {
		return "", "", err
	}

	execSummary, err := p.summarizer.ExecutiveSummary(ctx, []string{summary}, "")
	if err != nil {
		return "", "", err
	}

	logger.Infow("prompt summarized", "chars", len(summary))
	return summary, execSummary, nil
}
