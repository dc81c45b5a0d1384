package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
	"github.com/thrust-io/briefd/internal/briefd/store"
)

// SlideService generates presentation-ready slide bullets for a brief.
type SlideService struct {
	summarizer *Summarizer
	indexer    *Indexer
	factory    store.Factory
}

// NewSlideService creates a SlideService.
func NewSlideService(summarizer *Summarizer, indexer *Indexer, factory store.Factory) *SlideService {
	return &SlideService{summarizer: summarizer, indexer: indexer, factory: factory}
}

// Generate builds slide bullets from a summary, stores them on the brief and
// recomputes the brief's embedding over the updated field values.
func (s *SlideService) Generate(ctx context.Context, briefID, summary, instruction string) (string, error) {
	bullets, err := s.summarizer.GenerateSlideBullets(ctx, summary, instruction)
	if err != nil {
		return "", err
	}

	if _, err := s.factory.Briefs().Update(ctx, briefID, map[string]any{"slide_bullets": bullets}); err != nil {
		return "", fmt.Errorf("failed to store slide bullets for brief %s: %w", briefID, err)
	}

	// Re-read so the embedding reflects the stored summary and executive
	// summary, not just the caller-supplied text.
	brief, err := s.factory.Briefs().Get(ctx, briefID)
	if err != nil {
		return "", fmt.Errorf("failed to load brief %s: %w", briefID, err)
	}

	if err := s.indexer.Reindex(ctx, brief); err != nil {
		return "", err
	}

	metrics.Get().RecordSlideDeck()
	logger.Infow("slide bullets generated", "brief_id", briefID, "chars", len(bullets))
	return bullets, nil
}
