package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"github.com/oklog/ulid/v2"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/internal/model"
)

// EditorShape classifies an editor reply against the three-shape output
// contract promised in the editor prompt.
type EditorShape string

const (
	// ShapeExecutiveEdit replaces the executive summary.
	ShapeExecutiveEdit EditorShape = "executive_edit"
	// ShapeSectionEdit replaces one markdown section of the summary.
	ShapeSectionEdit EditorShape = "section_edit"
	// ShapeQuestion answers a question without changing the document.
	ShapeQuestion EditorShape = "question"
	// ShapeMalformed marks a reply that violated the contract. Malformed
	// replies are returned to the caller but trigger no persistence.
	ShapeMalformed EditorShape = "malformed"
)

// Editor reply header lines. The model is instructed to emit these literally.
const (
	headerExecutiveEdit = "Edit, Executive Summary:"
	headerSectionEdit   = "Edit, Overall Summary:"
	headerQuestion      = "Question:"
)

// EditorReply is a parsed editor response.
type EditorReply struct {
	Shape EditorShape
	// Content is the body after the header line. For section edits it is the
	// full markdown section including its ## header.
	Content string
	// Raw is the unmodified model reply.
	Raw string
}

// ParseEditorReply validates a model reply against the editor output
// contract. A reply that opens directly with a markdown header is accepted as
// a section edit even without the contract header line, since that is the
// shape section edits reduce to.
func ParseEditorReply(reply string) EditorReply {
	trimmed := strings.TrimSpace(reply)

	switch {
	case strings.HasPrefix(trimmed, headerExecutiveEdit):
		content := strings.TrimSpace(strings.TrimPrefix(trimmed, headerExecutiveEdit))
		if content == "" {
			return EditorReply{Shape: ShapeMalformed, Raw: reply}
		}
		return EditorReply{Shape: ShapeExecutiveEdit, Content: content, Raw: reply}

	case strings.HasPrefix(trimmed, headerSectionEdit):
		content := strings.TrimSpace(strings.TrimPrefix(trimmed, headerSectionEdit))
		// A section edit must carry the section's ## header.
		if !strings.HasPrefix(content, "##") {
			return EditorReply{Shape: ShapeMalformed, Raw: reply}
		}
		return EditorReply{Shape: ShapeSectionEdit, Content: content, Raw: reply}

	case strings.HasPrefix(trimmed, headerQuestion):
		content := strings.TrimSpace(strings.TrimPrefix(trimmed, headerQuestion))
		if content == "" {
			return EditorReply{Shape: ShapeMalformed, Raw: reply}
		}
		return EditorReply{Shape: ShapeQuestion, Content: content, Raw: reply}

	case strings.HasPrefix(trimmed, "##"):
		return EditorReply{Shape: ShapeSectionEdit, Content: trimmed, Raw: reply}
	}

	return EditorReply{Shape: ShapeMalformed, Raw: reply}
}

// EditRequest is one turn of the document-summary editor.
type EditRequest struct {
	SummaryID string // brief being edited; empty disables persistence
	Summary   string // working summary shown to the model
	Message   string
	History   []model.HistoryTurn
}

// EditResult is the outcome of one editor turn.
type EditResult struct {
	Reply EditorReply
	// Revision is set when a section edit was persisted.
	Revision *model.Brief
}

// Editor runs conversational editing over brief summaries and persists
// accepted section edits as revisions.
type Editor struct {
	summarizer *Summarizer
	indexer    *Indexer
	factory    store.Factory
}

// NewEditor creates an Editor.
func NewEditor(summarizer *Summarizer, indexer *Indexer, factory store.Factory) *Editor {
	return &Editor{summarizer: summarizer, indexer: indexer, factory: factory}
}

// Chat runs one editor turn. Section edits update the parent brief's summary
// and record a revision row in the same transaction, then recompute the
// parent's embedding from the freshly written values.
func (e *Editor) Chat(ctx context.Context, req EditRequest) (*EditResult, error) {
	raw, err := e.summarizer.ChatOnSummary(ctx, req.Summary, req.Message, req.History)
	if err != nil {
		return nil, err
	}

	reply := ParseEditorReply(raw)
	result := &EditResult{Reply: reply}

	switch reply.Shape {
	case ShapeQuestion:
		metrics.Get().RecordEditorQuestion()
		return result, nil

	case ShapeExecutiveEdit:
		// Executive edits are returned for the client to accept; nothing is
		// persisted on this path.
		metrics.Get().RecordEdit(true)
		return result, nil

	case ShapeMalformed:
		metrics.Get().RecordEdit(false)
		logger.Warnw("editor reply violated output contract",
			"summary_id", req.SummaryID,
			"reply_prefix", textPrefix(raw, 80),
		)
		return result, nil
	}

	// Section edit.
	metrics.Get().RecordEdit(true)
	if req.SummaryID == "" {
		return result, nil
	}

	revision, err := e.applySectionEdit(ctx, req.SummaryID, req.Message, reply.Content)
	if err != nil {
		return nil, err
	}
	result.Revision = revision
	return result, nil
}

// applySectionEdit writes the revision row and the parent summary update in
// one transaction, then reindexes the parent.
func (e *Editor) applySectionEdit(ctx context.Context, summaryID, userMessage, content string) (*model.Brief, error) {
	parent, err := e.factory.Briefs().Get(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load brief %s: %w", summaryID, err)
	}

	parentID := parent.ID
	revision := &model.Brief{
		ID:        ulid.Make().String(),
		UserID:    parent.UserID,
		ProjectID: parent.ProjectID,
		Prompt:    "AI edit: " + userMessage,
		Status:    model.StatusEdit,
		Summary:   content,
		ParentID:  &parentID,
	}

	err = e.factory.Tx(ctx, func(tx store.Factory) error {
		if err := tx.Briefs().Create(ctx, revision); err != nil {
			return fmt.Errorf("failed to store revision: %w", err)
		}
		if _, err := tx.Briefs().Update(ctx, parent.ID, map[string]any{"summary": content}); err != nil {
			return fmt.Errorf("failed to update brief %s: %w", parent.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	parent.Summary = content
	if err := e.indexer.Reindex(ctx, parent); err != nil {
		return nil, err
	}

	logger.Infow("stored summary revision",
		"brief_id", parent.ID,
		"revision_id", revision.ID,
	)
	return revision, nil
}

// ChatOnSlideBullets runs one editor turn over slide bullets. Slide bullet
// chats never persist; the reply is returned as-is.
func (e *Editor) ChatOnSlideBullets(ctx context.Context, slideBullets, message string, history []model.HistoryTurn) (string, error) {
	return e.summarizer.ChatOnSlideBullets(ctx, slideBullets, message, history)
}

func textPrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
