package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/pkg/llm"
)

func TestParseEditorReply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		shape   EditorShape
		content string
	}{
		{
			name:    "executive edit",
			reply:   "Edit, Executive Summary:\nThe company grew revenue 14% while margins held.",
			shape:   ShapeExecutiveEdit,
			content: "The company grew revenue 14% while margins held.",
		},
		{
			name:    "section edit",
			reply:   "Edit, Overall Summary:\n## Market Trends\n- Demand shifted to premium segments",
			shape:   ShapeSectionEdit,
			content: "## Market Trends\n- Demand shifted to premium segments",
		},
		{
			name:    "question",
			reply:   "Question:\nThe report covers fiscal year 2025.",
			shape:   ShapeQuestion,
			content: "The report covers fiscal year 2025.",
		},
		{
			name:    "bare markdown section",
			reply:   "## Market Trends\n- Demand shifted",
			shape:   ShapeSectionEdit,
			content: "## Market Trends\n- Demand shifted",
		},
		{
			name:  "section edit without header",
			reply: "Edit, Overall Summary:\n- just a bullet",
			shape: ShapeMalformed,
		},
		{
			name:  "empty executive edit",
			reply: "Edit, Executive Summary:\n",
			shape: ShapeMalformed,
		},
		{
			name:  "free text",
			reply: "Sure! Here is what I changed for you...",
			shape: ShapeMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEditorReply(tt.reply)
			assert.Equal(t, tt.shape, got.Shape)
			if tt.content != "" {
				assert.Equal(t, tt.content, got.Content)
			}
			assert.Equal(t, tt.reply, got.Raw)
		})
	}
}

func newTestEditor(t *testing.T, chat *fakeChat) (*Editor, *fakeVectors, *fakeEmbedder) {
	t.Helper()

	factory := newBizFactory(t)
	embedder := &fakeEmbedder{}
	vectors := &fakeVectors{}
	editor := NewEditor(NewSummarizer(chat, 0), newTestIndexer(embedder, vectors), factory)
	return editor, vectors, embedder
}

func seedBrief(t *testing.T, e *Editor, b *model.Brief) {
	t.Helper()
	require.NoError(t, e.factory.Briefs().Create(context.Background(), b))
}

func TestEditorSectionEditPersistsRevision(t *testing.T) {
	reply := "Edit, Overall Summary:\n## Market Trends\n- New demand drivers"
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return reply, nil }}
	editor, vectors, embedder := newTestEditor(t, chat)

	seedBrief(t, editor, &model.Brief{
		ID:               "b1",
		UserID:           "u1",
		ProjectID:        "p1",
		Summary:          "## Market Trends\n- Old content",
		ExecutiveSummary: "Old exec.",
		SlideBullets:     "## Slide\n- bullet",
		Status:           model.StatusDone,
	})

	result, err := editor.Chat(context.Background(), EditRequest{
		SummaryID: "b1",
		Summary:   "## Market Trends\n- Old content",
		Message:   "refresh the market trends section",
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeSectionEdit, result.Reply.Shape)

	require.NotNil(t, result.Revision)
	revision := result.Revision
	assert.Equal(t, model.StatusEdit, revision.Status)
	assert.Equal(t, "AI edit: refresh the market trends section", revision.Prompt)
	require.NotNil(t, revision.ParentID)
	assert.Equal(t, "b1", *revision.ParentID)
	assert.Equal(t, "## Market Trends\n- New demand drivers", revision.Summary)

	// Parent summary was replaced.
	parent, err := editor.factory.Briefs().Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "## Market Trends\n- New demand drivers", parent.Summary)

	// Exactly one reindex over the fresh values.
	assert.Equal(t, 1, vectors.upsertCount())
	assert.Equal(t, "## Market Trends\n- New demand drivers\nOld exec.\n## Slide\n- bullet", embedder.lastText())
}

func TestEditorQuestionHasNoSideEffects(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) {
		return "Question:\nIt covers fiscal 2025.", nil
	}}
	editor, vectors, _ := newTestEditor(t, chat)

	seedBrief(t, editor, &model.Brief{ID: "b1", UserID: "u1", Summary: "## Doc"})

	result, err := editor.Chat(context.Background(), EditRequest{
		SummaryID: "b1",
		Summary:   "## Doc",
		Message:   "what period does this cover?",
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeQuestion, result.Reply.Shape)
	assert.Nil(t, result.Revision)
	assert.Equal(t, 0, vectors.upsertCount())

	briefs, err := editor.factory.Briefs().ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, briefs, 1)
}

func TestEditorMalformedReplyHasNoSideEffects(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) {
		return "Sure, here's what I'd suggest changing...", nil
	}}
	editor, vectors, _ := newTestEditor(t, chat)

	seedBrief(t, editor, &model.Brief{ID: "b1", UserID: "u1", Summary: "## Doc"})

	result, err := editor.Chat(context.Background(), EditRequest{
		SummaryID: "b1",
		Summary:   "## Doc",
		Message:   "edit the doc",
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeMalformed, result.Reply.Shape)
	assert.Nil(t, result.Revision)
	assert.Equal(t, 0, vectors.upsertCount())
}

func TestEditorSectionEditWithoutSummaryID(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) {
		return "## Section\n- bullet", nil
	}}
	editor, vectors, _ := newTestEditor(t, chat)

	result, err := editor.Chat(context.Background(), EditRequest{
		Summary: "## Doc",
		Message: "rewrite",
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeSectionEdit, result.Reply.Shape)
	assert.Nil(t, result.Revision)
	assert.Equal(t, 0, vectors.upsertCount())
}

func TestSlideServiceGenerate(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) {
		return "## Slide One\n- takeaway", nil
	}}
	factory := newBizFactory(t)
	embedder := &fakeEmbedder{}
	vectors := &fakeVectors{}
	svc := NewSlideService(NewSummarizer(chat, 0), newTestIndexer(embedder, vectors), factory)

	require.NoError(t, factory.Briefs().Create(context.Background(), &model.Brief{
		ID:               "b1",
		UserID:           "u1",
		Summary:          "## Doc\n- point",
		ExecutiveSummary: "Exec.",
	}))

	bullets, err := svc.Generate(context.Background(), "b1", "## Doc\n- point", "")
	require.NoError(t, err)
	assert.Equal(t, "## Slide One\n- takeaway", bullets)

	stored, err := factory.Briefs().Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, bullets, stored.SlideBullets)

	// Embedding covers summary, executive summary and the new bullets.
	assert.Equal(t, 1, vectors.upsertCount())
	assert.Equal(t, "## Doc\n- point\nExec.\n## Slide One\n- takeaway", embedder.lastText())
}
