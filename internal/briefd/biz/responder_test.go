package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/pkg/llm"
)

func newTestResponder(t *testing.T, chat *fakeChat, vectors *fakeVectors, embedder *fakeEmbedder) (*Responder, store.Factory, *gorm.DB) {
	t.Helper()

	factory, db := newBizFactoryDB(t)
	responder := NewResponder(NewSummarizer(chat, 0), newTestIndexer(embedder, vectors), factory, vectors, nil)
	return responder, factory, db
}

func seedKnowledge(t *testing.T, factory store.Factory, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	briefs := []*model.Brief{
		{ID: "b1", UserID: "u1", ProjectID: "p1", Title: "Q3 Earnings", Summary: "## Rev\n- up", ExecutiveSummary: "Revenue up.", SlideBullets: "## S\n- b"},
		{ID: "b2", UserID: "u1", ProjectID: "p1", Title: "Market Scan", Summary: "## Mkt\n- flat"},
		{ID: "b3", UserID: "u1", ProjectID: "p2", Title: "Market Scan Deep Dive", ExecutiveSummary: "Deep."},
	}
	for _, b := range briefs {
		require.NoError(t, factory.Briefs().Create(ctx, b))
	}

	projects := []*model.Project{
		{ID: "p1", UserID: "u1", Title: "Acme Diligence"},
		{ID: "p2", UserID: "u1", Title: "Growth Study"},
	}
	for _, p := range projects {
		require.NoError(t, db.Create(p).Error)
	}
}

func TestAskProjectNoResults(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "unused", nil }}
	responder, _, _ := newTestResponder(t, chat, &fakeVectors{}, &fakeEmbedder{})

	result, err := responder.AskProject(context.Background(), "p1", "anything?", nil)
	require.NoError(t, err)
	assert.Equal(t, NoProjectDataMessage, result.Response)
	assert.Empty(t, result.Citations)
	assert.Equal(t, 0, chat.callCount())
}

func TestAskUserNoResults(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "unused", nil }}
	responder, _, _ := newTestResponder(t, chat, &fakeVectors{}, &fakeEmbedder{})

	result, err := responder.AskUser(context.Background(), "u1", "anything?", nil)
	require.NoError(t, err)
	assert.Equal(t, NoUserDataMessage, result.Response)
	assert.Empty(t, result.Citations)
}

func TestAskEmbeddingErrorIsNonFatal(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "unused", nil }}
	embedder := &fakeEmbedder{err: assert.AnError}
	responder, _, _ := newTestResponder(t, chat, &fakeVectors{}, embedder)

	result, err := responder.AskProject(context.Background(), "p1", "question", nil)
	require.NoError(t, err)
	assert.Contains(t, result.Response, "Embedding error: ")
	assert.Empty(t, result.Citations)
	assert.Equal(t, 0, chat.callCount())
}

func TestAskProjectContextAndCitations(t *testing.T) {
	reply := "Revenue grew [CITATION: Q3 Earnings], demand flat [CITATION: Market Scan] " +
		"[CITATION: Q3 Earnings] and more [CITATION: Unknown Brief]."
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return reply, nil }}
	vectors := &fakeVectors{matches: []store.Match{
		{BriefID: "b1", Score: 0.9},
		{BriefID: "b2", Score: 0.7},
	}}
	responder, factory, db := newTestResponder(t, chat, vectors, &fakeEmbedder{})
	seedKnowledge(t, factory, db)

	result, err := responder.AskProject(context.Background(), "p1", "how did Q3 go?", nil)
	require.NoError(t, err)

	// Context document: per-record sections in match order, conditional
	// fields omitted when empty.
	prompt := chat.userPrompt(0)
	assert.Contains(t, prompt, "# Q3 Earnings\n## Executive Summary\nRevenue up.\n## Summary\n## Rev\n- up\n## Slide Bullets\n## S\n- b")
	assert.Contains(t, prompt, "# Market Scan\n## Summary\n## Mkt\n- flat")
	assert.NotContains(t, prompt, "(Project:")

	// Citations: deduplicated, first-appearance order, exact-title
	// resolution, unresolved kept with nil id.
	require.Len(t, result.Citations, 3)
	assert.Equal(t, "Q3 Earnings", result.Citations[0].Label)
	require.NotNil(t, result.Citations[0].BriefID)
	assert.Equal(t, "b1", *result.Citations[0].BriefID)
	assert.Equal(t, "Market Scan", result.Citations[1].Label)
	require.NotNil(t, result.Citations[1].BriefID)
	assert.Equal(t, "b2", *result.Citations[1].BriefID)
	assert.Equal(t, "Unknown Brief", result.Citations[2].Label)
	assert.Nil(t, result.Citations[2].BriefID)

	// Both turns were appended to the project conversation log.
	turns, err := factory.Chats().ListByProject(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "how did Q3 go?", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
}

func TestAskUserSubstringResolutionFirstMatchWins(t *testing.T) {
	// "Market Scan" is a substring of both composite keys; the first
	// retrieved record wins.
	reply := "See [CITATION: Market Scan]."
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return reply, nil }}
	vectors := &fakeVectors{matches: []store.Match{
		{BriefID: "b3", Score: 0.95},
		{BriefID: "b2", Score: 0.90},
	}}
	responder, factory, db := newTestResponder(t, chat, vectors, &fakeEmbedder{})
	seedKnowledge(t, factory, db)

	result, err := responder.AskUser(context.Background(), "u1", "what do we know about the market?", nil)
	require.NoError(t, err)

	// Cross-project context headers carry the project title.
	prompt := chat.userPrompt(0)
	assert.Contains(t, prompt, "# Market Scan Deep Dive (Project: Growth Study)")
	assert.Contains(t, prompt, "# Market Scan (Project: Acme Diligence)")

	require.Len(t, result.Citations, 1)
	citation := result.Citations[0]
	assert.Equal(t, "Market Scan", citation.Label)
	require.NotNil(t, citation.BriefID)
	assert.Equal(t, "b3", *citation.BriefID)
	require.NotNil(t, citation.ProjectID)
	assert.Equal(t, "p2", *citation.ProjectID)
	require.NotNil(t, citation.ProjectTitle)
	assert.Equal(t, "Growth Study", *citation.ProjectTitle)
}

func TestAskUserUnresolvedCitationKeepsNils(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) {
		return "See [CITATION: Nothing Matches This].", nil
	}}
	vectors := &fakeVectors{matches: []store.Match{{BriefID: "b1", Score: 0.9}}}
	responder, factory, db := newTestResponder(t, chat, vectors, &fakeEmbedder{})
	seedKnowledge(t, factory, db)

	result, err := responder.AskUser(context.Background(), "u1", "question", nil)
	require.NoError(t, err)

	require.Len(t, result.Citations, 1)
	assert.Equal(t, "Nothing Matches This", result.Citations[0].Label)
	assert.Nil(t, result.Citations[0].BriefID)
	assert.Nil(t, result.Citations[0].ProjectID)
	assert.Nil(t, result.Citations[0].ProjectTitle)
}

func TestAskProjectDropsStaleMatches(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "answer", nil }}
	vectors := &fakeVectors{matches: []store.Match{{BriefID: "deleted", Score: 0.9}}}
	responder, factory, db := newTestResponder(t, chat, vectors, &fakeEmbedder{})
	seedKnowledge(t, factory, db)

	result, err := responder.AskProject(context.Background(), "p1", "question", nil)
	require.NoError(t, err)
	assert.Equal(t, NoProjectDataMessage, result.Response)
	assert.Equal(t, 0, chat.callCount())
}
