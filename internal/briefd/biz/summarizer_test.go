package biz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/pkg/llm"
)

func TestSummarizeChunkPrompt(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) {
		return "  ## Revenue\n- grew 10%  ", nil
	}}
	s := NewSummarizer(chat, 0)

	out, err := s.SummarizeChunk(context.Background(), "section text", "focus on growth")
	require.NoError(t, err)
	assert.Equal(t, "## Revenue\n- grew 10%", out)

	require.Equal(t, 1, chat.callCount())
	msgs := chat.calls[0]
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, systemChunkSummarizer, msgs[0].Content)

	prompt := msgs[1].Content
	assert.Contains(t, prompt, "The user wants: focus on growth")
	assert.Contains(t, prompt, "under 60 words")
	assert.Contains(t, prompt, "section text")
}

func TestSummarizeChunkNoInstruction(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "ok", nil }}
	s := NewSummarizer(chat, 40)

	_, err := s.SummarizeChunk(context.Background(), "text", "")
	require.NoError(t, err)

	prompt := chat.userPrompt(0)
	assert.NotContains(t, prompt, "The user wants:")
	assert.Contains(t, prompt, "under 40 words")
}

func TestMetaSummarizeJoins(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "meta", nil }}
	s := NewSummarizer(chat, 0)

	_, err := s.MetaSummarize(context.Background(), []string{"## A\n- x", "## B\n- y"}, "")
	require.NoError(t, err)

	prompt := chat.userPrompt(0)
	assert.Contains(t, prompt, "## A\n- x\n\n## B\n- y")
	assert.Contains(t, prompt, "Summaries to combine:")
}

func TestChatOnSummaryHistory(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "Question:\nanswer", nil }}
	s := NewSummarizer(chat, 0)

	history := []model.HistoryTurn{
		{Role: "user", Content: "shorten it"},
		{Role: "assistant", Content: "done"},
	}
	_, err := s.ChatOnSummary(context.Background(), "## Doc", "what changed?", history)
	require.NoError(t, err)

	prompt := chat.userPrompt(0)
	assert.Contains(t, prompt, "Here is the chat so far, only utilize if user directly mentions it in their message:\nUser: shorten it\nAssistant: done\n")
	assert.Contains(t, prompt, "Edit, Executive Summary:")
	assert.Contains(t, prompt, "Edit, Overall Summary:")
	assert.Contains(t, prompt, "Question:")
}

func TestChatOnSummaryNoHistory(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "ok", nil }}
	s := NewSummarizer(chat, 0)

	_, err := s.ChatOnSummary(context.Background(), "## Doc", "hi", nil)
	require.NoError(t, err)
	assert.NotContains(t, chat.userPrompt(0), "Here is the chat so far")
}

func TestAskHistoryPlacement(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "answer", nil }}
	s := NewSummarizer(chat, 0)

	history := []model.HistoryTurn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	_, err := s.Ask(context.Background(), "# Brief", "new question", history)
	require.NoError(t, err)

	msgs := chat.calls[0]
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, systemAsk, msgs[0].Content)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "earlier question", msgs[1].Content)
	assert.Equal(t, llm.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "earlier answer", msgs[2].Content)
	assert.Equal(t, llm.RoleUser, msgs[3].Role)
	assert.Contains(t, msgs[3].Content, "new question")
	assert.Contains(t, msgs[3].Content, "[CITATION: Title/Section]")
}

func TestGenerateSlideBulletsPrompt(t *testing.T) {
	chat := &fakeChat{reply: func([]llm.Message) (string, error) { return "## Slide\n- point", nil }}
	s := NewSummarizer(chat, 0)

	out, err := s.GenerateSlideBullets(context.Background(), "## Summary\n- a", "keep it short")
	require.NoError(t, err)
	assert.Equal(t, "## Slide\n- point", out)

	prompt := chat.userPrompt(0)
	assert.Contains(t, prompt, "The user wants: keep it short")
	assert.Contains(t, prompt, "3–7 bullets")
	assert.True(t, strings.Contains(prompt, "## Summary\n- a"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "User", capitalize("user"))
	assert.Equal(t, "Assistant", capitalize("assistant"))
	assert.Equal(t, "", capitalize(""))
}
