package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/pkg/llm"
)

// DefaultMaxWordsPerBullet caps chunk summary bullet length.
const DefaultMaxWordsPerBullet = 60

// Summarizer wraps the chat model with the consulting prompt set.
type Summarizer struct {
	chat     llm.ChatProvider
	maxWords int
}

// NewSummarizer creates a Summarizer. maxWords <= 0 falls back to the
// default bullet budget.
func NewSummarizer(chat llm.ChatProvider, maxWords int) *Summarizer {
	if maxWords <= 0 {
		maxWords = DefaultMaxWordsPerBullet
	}
	return &Summarizer{chat: chat, maxWords: maxWords}
}

func userReq(instruction string) string {
	if instruction == "" {
		return ""
	}
	return "The user wants: " + instruction
}

func historyBlock(history []model.HistoryTurn) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(capitalize(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	return "Here is the chat so far, only utilize if user directly mentions it in their message:\n" + sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Summarizer) complete(ctx context.Context, system, prompt string) (string, error) {
	return s.completeWith(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: prompt},
	})
}

func (s *Summarizer) completeWith(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	reply, err := s.chat.Chat(ctx, messages)
	metrics.Get().RecordLLMCall(time.Since(start), err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// SummarizeChunk produces a titled markdown bullet summary of one document
// section.
func (s *Summarizer) SummarizeChunk(ctx context.Context, text, instruction string) (string, error) {
	prompt := fmt.Sprintf(chunkSummaryPrompt, userReq(instruction), s.maxWords, text)
	return s.complete(ctx, systemChunkSummarizer, prompt)
}

// MetaSummarize consolidates many chunk summaries into one summary in the
// same markdown bullet format.
func (s *Summarizer) MetaSummarize(ctx context.Context, summaries []string, instruction string) (string, error) {
	joined := strings.Join(summaries, "\n\n")
	prompt := fmt.Sprintf(metaSummaryPrompt, userReq(instruction), joined)
	return s.complete(ctx, systemConsultant, prompt)
}

// ExecutiveSummary writes a 2-3 sentence prose summary over the given
// material.
func (s *Summarizer) ExecutiveSummary(ctx context.Context, summaries []string, instruction string) (string, error) {
	joined := strings.Join(summaries, "\n\n")
	prompt := fmt.Sprintf(executiveSummaryPrompt, userReq(instruction), joined)
	return s.complete(ctx, systemConsultant, prompt)
}

// ChatOnSummary runs one editor turn over a working summary. The reply is
// expected to follow the three-shape output contract and is parsed by
// ParseEditorReply.
func (s *Summarizer) ChatOnSummary(ctx context.Context, summary, userMessage string, history []model.HistoryTurn) (string, error) {
	prompt := fmt.Sprintf(editorPrompt, summary, historyBlock(history), userMessage)
	return s.complete(ctx, systemEditor, prompt)
}

// GenerateSlideBullets turns a summary into presentation-ready markdown
// sections of short bullets.
func (s *Summarizer) GenerateSlideBullets(ctx context.Context, summary, instruction string) (string, error) {
	prompt := fmt.Sprintf(slideBulletsPrompt, userReq(instruction), summary)
	return s.complete(ctx, systemSlideBuilder, prompt)
}

// ChatOnSlideBullets runs one editor turn over slide bullets. Unlike the
// summary editor, replies are returned to the caller without persistence.
func (s *Summarizer) ChatOnSlideBullets(ctx context.Context, slideBullets, userMessage string, history []model.HistoryTurn) (string, error) {
	prompt := fmt.Sprintf(slideEditorPrompt, slideBullets, historyBlock(history), userMessage)
	return s.complete(ctx, systemSlideEditor, prompt)
}

// Ask answers a question over retrieved knowledgebase context. History turns
// are replayed between the system prompt and the final user message.
func (s *Summarizer) Ask(ctx context.Context, contextText, userMessage string, history []model.HistoryTurn) (string, error) {
	prompt := fmt.Sprintf(askPrompt, userMessage, contextText)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemAsk})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: llm.Role(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	return s.completeWith(ctx, messages)
}
