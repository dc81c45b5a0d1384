package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/model"
)

// ChatRequest represents one turn of the summary editor conversation.
type ChatRequest struct {
	Message   string              `json:"message"`
	Summary   string              `json:"summary"`
	SummaryID string              `json:"summary_id"`
	History   []model.HistoryTurn `json:"history"`
}

// Chat runs one editor turn over a brief summary. Section edits are persisted
// as revisions by the editor; the raw assistant reply is always returned so
// the client can render questions and executive edits.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Message == "" {
		fail(c, "No message provided.")
		return
	}

	result, err := h.editor.Chat(c.Request.Context(), biz.EditRequest{
		SummaryID: req.SummaryID,
		Summary:   req.Summary,
		Message:   req.Message,
		History:   req.History,
	})
	if err != nil {
		logger.Errorw("editor turn failed", "summary_id", req.SummaryID, "error", err.Error())
		fail(c, "Sorry, there was an error with the AI assistant.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Reply.Raw})
}
