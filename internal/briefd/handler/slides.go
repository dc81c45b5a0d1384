package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/model"
)

// SlideBulletsRequest represents a slide bullet generation request.
type SlideBulletsRequest struct {
	BriefID string `json:"brief_id"`
	Summary string `json:"summary"`
	Prompt  string `json:"prompt"`
}

// GenerateSlideBullets builds slide bullets from a brief's summary and stores
// them on the brief.
func (h *Handler) GenerateSlideBullets(c *gin.Context) {
	var req SlideBulletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.BriefID == "" || req.Summary == "" {
		fail(c, "Missing brief_id or summary")
		return
	}

	bullets, err := h.slides.Generate(c.Request.Context(), req.BriefID, req.Summary, req.Prompt)
	if err != nil {
		logger.Errorw("slide bullet generation failed", "brief_id", req.BriefID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bullets_markdown": bullets})
}

// SlideChatRequest represents one turn of the slide bullet editor.
type SlideChatRequest struct {
	SlideBullets string              `json:"slide_bullets"`
	Message      string              `json:"message"`
	History      []model.HistoryTurn `json:"history"`
}

// ChatOnSlideBullets runs one conversational turn over slide bullets. Replies
// are never persisted; the client decides what to keep.
func (h *Handler) ChatOnSlideBullets(c *gin.Context) {
	var req SlideChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.SlideBullets == "" || req.Message == "" {
		fail(c, "Missing required fields")
		return
	}

	response, err := h.editor.ChatOnSlideBullets(c.Request.Context(), req.SlideBullets, req.Message, req.History)
	if err != nil {
		logger.Errorw("slide bullet chat failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}
