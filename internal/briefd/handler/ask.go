package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/model"
)

// askTimeout bounds one retrieval-augmented question, embedding and chat
// completion included.
const askTimeout = 60 * time.Second

// AskProjectRequest represents a knowledgebase question scoped to a project.
type AskProjectRequest struct {
	ProjectID string              `json:"project_id" binding:"required"`
	Message   string              `json:"message" binding:"required"`
	History   []model.HistoryTurn `json:"history"`
}

// AskProject answers a question over one project's briefs with citations.
func (h *Handler) AskProject(c *gin.Context) {
	var req AskProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), askTimeout)
	defer cancel()

	result, err := h.responder.AskProject(ctx, req.ProjectID, req.Message, req.History)
	if err != nil {
		logger.Errorw("project ask failed", "project_id", req.ProjectID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AskUserRequest represents a knowledgebase question over all of a user's
// briefs.
type AskUserRequest struct {
	UserID  string              `json:"user_id" binding:"required"`
	Message string              `json:"message" binding:"required"`
	History []model.HistoryTurn `json:"history"`
}

// AskUser answers a question across every project in a user's account.
func (h *Handler) AskUser(c *gin.Context) {
	var req AskUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), askTimeout)
	defer cancel()

	result, err := h.responder.AskUser(ctx, req.UserID, req.Message, req.History)
	if err != nil {
		logger.Errorw("account ask failed", "user_id", req.UserID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
