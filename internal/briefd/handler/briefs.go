package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"gorm.io/gorm"
)

// BriefSummary is the list representation of a brief. Document text fields
// are included; file bookkeeping is not.
type BriefSummary struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Prompt           string    `json:"prompt"`
	Status           string    `json:"status"`
	Summary          string    `json:"summary"`
	ExecutiveSummary string    `json:"executive_summary"`
	CreatedAt        time.Time `json:"created_at"`
	UserID           string    `json:"user_id"`
}

// ListBriefs lists a user's briefs, newest first.
func (h *Handler) ListBriefs(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	briefs, err := h.factory.Briefs().ListByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Errorw("failed to list briefs", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]BriefSummary, 0, len(briefs))
	for _, b := range briefs {
		out = append(out, BriefSummary{
			ID:               b.ID,
			Title:            b.Title,
			Prompt:           b.Prompt,
			Status:           b.Status,
			Summary:          b.Summary,
			ExecutiveSummary: b.ExecutiveSummary,
			CreatedAt:        b.CreatedAt,
			UserID:           b.UserID,
		})
	}
	c.JSON(http.StatusOK, out)
}

// UpdateBriefRequest carries manual edits to a brief's text fields. Pointer
// fields distinguish "absent" from "set to empty".
type UpdateBriefRequest struct {
	Summary          *string `json:"summary"`
	ExecutiveSummary *string `json:"executive_summary"`
}

// UpdateBrief applies manual summary edits and recomputes the brief's
// embedding from the stored values.
func (h *Handler) UpdateBrief(c *gin.Context) {
	id := c.Param("id")

	var req UpdateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.factory.Briefs().Get(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, "Brief not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if req.ExecutiveSummary != nil {
		fields["executive_summary"] = *req.ExecutiveSummary
	}

	updated := false
	if len(fields) > 0 {
		var err error
		updated, err = h.factory.Briefs().Update(ctx, id, fields)
		if err != nil {
			logger.Errorw("failed to update brief", "brief_id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Reindex over the stored row so the embedding reflects fields the
		// caller did not touch as well. Revision rows are never indexed;
		// only their parents appear in retrieval.
		fresh, err := h.factory.Briefs().Get(ctx, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !fresh.IsRevision() {
			if err := h.indexer.Reindex(ctx, fresh); err != nil {
				logger.Errorw("failed to reindex brief", "brief_id", id, "error", err.Error())
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": updated})
}

// ListChats returns a project's knowledgebase conversation log, oldest first.
func (h *Handler) ListChats(c *gin.Context) {
	projectID := c.Query("project_id")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}

	turns, err := h.factory.Chats().ListByProject(c.Request.Context(), projectID)
	if err != nil {
		logger.Errorw("failed to list chat turns", "project_id", projectID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, turns)
}
