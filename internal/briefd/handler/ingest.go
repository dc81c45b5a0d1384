package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/model"
)

// SummarizeRequest represents a summarization request. Either a file URL or a
// free-text prompt must be provided.
type SummarizeRequest struct {
	FileURL   string `json:"file_url"`
	Prompt    string `json:"prompt"`
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

// SummarizeResponse represents a summarization result.
type SummarizeResponse struct {
	SummaryMarkdown  string       `json:"summary_markdown"`
	ExecutiveSummary string       `json:"executive_summary"`
	ChunksUsed       int          `json:"chunks_used"`
	TimeEstimate     int          `json:"time_estimate"`
	Brief            *model.Brief `json:"brief"`
}

// Summarize ingests a document (or a prompt), summarizes it and stores the
// resulting brief.
func (h *Handler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.ProjectID == "" || req.UserID == "" {
		fail(c, "project_id and user_id are required.")
		return
	}
	if req.FileURL == "" && req.Prompt == "" {
		fail(c, "Must provide either a file_url or a prompt.")
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), biz.IngestRequest{
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		FileURL:   req.FileURL,
		Prompt:    req.Prompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, biz.ErrFetchFailed):
			fail(c, "Could not fetch file from storage.")
		case errors.Is(err, biz.ErrNoInput):
			fail(c, "Must provide either a file_url or a prompt.")
		default:
			logger.Errorw("summarization failed",
				"project_id", req.ProjectID,
				"file_url", req.FileURL,
				"error", err.Error(),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, SummarizeResponse{
		SummaryMarkdown:  result.SummaryMarkdown,
		ExecutiveSummary: result.ExecutiveSummary,
		ChunksUsed:       result.ChunksUsed,
		TimeEstimate:     result.TimeEstimate,
		Brief:            result.Brief,
	})
}
