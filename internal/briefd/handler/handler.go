// Package handler provides HTTP handlers for the briefd API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/briefd/store"
)

// Handler handles briefd HTTP requests.
type Handler struct {
	pipeline  *biz.Pipeline
	editor    *biz.Editor
	slides    *biz.SlideService
	responder *biz.Responder
	indexer   *biz.Indexer
	factory   store.Factory
	uploadDir string
}

// New creates a Handler.
func New(pipeline *biz.Pipeline, editor *biz.Editor, slides *biz.SlideService, responder *biz.Responder, indexer *biz.Indexer, factory store.Factory, uploadDir string) *Handler {
	return &Handler{
		pipeline:  pipeline,
		editor:    editor,
		slides:    slides,
		responder: responder,
		indexer:   indexer,
		factory:   factory,
		uploadDir: uploadDir,
	}
}

// fail answers with the API's error envelope. Expected product-level
// failures are reported with a 200 status and an "error" key; clients branch
// on the key, not the status code.
func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"error": message})
}

// badRequest rejects a structurally invalid request.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
