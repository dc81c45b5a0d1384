// Package router provides briefd API routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/handler"
)

// Register registers the briefd routes on a gin engine.
func Register(engine *gin.Engine, h *handler.Handler) {
	logger.Info("Registering briefd routes...")

	engine.Use(cors(), requestLogger())

	api := engine.Group("/api")
	{
		api.POST("/upload/", h.Upload)
		api.POST("/summarize/", h.Summarize)
		api.POST("/chat/", h.Chat)

		api.GET("/briefs/", h.ListBriefs)
		api.PATCH("/brief/:id", h.UpdateBrief)

		api.POST("/generate_slide_bullets/", h.GenerateSlideBullets)
		api.POST("/chat_on_slide_bullets/", h.ChatOnSlideBullets)

		api.POST("/ask_thrust/", h.AskProject)
		api.POST("/ask_thrust_global/", h.AskUser)
		api.GET("/thrust_chats/", h.ListChats)
	}

	engine.GET("/healthz", h.Healthz)
	engine.GET("/metrics", h.Metrics)

	logger.Info("HTTP routes registered")
}
