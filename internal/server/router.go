// Package server exposes the enrichment pipeline over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"vidscope/internal/auth"
)

// NewRouter wires the public and authenticated routes. Auth runs before
// any pipeline work; the admin listing additionally requires the admin
// role.
func NewRouter(h *Handlers, tokens *auth.Tokens, mode string) *gin.Engine {
	if mode == "prod" || mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.health)
	r.POST("/auth/login", h.login)

	api := r.Group("/api")
	api.Use(requireAuth(tokens))
	{
		api.POST("/rounds", h.createRound)
		api.GET("/rounds", h.listRounds)

		api.GET("/videos", h.listVideos)
		api.GET("/videos/all", requireAdmin(), h.listAllVideos)
		api.GET("/videos/:id", h.videoDetail)
		api.GET("/videos/:id/transcript", h.videoTranscript)
		api.GET("/videos/:id/narrative", h.videoNarrative)
	}

	return r
}
