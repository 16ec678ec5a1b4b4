// Package http exposes the relay over HTTP: the embedded welcome page, a
// health probe, a small rooms API, and the WebSocket endpoint itself.
package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roomcast/internal/config"
	"roomcast/internal/core"
)

// NewServer builds the HTTP server with all routes attached.
func NewServer(reg *core.Registry, bcast *core.Broadcaster, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/", welcomePage)
	router.GET("/health", healthHandler)
	router.GET("/api/rooms", NewRoomHandlers(reg, logger).ListRooms)
	router.GET("/ws", gin.WrapH(NewWSHandler(reg, bcast, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
