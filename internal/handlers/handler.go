package handlers

import (
	"net/http"
	"tunestatus/internal/logger"
	"tunestatus/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	hub      *RunHub
	webDir   string
}

// NewHandler constructs the HTTP handler. webDir is the static front-end
// directory; empty disables static serving.
func NewHandler(services *service.Service, log *logger.Logger, hub *RunHub, webDir string) *Handler {
	return &Handler{services: services, log: log, hub: hub, webDir: webDir}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Browser front-end
	if h.webDir != "" {
		router.StaticFile("/", h.webDir+"/index.html")
		router.Static("/static", h.webDir+"/static")
	}

	// Live stream (token-authenticated; browsers cannot send Basic auth on
	// a websocket handshake).
	router.GET("/ws", h.wsConnect)

	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.basicAuthMiddleware)
	{
		api.GET("/status", h.getStatus)
		api.POST("/reconcile", h.triggerReconcile)
		api.GET("/ws-token", h.getWSToken)

		api.GET("/config", h.getConfig)
		api.PUT("/config", h.putConfig)

		api.GET("/runs", h.getRuns)

		logs := api.Group("/logs")
		{
			logs.GET("/", h.getLogs)
			logs.DELETE("/", h.clearLogs)
		}
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
