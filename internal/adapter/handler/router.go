package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callscribe-team/callscribe/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	webhookHandler *Webhook
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *Webhook, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		webhookHandler: webhookHandler,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupWebhookRoutes(v1)
	rt.setupMeetingRoutes(v1)
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhookGroup := g.Group("/webhooks")
	webhookGroup.POST("/provider", rt.webhookHandler.Handle)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.POST("/:id/reprocess", rt.meetingHandler.Reprocess)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
