// internal/api/server.go
package api

import (
	"net/http"
	"time"

	"github.com/plan2509/tms-final/internal/app"
	"github.com/plan2509/tms-final/internal/infra/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// trustedSchedulerHeader marks calls from the platform's own cron runner;
// those bypass the shared-secret check even when a secret is configured.
const trustedSchedulerHeader = "x-vercel-cron"

type Server struct {
	dispatchService app.DispatchService
	cronSecret      string
	logger          *logrus.Logger
	router          *gin.Engine
}

func NewServer(dispatchService app.DispatchService, cfg *config.AppConfig, logger *logrus.Logger) *Server {
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &Server{
		dispatchService: dispatchService,
		cronSecret:      cfg.CronSecret,
		logger:          logger,
		router:          gin.New(),
	}
	server.router.Use(gin.Recovery())
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)

	api := s.router.Group("/api/notifications")
	// External cron services frequently support GET only, so the dispatch
	// trigger accepts both verbs.
	api.POST("/dispatch", s.dispatch)
	api.GET("/dispatch", s.dispatch)
	api.POST("/send", s.send)
}

// Handler exposes the router for tests and for the HTTP server in main.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// authorized enforces the optional shared secret: the x-cron-key header or
// the key query parameter must match, unless the trusted scheduler header
// is present.
func (s *Server) authorized(c *gin.Context) bool {
	if s.cronSecret == "" {
		return true
	}
	if c.GetHeader(trustedSchedulerHeader) == "1" {
		return true
	}
	provided := c.GetHeader("x-cron-key")
	if provided == "" {
		provided = c.Query("key")
	}
	return provided == s.cronSecret
}

type dispatchRequest struct {
	NotificationType string `json:"notification_type"`
}

func (s *Server) dispatch(c *gin.Context) {
	if !s.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var req dispatchRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	category := req.NotificationType
	if category == "" {
		category = c.Query("type")
	}

	summary, err := s.dispatchService.Dispatch(c.Request.Context(), category, time.Now())
	if err != nil {
		s.logger.Errorf("Dispatch run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"dispatched":         summary.Dispatched,
		"dispatched_station": summary.DispatchedStation,
		"dispatched_manual":  summary.DispatchedManual,
		"now":                summary.Now.Format(time.RFC3339),
	})
}

type sendRequest struct {
	WebhookURLs    []string `json:"webhook_urls"`
	ChannelIDs     []string `json:"channel_ids"`
	NotificationID string   `json:"notification_id"`
	Text           string   `json:"text"`
}

func (s *Server) send(c *gin.Context) {
	if !s.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := s.dispatchService.SendDirect(c.Request.Context(), time.Now(), app.DirectSendRequest{
		WebhookURLs:    req.WebhookURLs,
		ChannelIDs:     req.ChannelIDs,
		NotificationID: req.NotificationID,
		Text:           req.Text,
	})
	if err != nil {
		if err == app.ErrNoTargets {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No webhook URLs provided"})
			return
		}
		s.logger.Errorf("Direct send failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sent": result.Sent, "failed": result.Failed})
}
