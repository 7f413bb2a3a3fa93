package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"bnpltrack/internal/finance"
	"bnpltrack/internal/service"
)

type DashboardHandler struct {
	Analysis *service.AnalysisService
	Logger   *zap.Logger

	// StreamInterval paces websocket pushes; zero means the 5s default.
	StreamInterval time.Duration
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	group := r.Group("/api/dashboard")
	group.GET("", h.snapshot)
	group.POST("/simulate", h.simulate)
	group.GET("/recommendations", h.recommendations)
	group.GET("/stream", h.stream)
}

// @Summary Dashboard snapshot (risk + affordability)
// @Tags dashboard
// @Param user query string false "user email (or X-User-Email header)"
// @Success 200 {object} apiResponse
// @Router /api/dashboard [get]
func (h *DashboardHandler) snapshot(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	snap, err := h.Analysis.Snapshot(c.Request.Context(), email)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("dashboard snapshot failed", zap.String("user", email), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snap, nil)
}

// @Summary Run the what-if simulator
// @Tags dashboard
// @Param user query string false "user email"
// @Param overrides body finance.ProfileOverrides true "slider overrides"
// @Success 200 {object} apiResponse
// @Router /api/dashboard/simulate [post]
func (h *DashboardHandler) simulate(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	var overrides finance.ProfileOverrides
	if err := c.ShouldBindJSON(&overrides); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sim, advice, err := h.Analysis.Simulate(c.Request.Context(), email, overrides)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"simulation": sim, "recommendations": advice}, nil)
}

// @Summary Advisory messages for the current stored inputs
// @Tags dashboard
// @Param user query string false "user email"
// @Success 200 {object} apiResponse
// @Router /api/dashboard/recommendations [get]
func (h *DashboardHandler) recommendations(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	// No overrides: the advisory table over the stored profile as-is.
	sim, advice, err := h.Analysis.Simulate(c.Request.Context(), email, finance.ProfileOverrides{})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"simulation": sim, "recommendations": advice}, nil)
}

// @Summary Websocket stream of dashboard snapshots
// @Tags dashboard
// @Param user query string false "user email"
// @Router /api/dashboard/stream [get]
func (h *DashboardHandler) stream(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS is handled by the HTTP middleware
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	interval := h.StreamInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ctx := c.Request.Context()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := h.Analysis.Snapshot(ctx, email)
		if err != nil {
			_ = conn.Close(websocket.StatusInternalError, "snapshot failed")
			return
		}
		if err := wsjson.Write(ctx, conn, snap); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "bye")
			return
		case <-ticker.C:
		}
	}
}
