package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bnpltrack/internal/models"
)

const serviceName = "bnpltrack"

type HealthHandler struct {
	DB *gorm.DB
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Liveness check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
}

// ready reports whether the service can serve traffic: the database must be
// reachable and the record schema migrated.
// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_missing", "service": serviceName})
		return
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error", "service": serviceName})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable", "service": serviceName})
		return
	}
	if !h.DB.Migrator().HasTable(&models.BNPLRecord{}) || !h.DB.Migrator().HasTable(&models.UserProfile{}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "schema_missing", "service": serviceName})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
}
