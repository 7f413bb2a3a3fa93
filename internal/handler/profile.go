package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bnpltrack/internal/service"
)

type ProfileHandler struct {
	Profiles *service.ProfileService
	Logger   *zap.Logger
}

func (h *ProfileHandler) Register(r *gin.Engine) {
	group := r.Group("/api/profile")
	group.GET("", h.get)
	group.PUT("", h.update)
}

// @Summary Get the user's financial profile
// @Tags profile
// @Param user query string false "user email"
// @Success 200 {object} apiResponse
// @Router /api/profile [get]
func (h *ProfileHandler) get(c *gin.Context) {
	if h.Profiles == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	profile, err := h.Profiles.Get(c.Request.Context(), email)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, profile, nil)
}

// @Summary Update the user's financial profile
// @Tags profile
// @Param user query string false "user email"
// @Param profile body service.ProfileInput true "profile fields"
// @Success 200 {object} apiResponse
// @Router /api/profile [put]
func (h *ProfileHandler) update(c *gin.Context) {
	if h.Profiles == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	var input service.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	profile, err := h.Profiles.Update(c.Request.Context(), email, input)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("profile update rejected", zap.String("user", email), zap.Error(err))
		}
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, profile, nil)
}
