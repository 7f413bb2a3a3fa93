package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bnpltrack/internal/records"
	"bnpltrack/internal/service"
)

type RecordHandler struct {
	Records  *service.RecordService
	Analysis *service.AnalysisService
	Logger   *zap.Logger
}

func (h *RecordHandler) Register(r *gin.Engine) {
	group := r.Group("/api/records")
	group.GET("", h.query)
	group.POST("", h.ingest)
	group.PUT("/:id/mark-paid", h.markPaid)
	group.DELETE("", h.clear)
}

// @Summary Query records (search, filter, sort, paginate)
// @Tags records
// @Param user query string false "user email"
// @Param search query string false "vendor/subject substring"
// @Param status query string false "active|paid|all"
// @Param sort query string false "date|amount|installments"
// @Param page query int false "1-based page"
// @Success 200 {object} apiResponse
// @Router /api/records [get]
func (h *RecordHandler) query(c *gin.Context) {
	if h.Records == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	page, err := h.Records.Query(c.Request.Context(), email, records.QueryParams{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		SortKey: c.Query("sort"),
		Page:    intQuery(c, "page", 1),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, page.Items, map[string]any{
		"total_items":  page.TotalItems,
		"total_pages":  page.TotalPages,
		"current_page": page.CurrentPage,
		"page_size":    records.PageSize,
	})
}

// @Summary Ingest a detected BNPL record
// @Tags records
// @Param user query string false "user email"
// @Param record body service.RecordInput true "detected record"
// @Success 200 {object} apiResponse
// @Router /api/records [post]
func (h *RecordHandler) ingest(c *gin.Context) {
	if h.Records == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	var input service.RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, created, err := h.Records.Ingest(c.Request.Context(), email, input)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, item, map[string]any{"created": created})
}

// @Summary Mark a record paid and return the refreshed analysis
// @Tags records
// @Param user query string false "user email"
// @Param id path int true "record id"
// @Success 200 {object} apiResponse
// @Router /api/records/{id}/mark-paid [put]
func (h *RecordHandler) markPaid(c *gin.Context) {
	if h.Records == nil || h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}
	if _, err := h.Records.MarkPaid(c.Request.Context(), email, id); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("mark paid failed", zap.Uint64("record_id", id), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	// The UI expects the recomputed figures in the same response so it can
	// refresh the gauges without a second round trip.
	snap, err := h.Analysis.Snapshot(c.Request.Context(), email)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"analysis":      snap.Risk,
		"affordability": snap.Affordability,
	}, nil)
}

// @Summary Delete all records for a user
// @Tags records
// @Param user query string false "user email"
// @Success 200 {object} apiResponse
// @Router /api/records [delete]
func (h *RecordHandler) clear(c *gin.Context) {
	if h.Records == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	email := userEmail(c)
	if email == "" {
		Error(c, http.StatusBadRequest, "user is required", nil)
		return
	}
	n, err := h.Records.Clear(c.Request.Context(), email)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, nil, map[string]any{"deleted": n})
}
