package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"greencycle/internal/service"
)

// StatsHandler handles HTTP requests for derived statistics.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// UserStats handles GET /v1/stats/users/:id
func (h *StatsHandler) UserStats(c *gin.Context) {
	stats, err := h.statsService.UserStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, stats)
}

// CollectorStats handles GET /v1/stats/collectors/:id
func (h *StatsHandler) CollectorStats(c *gin.Context) {
	stats, err := h.statsService.CollectorStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, stats)
}

// PlatformStats handles GET /v1/stats/platform
func (h *StatsHandler) PlatformStats(c *gin.Context) {
	stats, err := h.statsService.PlatformStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, stats)
}

// Growth handles GET /v1/stats/growth?entity=requests&start=YYYY-MM-DD
func (h *StatsHandler) Growth(c *gin.Context) {
	entity := service.GrowthEntity(c.DefaultQuery("entity", string(service.GrowthEntityRequests)))

	start := time.Now().AddDate(0, 0, -30)
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "start must be YYYY-MM-DD"})
			return
		}
		start = parsed
	}

	series, err := h.statsService.GrowthSeries(c.Request.Context(), entity, start)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"entity": entity,
		"start":  start.Format(dateLayout),
		"series": series,
	})
}

// Leaderboard handles GET /v1/stats/leaderboard?limit=10
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	ranks, err := h.statsService.TopCollectors(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ranks)
}
