package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/app"
	"knowledgevault/internal/transport/http/response"
)

type StatsHandler struct {
	statsService *app.StatsService
}

func NewStatsHandler(statsService *app.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load stats failed")
		return
	}
	response.OK(c, stats)
}

func (h *StatsHandler) Categories(c *gin.Context) {
	categories, err := h.statsService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list categories failed")
		return
	}
	response.OK(c, gin.H{"categories": categories})
}

func (h *StatsHandler) CategoryStats(c *gin.Context) {
	stats, err := h.statsService.CategoryStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load category stats failed")
		return
	}
	response.OK(c, gin.H{"categories": stats})
}
