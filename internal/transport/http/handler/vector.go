package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/transport/http/response"
	"knowledgevault/internal/vector"
)

// VectorHandler proxies admin operations to the external vector-index
// service.
type VectorHandler struct {
	client *vector.Client
}

func NewVectorHandler(client *vector.Client) *VectorHandler {
	return &VectorHandler{client: client}
}

func (h *VectorHandler) ReindexAll(c *gin.Context) {
	if err := h.client.ReindexAll(c.Request.Context()); err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "reindex request failed")
		return
	}
	response.OK(c, nil)
}

func (h *VectorHandler) Stats(c *gin.Context) {
	stats, err := h.client.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "vector stats request failed")
		return
	}
	response.OK(c, stats)
}
