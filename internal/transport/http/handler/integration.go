package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/ai"
	"knowledgevault/internal/app"
	"knowledgevault/internal/transport/http/response"
)

// IntegrationHandler serves the outward-facing extras: LLM translation and
// the Teams meeting-note import.
type IntegrationHandler struct {
	llmClient       *ai.Client
	documentService *app.DocumentService
}

type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"targetLanguage" binding:"required,max=64"`
}

type TeamsImportRequest struct {
	Since string `json:"since"` // RFC 3339; zero value imports everything
}

func NewIntegrationHandler(llmClient *ai.Client, documentService *app.DocumentService) *IntegrationHandler {
	return &IntegrationHandler{
		llmClient:       llmClient,
		documentService: documentService,
	}
}

func (h *IntegrationHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	translated, err := h.llmClient.Translate(c.Request.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "translation failed")
		return
	}

	response.OK(c, gin.H{"translated": translated})
}

func (h *IntegrationHandler) ImportTeamsNotes(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req TeamsImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	var since time.Time
	if req.Since != "" {
		parsed, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid since timestamp")
			return
		}
		since = parsed
	}

	results, err := h.documentService.ImportTeamsNotes(c.Request.Context(), userID, since)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTeamsDisabled):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "teams import failed")
		}
		return
	}

	response.OK(c, gin.H{"results": results})
}
