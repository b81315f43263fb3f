package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/app"
	"knowledgevault/internal/transport/http/response"
)

type SearchHandler struct {
	searchService *app.SearchService
}

func NewSearchHandler(searchService *app.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), userID, c.Query("query"), c.Query("type"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnknownSearchType):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		}
		return
	}

	response.OK(c, result)
}
