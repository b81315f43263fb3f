package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"knowledgevault/internal/app"
	"knowledgevault/internal/transport/http/middleware"
)

func newSearchRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	searchHandler := NewSearchHandler(app.NewSearchService(nil, nil, nil, nil, nil))
	router.GET("/search", func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	}, searchHandler.Search)
	return router
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	router := newSearchRouter(1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?query=&type=keyword", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
	assert.Contains(t, w.Body.String(), `"type":"keyword"`)
}

func TestSearchUnknownType(t *testing.T) {
	router := newSearchRouter(1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?query=hello&type=psychic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRequiresUser(t *testing.T) {
	router := newSearchRouter(0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?query=hello", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
