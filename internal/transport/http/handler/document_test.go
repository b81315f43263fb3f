package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgevault/internal/transport/http/middleware"
)

func newUploadRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	documentHandler := NewDocumentHandler(nil, nil)
	router.POST("/upload", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uint(1))
		c.Next()
	}, documentHandler.Upload)
	return router
}

func multipartBody(t *testing.T, metadata string, fileNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range fileNames {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
	}
	if metadata != "" {
		require.NoError(t, writer.WriteField("metadata", metadata))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	router := newUploadRouter()

	body, contentType := multipartBody(t, "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no files")
}

func TestUploadRejectsBadMetadata(t *testing.T) {
	router := newUploadRouter()

	body, contentType := multipartBody(t, "{not json", "report.pdf")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "metadata")
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	router := newUploadRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
