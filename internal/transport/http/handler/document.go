package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/app"
	"knowledgevault/internal/model"
	"knowledgevault/internal/transport/http/response"
	"knowledgevault/internal/upload"
)

type DocumentHandler struct {
	documentService *app.DocumentService
	authService     *app.AuthService
}

func NewDocumentHandler(documentService *app.DocumentService, authService *app.AuthService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		authService:     authService,
	}
}

type EndorseRequest struct {
	EffectiveStartDate string `json:"effectiveStartDate" binding:"required"`
	EffectiveEndDate   string `json:"effectiveEndDate"`
}

// Upload accepts multipart form data: one or more parts named "files" plus an
// optional "metadata" field holding a JSON array of per-file entries keyed by
// original file name.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files in request")
		return
	}

	var metadata []upload.FileMetadata
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid metadata payload")
			return
		}
	}

	files := make([]app.UploadFileInput, 0, len(fileHeaders))
	var openErr error
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			openErr = err
			break
		}
		defer f.Close()
		files = append(files, app.UploadFileInput{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Reader:       f,
		})
	}
	if openErr != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
		return
	}

	results, err := h.documentService.UploadBatch(c.Request.Context(), app.UploadBatchInput{
		UserID:   userID,
		Files:    files,
		Metadata: metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrEmptyBatch):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed")
		}
		return
	}

	response.OK(c, gin.H{"results": results})
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	input := app.ListInput{
		UserID:        userID,
		Text:          c.Query("text"),
		Sort:          c.Query("sort"),
		FavoritesOnly: c.Query("favorites") == "true",
		MineOnly:      c.Query("mine") == "true",
	}
	for _, raw := range c.QueryArray("category") {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil && id > 0 {
			input.CategoryIDs = append(input.CategoryIDs, uint(id))
		}
	}
	for _, tag := range c.QueryArray("tag") {
		if tag = strings.TrimSpace(tag); tag != "" {
			input.Tags = append(input.Tags, tag)
		}
	}

	docs, err := h.documentService.List(c.Request.Context(), input)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}

	response.OK(c, gin.H{"documents": docs, "count": len(docs)})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	doc, err := h.documentService.Get(userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch document failed")
		}
		return
	}

	response.OK(c, gin.H{"document": doc, "tags": doc.TagList()})
}

func (h *DocumentHandler) Endorse(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	var req EndorseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	start, err := time.Parse("2006-01-02", req.EffectiveStartDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid effectiveStartDate")
		return
	}
	var end *time.Time
	if req.EffectiveEndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EffectiveEndDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid effectiveEndDate")
			return
		}
		end = &parsed
	}

	doc, err := h.documentService.Endorse(c.Request.Context(), app.EndorseInput{
		User:               user,
		DocumentID:         documentID,
		EffectiveStartDate: start,
		EffectiveEndDate:   end,
	})
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrBadDateRange), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrPermissionDenied):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "endorse failed")
		}
		return
	}

	response.OK(c, gin.H{"document": doc})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), user, documentID); err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrPermissionDenied):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}

	response.OK(c, nil)
}

func (h *DocumentHandler) Favorite(c *gin.Context) {
	h.toggleFavorite(c, true)
}

func (h *DocumentHandler) Unfavorite(c *gin.Context) {
	h.toggleFavorite(c, false)
}

func (h *DocumentHandler) toggleFavorite(c *gin.Context, add bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	var err error
	if add {
		err = h.documentService.Favorite(c.Request.Context(), userID, documentID)
	} else {
		err = h.documentService.Unfavorite(c.Request.Context(), userID, documentID)
	}
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update favorite failed")
		}
		return
	}

	response.OK(c, nil)
}

func (h *DocumentHandler) currentUser(c *gin.Context) (*model.User, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return nil, false
	}
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch current user failed")
		return nil, false
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found")
		return nil, false
	}
	return user, true
}
