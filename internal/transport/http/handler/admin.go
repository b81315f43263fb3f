package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/app"
	"knowledgevault/internal/transport/http/response"
)

type AdminHandler struct {
	accessService *app.AccessService
	authService   *app.AuthService
}

type GrantPermissionRequest struct {
	UserID     uint   `json:"user_id"`
	Department string `json:"department"`
	DocumentID uint   `json:"document_id" binding:"required,gt=0"`
	Permission string `json:"permission" binding:"required,oneof=read write admin"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

func NewAdminHandler(accessService *app.AccessService, authService *app.AuthService) *AdminHandler {
	return &AdminHandler{
		accessService: accessService,
		authService:   authService,
	}
}

func (h *AdminHandler) GrantPermission(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	grants, err := h.accessService.Grant(app.GrantInput{
		GrantedBy:  userID,
		UserID:     req.UserID,
		Department: req.Department,
		DocumentID: req.DocumentID,
		Permission: req.Permission,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound), errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "grant permission failed")
		}
		return
	}

	response.OK(c, gin.H{"grants": grants})
}

func (h *AdminHandler) ListPermissions(c *gin.Context) {
	documentID, err := strconv.ParseUint(c.Query("document_id"), 10, 32)
	if err != nil || documentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document_id")
		return
	}

	grants, listErr := h.accessService.ListGrants(uint(documentID))
	if listErr != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list permissions failed")
		return
	}

	response.OK(c, gin.H{"grants": grants})
}

func (h *AdminHandler) RevokePermission(c *gin.Context) {
	documentID, err := strconv.ParseUint(c.Query("document_id"), 10, 32)
	if err != nil || documentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document_id")
		return
	}
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil || userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user_id")
		return
	}

	if err := h.accessService.Revoke(uint(documentID), uint(userID)); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "revoke permission failed")
		return
	}

	response.OK(c, nil)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list users failed")
		return
	}

	payload := make([]gin.H, 0, len(users))
	for i := range users {
		payload = append(payload, userPayload(&users[i]))
	}
	response.OK(c, gin.H{"users": payload})
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.UpdateUserRole(actorID, userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update role failed")
		}
		return
	}

	response.OK(c, userPayload(user))
}
