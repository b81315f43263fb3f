package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgevault/internal/app"
	"knowledgevault/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type CreateConversationRequest struct {
	Title string `json:"title" binding:"max=256"`
}

type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	TopK        int    `json:"top_k" binding:"omitempty,gte=1,lte=20"`
	DocumentIDs []uint `json:"document_ids"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	conv, err := h.chatService.CreateConversation(app.CreateConversationInput{
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create conversation failed")
		return
	}

	response.OK(c, gin.H{"conversation": conv})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	conversations, err := h.chatService.ListConversations(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list conversations failed")
		return
	}

	response.OK(c, gin.H{"conversations": conversations})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid conversation id")
		return
	}

	messages, err := h.chatService.ListMessages(userID, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list messages failed")
		}
		return
	}

	response.OK(c, gin.H{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid conversation id")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		UserID:         userID,
		ConversationID: conversationID,
		Content:        req.Content,
		TopK:           req.TopK,
		DocumentIDs:    req.DocumentIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid conversation id")
		return
	}

	if err := h.chatService.DeleteConversation(userID, conversationID); err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete conversation failed")
		}
		return
	}

	response.OK(c, nil)
}
