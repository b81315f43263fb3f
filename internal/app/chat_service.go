package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"knowledgevault/internal/ai"
	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
)

const (
	defaultTopK       = 5
	defaultMaxHistory = 20
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
)

const assistantSystemPrompt = "You are a knowledge base assistant. Answer the user's question based only on the following excerpts from the organization's documents. If the excerpts do not contain enough information, say so. Do not make up facts."

type ChatService struct {
	convRepo    *repository.ConversationRepository
	messageRepo *repository.MessageRepository
	searchSvc   *SearchService
	llmClient   *ai.Client
	maxHistory  int
}

func NewChatService(
	convRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	searchSvc *SearchService,
	llmClient *ai.Client,
) *ChatService {
	return &ChatService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		searchSvc:   searchSvc,
		llmClient:   llmClient,
		maxHistory:  defaultMaxHistory,
	}
}

type CreateConversationInput struct {
	UserID uint
	Title  string
}

func (s *ChatService) CreateConversation(input CreateConversationInput) (*model.Conversation, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Conversation"
	}
	conv := &model.Conversation{UserID: input.UserID, Title: title}
	if err := s.convRepo.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(userID uint) ([]model.Conversation, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.convRepo.ListByUserID(userID)
}

func (s *ChatService) ListMessages(userID, conversationID uint) ([]model.Message, error) {
	if userID == 0 || conversationID == 0 {
		return nil, ErrInvalidInput
	}
	conv, err := s.convRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return s.messageRepo.ListByConversationID(conversationID, 0)
}

func (s *ChatService) DeleteConversation(userID, conversationID uint) error {
	if userID == 0 || conversationID == 0 {
		return ErrInvalidInput
	}
	conv, err := s.convRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversationNotFound
	}
	if err := s.messageRepo.DeleteByConversationID(conversationID); err != nil {
		return err
	}
	return s.convRepo.DeleteByIDAndUserID(conversationID, userID)
}

type SendMessageInput struct {
	UserID         uint
	ConversationID uint
	Content        string
	TopK           int
	DocumentIDs    []uint // restrict retrieval to these documents
}

type SendMessageResult struct {
	UserMessage      model.Message    `json:"user_message"`
	AssistantMessage model.Message    `json:"assistant_message"`
	Sources          []model.Document `json:"sources"`
}

// SendMessage persists the user's question, retrieves the most relevant
// document chunks, asks the LLM with them as context, and persists the
// assistant's answer with the documents it drew from.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if input.UserID == 0 || input.ConversationID == 0 {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	conv, err := s.convRepo.GetByIDAndUserID(input.ConversationID, input.UserID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	userMsg := &model.Message{
		ConversationID: conv.ID,
		UserID:         input.UserID,
		Role:           "user",
		Content:        content,
	}
	if err := s.messageRepo.Create(userMsg); err != nil {
		return nil, err
	}

	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	chunks, err := s.searchSvc.TopChunks(ctx, content, topK, input.DocumentIDs)
	if err != nil {
		// answer without retrieval rather than failing the whole message
		log.Printf("chunk retrieval failed, answering without context: %v", err)
		chunks = nil
	}

	messages := s.buildPrompt(conv.ID, content, chunks)
	answer, err := s.llmClient.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	sourceIDs := sourceDocumentIDs(chunks)
	assistantMsg := &model.Message{
		ConversationID: conv.ID,
		UserID:         input.UserID,
		Role:           "assistant",
		Content:        strings.TrimSpace(answer),
	}
	assistantMsg.SetSourceDocumentIDs(sourceIDs)
	if err := s.messageRepo.Create(assistantMsg); err != nil {
		return nil, err
	}
	if err := s.convRepo.Touch(conv.ID); err != nil {
		log.Printf("touch conversation %d failed: %v", conv.ID, err)
	}

	sources, err := s.searchSvc.docRepo.ListByIDs(sourceIDs)
	if err != nil {
		log.Printf("load source documents failed: %v", err)
		sources = nil
	}

	return &SendMessageResult{
		UserMessage:      *userMsg,
		AssistantMessage: *assistantMsg,
		Sources:          sources,
	}, nil
}

func (s *ChatService) buildPrompt(conversationID uint, question string, chunks []model.DocumentChunk) []ai.ChatMessage {
	messages := []ai.ChatMessage{{Role: "system", Content: assistantSystemPrompt}}

	history, err := s.messageRepo.ListByConversationID(conversationID, 0)
	if err != nil {
		log.Printf("load conversation history failed: %v", err)
	}
	// exclude the just-persisted question; it goes in the context-bearing turn
	if n := len(history); n > 0 && history[n-1].Role == "user" {
		history = history[:n-1]
	}
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	for _, m := range history {
		messages = append(messages, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}

	contextBlock := ""
	for _, c := range chunks {
		contextBlock += "\n---\n" + c.Content
	}
	if contextBlock != "" {
		contextBlock += "\n---"
	}
	userContent := "Context:" + contextBlock + "\n\nQuestion: " + question + "\n\nAnswer:"
	return append(messages, ai.ChatMessage{Role: "user", Content: userContent})
}

func sourceDocumentIDs(chunks []model.DocumentChunk) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, c := range chunks {
		if !seen[c.DocumentID] {
			seen[c.DocumentID] = true
			ids = append(ids, c.DocumentID)
		}
	}
	return ids
}
