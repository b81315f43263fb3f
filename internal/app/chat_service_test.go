package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
)

func newTestChatService(t *testing.T) (*ChatService, *repository.ConversationRepository, *repository.MessageRepository) {
	t.Helper()

	db := newTestDB(t)
	convRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	svc := NewChatService(convRepo, messageRepo, nil, nil)
	return svc, convRepo, messageRepo
}

func seedMessages(t *testing.T, messageRepo *repository.MessageRepository, conversationID uint, contents ...string) {
	t.Helper()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range contents {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msg := &model.Message{
			ConversationID: conversationID,
			UserID:         1,
			Role:           role,
			Content:        content,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, messageRepo.Create(msg))
	}
}

func TestChatService_ListMessagesReturnsHistoryInOrder(t *testing.T) {
	svc, _, messageRepo := newTestChatService(t)

	conv, err := svc.CreateConversation(CreateConversationInput{UserID: 1, Title: "onboarding"})
	require.NoError(t, err)

	seedMessages(t, messageRepo, conv.ID, "first question", "first answer", "second question")

	messages, err := svc.ListMessages(1, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first question", messages[0].Content)
	assert.Equal(t, "first answer", messages[1].Content)
	assert.Equal(t, "second question", messages[2].Content)
}

func TestChatService_ListMessagesRejectsForeignConversation(t *testing.T) {
	svc, _, _ := newTestChatService(t)

	conv, err := svc.CreateConversation(CreateConversationInput{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "New Conversation", conv.Title)

	_, err = svc.ListMessages(2, conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestChatService_BuildPromptTrimsHistory(t *testing.T) {
	svc, _, messageRepo := newTestChatService(t)

	conv, err := svc.CreateConversation(CreateConversationInput{UserID: 1})
	require.NoError(t, err)

	// six history turns plus the just-persisted question
	seedMessages(t, messageRepo, conv.ID,
		"q1", "a1", "q2", "a2", "q3", "a3",
		"current question",
	)

	svc.maxHistory = 4
	messages := svc.buildPrompt(conv.ID, "current question", []model.DocumentChunk{
		{Content: "relevant excerpt"},
	})

	// system turn, four trimmed history turns, context-bearing user turn
	require.Len(t, messages, 6)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "q2", messages[1].Content)
	assert.Equal(t, "a3", messages[4].Content)

	last := messages[len(messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "relevant excerpt")
	assert.Contains(t, last.Content, "Question: current question")
}

func TestChatService_DeleteConversationRemovesMessages(t *testing.T) {
	svc, convRepo, messageRepo := newTestChatService(t)

	conv, err := svc.CreateConversation(CreateConversationInput{UserID: 1})
	require.NoError(t, err)
	seedMessages(t, messageRepo, conv.ID, "hello", "hi")

	require.NoError(t, svc.DeleteConversation(1, conv.ID))

	gone, err := convRepo.GetByIDAndUserID(conv.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, gone)

	remaining, err := messageRepo.ListByConversationID(conv.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
