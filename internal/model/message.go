package model

import (
	"encoding/json"
	"time"
)

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Role           string    `gorm:"size:16;not null;index" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	SourceDocs     string    `gorm:"type:text" json:"-"` // JSON array of document ids
	CreatedAt      time.Time `json:"created_at"`
}

// SourceDocumentIDs returns the parsed source document ids; empty on parse error.
func (m *Message) SourceDocumentIDs() []uint {
	if m.SourceDocs == "" {
		return nil
	}
	var ids []uint
	_ = json.Unmarshal([]byte(m.SourceDocs), &ids)
	return ids
}

// SetSourceDocumentIDs stores the source document ids as JSON.
func (m *Message) SetSourceDocumentIDs(ids []uint) {
	if len(ids) == 0 {
		m.SourceDocs = "[]"
		return
	}
	b, _ := json.Marshal(ids)
	m.SourceDocs = string(b)
}
