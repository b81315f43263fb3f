package model

import "time"

// SearchQuery is an append-only analytics log row. Rows are never updated.
type SearchQuery struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Query       string    `gorm:"size:512;not null" json:"query"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	ResultCount int       `gorm:"not null" json:"result_count"`
	CreatedAt   time.Time `json:"created_at"`
}
