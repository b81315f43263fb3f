package model

import "time"

const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)

// DocumentAccess grants a user a permission level on a document.
type DocumentAccess struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;uniqueIndex:idx_doc_user" json:"document_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_doc_user;index" json:"user_id"`
	Permission string    `gorm:"size:16;not null" json:"permission"`
	GrantedBy  uint      `gorm:"not null" json:"granted_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Favorite marks a document as a favorite of a user.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_fav_user_doc" json:"user_id"`
	DocumentID uint      `gorm:"not null;uniqueIndex:idx_fav_user_doc" json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}
