package model

import (
	"encoding/json"
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

type Document struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	FileName           string     `gorm:"size:256;not null" json:"file_name"`
	OriginalName       string     `gorm:"size:256;not null;index" json:"original_name"`
	Name               string     `gorm:"size:256;not null" json:"name"`
	MimeType           string     `gorm:"size:128;not null" json:"mime_type"`
	Size               int64      `gorm:"not null" json:"size"`
	StoragePath        string     `gorm:"size:512;not null" json:"-"`
	Content            string     `gorm:"type:longtext" json:"-"`
	Summary            string     `gorm:"type:text" json:"summary"`
	CategoryID         *uint      `gorm:"index" json:"category_id"`
	Tags               string     `gorm:"type:text" json:"-"` // JSON array of strings
	Metadata           string     `gorm:"type:text" json:"-"` // arbitrary JSON object
	Status             string     `gorm:"size:16;not null;default:pending;index" json:"status"`
	VectorIndexed      bool       `gorm:"not null;default:false" json:"vector_indexed"`
	VectorID           string     `gorm:"size:64" json:"vector_id"`
	EffectiveStartDate *time.Time `json:"effective_start_date"`
	EffectiveEndDate   *time.Time `json:"effective_end_date"`
	UploadedBy         uint       `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TagList returns the parsed tags; empty on parse error.
func (d *Document) TagList() []string {
	if d.Tags == "" {
		return nil
	}
	var tags []string
	_ = json.Unmarshal([]byte(d.Tags), &tags)
	return tags
}

// SetTags stores the tags as JSON.
func (d *Document) SetTags(tags []string) {
	if len(tags) == 0 {
		d.Tags = "[]"
		return
	}
	b, _ := json.Marshal(tags)
	d.Tags = string(b)
}

// MetadataMap returns the parsed metadata object; empty on parse error.
func (d *Document) MetadataMap() map[string]string {
	if d.Metadata == "" {
		return nil
	}
	var m map[string]string
	_ = json.Unmarshal([]byte(d.Metadata), &m)
	return m
}

// SetMetadata stores the metadata as JSON.
func (d *Document) SetMetadata(m map[string]string) {
	if len(m) == 0 {
		d.Metadata = "{}"
		return
	}
	b, _ := json.Marshal(m)
	d.Metadata = string(b)
}
