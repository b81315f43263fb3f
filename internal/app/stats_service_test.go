package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"knowledgevault/internal/model"
)

func TestBucketByDayOfWeek(t *testing.T) {
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	docs := []model.Document{
		{CreatedAt: monday},
		{CreatedAt: monday.Add(2 * time.Hour)},
		{CreatedAt: monday.AddDate(0, 0, 3)}, // Thursday
	}
	buckets := bucketByDayOfWeek(docs)
	assert.Equal(t, int64(2), buckets["Monday"])
	assert.Equal(t, int64(1), buckets["Thursday"])
	assert.NotContains(t, buckets, "Sunday")
}

func TestBucketByFileType(t *testing.T) {
	docs := []model.Document{
		{OriginalName: "report.PDF", MimeType: "application/pdf"},
		{OriginalName: "notes.pdf", MimeType: "application/pdf"},
		{OriginalName: "deck.pptx"},
		{OriginalName: "noext", MimeType: "image/png"}, // falls back to mime kind
	}
	buckets := bucketByFileType(docs)
	assert.Equal(t, int64(2), buckets["pdf"])
	assert.Equal(t, int64(1), buckets["pptx"])
	assert.Equal(t, int64(1), buckets["image"])
}
