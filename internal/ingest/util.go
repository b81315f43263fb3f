package ingest

import (
	"fmt"
	"strings"
)

// Kind maps a MIME type to a coarse file kind used for icons and dashboard
// bucketing.
func Kind(mimeType string) string {
	mt := normalizeMime(mimeType)
	switch {
	case mt == "application/pdf":
		return "pdf"
	case mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "word"
	case strings.HasPrefix(mt, "image/"):
		return "image"
	case mt == "text/csv" || mt == "application/csv":
		return "spreadsheet"
	case strings.HasPrefix(mt, "text/"):
		return "text"
	default:
		return "file"
	}
}

// Icon returns the UI icon name for a MIME type.
func Icon(mimeType string) string {
	switch Kind(mimeType) {
	case "pdf":
		return "file-pdf"
	case "word":
		return "file-word"
	case "image":
		return "file-image"
	case "spreadsheet":
		return "file-spreadsheet"
	case "text":
		return "file-text"
	default:
		return "file"
	}
}

// HumanSize formats a byte count as a human-readable string.
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
