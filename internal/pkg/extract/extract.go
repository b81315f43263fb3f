package extract

import (
	"errors"
	"io"
	"strings"
)

var ErrUnsupportedType = errors.New("unsupported content type for text extraction")

// Text extracts plain text from r according to the declared MIME type.
// Image types yield no text and no error; classification of images is left
// to the AI service working from the document name.
func Text(r io.Reader, mimeType string) (string, error) {
	switch {
	case mimeType == "application/pdf":
		return PDF(r)
	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return DOCX(r)
	case strings.HasPrefix(mimeType, "text/"), mimeType == "application/csv":
		b, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case strings.HasPrefix(mimeType, "image/"):
		return "", nil
	default:
		return "", ErrUnsupportedType
	}
}
