package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/eduguide/eduguide-backend/utils"
)

const (
	MaxDocumentSize = 10 << 20 // 10MB
	MaxAudioSize    = 25 << 20 // 25MB
	MaxImageSize    = 10 << 20
)

var documentTypes = map[string]bool{
	"text/plain":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var audioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/mp4":   true,
	"audio/x-m4a": true,
}

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// ValidateUpload gates a user-selected file before anything is staged.
// The reason string is user-facing. A rejected file must leave pipeline state
// untouched, so callers check this before creating any records.
func ValidateUpload(header *multipart.FileHeader) error {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = utils.ContentTypeForExt(header.Filename)
	}
	// strip parameters like "; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	switch {
	case documentTypes[contentType]:
		if header.Size > MaxDocumentSize {
			return fmt.Errorf("file %q is too large: documents are limited to 10MB", header.Filename)
		}
	case audioTypes[contentType]:
		if header.Size > MaxAudioSize {
			return fmt.Errorf("file %q is too large: audio is limited to 25MB", header.Filename)
		}
	case imageTypes[contentType]:
		if header.Size > MaxImageSize {
			return fmt.Errorf("file %q is too large: images are limited to 10MB", header.Filename)
		}
	default:
		return fmt.Errorf("file type %q is not supported", contentType)
	}
	return nil
}
