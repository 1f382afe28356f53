package utils

import (
	"path/filepath"
	"strings"
)

// GetInputTypeFromExt maps a filename to the extractor input type.
func GetInputTypeFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return "txt"
	case ".pdf":
		return "pdf"
	case ".docx", ".doc":
		return "docx"
	case ".png", ".jpg", ".jpeg", ".webp":
		return "image"
	case ".mp3", ".wav", ".m4a":
		return "audio"
	default:
		return "unknown"
	}
}

// ContentTypeForExt returns the MIME type used when storing an object.
func ContentTypeForExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
