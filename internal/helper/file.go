package helper

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadPathPictures  = "pictures"
	UploadPathVideos    = "videos"
	UploadPathDocuments = "documents"
)

var documentContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// AttachmentUploadPath maps a MIME type to the object-storage prefix used for
// message attachments. Unsupported types are rejected before upload.
func AttachmentUploadPath(contentType string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch {
	case strings.HasPrefix(base, "image/"):
		return UploadPathPictures, nil
	case strings.HasPrefix(base, "video/"):
		return UploadPathVideos, nil
	case documentContentTypes[base]:
		return UploadPathDocuments, nil
	default:
		return "", fmt.Errorf("unsupported attachment type: %s", contentType)
	}
}

func GenerateUniqueFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}

	return fmt.Sprintf("%d-%s%s", time.Now().UTC().UnixNano(), uuid.New().String(), ext)
}

func DetectFileContentType(file multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if n == 0 {
		return "", errors.New("empty file")
	}

	contentType := http.DetectContentType(buffer[:n])

	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	return contentType, nil
}
