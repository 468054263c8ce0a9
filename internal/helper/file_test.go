package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentUploadPath(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"image/png", UploadPathPictures},
		{"image/jpeg", UploadPathPictures},
		{"video/mp4", UploadPathVideos},
		{"application/pdf", UploadPathDocuments},
		{"application/msword", UploadPathDocuments},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", UploadPathDocuments},
		{"text/plain; charset=utf-8", UploadPathDocuments},
		{"IMAGE/PNG", UploadPathPictures},
	}

	for _, tc := range cases {
		got, err := AttachmentUploadPath(tc.contentType)
		require.NoError(t, err, tc.contentType)
		assert.Equal(t, tc.want, got, tc.contentType)
	}
}

func TestAttachmentUploadPathUnsupported(t *testing.T) {
	for _, contentType := range []string{"application/zip", "audio/mpeg", ""} {
		_, err := AttachmentUploadPath(contentType)
		assert.Error(t, err, contentType)
	}
}

func TestGenerateUniqueFileName(t *testing.T) {
	a := GenerateUniqueFileName("photo.PNG")
	b := GenerateUniqueFileName("photo.PNG")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".png"))

	noExt := GenerateUniqueFileName("README")
	assert.True(t, strings.HasSuffix(noExt, ".bin"))
}
