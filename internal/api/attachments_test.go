package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// pngHeader — минимальная сигнатура PNG для определения MIME-типа.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestUploadAttachment_MultipartNotJSON(t *testing.T) {
	var gotContentType string
	var partContentType string
	var partFilename string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		partFilename = header.Filename
		partContentType = header.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"id": 1, "bid_id": 9, "file_name": "logo.png"}`))
	})

	attachment, err := client.UploadAttachment(context.Background(), "9", "logo.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	// Границу multipart выставляет writer, а не JSON-заголовок клиента.
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data; boundary="))
	assert.Equal(t, "image/png", partContentType, "MIME определяется по сигнатуре файла")
	assert.Equal(t, "logo.png", partFilename)
	assert.Equal(t, "logo.png", attachment.FileName)
}

func TestUploadAttachment_UnknownSignatureFallsBack(t *testing.T) {
	var partContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		partContentType = header.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"id": 2, "bid_id": 9}`))
	})

	_, err := client.UploadAttachment(context.Background(), "9", "notes.txt", strings.NewReader("обычный текст"))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", partContentType)
}

func TestUploadAttachment_SizeLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("t"), Options{MaxUploadMB: 1})
	big := bytes.Repeat([]byte("a"), 1*1024*1024+1)

	_, err := client.UploadAttachment(context.Background(), "9", "big.bin", bytes.NewReader(big))
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, calls, "превышение размера отсекается до запроса")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFilename(`../../etc/report.pdf`))
	assert.Equal(t, "report.pdf", sanitizeFilename(`C:\Users\x\report.pdf`))
	assert.Equal(t, "report.pdf", sanitizeFilename(`"report.pdf"`))
}
