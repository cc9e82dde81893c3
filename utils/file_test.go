package utils

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func multipartHeader(t *testing.T, field, filename string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestLocalStorageUpload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:5000/uploads/")
	require.NoError(t, err)

	fh := multipartHeader(t, "photo", "dish.jpg", []byte("jpeg-bytes"))
	url, err := store.Upload(context.Background(), fh, "raid-proofs/r1-1.jpg")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000/uploads/raid-proofs/r1-1.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "raid-proofs", "r1-1.jpg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(data))
}
