package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps uploads on disk; main serves Dir under /uploads.
type LocalStorage struct {
	Dir     string
	BaseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to ensure upload dir: %w", err)
	}
	return &LocalStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *LocalStorage) Upload(_ context.Context, fileHeader *multipart.FileHeader, key string) (string, error) {
	dest := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := SaveFile(fileHeader, dest); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + key, nil
}

// SaveFile saves the uploaded file to the given destination path
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}

var allowedPhotoExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// PhotoExt returns the lowercased extension of filename, or "" when it is
// not an accepted image type.
func PhotoExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedPhotoExt[ext] {
		return ""
	}
	return ext
}
