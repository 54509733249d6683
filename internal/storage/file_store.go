// Package storage keeps uploaded image blobs on the local filesystem.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const capturedImagesDir = "captured_images"

var (
	ErrNotImage    = errors.New("uploaded file is not an image")
	ErrInvalidPath = errors.New("invalid blob path")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// FileStore writes blobs below Root and exposes them below URLPrefix.
type FileStore struct {
	root      string
	urlPrefix string
}

func NewFileStore(root string, urlPrefix string) (*FileStore, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(absolute, capturedImagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &FileStore{
		root:      absolute,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (store *FileStore) Root() string {
	return store.root
}

func (store *FileStore) URLPrefix() string {
	return store.urlPrefix
}

// SaveImage stores an uploaded image and returns its path relative to the
// media root. The payload is sniffed and rejected unless it is an image.
func (store *FileStore) SaveImage(reader io.Reader) (string, error) {
	buffered := bufio.NewReaderSize(reader, 512)
	head, err := buffered.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	extension, ok := imageExtensions[contentType]
	if !ok {
		extension = ".img"
	}

	relative := path.Join(capturedImagesDir, uuid.NewString()+extension)
	destination := filepath.Join(store.root, filepath.FromSlash(relative))

	temp, err := os.CreateTemp(filepath.Dir(destination), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	_, copyErr := io.Copy(temp, buffered)
	closeErr := temp.Close()
	if copyErr != nil {
		_ = os.Remove(temp.Name())
		return "", fmt.Errorf("write blob: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(temp.Name())
		return "", fmt.Errorf("close blob: %w", closeErr)
	}
	if err := os.Rename(temp.Name(), destination); err != nil {
		_ = os.Remove(temp.Name())
		return "", fmt.Errorf("publish blob: %w", err)
	}
	return relative, nil
}

// Remove deletes a stored blob. Missing blobs are not an error.
func (store *FileStore) Remove(relative string) error {
	if strings.TrimSpace(relative) == "" {
		return nil
	}
	absolute, err := store.resolve(relative)
	if err != nil {
		return err
	}
	if err := os.Remove(absolute); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (store *FileStore) Exists(relative string) bool {
	absolute, err := store.resolve(relative)
	if err != nil {
		return false
	}
	info, err := os.Stat(absolute)
	return err == nil && !info.IsDir()
}

// URL maps a stored relative path to its public URL, or "" when unset.
func (store *FileStore) URL(relative string) string {
	if strings.TrimSpace(relative) == "" {
		return ""
	}
	return store.urlPrefix + "/" + strings.TrimLeft(relative, "/")
}

func (store *FileStore) resolve(relative string) (string, error) {
	cleaned := path.Clean("/" + filepath.ToSlash(relative))
	if cleaned == "/" {
		return "", ErrInvalidPath
	}
	absolute := filepath.Join(store.root, filepath.FromSlash(cleaned))
	if !strings.HasPrefix(absolute, store.root+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return absolute, nil
}
