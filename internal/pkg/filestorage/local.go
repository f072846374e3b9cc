package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emblabrowall/donosti-guide/internal/pkg/logger"
)

// LocalStorage saves photos to a directory served by the API under baseURL
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the directory if needed
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local photo directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

func cleanObjectName(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid photo name %q", name)
	}
	return name, nil
}

// SavePhoto implements PhotoStorage
func (ls *LocalStorage) SavePhoto(ctx context.Context, name string, photo *Photo) (string, error) {
	name, err := cleanObjectName(name)
	if err != nil {
		return "", err
	}

	dstPath := filepath.Join(ls.basePath, name)
	if err := os.WriteFile(dstPath, photo.Data, 0o644); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	logger.Debug().Str("path", dstPath).Int("bytes", len(photo.Data)).Msg("Photo saved")
	return ls.baseURL + "/" + name, nil
}

// DeletePhoto implements PhotoStorage
func (ls *LocalStorage) DeletePhoto(ctx context.Context, name string) error {
	name, err := cleanObjectName(name)
	if err != nil {
		return err
	}

	physicalPath := filepath.Join(ls.basePath, name)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// Dir is the directory served as static files
func (ls *LocalStorage) Dir() string {
	return ls.basePath
}
