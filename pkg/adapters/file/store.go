package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/protostate/pkg/ports"
)

// ErrInvalidName is returned for document ids or keys that cannot be used as file names.
var ErrInvalidName = errors.New("invalid name")

// Store implements ports.DocumentStore using the local filesystem.
// Each document is a directory holding one file per key.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".protostate/documents".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".protostate", "documents")
	}
	return &Store{BasePath: basePath}
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (s *Store) path(document, key string) (string, error) {
	if err := checkName(document); err != nil {
		return "", err
	}
	if err := checkName(key); err != nil {
		return "", err
	}
	return filepath.Join(s.BasePath, document, key+".json"), nil
}

// Get reads the blob stored under key for document.
func (s *Store) Get(ctx context.Context, document, key string) (string, error) {
	path, err := s.path(document, key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("failed to read document file: %w", err)
	}
	return string(data), nil
}

// Set persists the blob atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Set(ctx context.Context, document, key, value string) error {
	destPath, err := s.path(document, key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(destPath)

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure document directory: %w", err)
	}

	// 1. Create Temp File in the same directory (required for atomic rename)
	tmpFile, err := os.CreateTemp(dir, "tmp-"+key+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	// 2. Write Data
	if _, err := tmpFile.WriteString(value); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	// 3. Fsync to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// 4. Close File (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// 5. Atomic Rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Delete removes the document directory.
func (s *Store) Delete(ctx context.Context, document string) error {
	if err := checkName(document); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.BasePath, document)); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// List returns the ids of all document directories.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			docs = append(docs, entry.Name())
		}
	}
	sort.Strings(docs)
	return docs, nil
}
