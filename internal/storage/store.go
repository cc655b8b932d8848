package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Store I/O failures, one sentinel per recoverable condition.
var (
	ErrNotFound     = errors.New("article not found")
	ErrWriteFailed  = errors.New("article write failed")
	ErrDeleteFailed = errors.New("article delete failed")
	ErrRenameFailed = errors.New("article rename failed")
	ErrBackupFailed = errors.New("article backup failed")
	ErrPatchFailed  = errors.New("patch does not apply")
)

// Store keeps article sources as files under <root>/articles. Titles
// are opaque keys; percent-encoding keeps any title filesystem-safe.
// Writes go through an atomic rename, so readers never observe a
// half-written file.
type Store struct {
	dir string
}

// New creates (if needed) the articles directory under root.
func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	dir := filepath.Join(abs, "articles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create articles dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the article files.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(title string) string {
	return filepath.Join(s.dir, url.PathEscape(title)+".md")
}

// TitleFromFile decodes an article file name back into its title.
func TitleFromFile(name string) (string, error) {
	return url.PathUnescape(strings.TrimSuffix(filepath.Base(name), ".md"))
}

// Titles lists every stored article title. Backup files (title~ts) are
// excluded.
func (s *Store) Titles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("storage: list articles: %w", err)
	}
	var titles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || strings.Contains(name, "~") {
			continue
		}
		title, err := TitleFromFile(name)
		if err != nil {
			continue
		}
		titles = append(titles, title)
	}
	return titles, nil
}

// Get reads the stored source for a title.
func (s *Store) Get(title string) (string, error) {
	data, err := os.ReadFile(s.path(title))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return string(data), nil
}

// Write stores source under title, replacing any previous content.
func (s *Store) Write(title, content string) error {
	if err := atomic.WriteFile(s.path(title), strings.NewReader(content)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFailed, title, err)
	}
	return nil
}

// Delete removes a stored article.
func (s *Store) Delete(title string) error {
	if err := os.Remove(s.path(title)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrDeleteFailed, title, err)
	}
	return nil
}

// Rename moves an article to a new title.
func (s *Store) Rename(oldTitle, newTitle string) error {
	if _, err := os.Stat(s.path(oldTitle)); err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, oldTitle)
	}
	if err := os.Rename(s.path(oldTitle), s.path(newTitle)); err != nil {
		return fmt.Errorf("%w: %q -> %q: %v", ErrRenameFailed, oldTitle, newTitle, err)
	}
	return nil
}
