package storage

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// applyPatch applies a single-file unified diff to content. Standard
// hunk semantics: a hunk whose context does not match the current
// content fails the whole patch.
func applyPatch(content, patch string) (string, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPatchFailed, err)
	}
	if len(files) != 1 {
		return "", fmt.Errorf("%w: expected one file header, got %d", ErrPatchFailed, len(files))
	}
	var out bytes.Buffer
	if err := gitdiff.Apply(&out, strings.NewReader(content), files[0]); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPatchFailed, err)
	}
	return out.String(), nil
}

// Patch applies a unified diff to a stored article and writes the
// result back, returning the patched content.
func (s *Store) Patch(title, patch string) (string, error) {
	content, err := s.Get(title)
	if err != nil {
		return "", err
	}
	patched, err := applyPatch(content, patch)
	if err != nil {
		return "", err
	}
	if err := s.Write(title, patched); err != nil {
		return "", err
	}
	return patched, nil
}

// PatchAndRename applies a patch and renames the article in one
// sequence. A timestamped backup of the pre-patch content is written
// first and removed last; every step short-circuits with its own
// sentinel error, so a failure never leaves the article half-patched
// or half-renamed; at worst the backup lingers next to an untouched
// original. When only the final backup cleanup fails, the patched
// content is still returned alongside the error: the edit itself has
// already succeeded.
//
// Callers decide between Patch and PatchAndRename by comparing the
// names in the patch header; this sequence always renames.
func (s *Store) PatchAndRename(oldTitle, newTitle, patch string) (string, error) {
	content, err := s.Get(oldTitle)
	if err != nil {
		return "", err
	}

	backup := fmt.Sprintf("%s~%d", oldTitle, time.Now().UnixMilli())
	if err := s.Write(backup, content); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrBackupFailed, oldTitle, err)
	}

	patched, err := s.Patch(oldTitle, patch)
	if err != nil {
		return "", err
	}

	if err := s.Rename(oldTitle, newTitle); err != nil {
		return "", err
	}

	if err := s.Delete(backup); err != nil {
		return patched, err
	}
	return patched, nil
}
