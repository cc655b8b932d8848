package article

import (
	"errors"
	"regexp"
	"strings"

	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

var hunkHeaderPattern = regexp.MustCompile(`(?m)^@@[^@]+@@`)

// GeneratePatch produces a unified diff between two versions of an
// article. The titles travel in the patch header, so a rename is part
// of the edit itself.
func GeneratePatch(oldTitle, newTitle, base, updated string) string {
	patch := godiffpatch.GeneratePatch(oldTitle, base, updated)
	if newTitle != oldTitle {
		patch = strings.Replace(patch, "+++ b/"+oldTitle, "+++ b/"+newTitle, 1)
	}
	return patch
}

// PatchNames extracts the old and new article titles from a unified
// diff header. Differing names signal a rename. The names are read
// straight off the ---/+++ lines; titles may contain spaces, so the
// header lines are sliced, not word-split.
func PatchNames(patch string) (oldName, newName string, err error) {
	var haveOld, haveNew bool
	for _, line := range strings.Split(patch, "\n") {
		// Header lines only occur before the first hunk; a body line
		// holding dashes is prefixed by its hunk marker and never
		// matches.
		if strings.HasPrefix(line, "@@") {
			break
		}
		if name, ok := strings.CutPrefix(line, "--- "); ok {
			oldName = headerName(name, "a/")
			haveOld = true
		}
		if name, ok := strings.CutPrefix(line, "+++ "); ok {
			newName = headerName(name, "b/")
			haveNew = true
		}
	}
	if !haveOld || !haveNew {
		return "", "", errors.New("patch has no file header")
	}
	return oldName, newName, nil
}

func headerName(name, prefix string) string {
	if i := strings.IndexByte(name, '\t'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(name, prefix)
}

// CountHunks counts the @@-delimited hunks in a patch.
func CountHunks(patch string) int {
	return len(hunkHeaderPattern.FindAllString(patch, -1))
}

// IsEmptyPatch reports whether a patch changes nothing.
func IsEmptyPatch(patch string) bool {
	return CountHunks(patch) == 0
}
