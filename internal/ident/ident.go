// Package ident provides ID allocation and filename slugs for mdboard stores.
//
// The filesystem itself is the ID counter: the next ID is one past the highest
// leading "NNN-" number found among the scanned entries. No counter is
// persisted, so allocation is repeatable but not safe against concurrent
// callers (single-writer model).
package ident

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var idPrefix = regexp.MustCompile(`^(\d+)-`)

// NextFileID scans the immediate files of each directory for names with a
// leading "NNN-" prefix and returns the highest number found plus one, or 1
// when none exist. Missing directories are skipped, not errors.
func NextFileID(dirs ...string) int {
	maxID := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			if id, ok := leadingID(entry.Name()); ok && id > maxID {
				maxID = id
			}
		}
	}
	return maxID + 1
}

// NextDirID scans the immediate subdirectories of dir the same way NextFileID
// scans files. Used by resource stores, where each resource is a directory.
func NextDirID(dir string) int {
	maxID := 0
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if id, ok := leadingID(entry.Name()); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// leadingID extracts the numeric prefix from names like "005-fix-login.md".
func leadingID(name string) (int, bool) {
	m := idPrefix.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Pad formats an ID zero-padded to at least three digits, the filename
// convention shared by tasks, resources, and revision snapshots.
func Pad(id int) string {
	return fmt.Sprintf("%03d", id)
}

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`[\s_]+`)
	hyphenRun  = regexp.MustCompile(`-+`)
)

// Slugify derives a filename-safe slug from a title or author name:
// lowercased, punctuation stripped, whitespace and underscore runs collapsed
// to single hyphens, repeated hyphens collapsed, edges trimmed. A title with
// no usable characters produces an empty slug.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = nonWord.ReplaceAllString(slug, "")
	slug = whitespace.ReplaceAllString(slug, "-")
	slug = hyphenRun.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
