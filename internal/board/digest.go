package board

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Digest folds every task file's (column-qualified name, mtime-nanoseconds)
// pair across all configured columns into a hash. Content is deliberately not
// hashed: the cost is O(file count), not O(content size). The column is part
// of the fold so a move, which preserves both filename and mtime, still
// changes the token. A polling client compares successive digests to decide
// whether anything changed.
func (s *Store) Digest() string {
	h := sha256.New()
	for _, col := range s.cfg.ColumnNames() {
		dir := filepath.Join(s.root, col)
		for _, name := range listMarkdown(dir) {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			fmt.Fprintf(h, "%s/%s:%d", col, name, info.ModTime().UnixNano())
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
