// Package resource implements the revisioned markdown resource store used for
// prompts and documents.
//
// Each resource is a directory "NNN-slug/" under the store root, holding
// current.md (the latest document) and a revisions/ directory of immutable
// numbered snapshots. A snapshot is written before each update, capturing the
// state being superseded, so current.md's revision counter is always one past
// the highest snapshot on disk. Deleting a resource removes the directory and
// its whole history; there is no tombstone.
//
// One Store instance serves one resource type with its own independent ID
// counter. Like the board store, the directory tree is the system of record:
// nothing is cached between operations.
package resource

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/steveyegge/mdboard/internal/frontmatter"
	"github.com/steveyegge/mdboard/internal/ident"
)

const (
	currentFileName  = "current.md"
	revisionsDirName = "revisions"
)

// Store manages one resource type (e.g. prompts, documents) under its own
// root directory.
type Store struct {
	root string
	kind string
}

// Resource is one parsed resource, identified by its directory name.
type Resource struct {
	DirName string               `json:"dir_name"`
	Meta    *frontmatter.Mapping `json:"meta"`
	Body    string               `json:"body"`
}

// Revision is one immutable snapshot from a resource's revisions/ directory.
type Revision struct {
	Filename string               `json:"filename"`
	Meta     *frontmatter.Mapping `json:"meta"`
	Body     string               `json:"body"`
}

// Fields carries caller-supplied content for create and update operations.
// Nil slices and empty strings mean "not supplied" on update.
type Fields struct {
	Title  string   `json:"title"`
	Scopes []string `json:"scopes"`
	Tags   []string `json:"tags"`
	Body   *string  `json:"body"`
}

// New opens a resource store of the given kind (the subdirectory name, e.g.
// "prompts") under projectRoot, creating the root directory if absent.
func New(projectRoot, kind string) (*Store, error) {
	root := filepath.Join(projectRoot, kind)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", kind, err)
	}
	return &Store{root: root, kind: kind}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Kind returns the resource type name.
func (s *Store) Kind() string {
	return s.kind
}

// List parses every resource directory containing a current.md, sorted by
// updated date (falling back to created), newest first.
func (s *Store) List() []Resource {
	out := []Resource{}
	for _, name := range s.dirNames() {
		res, err := s.read(name)
		if err != nil || res == nil {
			continue
		}
		out = append(out, *res)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortDate(out[i].Meta) > sortDate(out[j].Meta)
	})
	return out
}

// Get parses one resource's current.md. Absence is a normal outcome: nil
// resource, nil error.
func (s *Store) Get(dirName string) (*Resource, error) {
	return s.read(dirName)
}

// Create allocates the next ID for this resource type and writes a new
// resource at revision 1, with an identical initial snapshot under
// revisions/001.md.
func (s *Store) Create(fields Fields) (*Resource, error) {
	id := ident.NextDirID(s.root)
	title := fields.Title
	if title == "" {
		title = "Untitled"
	}
	dirName := fmt.Sprintf("%s-%s", ident.Pad(id), ident.Slugify(title))
	resDir := filepath.Join(s.root, dirName)
	revDir := filepath.Join(resDir, revisionsDirName)
	if err := os.MkdirAll(revDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create resource directory %s: %w", dirName, err)
	}

	now := today()
	meta := frontmatter.NewMapping()
	meta.Set("id", frontmatter.Int(id))
	meta.Set("title", frontmatter.String(title))
	meta.Set("created", frontmatter.String(now))
	meta.Set("updated", frontmatter.String(now))
	meta.Set("revision", frontmatter.Int(1))
	meta.Set("scopes", frontmatter.List(fields.Scopes...))
	if len(fields.Tags) > 0 {
		meta.Set("tags", frontmatter.List(fields.Tags...))
	}

	body := ""
	if fields.Body != nil {
		body = *fields.Body
	}

	content := frontmatter.SerializeDocument(meta, body+"\n")
	if err := os.WriteFile(filepath.Join(resDir, currentFileName), []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write current.md for %s: %w", dirName, err)
	}

	// Initial snapshot, identical body, minimal frontmatter.
	revMeta := frontmatter.NewMapping()
	revMeta.Set("revision", frontmatter.Int(1))
	revMeta.Set("created", frontmatter.String(now))
	revContent := frontmatter.SerializeDocument(revMeta, body+"\n")
	revPath := filepath.Join(revDir, ident.Pad(1)+".md")
	if err := os.WriteFile(revPath, []byte(revContent), 0644); err != nil {
		return nil, fmt.Errorf("failed to write initial revision for %s: %w", dirName, err)
	}

	return &Resource{DirName: dirName, Meta: meta, Body: body}, nil
}

// Update snapshots the current (pre-update) content under the old revision
// number, then overwrites current.md with the merged fields, an incremented
// revision, and today's updated date. A nil resource with nil error means
// the target does not exist. Snapshots are written first so a revision
// counter of R always means snapshots 1..R-1 exist.
func (s *Store) Update(dirName string, fields Fields) (*Resource, error) {
	resDir := filepath.Join(s.root, dirName)
	currentPath := filepath.Join(resDir, currentFileName)
	data, err := os.ReadFile(currentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read current.md for %s: %w", dirName, err)
	}
	meta, oldBody := frontmatter.ParseDocument(string(data))
	oldRev := meta.GetInt("revision", 1)

	// Snapshot the superseded state under the old revision number.
	revDir := filepath.Join(resDir, revisionsDirName)
	if err := os.MkdirAll(revDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create revisions directory for %s: %w", dirName, err)
	}
	snapDate := meta.GetString("updated")
	if snapDate == "" {
		snapDate = meta.GetString("created")
	}
	revMeta := frontmatter.NewMapping()
	revMeta.Set("revision", frontmatter.Int(oldRev))
	revMeta.Set("created", frontmatter.String(snapDate))
	// oldBody keeps its trailing newline from disk; normalize so the snapshot
	// ends with exactly one.
	revContent := frontmatter.SerializeDocument(revMeta, strings.TrimSuffix(oldBody, "\n")+"\n")
	revPath := filepath.Join(revDir, ident.Pad(oldRev)+".md")
	if err := os.WriteFile(revPath, []byte(revContent), 0644); err != nil {
		return nil, fmt.Errorf("failed to write revision snapshot for %s: %w", dirName, err)
	}

	meta.Set("revision", frontmatter.Int(oldRev+1))
	meta.Set("updated", frontmatter.String(today()))
	if fields.Title != "" {
		meta.Set("title", frontmatter.String(fields.Title))
	}
	if fields.Scopes != nil {
		meta.Set("scopes", frontmatter.List(fields.Scopes...))
	}
	if fields.Tags != nil {
		meta.Set("tags", frontmatter.List(fields.Tags...))
	}
	newBody := oldBody
	if fields.Body != nil {
		newBody = *fields.Body
	} else {
		// oldBody came off disk with its trailing newline intact; strip the
		// one the serializer re-appends.
		newBody = strings.TrimSuffix(newBody, "\n")
	}

	content := frontmatter.SerializeDocument(meta, newBody+"\n")
	if err := os.WriteFile(currentPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write current.md for %s: %w", dirName, err)
	}
	return &Resource{DirName: dirName, Meta: meta, Body: newBody}, nil
}

// Delete removes the resource directory and all revision history. Returns
// false when the resource does not exist.
func (s *Store) Delete(dirName string) (bool, error) {
	resDir := filepath.Join(s.root, dirName)
	info, err := os.Stat(resDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat resource %s: %w", dirName, err)
	}
	if !info.IsDir() {
		return false, nil
	}
	if err := os.RemoveAll(resDir); err != nil {
		return false, fmt.Errorf("failed to delete resource %s: %w", dirName, err)
	}
	return true, nil
}

// Revisions lists a resource's immutable snapshots in ascending revision
// order. A resource with no revisions directory has none.
func (s *Store) Revisions(dirName string) []Revision {
	revDir := filepath.Join(s.root, dirName, revisionsDirName)
	entries, err := os.ReadDir(revDir)
	if err != nil {
		return []Revision{}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	out := make([]Revision, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(revDir, name))
		if err != nil {
			continue
		}
		meta, body := frontmatter.ParseDocument(string(data))
		out = append(out, Revision{Filename: name, Meta: meta, Body: body})
	}
	return out
}

// Revision reads one snapshot. The token may be given with or without the
// .md extension. Absence is a normal outcome: nil revision, nil error.
func (s *Store) Revision(dirName, token string) (*Revision, error) {
	if !strings.HasSuffix(token, ".md") {
		token += ".md"
	}
	path := filepath.Join(s.root, dirName, revisionsDirName, token)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read revision %s/%s: %w", dirName, token, err)
	}
	meta, body := frontmatter.ParseDocument(string(data))
	return &Revision{Filename: token, Meta: meta, Body: body}, nil
}

// Digest folds each resource directory's name and its current.md mtime into
// a hash, the resource-store counterpart of the board digest.
func (s *Store) Digest() string {
	h := sha256.New()
	for _, name := range s.dirNames() {
		info, err := os.Stat(filepath.Join(s.root, name, currentFileName))
		if err != nil {
			continue
		}
		fmt.Fprintf(h, "%s:%d", name, info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))
}

// read parses one resource, returning nil when current.md is absent.
func (s *Store) read(dirName string) (*Resource, error) {
	path := filepath.Join(s.root, dirName, currentFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read resource %s: %w", dirName, err)
	}
	meta, body := frontmatter.ParseDocument(string(data))
	return &Resource{DirName: dirName, Meta: meta, Body: body}, nil
}

// dirNames returns the sorted resource directory names.
func (s *Store) dirNames() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// sortDate returns the date a resource sorts by: updated, else created.
func sortDate(meta *frontmatter.Mapping) string {
	if d := meta.GetString("updated"); d != "" {
		return d
	}
	return meta.GetString("created")
}

func today() string {
	return time.Now().Format("2006-01-02")
}
