package resource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newTestStore opens a prompts store on a fresh temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), "prompts")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return s
}

// strptr is a convenience for Fields.Body.
func strptr(s string) *string {
	return &s
}

func TestCreateResource(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Create(Fields{Title: "Release checklist", Body: strptr("v1")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.DirName != "001-release-checklist" {
		t.Errorf("DirName = %q, want %q", res.DirName, "001-release-checklist")
	}
	if got := res.Meta.GetInt("revision", 0); got != 1 {
		t.Errorf("revision = %d, want 1", got)
	}
	if got := res.Meta.GetInt("id", 0); got != 1 {
		t.Errorf("id = %d, want 1", got)
	}

	// Initial snapshot exists and matches current.
	revs := s.Revisions(res.DirName)
	if len(revs) != 1 {
		t.Fatalf("len(Revisions()) = %d, want 1", len(revs))
	}
	if revs[0].Filename != "001.md" {
		t.Errorf("snapshot filename = %q, want %q", revs[0].Filename, "001.md")
	}
	if got := revs[0].Meta.GetInt("revision", 0); got != 1 {
		t.Errorf("snapshot revision = %d, want 1", got)
	}
	if revs[0].Body != "v1\n" {
		t.Errorf("snapshot body = %q, want %q", revs[0].Body, "v1\n")
	}
}

func TestUpdateSnapshotsPreUpdateState(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(Fields{Title: "Release checklist", Body: strptr("v1")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := s.Update(res.DirName, Fields{Body: strptr("v2")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated == nil {
		t.Fatal("Update() = nil, want resource")
	}
	if got := updated.Meta.GetInt("revision", 0); got != 2 {
		t.Errorf("revision = %d, want 2", got)
	}
	if updated.Body != "v2" {
		t.Errorf("body = %q, want %q", updated.Body, "v2")
	}

	// revisions/001.md holds the superseded v1; no 002.md exists yet.
	rev, err := s.Revision(res.DirName, "001")
	if err != nil || rev == nil {
		t.Fatalf("Revision(001) = %v, %v", rev, err)
	}
	if rev.Body != "v1\n" {
		t.Errorf("snapshot body = %q, want %q", rev.Body, "v1\n")
	}
	if got := rev.Meta.GetInt("revision", 0); got != 1 {
		t.Errorf("snapshot revision = %d, want 1", got)
	}
	if _, statErr := os.Stat(filepath.Join(s.Root(), res.DirName, "revisions", "002.md")); !os.IsNotExist(statErr) {
		t.Error("revisions/002.md must not exist until the next update")
	}
}

func TestRevisionMonotonicity(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(Fields{Title: "Doc", Body: strptr("r1")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const updates = 4
	bodies := []string{"r2", "r3", "r4", "r5"}
	for _, b := range bodies {
		if _, err := s.Update(res.DirName, Fields{Body: strptr(b)}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	current, err := s.Get(res.DirName)
	if err != nil || current == nil {
		t.Fatalf("Get() = %v, %v", current, err)
	}
	if got := current.Meta.GetInt("revision", 0); got != updates+1 {
		t.Errorf("revision = %d, want %d", got, updates+1)
	}

	revs := s.Revisions(res.DirName)
	if len(revs) != updates {
		t.Fatalf("len(Revisions()) = %d, want %d", len(revs), updates)
	}
	wantBodies := []string{"r1\n", "r2\n", "r3\n", "r4\n"}
	for i, rev := range revs {
		if got := rev.Meta.GetInt("revision", 0); got != i+1 {
			t.Errorf("snapshot[%d] revision = %d, want %d", i, got, i+1)
		}
		if rev.Body != wantBodies[i] {
			t.Errorf("snapshot[%d] body = %q, want %q", i, rev.Body, wantBodies[i])
		}
	}
}

func TestUpdateWithoutBodyKeepsContent(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(Fields{Title: "Stable", Body: strptr("unchanged")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := s.Update(res.DirName, Fields{Title: "Renamed"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	current, err := s.Get(res.DirName)
	if err != nil || current == nil {
		t.Fatalf("Get() = %v, %v", current, err)
	}
	if got := current.Meta.GetString("title"); got != "Renamed" {
		t.Errorf("title = %q, want %q", got, "Renamed")
	}
	if current.Body != "unchanged\n" {
		t.Errorf("body = %q, want %q", current.Body, "unchanged\n")
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Update("404-ghost", Fields{Body: strptr("x")})
	if err != nil {
		t.Fatalf("Update() error = %v, want nil", err)
	}
	if res != nil {
		t.Error("Update() on missing resource should report not found")
	}
	if _, statErr := os.Stat(filepath.Join(s.Root(), "404-ghost")); !os.IsNotExist(statErr) {
		t.Error("Update() must not create missing resource directories")
	}
}

func TestDeleteRemovesHistory(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(Fields{Title: "Doomed", Body: strptr("x")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := s.Update(res.DirName, Fields{Body: strptr("y")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	ok, err := s.Delete(res.DirName)
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}
	if _, statErr := os.Stat(filepath.Join(s.Root(), res.DirName)); !os.IsNotExist(statErr) {
		t.Error("resource directory still exists after delete")
	}

	ok, err = s.Delete(res.DirName)
	if err != nil || ok {
		t.Errorf("Delete() on missing resource = %v, %v, want false, nil", ok, err)
	}
}

func TestIDsIndependentPerType(t *testing.T) {
	root := t.TempDir()
	prompts, err := New(root, "prompts")
	if err != nil {
		t.Fatalf("Failed to open prompts store: %v", err)
	}
	documents, err := New(root, "documents")
	if err != nil {
		t.Fatalf("Failed to open documents store: %v", err)
	}

	p, err := prompts.Create(Fields{Title: "P"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	d, err := documents.Create(Fields{Title: "D"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Meta.GetInt("id", 0) != 1 || d.Meta.GetInt("id", 0) != 1 {
		t.Error("resource types must allocate IDs independently")
	}
}

func TestIDNotReusedAfterDeletion(t *testing.T) {
	s := newTestStore(t)
	first, err := s.Create(Fields{Title: "One"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := s.Create(Fields{Title: "Two"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ok, _ := s.Delete(first.DirName); !ok {
		t.Fatal("Delete() failed")
	}

	third, err := s.Create(Fields{Title: "Three"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// 002 still exists, so the next ID is 3; the deleted 001 slot stays free
	// because IDs anchor identity, not names.
	if got := third.Meta.GetInt("id", 0); got != second.Meta.GetInt("id", 0)+1 {
		t.Errorf("id after deletion = %d, want %d", got, second.Meta.GetInt("id", 0)+1)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"Alpha", "Beta"} {
		if _, err := s.Create(Fields{Title: title}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	// Backdate Alpha so Beta sorts first.
	alphaPath := filepath.Join(s.Root(), "001-alpha", "current.md")
	data, err := os.ReadFile(alphaPath)
	if err != nil {
		t.Fatalf("Failed to read current.md: %v", err)
	}
	today := time.Now().Format("2006-01-02")
	backdated := []byte(strings.Replace(string(data), "updated: "+today, "updated: 2020-01-01", 1))
	if err := os.WriteFile(alphaPath, backdated, 0644); err != nil {
		t.Fatalf("Failed to backdate: %v", err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(list))
	}
	if list[0].DirName != "002-beta" {
		t.Errorf("List()[0] = %q, want %q (newest first)", list[0].DirName, "002-beta")
	}
}

func TestRevisionTokenExtensionOptional(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(Fields{Title: "Tok", Body: strptr("x")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, token := range []string{"001", "001.md"} {
		rev, err := s.Revision(res.DirName, token)
		if err != nil || rev == nil {
			t.Errorf("Revision(%q) = %v, %v, want snapshot", token, rev, err)
		}
	}

	rev, err := s.Revision(res.DirName, "099")
	if err != nil || rev != nil {
		t.Errorf("Revision(099) = %v, %v, want nil, nil", rev, err)
	}
}

func TestDigestChangesOnUpdate(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(Fields{Title: "Watched", Body: strptr("a")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	base := s.Digest()
	if s.Digest() != base {
		t.Error("digest unstable without changes")
	}

	if _, err := s.Update(res.DirName, Fields{Body: strptr("b")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	// Force a distinct mtime in case the filesystem clock is coarse.
	currentPath := filepath.Join(s.Root(), res.DirName, "current.md")
	info, err := os.Stat(currentPath)
	if err != nil {
		t.Fatalf("Failed to stat current.md: %v", err)
	}
	bumped := info.ModTime().Add(2 * time.Second)
	if err := os.Chtimes(currentPath, bumped, bumped); err != nil {
		t.Fatalf("Failed to bump mtime: %v", err)
	}

	if s.Digest() == base {
		t.Error("digest unchanged after update")
	}
}

