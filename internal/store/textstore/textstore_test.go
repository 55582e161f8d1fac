package textstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"chorely/internal/task"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tasks.txt"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New("   "); err == nil {
		t.Fatal("New with a blank path should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)
	list, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("Load = %d tasks, want 0", len(list))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	want := task.List{
		{Title: "buy milk"},
		{Title: "walk dog", Done: true, DoneOn: time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local)},
		{Title: "homework", Window: task.Window{Start: 16 * 60, End: 17 * 60}, Days: task.EveryDay},
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSkipsBlankLinesAndCRLF(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tasks.txt")
	raw := "buy milk\r\n\r\n   \nwalk dog\n\n"
	if err := os.WriteFile(p, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := task.List{{Title: "buy milk"}, {Title: "walk dog"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveWritesCanonicalLines(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tasks.txt")
	raw := "  x   2026-08-24   buy milk  \r\nhomework on:sat at:16:00-17:00\n"
	if err := os.WriteFile(p, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	list, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(list); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	want := "x 2026-08-24 buy milk\nhomework at:16:00-17:00 on:sat\n"
	if string(b) != want {
		t.Errorf("file = %q, want %q", b, want)
	}
}

func TestSaveRemovesDroppedLines(t *testing.T) {
	s := newStore(t)
	if err := s.Save(task.List{{Title: "a"}, {Title: "b"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(task.List{{Title: "b"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "b\n" {
		t.Errorf("file = %q, want %q", b, "b\n")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newStore(t)
	if err := s.Save(task.List{{Title: "a"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.txt" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory = %v, want only tasks.txt", names)
	}
}

func TestLoadReadError(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Load(); err == nil {
		t.Fatal("Load on a directory should fail")
	}
}
