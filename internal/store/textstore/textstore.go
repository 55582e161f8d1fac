package textstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chorely/internal/task"
)

// Plain-text storage, one task per line. Human-editable with any text
// editor; the whole file is rewritten on every change.
// No locking; fine for a local single-user tool.

// DefaultFileName is the task file looked up in the working directory
// when nothing else is configured.
const DefaultFileName = "tasks.txt"

// DefaultPath resolves the default task file in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// Store reads and writes one task file.
type Store struct {
	path string
}

func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("task file path is required")
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads the whole file. A missing file is an empty list, so the
// first run needs no setup.
func (s *Store) Load() (task.List, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return task.List{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	list := task.List{}
	for _, line := range strings.Split(string(b), "\n") {
		if t, ok := task.ParseLine(line); ok {
			list = append(list, t)
		}
	}
	return list, nil
}

// Save rewrites the whole file. The bytes land in a temp file first and
// are renamed over the target, so a crash or a concurrent reader never
// sees a partial list.
func (s *Store) Save(list task.List) error {
	var b strings.Builder
	for _, t := range list {
		b.WriteString(task.FormatLine(t))
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
