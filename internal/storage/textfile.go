package storage

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"expensetracker/internal/codec"
	"expensetracker/internal/core"
)

// DefaultFile is the file used when no path is configured.
const DefaultFile = "expenses.txt"

const maxLineSize = 1 << 20

// TextFile stores one encoded expense per line in a plain text file.
type TextFile struct {
	path string
}

var _ Repository = (*TextFile)(nil)

func NewTextFile(path string) *TextFile {
	if path == "" {
		path = DefaultFile
	}
	return &TextFile{path: path}
}

func (t *TextFile) Path() string { return t.path }

// SaveAll overwrites the file with one line per item. The new content is
// written to a temporary file and renamed over the target, so a failed save
// leaves the previous file intact.
func (t *TextFile) SaveAll(ctx context.Context, items []core.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkWritable(t.path); err != nil {
		return &IOError{Op: "open", Path: t.path, Err: err}
	}

	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: t.path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, e := range items {
		if _, err := w.WriteString(codec.Encode(e) + "\n"); err != nil {
			return &IOError{Op: "write", Path: t.path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &IOError{Op: "write", Path: t.path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &IOError{Op: "chmod", Path: t.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOError{Op: "sync", Path: t.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: t.path, Err: err}
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		return &IOError{Op: "rename", Path: t.path, Err: err}
	}
	committed = true

	slog.DebugContext(ctx, "Expenses written", "path", t.path, "count", len(items))
	return nil
}

// LoadAll reads every line of the file. A missing file is created empty and
// yields an empty list. The first malformed line aborts the load with a
// *codec.FormatError carrying its line number; no records are returned then.
func (t *TextFile) LoadAll(ctx context.Context) ([]core.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := createEmpty(t.path); err != nil {
			return nil, &IOError{Op: "create", Path: t.path, Err: err}
		}
		slog.InfoContext(ctx, "Created empty expenses file", "path", t.path)
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: t.path, Err: err}
	}
	defer f.Close()

	items := []core.Expense{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := codec.Decode(line)
		if err != nil {
			return nil, codec.AtLine(err, n)
		}
		items = append(items, e)
	}
	if err := sc.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: t.path, Err: err}
	}
	return items, nil
}

func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func createEmpty(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
