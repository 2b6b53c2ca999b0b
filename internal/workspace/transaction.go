package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// transaction records what it changed on disk so a failed edit can be undone
type transaction struct {
	createdFiles []string
	createdDirs  []string
	written      []pendingDocument
}

func (t *transaction) run(creates []pendingCreate, documents []pendingDocument) error {
	for _, c := range creates {
		if err := t.mkdirAll(filepath.Dir(c.path)); err != nil {
			return fmt.Errorf("creating directory for %s: %w", c.path, err)
		}
		if err := t.create(c); err != nil {
			return err
		}
	}

	for _, doc := range documents {
		if err := WriteFile(doc.path, []byte(doc.updated)); err != nil {
			return fmt.Errorf("writing %s: %w", doc.path, err)
		}
		t.written = append(t.written, doc)
	}
	return nil
}

func (t *transaction) create(c pendingCreate) error {
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &FileExistsError{Path: c.path}
		}
		return fmt.Errorf("creating %s: %w", c.path, err)
	}
	t.createdFiles = append(t.createdFiles, c.path)

	if _, err := f.WriteString(c.contents); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", c.path, err)
	}
	return f.Close()
}

// mkdirAll creates dir and remembers each directory it had to create, outermost first
func (t *transaction) mkdirAll(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		t.createdDirs = append(t.createdDirs, missing[i])
	}
	return nil
}

func (t *transaction) rollback() error {
	var errs []error

	for i := len(t.written) - 1; i >= 0; i-- {
		doc := t.written[i]
		if err := WriteFile(doc.path, doc.original); err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", doc.path, err))
		}
	}
	for i := len(t.createdFiles) - 1; i >= 0; i-- {
		if err := os.Remove(t.createdFiles[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", t.createdFiles[i], err))
		}
	}
	for i := len(t.createdDirs) - 1; i >= 0; i-- {
		// only empty directories are removed
		_ = os.Remove(t.createdDirs[i])
	}

	return errors.Join(errs...)
}
