package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

var ErrFileExists = errors.New("file already exists")

// FileExistsError reports a create operation whose target is taken
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, ErrFileExists)
}

func (e *FileExistsError) Is(target error) bool {
	return target == ErrFileExists
}

// DiagnosticLister supplies the diagnostics for a document
type DiagnosticLister interface {
	For(path string) []types.Diagnostic
}

// FS is a workspace on the local file system
type FS struct {
	diagnostics DiagnosticLister
}

// NewFS returns a file system workspace; diags may be nil when no report is available
func NewFS(diags DiagnosticLister) *FS {
	return &FS{diagnostics: diags}
}

// ReadDocumentText returns the current contents of path
func (w *FS) ReadDocumentText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ListDiagnostics returns the diagnostics known for path
func (w *FS) ListDiagnostics(ctx context.Context, path string) ([]types.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.diagnostics == nil {
		return nil, nil
	}
	return w.diagnostics.For(path), nil
}

// ApplyEdit performs every operation of edit or none of them. Existing files are never overwritten.
func (w *FS) ApplyEdit(ctx context.Context, edit types.WorkspaceEdit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	creates, documents, err := w.prepare(edit)
	if err != nil {
		return err
	}

	tx := &transaction{}
	if err := tx.run(creates, documents); err != nil {
		if rbErr := tx.rollback(); rbErr != nil {
			logger.Error("Rollback incomplete: %v", rbErr)
		}
		return err
	}

	logger.Debug("Applied edit: %d files created, %d documents updated", len(creates), len(documents))
	return nil
}

type pendingCreate struct {
	path     string
	contents string
}

type pendingDocument struct {
	path     string
	original []byte
	updated  string
}

type pendingInsert struct {
	pos   types.Position
	order int
	text  string
}

// prepare validates the edit and computes final document contents without touching disk
func (w *FS) prepare(edit types.WorkspaceEdit) ([]pendingCreate, []pendingDocument, error) {
	var creates []pendingCreate
	created := make(map[string]string)
	inserts := make(map[string][]pendingInsert)
	var docOrder []string

	for i, op := range edit.Operations {
		path := filepath.Clean(op.Path)

		switch op.Kind {
		case types.OpCreateFile:
			if _, dup := created[path]; dup {
				return nil, nil, &FileExistsError{Path: path}
			}
			if _, err := os.Stat(path); err == nil {
				if op.IgnoreIfExists {
					continue
				}
				return nil, nil, &FileExistsError{Path: path}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, nil, fmt.Errorf("checking %s: %w", path, err)
			}
			created[path] = op.Contents
			creates = append(creates, pendingCreate{path: path, contents: op.Contents})

		case types.OpInsertText:
			if _, ok := inserts[path]; !ok {
				docOrder = append(docOrder, path)
			}
			inserts[path] = append(inserts[path], pendingInsert{pos: op.Position, order: i, text: op.Text})

		default:
			return nil, nil, fmt.Errorf("unsupported edit operation %s", op.Kind)
		}
	}

	documents := make([]pendingDocument, 0, len(docOrder))
	for _, path := range docOrder {
		doc := pendingDocument{path: path}

		if contents, ok := created[path]; ok {
			doc.updated = contents
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, fmt.Errorf("reading %s: %w", path, err)
			}
			doc.original = data
			doc.updated = string(data)
		}

		updated, err := applyInserts(doc.updated, inserts[path])
		if err != nil {
			return nil, nil, fmt.Errorf("editing %s: %w", path, err)
		}
		doc.updated = updated

		// a document created by this edit is written once, with its insertions
		if _, ok := created[path]; ok {
			for i := range creates {
				if creates[i].path == path {
					creates[i].contents = updated
				}
			}
			continue
		}
		documents = append(documents, doc)
	}

	return creates, documents, nil
}

// applyInserts applies insertions against the original text; equal positions keep edit order
func applyInserts(text string, inserts []pendingInsert) (string, error) {
	type located struct {
		offset int
		order  int
		text   string
	}

	lines := strings.SplitAfter(text, "\n")
	locs := make([]located, 0, len(inserts))
	for _, ins := range inserts {
		off, err := offsetOf(lines, ins.pos)
		if err != nil {
			return "", err
		}
		locs = append(locs, located{offset: off, order: ins.order, text: ins.text})
	}
	sort.SliceStable(locs, func(i, j int) bool {
		if locs[i].offset != locs[j].offset {
			return locs[i].offset < locs[j].offset
		}
		return locs[i].order < locs[j].order
	})

	var b strings.Builder
	last := 0
	for _, l := range locs {
		b.WriteString(text[last:l.offset])
		b.WriteString(l.text)
		last = l.offset
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func offsetOf(lines []string, pos types.Position) (int, error) {
	if pos.Line == 0 && pos.Character == 0 {
		return 0, nil
	}
	if pos.Line < 0 || pos.Line >= len(lines) {
		return 0, fmt.Errorf("line %d out of range", pos.Line)
	}
	col, ok := pos.ByteColumn(strings.TrimRight(lines[pos.Line], "\r\n"))
	if !ok {
		return 0, fmt.Errorf("character %d out of range on line %d", pos.Character, pos.Line)
	}
	off := 0
	for _, l := range lines[:pos.Line] {
		off += len(l)
	}
	return off + col, nil
}
