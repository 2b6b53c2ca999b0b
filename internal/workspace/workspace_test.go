package workspace

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

const controller = "export class OrdersController {\n\tpay(body: PaymentDto) {}\n}\n"

type staticDiagnostics map[string][]types.Diagnostic

func (s staticDiagnostics) For(path string) []types.Diagnostic {
	return s[path]
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestApplyEditCreatesFileAndInsertsImport(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "orders.controller.ts")
	target := filepath.Join(dir, "dto", "payment.dto.ts")
	writeFile(t, doc, controller)

	var edit types.WorkspaceEdit
	edit.CreateFile(target, "export class PaymentDto {}")
	edit.Insert(doc, types.Position{}, "import { PaymentDto } from './dto/payment.dto';\n")

	require.NoError(t, NewFS(nil).ApplyEdit(context.Background(), edit))

	assert.Equal(t, "export class PaymentDto {}", readFile(t, target))
	assert.Equal(t, "import { PaymentDto } from './dto/payment.dto';\n"+controller, readFile(t, doc))
}

func TestApplyEditInsertOrder(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "a.ts")
	writeFile(t, doc, "line0\nline1\n")

	var edit types.WorkspaceEdit
	edit.Insert(doc, types.Position{}, "first\n")
	edit.Insert(doc, types.Position{Line: 1, Character: 4}, "X")
	edit.Insert(doc, types.Position{}, "second\n")

	require.NoError(t, NewFS(nil).ApplyEdit(context.Background(), edit))
	assert.Equal(t, "first\nsecond\nline0\nlineX1\n", readFile(t, doc))
}

func TestApplyEditInsertAfterNonASCII(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "a.ts")
	writeFile(t, doc, "// 😀 é\n")

	var edit types.WorkspaceEdit
	edit.Insert(doc, types.Position{Line: 0, Character: 5}, "!")

	require.NoError(t, NewFS(nil).ApplyEdit(context.Background(), edit))
	assert.Equal(t, "// 😀! é\n", readFile(t, doc))
}

func TestApplyEditExistingTargetChangesNothing(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "orders.controller.ts")
	fresh := filepath.Join(dir, "dto", "shipping.dto.ts")
	taken := filepath.Join(dir, "dto", "payment.dto.ts")
	writeFile(t, doc, controller)
	writeFile(t, taken, "// hand written\n")

	var edit types.WorkspaceEdit
	edit.CreateFile(fresh, "export class ShippingDto {}")
	edit.Insert(doc, types.Position{}, "import { ShippingDto } from './dto/shipping.dto';\n")
	edit.CreateFile(taken, "export class PaymentDto {}")
	edit.Insert(doc, types.Position{}, "import { PaymentDto } from './dto/payment.dto';\n")

	err := NewFS(nil).ApplyEdit(context.Background(), edit)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileExists)

	var exists *FileExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, taken, exists.Path)

	assert.NoFileExists(t, fresh)
	assert.Equal(t, "// hand written\n", readFile(t, taken))
	assert.Equal(t, controller, readFile(t, doc))
}

func TestApplyEditIgnoreIfExists(t *testing.T) {
	dir := t.TempDir()
	taken := filepath.Join(dir, "payment.dto.ts")
	writeFile(t, taken, "keep\n")

	edit := types.WorkspaceEdit{Operations: []types.EditOperation{
		{Kind: types.OpCreateFile, Path: taken, Contents: "replace", IgnoreIfExists: true},
	}}

	require.NoError(t, NewFS(nil).ApplyEdit(context.Background(), edit))
	assert.Equal(t, "keep\n", readFile(t, taken))
}

func TestApplyEditDuplicateCreate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dto", "payment.dto.ts")

	var edit types.WorkspaceEdit
	edit.CreateFile(target, "a")
	edit.CreateFile(target, "b")

	err := NewFS(nil).ApplyEdit(context.Background(), edit)
	assert.ErrorIs(t, err, ErrFileExists)
	assert.NoDirExists(t, filepath.Join(dir, "dto"))
}

func TestApplyEditInsertIntoCreatedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "new.ts")

	var edit types.WorkspaceEdit
	edit.CreateFile(target, "body\n")
	edit.Insert(target, types.Position{}, "header\n")

	require.NoError(t, NewFS(nil).ApplyEdit(context.Background(), edit))
	assert.Equal(t, "header\nbody\n", readFile(t, target))
}

func TestApplyEditInvalidPosition(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "a.ts")
	writeFile(t, doc, "one line\n")

	var edit types.WorkspaceEdit
	edit.CreateFile(filepath.Join(dir, "dto", "x.dto.ts"), "x")
	edit.Insert(doc, types.Position{Line: 7, Character: 0}, "nope")

	require.Error(t, NewFS(nil).ApplyEdit(context.Background(), edit))
	assert.NoDirExists(t, filepath.Join(dir, "dto"))
	assert.Equal(t, "one line\n", readFile(t, doc))
}

func TestApplyEditCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var edit types.WorkspaceEdit
	edit.CreateFile(filepath.Join(t.TempDir(), "x.ts"), "x")
	assert.ErrorIs(t, NewFS(nil).ApplyEdit(ctx, edit), context.Canceled)
}

func TestReadAndListDiagnostics(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "a.ts")
	writeFile(t, doc, controller)
	ctx := context.Background()

	diags := staticDiagnostics{doc: {{Code: 2304, RangeText: "PaymentDto"}}}
	ws := NewFS(diags)

	text, err := ws.ReadDocumentText(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, controller, text)

	list, err := ws.ListDiagnostics(ctx, doc)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = NewFS(nil).ListDiagnostics(ctx, doc)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.controller.ts")

	require.NoError(t, WriteFile(path, []byte(controller)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, controller, string(data))

	if runtime.GOOS != "windows" {
		require.NoError(t, os.Chmod(path, 0o600))
	}
	require.NoError(t, WriteFile(path, []byte("replaced\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}
