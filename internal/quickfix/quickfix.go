package quickfix

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/planner"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

const (
	// CodeCannotFindName is reported for an identifier with no declaration in scope
	CodeCannotFindName = 2304
	// CodeCannotFindNameDidYouMean is the same diagnostic with a spelling suggestion
	CodeCannotFindNameDidYouMean = 2552

	batchTitle = "Create DTO for all missing items"
)

// DefaultCodes are the diagnostic codes offered a DTO quick-fix
var DefaultCodes = []int{CodeCannotFindName, CodeCannotFindNameDidYouMean}

// Workspace is the editor-side collaborator that owns documents and applies edits
type Workspace interface {
	ReadDocumentText(ctx context.Context, path string) (string, error)
	ListDiagnostics(ctx context.Context, path string) ([]types.Diagnostic, error)
	ApplyEdit(ctx context.Context, edit types.WorkspaceEdit) error
}

// Request carries everything the policy needs; nothing is read from ambient editor state
type Request struct {
	DocumentPath string
	DocumentText string
	// All holds every diagnostic currently known for the document
	All []types.Diagnostic
	// Context holds the diagnostics at the cursor or selection
	Context []types.Diagnostic
}

// Fix is one proposed code action
type Fix struct {
	Title string
	Plans []types.DtoPlan
	Edit  types.WorkspaceEdit
}

// Fixes holds the proposals; either may be nil when nothing is eligible
type Fixes struct {
	Single *Fix
	Batch  *Fix
}

// Empty reports whether no fix is available
func (f Fixes) Empty() bool {
	return f.Single == nil && f.Batch == nil
}

// Policy decides which diagnostics get a DTO quick-fix
type Policy struct {
	Codes []int
}

// NewPolicy returns a policy for codes, falling back to DefaultCodes
func NewPolicy(codes []int) Policy {
	if len(codes) == 0 {
		codes = DefaultCodes
	}
	return Policy{Codes: codes}
}

// Eligible returns the identifier of d and whether d qualifies for a DTO fix
func (p Policy) Eligible(documentText string, d types.Diagnostic) (string, bool) {
	if !slices.Contains(p.Codes, d.Code) {
		return "", false
	}
	ident := RangeText(documentText, d)
	if !planner.HasSuffix(ident) {
		return "", false
	}
	return ident, true
}

// SelectFixes builds the single fix from the first eligible context diagnostic and
// the batch fix from every eligible diagnostic of the document
func (p Policy) SelectFixes(req Request) (Fixes, error) {
	var fixes Fixes
	baseDir := filepath.Dir(req.DocumentPath)

	for _, d := range req.Context {
		ident, ok := p.Eligible(req.DocumentText, d)
		if !ok {
			continue
		}
		plan, err := planner.PlanDto(ident, baseDir)
		if err != nil {
			return Fixes{}, fmt.Errorf("planning %s: %w", ident, err)
		}
		fixes.Single = newFix(fmt.Sprintf("Create DTO for %s", ident), req.DocumentPath, []types.DtoPlan{plan})
		break
	}

	var plans []types.DtoPlan
	seen := make(map[string]bool)
	for _, d := range req.All {
		ident, ok := p.Eligible(req.DocumentText, d)
		if !ok {
			continue
		}
		plan, err := planner.PlanDto(ident, baseDir)
		if err != nil {
			return Fixes{}, fmt.Errorf("planning %s: %w", ident, err)
		}
		if seen[plan.FilePath] {
			logger.Debug("Duplicate diagnostic for %s collapsed", ident)
			continue
		}
		seen[plan.FilePath] = true
		plans = append(plans, plan)
	}
	if len(plans) > 0 {
		fixes.Batch = newFix(batchTitle, req.DocumentPath, plans)
	}

	return fixes, nil
}

// Apply hands the fix's bundled edit to the workspace. Failures are not retried.
func Apply(ctx context.Context, ws Workspace, fix *Fix) error {
	if fix == nil {
		return nil
	}
	if err := ws.ApplyEdit(ctx, fix.Edit); err != nil {
		return fmt.Errorf("applying %q: %w", fix.Title, err)
	}
	for _, plan := range fix.Plans {
		logger.Success("Created %s", plan.FilePath)
	}
	return nil
}

// Collect reads the document and its diagnostics from the workspace and selects fixes.
// Context diagnostics are those whose range contains at, or all of them when at is nil.
func (p Policy) Collect(ctx context.Context, ws Workspace, documentPath string, at *types.Position) (Fixes, error) {
	text, err := ws.ReadDocumentText(ctx, documentPath)
	if err != nil {
		return Fixes{}, fmt.Errorf("reading %s: %w", documentPath, err)
	}
	all, err := ws.ListDiagnostics(ctx, documentPath)
	if err != nil {
		return Fixes{}, fmt.Errorf("listing diagnostics for %s: %w", documentPath, err)
	}

	contextDiags := all
	if at != nil {
		contextDiags = nil
		for _, d := range all {
			if d.Range.Contains(*at) {
				contextDiags = append(contextDiags, d)
			}
		}
	}

	return p.SelectFixes(Request{
		DocumentPath: documentPath,
		DocumentText: text,
		All:          all,
		Context:      contextDiags,
	})
}

func newFix(title, documentPath string, plans []types.DtoPlan) *Fix {
	fix := &Fix{Title: title, Plans: plans}
	for _, plan := range plans {
		fix.Edit.CreateFile(plan.FilePath, plan.FileContent)
		fix.Edit.Insert(documentPath, types.Position{}, plan.ImportStatement())
	}
	return fix
}

// RangeText returns the diagnostic's spanned text, slicing the document when
// the diagnostic does not carry it. An empty range takes the word starting there.
func RangeText(documentText string, d types.Diagnostic) string {
	if d.RangeText != "" {
		return d.RangeText
	}

	lines := strings.Split(documentText, "\n")
	start, ok := offset(lines, d.Range.Start)
	if !ok {
		return ""
	}
	if d.Range.End == d.Range.Start {
		end := start
		for end < len(documentText) && isWordChar(documentText[end]) {
			end++
		}
		return documentText[start:end]
	}
	end, ok := offset(lines, d.Range.End)
	if !ok || end < start {
		return ""
	}
	return documentText[start:end]
}

func isWordChar(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func offset(lines []string, p types.Position) (int, bool) {
	if p.Line < 0 || p.Line >= len(lines) {
		return 0, false
	}
	col, ok := p.ByteColumn(strings.TrimSuffix(lines[p.Line], "\r"))
	if !ok {
		return 0, false
	}
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(lines[i]) + 1
	}
	return off + col, true
}
