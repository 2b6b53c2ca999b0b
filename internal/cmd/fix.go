package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/diagnostics"
	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/quickfix"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
	"git.weirdcat.su/weirdcat/dtogen/internal/workspace"
)

type Fix struct {
	Document    string `arg:"" help:"TypeScript document referencing missing DTOs" type:"existingfile"`
	Diagnostics string `short:"d" required:"" help:"Compiler report: 'tsc --noEmit --pretty false' output or a JSON array" type:"existingfile"`
	Root        string `help:"Directory the report's relative paths are resolved against" default:"." type:"path"`
	At          string `help:"Cursor position LINE:COL (1-based); the single fix only considers diagnostics there"`
	Apply       string `help:"Fix to apply; 'none' only lists what is offered" enum:"none,single,batch" default:"none"`

	out io.Writer
}

// Run is called by Kong when the fix command is executed.
func (f *Fix) Run(ctx context.Context, settings config.Config) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	at, err := parsePosition(f.At)
	if err != nil {
		return err
	}

	src, err := diagnostics.Load(f.Diagnostics, f.Root)
	if err != nil {
		return err
	}
	ws := workspace.NewFS(src)

	fixes, err := settings.Policy().Collect(ctx, ws, filepath.Clean(f.Document), at)
	if err != nil {
		return err
	}

	f.list(fixes)

	switch f.Apply {
	case "single":
		if fixes.Single == nil {
			return fmt.Errorf("no single fix available for %s", f.Document)
		}
		return quickfix.Apply(ctx, ws, fixes.Single)
	case "batch":
		if fixes.Batch == nil {
			return fmt.Errorf("no batch fix available for %s", f.Document)
		}
		return quickfix.Apply(ctx, ws, fixes.Batch)
	}
	return nil
}

func (f *Fix) list(fixes quickfix.Fixes) {
	w := f.out
	if w == nil {
		w = os.Stdout
	}

	if fixes.Empty() {
		logger.Info("No DTO quick-fixes available for %s", f.Document)
		return
	}
	for _, fix := range []*quickfix.Fix{fixes.Batch, fixes.Single} {
		if fix == nil {
			continue
		}
		fmt.Fprintf(w, "%s\n", fix.Title)
		for _, plan := range fix.Plans {
			fmt.Fprintf(w, "  %s -> %s\n", plan.ClassName, plan.FilePath)
		}
	}
}

// parsePosition converts a 1-based LINE:COL to a zero-based position
func parsePosition(s string) (*types.Position, error) {
	if s == "" {
		return nil, nil
	}
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("invalid position %q, expected LINE:COL", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return nil, fmt.Errorf("invalid line in position %q", s)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return nil, fmt.Errorf("invalid column in position %q", s)
	}
	return &types.Position{Line: line - 1, Character: col - 1}, nil
}
