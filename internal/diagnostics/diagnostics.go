package diagnostics

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

// Entry is a diagnostic bound to the document it was reported for.
// An empty Path applies to every document.
type Entry struct {
	Path string `json:"path,omitempty"`
	types.Diagnostic
}

// Source serves diagnostics loaded from a compiler report
type Source struct {
	entries []Entry
	baseDir string
}

// NewSource wraps already parsed entries; relative entry paths resolve against baseDir
func NewSource(entries []Entry, baseDir string) *Source {
	return &Source{entries: entries, baseDir: baseDir}
}

// Load reads a diagnostics report, either a JSON array or `tsc --pretty false` output
func Load(path, baseDir string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading diagnostics %s: %w", path, err)
	}

	var entries []Entry
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		entries, err = ParseJSON(trimmed)
	} else {
		entries, err = ParseTSC(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing diagnostics %s: %w", path, err)
	}

	logger.Verbose("Loaded %d diagnostics from %s", len(entries), path)
	return NewSource(entries, baseDir), nil
}

// ParseJSON decodes a JSON array of diagnostic entries
func ParseJSON(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// path(line,col): error TS2304: message
var tscLine = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): (?:error|warning|message) TS(\d+): (.*)$`)

// ParseTSC reads TypeScript compiler output, skipping lines that are not diagnostics
func ParseTSC(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		m := tscLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		code, _ := strconv.Atoi(m[4])

		start := types.Position{Line: lineNo - 1, Character: col - 1}
		ident := QuotedName(m[5])
		end := start
		end.Character += types.UTF16Len(ident)

		entries = append(entries, Entry{
			Path: m[1],
			Diagnostic: types.Diagnostic{
				Code:      code,
				Range:     types.Range{Start: start, End: end},
				RangeText: ident,
				Message:   m[5],
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// QuotedName returns the first single-quoted name of a compiler message
func QuotedName(message string) string {
	start := strings.IndexByte(message, '\'')
	if start == -1 {
		return ""
	}
	end := strings.IndexByte(message[start+1:], '\'')
	if end == -1 {
		return ""
	}
	return message[start+1 : start+1+end]
}

// For returns the diagnostics reported for document path, in report order.
// path is taken relative to the working directory, report paths relative to the base directory.
func (s *Source) For(path string) []types.Diagnostic {
	target := absolute(path)

	var out []types.Diagnostic
	for _, e := range s.entries {
		if e.Path == "" || s.resolve(e.Path) == target {
			out = append(out, e.Diagnostic)
		}
	}
	return out
}

func (s *Source) resolve(path string) string {
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}
	return absolute(path)
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
