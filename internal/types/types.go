package types

import (
	"fmt"
	"unicode/utf16"
)

// PropertyDeclaration is a single decorated property of an entity class
type PropertyDeclaration struct {
	Name           string
	Type           string
	ColumnTypeHint string
	Line           int
	// Modifiers holds leading keywords such as readonly, space separated
	Modifiers string
}

// Declared returns the name as written in a class body, modifiers included
func (p PropertyDeclaration) Declared() string {
	if p.Modifiers == "" {
		return p.Name
	}
	return p.Modifiers + " " + p.Name
}

// EntityDescriptor holds the class name and properties of one entity source
type EntityDescriptor struct {
	ClassName  string
	Properties []PropertyDeclaration
	Source     string
}

// CreateName returns the name of the generated create DTO
func (d EntityDescriptor) CreateName() string {
	return "Create" + d.ClassName + "Dto"
}

// UpdateName returns the name of the generated update DTO
func (d EntityDescriptor) UpdateName() string {
	return "Update" + d.ClassName + "Dto"
}

// DtoPlan describes a DTO file derived from an unresolved identifier
type DtoPlan struct {
	ClassName   string `json:"className" yaml:"className"`
	FileName    string `json:"fileName" yaml:"fileName"`
	FilePath    string `json:"filePath" yaml:"filePath"`
	FileContent string `json:"fileContent" yaml:"fileContent"`
}

// ImportStatement returns the import line inserted into the referencing document
func (p DtoPlan) ImportStatement() string {
	return fmt.Sprintf("import { %s } from './dto/%s';\n", p.ClassName, p.FileName)
}

// Position is a zero-based line/character location in a document.
// Character counts UTF-16 code units, as LSP clients and tsc report columns.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// ByteColumn converts p.Character to a byte offset within line. ok is false
// when the column lies past the end of line or inside a surrogate pair.
func (p Position) ByteColumn(line string) (col int, ok bool) {
	if p.Character < 0 {
		return 0, false
	}
	units := 0
	for i, r := range line {
		if units == p.Character {
			return i, true
		}
		if units > p.Character {
			return 0, false
		}
		units += utf16.RuneLen(r)
	}
	if units == p.Character {
		return len(line), true
	}
	return 0, false
}

// UTF16Len returns the length of s in UTF-16 code units
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Range spans two positions in a document
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether p lies inside the range, end inclusive
func (r Range) Contains(p Position) bool {
	if p.Line < r.Start.Line || p.Line > r.End.Line {
		return false
	}
	if p.Line == r.Start.Line && p.Character < r.Start.Character {
		return false
	}
	if p.Line == r.End.Line && p.Character > r.End.Character {
		return false
	}
	return true
}

// Diagnostic is a compiler-reported issue for a document
type Diagnostic struct {
	Code      int    `json:"code"`
	Range     Range  `json:"range"`
	RangeText string `json:"rangeText"`
	Message   string `json:"message,omitempty"`
}

// OperationKind identifies a workspace edit operation
type OperationKind int

const (
	OpCreateFile OperationKind = iota
	OpInsertText
)

func (k OperationKind) String() string {
	switch k {
	case OpCreateFile:
		return "create"
	case OpInsertText:
		return "insert"
	default:
		return "unknown"
	}
}

// EditOperation is one step of a WorkspaceEdit
type EditOperation struct {
	Kind           OperationKind
	Path           string
	Contents       string
	IgnoreIfExists bool
	Position       Position
	Text           string
}

// WorkspaceEdit bundles file creations and text insertions applied as a unit
type WorkspaceEdit struct {
	Operations []EditOperation
}

// CreateFile appends a file creation that must not overwrite an existing file
func (e *WorkspaceEdit) CreateFile(path, contents string) {
	e.Operations = append(e.Operations, EditOperation{
		Kind:     OpCreateFile,
		Path:     path,
		Contents: contents,
	})
}

// Insert appends a text insertion at pos
func (e *WorkspaceEdit) Insert(path string, pos Position, text string) {
	e.Operations = append(e.Operations, EditOperation{
		Kind:     OpInsertText,
		Path:     path,
		Position: pos,
		Text:     text,
	})
}

// Empty reports whether the edit has no operations
func (e WorkspaceEdit) Empty() bool {
	return len(e.Operations) == 0
}
