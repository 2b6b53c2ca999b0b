package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

var (
	ErrClassNameNotFound = errors.New("entity class name not found")
	ErrPropertySkipped   = errors.New("decorated property skipped")
)

// WarningKind classifies a non-fatal parse problem
type WarningKind int

const (
	ClassNameNotFound WarningKind = iota
	PropertySkipped
)

// Warning is a parse problem that still lets generation continue
type Warning struct {
	Kind    WarningKind
	Source  string
	Line    int
	Message string
}

func (w Warning) Error() string {
	loc := w.Source
	if loc == "" {
		loc = "<input>"
	}
	if w.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, w.Line)
	}
	return fmt.Sprintf("%s: %s", loc, w.Message)
}

// Is matches the sentinel error of the warning kind
func (w Warning) Is(target error) bool {
	switch w.Kind {
	case ClassNameNotFound:
		return target == ErrClassNameNotFound
	case PropertySkipped:
		return target == ErrPropertySkipped
	}
	return false
}

// ParseEntity extracts the class name and decorated properties from entity source text
func ParseEntity(source string) (types.EntityDescriptor, []Warning) {
	lines := splitLines(source)

	var warnings []Warning
	className, ok := findClassName(lines)
	if !ok {
		warnings = append(warnings, Warning{
			Kind:    ClassNameNotFound,
			Message: "no 'export class <Name>' declaration found, DTO names will be empty",
		})
	}

	properties, skipped := scanProperties(lines)
	warnings = append(warnings, skipped...)

	logger.Debug("Parsed entity %q: %d properties, %d warnings", className, len(properties), len(warnings))

	return types.EntityDescriptor{
		ClassName:  className,
		Properties: properties,
	}, warnings
}

// ParseFile reads and parses a single entity file
func ParseFile(path string) (types.EntityDescriptor, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.EntityDescriptor{}, nil, fmt.Errorf("reading entity %s: %w", path, err)
	}

	entity, warnings := ParseEntity(string(data))
	entity.Source = path
	for i := range warnings {
		warnings[i].Source = path
	}
	return entity, warnings, nil
}

// ParseFiles parses an explicit list of entity files, preserving order
func ParseFiles(paths []string) ([]types.EntityDescriptor, []Warning, error) {
	entities := make([]types.EntityDescriptor, 0, len(paths))
	var warnings []Warning

	for _, path := range paths {
		entity, w, err := ParseFile(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Verbose("Parsed %s: class %s, %d properties", path, entity.ClassName, len(entity.Properties))
		entities = append(entities, entity)
		warnings = append(warnings, w...)
	}

	return entities, warnings, nil
}

func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.Split(source, "\n")
}
