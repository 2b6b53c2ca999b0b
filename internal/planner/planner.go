// Package planner derives the class name, file name, path and stub contents
// of a DTO file from an unresolved identifier such as "UserProfileDto".
package planner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/parser"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

const (
	// Suffix every plannable identifier ends with
	Suffix = "Dto"
	// DirName is the subdirectory of the base directory that receives DTO files
	DirName = "dto"

	fileSuffix = ".dto"
	fileExt    = ".ts"
)

var ErrInvalidIdentifier = errors.New("invalid DTO identifier")

// InvalidIdentifierError reports an identifier the planner cannot derive a DTO from
type InvalidIdentifierError struct {
	Identifier string
	Reason     string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid DTO identifier %q: %s", e.Identifier, e.Reason)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// HasSuffix reports whether identifier is a plannable DTO name
func HasSuffix(identifier string) bool {
	return strings.HasSuffix(identifier, Suffix) &&
		len(identifier) > len(Suffix) &&
		parser.IsIdentifier(identifier)
}

// PlanDto derives the DTO file plan for identifier under baseDirectory
func PlanDto(identifier, baseDirectory string) (types.DtoPlan, error) {
	if err := checkIdentifier(identifier); err != nil {
		return types.DtoPlan{}, err
	}

	words := SplitWords(strings.TrimSuffix(identifier, Suffix))

	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}

	className := strings.Join(words, "") + Suffix
	fileName := strings.Join(lower, "-") + fileSuffix

	return types.DtoPlan{
		ClassName:   className,
		FileName:    fileName,
		FilePath:    filepath.Join(baseDirectory, DirName, fileName+fileExt),
		FileContent: fmt.Sprintf("export class %s {}", className),
	}, nil
}

func checkIdentifier(identifier string) error {
	switch {
	case !strings.HasSuffix(identifier, Suffix):
		return &InvalidIdentifierError{Identifier: identifier, Reason: "missing Dto suffix"}
	case len(identifier) == len(Suffix):
		return &InvalidIdentifierError{Identifier: identifier, Reason: "empty name before Dto suffix"}
	case !parser.IsIdentifier(identifier):
		return &InvalidIdentifierError{Identifier: identifier, Reason: "not a plain identifier"}
	}
	return nil
}

// SplitWords splits a PascalCase name at each uppercase letter that starts a
// lowercase run. Uppercase runs such as acronyms stay together.
func SplitWords(name string) []string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if i+1 < len(name) && isUpper(name[i]) && isLower(name[i+1]) {
			b.WriteByte(' ')
		}
		b.WriteByte(name[i])
	}
	return strings.Split(strings.TrimSpace(b.String()), " ")
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
