package parser

import (
	"fmt"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

// findClassName returns the identifier of the first exported class declaration
func findClassName(lines []string) (string, bool) {
	for _, line := range lines {
		idx := strings.Index(line, classDeclMarker)
		for idx != -1 {
			rest := line[idx+len(classDeclMarker):]
			if name := leadingWord(rest); name != "" {
				return name, true
			}
			next := strings.Index(rest, classDeclMarker)
			if next == -1 {
				break
			}
			idx += len(classDeclMarker) + next
		}
	}
	return "", false
}

// scanProperties walks the lines pairing each decorator line with the line right after it
func scanProperties(lines []string) ([]types.PropertyDeclaration, []Warning) {
	properties := []types.PropertyDeclaration{}
	var warnings []Warning

	for i := 0; i < len(lines); i++ {
		args, ok := ExtractDecoratorArgs(lines[i])
		if !ok {
			continue
		}

		if i+1 >= len(lines) {
			warnings = append(warnings, skippedWarning(i+1, "decorator at end of input"))
			continue
		}

		name, typ, ok := SplitDeclaration(lines[i+1])
		if !ok {
			warnings = append(warnings, skippedWarning(i+1, "decorator not immediately followed by a 'name: type;' declaration"))
			continue
		}

		// the declaration line is consumed
		i++

		modifiers, name := SplitModifiers(name)
		if name == "id" {
			continue
		}

		properties = append(properties, types.PropertyDeclaration{
			Name:           name,
			Type:           typ,
			ColumnTypeHint: ExtractColumnType(args),
			Line:           i + 1,
			Modifiers:      modifiers,
		})
	}

	return properties, warnings
}

// SplitDeclaration splits a "name!: type = default;" line into a normalized name and type
func SplitDeclaration(line string) (name, typ string, ok bool) {
	semi := strings.LastIndex(line, ";")
	if semi == -1 {
		return "", "", false
	}
	colon := strings.LastIndex(line[:semi], ":")
	if colon == -1 {
		return "", "", false
	}

	name = strings.TrimSpace(line[:colon])
	name = strings.TrimSpace(strings.TrimRight(name, "!?"))

	typ = line[colon+1 : semi]
	if eq := strings.Index(typ, "="); eq != -1 {
		typ = typ[:eq]
	}
	typ = strings.TrimSpace(typ)

	return name, typ, true
}

var propertyModifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"readonly":  true,
	"declare":   true,
	"override":  true,
}

// SplitModifiers separates leading TypeScript member modifiers from a declared name
func SplitModifiers(declared string) (modifiers, name string) {
	fields := strings.Fields(declared)
	n := 0
	for n < len(fields)-1 && propertyModifiers[fields[n]] {
		n++
	}
	return strings.Join(fields[:n], " "), strings.Join(fields[n:], " ")
}

func leadingWord(s string) string {
	end := 0
	for end < len(s) && isWordChar(s[end]) {
		end++
	}
	return s[:end]
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// IsIdentifier reports whether s is a plain ASCII identifier
func IsIdentifier(s string) bool {
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordChar(s[i]) && s[i] != '$' {
			return false
		}
	}
	return true
}

func skippedWarning(line int, reason string) Warning {
	return Warning{
		Kind:    PropertySkipped,
		Line:    line,
		Message: fmt.Sprintf("@Property skipped: %s", reason),
	}
}
