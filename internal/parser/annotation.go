package parser

import (
	"strings"
)

const (
	propertyMarker  = "@Property("
	columnTypeKey   = "columnType:"
	classDeclMarker = "export class "
)

// ExtractDecoratorArgs returns the argument text of a @Property(...) decorator line.
// The closing parenthesis must end the line.
func ExtractDecoratorArgs(line string) (string, bool) {
	start := strings.Index(line, propertyMarker)
	if start == -1 {
		return "", false
	}

	rest := strings.TrimRight(line[start+len(propertyMarker):], " \t")
	if !strings.HasSuffix(rest, ")") {
		return "", false
	}
	return rest[:len(rest)-1], true
}

// ExtractColumnType returns the quoted value following columnType: in decorator arguments
func ExtractColumnType(args string) string {
	start := strings.Index(args, columnTypeKey)
	if start == -1 {
		return ""
	}

	rest := strings.TrimSpace(args[start+len(columnTypeKey):])
	if rest == "" {
		return ""
	}

	quote := rest[0]
	if quote != '\'' && quote != '"' {
		return ""
	}
	end := strings.IndexByte(rest[1:], quote)
	if end == -1 {
		return ""
	}
	return rest[1 : end+1]
}
