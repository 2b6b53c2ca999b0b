package generator

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"git.weirdcat.su/weirdcat/dtogen/internal/types"
	"github.com/dave/jennifer/jen"
)

// GenerateGo emits Go request structs mirroring the TypeScript DTO pair of each entity
func GenerateGo(entities []types.EntityDescriptor, pkgName string) *jen.File {
	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by dtogen. DO NOT EDIT.")

	for _, entity := range entities {
		generateCreateStruct(f, entity)
		f.Line()
		generateUpdateStruct(f, entity)
		f.Line()
	}

	return f
}

// RenderGo renders the generated Go file to source text
func RenderGo(entities []types.EntityDescriptor, pkgName string) (string, error) {
	var buf bytes.Buffer
	if err := GenerateGo(entities, pkgName).Render(&buf); err != nil {
		return "", fmt.Errorf("rendering go dtos: %w", err)
	}
	return buf.String(), nil
}

// generateCreateStruct generates the create DTO with every field required
func generateCreateStruct(f *jen.File, entity types.EntityDescriptor) {
	fields := make([]jen.Code, 0, len(entity.Properties))
	for _, prop := range entity.Properties {
		typ, _, note := goFieldType(prop)
		if note != "" {
			fields = append(fields, jen.Comment(note))
		}
		fields = append(fields, jen.Id(ExportedName(prop.Name)).Add(typ).Tag(map[string]string{
			"json":     prop.Name,
			"validate": "required",
		}))
	}

	f.Comment(fmt.Sprintf("%s is the request body for creating %s", entity.CreateName(), entity.ClassName))
	f.Type().Id(entity.CreateName()).Struct(fields...)
}

// generateUpdateStruct generates the update DTO; scalar fields become pointers so absence is distinguishable
func generateUpdateStruct(f *jen.File, entity types.EntityDescriptor) {
	fields := make([]jen.Code, 0, len(entity.Properties))
	for _, prop := range entity.Properties {
		typ, nilable, note := goFieldType(prop)
		if note != "" {
			fields = append(fields, jen.Comment(note))
		}
		if !nilable {
			typ = jen.Op("*").Add(typ)
		}
		fields = append(fields, jen.Id(ExportedName(prop.Name)).Add(typ).Tag(map[string]string{
			"json":     prop.Name + ",omitempty",
			"validate": "omitempty",
		}))
	}

	f.Comment(fmt.Sprintf("%s is the partial request body for updating %s", entity.UpdateName(), entity.ClassName))
	f.Type().Id(entity.UpdateName()).Struct(fields...)
}

// goFieldType maps a declared property type to a Go type. nilable reports whether
// the zero value already means "absent".
func goFieldType(prop types.PropertyDeclaration) (typ *jen.Statement, nilable bool, note string) {
	if prop.ColumnTypeHint == jsonbColumnType {
		return jen.Qual("encoding/json", "RawMessage"), true, jsonbComment
	}

	switch prop.Type {
	case "string":
		return jen.String(), false, ""
	case "number":
		return jen.Float64(), false, ""
	case "boolean":
		return jen.Bool(), false, ""
	case "Date":
		return jen.Qual("time", "Time"), false, ""
	case "Array":
		return jen.Index().Any(), true, ""
	case "Object":
		return jen.Map(jen.String()).Any(), true, ""
	default:
		return jen.String(), false, fmt.Sprintf("unrecognized type %q, treated as string", prop.Type)
	}
}

// ExportedName turns a property name into an exported Go identifier
func ExportedName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}

	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "F" + out
	}
	return out
}
