package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

const orderEntity = `import { Entity, Property } from '@mikro-orm/core';

@Entity()
export class Order {
	@Property({ primary: true })
	id!: number;

	@Property()
	total!: number;

	@Property()
	createdAt: Date = new Date();

	@Property({ columnType: 'jsonb' })
	metadata?: Object;
}
`

func TestParseEntity(t *testing.T) {
	entity, warnings := ParseEntity(orderEntity)

	assert.Empty(t, warnings)
	assert.Equal(t, "Order", entity.ClassName)
	assert.Equal(t, []types.PropertyDeclaration{
		{Name: "total", Type: "number", Line: 9},
		{Name: "createdAt", Type: "Date", Line: 12},
		{Name: "metadata", Type: "Object", ColumnTypeHint: "jsonb", Line: 15},
	}, entity.Properties)
}

func TestParseEntityCRLF(t *testing.T) {
	src := "export class User {\r\n\t@Property()\r\n\temail!: string;\r\n}\r\n"

	entity, warnings := ParseEntity(src)

	assert.Empty(t, warnings)
	assert.Equal(t, "User", entity.ClassName)
	require.Len(t, entity.Properties, 1)
	assert.Equal(t, "email", entity.Properties[0].Name)
	assert.Equal(t, "string", entity.Properties[0].Type)
}

func TestParseEntityClassNameNotFound(t *testing.T) {
	src := "class Hidden {\n\t@Property()\n\tname!: string;\n}\n"

	entity, warnings := ParseEntity(src)

	assert.Equal(t, "", entity.ClassName)
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0], ErrClassNameNotFound))
	assert.False(t, errors.Is(warnings[0], ErrPropertySkipped))
	require.Len(t, entity.Properties, 1)
	assert.Equal(t, "CreateDto", entity.CreateName())
}

func TestParseEntityNoDecorators(t *testing.T) {
	entity, warnings := ParseEntity("export class Order { id!: number; total!: number; }")

	assert.Empty(t, warnings)
	assert.Equal(t, "Order", entity.ClassName)
	assert.Empty(t, entity.Properties)
}

func TestParseEntityAdjacency(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		props   []string
		skipped []int
	}{
		{
			name:    "blank line between decorator and declaration",
			source:  "export class A {\n\t@Property()\n\n\tname!: string;\n}\n",
			props:   nil,
			skipped: []int{2},
		},
		{
			name:    "comment between decorator and declaration",
			source:  "export class A {\n\t@Property()\n\t// note\n\tname!: string;\n}\n",
			props:   nil,
			skipped: []int{2},
		},
		{
			name:    "decorator closes on another line",
			source:  "export class A {\n\t@Property({\n\t\tnullable: true,\n\t})\n\tname?: string;\n}\n",
			props:   nil,
			skipped: nil,
		},
		{
			name:    "decorator at end of input",
			source:  "export class A {\n\t@Property()",
			props:   nil,
			skipped: []int{2},
		},
		{
			name:    "stacked decorators keep the second",
			source:  "export class A {\n\t@Property()\n\t@Property()\n\tname!: string;\n}\n",
			props:   []string{"name"},
			skipped: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, warnings := ParseEntity(tt.source)

			var names []string
			for _, p := range entity.Properties {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.props, names)

			var lines []int
			for _, w := range warnings {
				assert.True(t, errors.Is(w, ErrPropertySkipped), w.Error())
				lines = append(lines, w.Line)
			}
			assert.Equal(t, tt.skipped, lines)
		})
	}
}

func TestSplitDeclaration(t *testing.T) {
	tests := []struct {
		line string
		name string
		typ  string
		ok   bool
	}{
		{"\temail!: string;", "email", "string", true},
		{"  nickname?: string;", "nickname", "string", true},
		{"createdAt: Date = new Date();", "createdAt", "Date", true},
		{"active : boolean = true ;", "active", "boolean", true},
		{"\ttags!: Array;  // labels", "tags", "Array", true},
		{"name: string", "", "", false},
		{"justText;", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, typ, ok := SplitDeclaration(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.typ, typ)
		})
	}
}

func TestParseEntityModifiers(t *testing.T) {
	src := "export class Audit {\n" +
		"\t@Property()\n" +
		"\treadonly createdAt: Date = new Date();\n" +
		"\t@Property()\n" +
		"\tprivate readonly id!: number;\n" +
		"\t@Property()\n" +
		"\treadonly: boolean;\n" +
		"}\n"

	entity, warnings := ParseEntity(src)
	assert.Empty(t, warnings)
	assert.Equal(t, []types.PropertyDeclaration{
		{Name: "createdAt", Type: "Date", Line: 3, Modifiers: "readonly"},
		{Name: "readonly", Type: "boolean", Line: 7},
	}, entity.Properties)
	assert.Equal(t, "readonly createdAt", entity.Properties[0].Declared())
}

func TestSplitModifiers(t *testing.T) {
	tests := []struct {
		declared  string
		modifiers string
		name      string
	}{
		{"email", "", "email"},
		{"readonly createdAt", "readonly", "createdAt"},
		{"public  readonly  slug", "public readonly", "slug"},
		{"declare override kind", "declare override", "kind"},
		{"private", "", "private"},
		{"static count", "", "static count"},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			modifiers, name := SplitModifiers(tt.declared)
			assert.Equal(t, tt.modifiers, modifiers)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestExtractDecoratorArgs(t *testing.T) {
	tests := []struct {
		line string
		args string
		ok   bool
	}{
		{"\t@Property()", "", true},
		{"@Property({ columnType: 'jsonb' })  ", "{ columnType: 'jsonb' }", true},
		{"@Property({", "", false},
		{"@Entity()", "", false},
		{"@Property() name!: string;", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			args, ok := ExtractDecoratorArgs(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestExtractColumnType(t *testing.T) {
	tests := []struct {
		args     string
		expected string
	}{
		{"{ columnType: 'jsonb' }", "jsonb"},
		{`{ columnType: "decimal(10,2)" }`, "decimal(10,2)"},
		{"{ nullable: true, columnType:'text' }", "text"},
		{"{ columnType: jsonb }", ""},
		{"{ columnType: 'jsonb }", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractColumnType(tt.args))
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("UserProfileDto"))
	assert.True(t, IsIdentifier("$ref"))
	assert.True(t, IsIdentifier("_x1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1abc"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("a.b"))
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	order := filepath.Join(dir, "order.entity.ts")
	broken := filepath.Join(dir, "broken.entity.ts")
	require.NoError(t, os.WriteFile(order, []byte(orderEntity), 0o644))
	require.NoError(t, os.WriteFile(broken, []byte("@Property()\n"), 0o644))

	entities, warnings, err := ParseFiles([]string{order, broken})
	require.NoError(t, err)

	require.Len(t, entities, 2)
	assert.Equal(t, "Order", entities[0].ClassName)
	assert.Equal(t, order, entities[0].Source)
	assert.Equal(t, broken, entities[1].Source)

	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, broken, w.Source)
	}
	assert.Contains(t, warnings[1].Error(), broken+":1: ")

	_, _, err = ParseFiles([]string{filepath.Join(dir, "missing.entity.ts")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
