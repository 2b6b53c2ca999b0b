package generator

import (
	"fmt"
	"strings"

	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/parser"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

// PartialStyle selects how the update DTO is expressed
type PartialStyle string

const (
	// PartialExplicit writes the update DTO as its own class with every field optional
	PartialExplicit PartialStyle = "explicit"
	// PartialMappedTypes extends PartialType from @nestjs/mapped-types
	PartialMappedTypes PartialStyle = "mapped-types"
)

// Options controls TypeScript DTO output
type Options struct {
	PartialStyle PartialStyle
}

func (o Options) explicit() bool {
	return o.PartialStyle != PartialMappedTypes
}

// Preamble returns the import block written once before all generated classes
func Preamble(opts Options) string {
	var b strings.Builder

	names := validatorImports
	if !opts.explicit() {
		b.WriteString("import { PartialType } from '@nestjs/mapped-types';\n")
		names = without(validatorImports, IsOptional)
	}
	fmt.Fprintf(&b, "import { %s } from 'class-validator';\n", strings.Join(names, ", "))

	return b.String()
}

// SynthesizeEntity emits the Create and Update DTO classes for one entity
func SynthesizeEntity(entity types.EntityDescriptor, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "export class %s {\n", entity.CreateName())
	for _, prop := range entity.Properties {
		dec := SelectDecorator(prop.Type, prop.ColumnTypeHint)
		fmt.Fprintf(&b, "\t%s\n\t%s: %s;\n\n", dec.Render(), prop.Declared(), prop.Type)
	}
	b.WriteString("}\n")

	if !opts.explicit() {
		fmt.Fprintf(&b, "export class %s extends PartialType(%s) {}\n", entity.UpdateName(), entity.CreateName())
		return b.String()
	}

	fmt.Fprintf(&b, "export class %s {\n", entity.UpdateName())
	for _, prop := range entity.Properties {
		dec := SelectDecorator(prop.Type, prop.ColumnTypeHint)
		fmt.Fprintf(&b, "\t@%s()\n\t%s\n\t%s?: %s;\n\n", IsOptional, dec.Render(), prop.Declared(), prop.Type)
	}
	b.WriteString("}\n")

	return b.String()
}

// SynthesizeEntities emits the preamble followed by every entity's DTOs in order
func SynthesizeEntities(entities []types.EntityDescriptor, opts Options) string {
	var b strings.Builder
	b.WriteString(Preamble(opts))
	for _, entity := range entities {
		logger.Verbose("Synthesizing %s and %s (%d fields)", entity.CreateName(), entity.UpdateName(), len(entity.Properties))
		b.WriteString(SynthesizeEntity(entity, opts))
	}
	return b.String()
}

// Synthesize parses each entity source and returns the combined DTO file contents.
// Parse warnings never stop synthesis.
func Synthesize(sources []string, opts Options) (string, []parser.Warning) {
	entities := make([]types.EntityDescriptor, 0, len(sources))
	var warnings []parser.Warning

	for _, src := range sources {
		entity, w := parser.ParseEntity(src)
		entities = append(entities, entity)
		warnings = append(warnings, w...)
	}

	return SynthesizeEntities(entities, opts), warnings
}

func without(list []string, drop string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
