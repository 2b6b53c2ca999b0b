package validator

import (
	"errors"
	"fmt"

	"git.weirdcat.su/weirdcat/dtogen/internal/generator"
	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/parser"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError represents a validation finding
type ValidationError struct {
	Entity     string
	Property   string
	Line       int
	Message    string
	Severity   Severity
	Suggestion string
}

func (e ValidationError) Error() string {
	severityPrefix := "[ERROR]"
	if e.Severity == SeverityWarning {
		severityPrefix = "[WARN] "
	}
	return severityPrefix + " " + e.Describe()
}

// Describe formats the finding without its severity, for loggers that print the level themselves
func (e ValidationError) Describe() string {
	loc := e.Entity
	if loc == "" {
		loc = "<unnamed>"
	}
	if e.Property != "" {
		loc += "." + e.Property
	}
	if e.Line > 0 {
		loc += fmt.Sprintf(" (line %d)", e.Line)
	}

	msg := fmt.Sprintf("%s: %s", loc, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\n         Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationResult holds the results of validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Stats    map[string]int
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Err joins every error finding, or returns nil when valid
func (r *ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) add(e ValidationError) {
	if e.Severity == SeverityError {
		r.Errors = append(r.Errors, e)
		return
	}
	r.Warnings = append(r.Warnings, e)
}

// Validator checks parsed entities before DTO generation
type Validator struct {
	entities []types.EntityDescriptor
	warnings []parser.Warning
	goFields bool
}

// Option configures a Validator
type Option func(*Validator)

// WithGoFields also rejects properties that map to the same Go struct field
func WithGoFields() Option {
	return func(v *Validator) {
		v.goFields = true
	}
}

// NewValidator creates a validator over entities and the warnings produced while parsing them
func NewValidator(entities []types.EntityDescriptor, warnings []parser.Warning, opts ...Option) *Validator {
	v := &Validator{entities: entities, warnings: warnings}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate performs validation
func (v *Validator) Validate() *ValidationResult {
	logger.Section("Validation")

	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Stats:    make(map[string]int),
	}

	v.validateParseWarnings(result)
	v.validateClassNames(result)

	totalProperties := 0
	for _, entity := range v.entities {
		totalProperties += len(entity.Properties)
		logger.Verbose("Validating entity: %s (%d properties)", entity.ClassName, len(entity.Properties))
		v.validateProperties(entity, result)
	}

	result.Stats["total_entities"] = len(v.entities)
	result.Stats["total_properties"] = totalProperties
	result.Stats["errors"] = len(result.Errors)
	result.Stats["warnings"] = len(result.Warnings)

	if len(result.Warnings) > 0 {
		logger.Warning("Found %d warnings", len(result.Warnings))
		for _, w := range result.Warnings {
			logger.Warning("%s", w.Describe())
		}
	}

	if len(result.Errors) > 0 {
		logger.Error("Found %d errors that will prevent code generation", len(result.Errors))
		for _, e := range result.Errors {
			logger.Error("%s", e.Describe())
		}
	} else {
		logger.Success("Validation passed")
	}

	logger.Stats("Validation Statistics", map[string]any{
		"Entities validated":   result.Stats["total_entities"],
		"Properties validated": result.Stats["total_properties"],
		"Errors":               result.Stats["errors"],
		"Warnings":             result.Stats["warnings"],
	})

	return result
}

// validateParseWarnings surfaces parser warnings as validation warnings
func (v *Validator) validateParseWarnings(result *ValidationResult) {
	for _, w := range v.warnings {
		e := ValidationError{
			Entity:   w.Source,
			Line:     w.Line,
			Message:  w.Message,
			Severity: SeverityWarning,
		}
		switch {
		case errors.Is(w, parser.ErrClassNameNotFound):
			e.Suggestion = "Declare the entity as 'export class <Name>'"
		case errors.Is(w, parser.ErrPropertySkipped):
			e.Suggestion = "Put the declaration on the line directly after @Property(...) and keep the decorator on one line"
		}
		result.add(e)
	}
}

// validateClassNames rejects entities that would generate the same DTO class twice
func (v *Validator) validateClassNames(result *ValidationResult) {
	seen := make(map[string]string)
	for _, entity := range v.entities {
		if entity.ClassName == "" {
			continue
		}
		if first, dup := seen[entity.ClassName]; dup {
			result.add(ValidationError{
				Entity:     entity.ClassName,
				Message:    fmt.Sprintf("Class declared in both %s and %s", first, entity.Source),
				Severity:   SeverityError,
				Suggestion: "Pass each entity file once, or rename one of the classes",
			})
			continue
		}
		seen[entity.ClassName] = entity.Source
	}
}

// validateProperties checks names and types of a single entity
func (v *Validator) validateProperties(entity types.EntityDescriptor, result *ValidationResult) {
	seen := make(map[string]bool)
	fields := make(map[string]string)

	for _, prop := range entity.Properties {
		logger.Debug("  Property %s: %s (column type %q)", prop.Name, prop.Type, prop.ColumnTypeHint)

		if !parser.IsIdentifier(prop.Name) {
			result.add(ValidationError{
				Entity:     entity.ClassName,
				Property:   prop.Name,
				Line:       prop.Line,
				Message:    "Property name is not a valid identifier",
				Severity:   SeverityError,
				Suggestion: "Check the declaration line for stray modifiers or punctuation",
			})
			continue
		}

		if seen[prop.Name] {
			result.add(ValidationError{
				Entity:   entity.ClassName,
				Property: prop.Name,
				Line:     prop.Line,
				Message:  "Duplicate property",
				Severity: SeverityError,
			})
			continue
		}
		seen[prop.Name] = true

		if v.goFields {
			field := generator.ExportedName(prop.Name)
			if first, dup := fields[field]; dup {
				result.add(ValidationError{
					Entity:     entity.ClassName,
					Property:   prop.Name,
					Line:       prop.Line,
					Message:    fmt.Sprintf("Go field %s already generated for %s", field, first),
					Severity:   SeverityError,
					Suggestion: "Rename one of the properties",
				})
				continue
			}
			fields[field] = prop.Name
		}

		dec := generator.SelectDecorator(prop.Type, prop.ColumnTypeHint)
		switch {
		case dec.Comment != "":
			result.add(ValidationError{
				Entity:     entity.ClassName,
				Property:   prop.Name,
				Line:       prop.Line,
				Message:    fmt.Sprintf("Column type %q validated as a string", prop.ColumnTypeHint),
				Severity:   SeverityWarning,
				Suggestion: "Replace @IsString() with a custom JSON validator in the generated DTO",
			})
		case dec.Fallback:
			result.add(ValidationError{
				Entity:     entity.ClassName,
				Property:   prop.Name,
				Line:       prop.Line,
				Message:    fmt.Sprintf("Unrecognized type %q validated as a string", prop.Type),
				Severity:   SeverityWarning,
				Suggestion: "Adjust the decorator by hand, e.g. @ValidateNested() for nested objects",
			})
		}
	}
}
