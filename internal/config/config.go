package config

import (
	"fmt"

	"git.weirdcat.su/weirdcat/dtogen/internal/generator"
	"git.weirdcat.su/weirdcat/dtogen/internal/quickfix"
)

// Config holds the generation settings shared by every command.
// Values come from flags, DTOGEN_* variables or a config file, in that priority.
type Config struct {
	Lang    string `help:"Output language: ts (class-validator DTOs) or go (structs)" enum:"ts,go" default:"ts" env:"DTOGEN_LANG"`
	Package string `help:"Package name for Go output" default:"dto" env:"DTOGEN_PACKAGE"`
	Partial string `help:"Update DTO style: explicit class or PartialType from @nestjs/mapped-types" enum:"explicit,mapped-types" default:"explicit" env:"DTOGEN_PARTIAL"`
	Codes   []int  `help:"Diagnostic codes offered a DTO quick-fix" default:"2304,2552" env:"DTOGEN_CODES"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Lang:    "ts",
		Package: "dto",
		Partial: string(generator.PartialExplicit),
		Codes:   append([]int(nil), quickfix.DefaultCodes...),
	}
}

// Validate checks values kong cannot check through enum tags
func (c Config) Validate() error {
	if c.Lang == "go" && c.Package == "" {
		return fmt.Errorf("package name is required for go output")
	}
	for _, code := range c.Codes {
		if code <= 0 {
			return fmt.Errorf("invalid diagnostic code %d", code)
		}
	}
	return nil
}

// GeneratorOptions returns the TypeScript generator options
func (c Config) GeneratorOptions() generator.Options {
	return generator.Options{PartialStyle: generator.PartialStyle(c.Partial)}
}

// Policy returns the quick-fix policy for the configured codes
func (c Config) Policy() quickfix.Policy {
	return quickfix.NewPolicy(c.Codes)
}
