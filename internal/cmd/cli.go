package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/generator"
	"git.weirdcat.su/weirdcat/dtogen/internal/types"
	"git.weirdcat.su/weirdcat/dtogen/internal/validator"
	"git.weirdcat.su/weirdcat/dtogen/internal/workspace"
)

// CLI is the root command
type CLI struct {
	Log struct {
		Level string `help:"Log verbosity" enum:"quiet,normal,verbose,debug" default:"normal" env:"DTOGEN_LOG_LEVEL"`
		File  string `help:"Also write JSON logs to this file (rotated)" type:"path" env:"DTOGEN_LOG_FILE"`
	} `embed:"" prefix:"log-"`
	NoColor    bool   `help:"Disable colored output" env:"NO_COLOR"`
	ConfigFile string `name:"config" help:"Config file (json, yaml or toml)" type:"path" template:"-"`

	Settings config.Config `embed:""`

	Generate Generate      `cmd:"" help:"Generate Create/Update DTOs from entity files"`
	Plan     Plan          `cmd:"" help:"Show the DTO file planned for an identifier"`
	Fix      Fix           `cmd:"" help:"Offer and apply quick-fixes creating missing DTO files"`
	Watch    Watch         `cmd:"" help:"Regenerate DTOs whenever an entity file changes"`
	Config   ConfigCommand `cmd:"" help:"Configuration helpers"`
}

const (
	defaultOutputTS = "summary.dto.ts"
	defaultOutputGo = "summary_dto.go"
)

// defaultOutput places the summary file next to the first entity
func defaultOutput(firstEntity, lang string) string {
	name := defaultOutputTS
	if lang == "go" {
		name = defaultOutputGo
	}
	return filepath.Join(filepath.Dir(firstEntity), name)
}

// render produces the DTO file contents for the configured language
func render(entities []types.EntityDescriptor, settings config.Config) (string, error) {
	if settings.Lang == "go" {
		return generator.RenderGo(entities, settings.Package)
	}
	return generator.SynthesizeEntities(entities, settings.GeneratorOptions()), nil
}

// validatorOptions enables the checks specific to the configured output language
func validatorOptions(settings config.Config) []validator.Option {
	if settings.Lang == "go" {
		return []validator.Option{validator.WithGoFields()}
	}
	return nil
}

// writeOutput creates path through a workspace edit so an existing file is never
// replaced, unless overwrite is set
func writeOutput(ctx context.Context, path, contents string, overwrite bool) error {
	if overwrite {
		if err := config.EnsureDir(path); err != nil {
			return err
		}
		return workspace.WriteFile(path, []byte(contents))
	}

	var edit types.WorkspaceEdit
	edit.CreateFile(path, contents)
	if err := workspace.NewFS(nil).ApplyEdit(ctx, edit); err != nil {
		if errors.Is(err, workspace.ErrFileExists) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		return err
	}
	return nil
}
