package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/parser"
	"git.weirdcat.su/weirdcat/dtogen/internal/validator"
)

type Generate struct {
	Entities []string `arg:"" name:"entity" help:"Entity source files, in output order" type:"existingfile"`
	Output   string   `short:"o" help:"Output file (default: summary.dto.ts or summary_dto.go next to the first entity)" type:"path"`
	Stdout   bool     `help:"Print the DTOs instead of writing a file"`
	Force    bool     `help:"Replace the output file if it already exists"`

	out io.Writer
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(ctx context.Context, settings config.Config) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	start := time.Now()

	logger.Step(1, 3, fmt.Sprintf("Parsing %d entity files", len(g.Entities)))
	entities, warnings, err := parser.ParseFiles(g.Entities)
	if err != nil {
		return fmt.Errorf("parsing entities: %w", err)
	}

	logger.Step(2, 3, "Validating entities")
	result := validator.NewValidator(entities, warnings, validatorOptions(settings)...).Validate()
	if !result.IsValid() {
		return fmt.Errorf("validation failed: %d errors", len(result.Errors))
	}

	logger.Step(3, 3, "Generating DTOs")
	contents, err := render(entities, settings)
	if err != nil {
		return err
	}

	if g.Stdout {
		w := g.out
		if w == nil {
			w = os.Stdout
		}
		_, err := io.WriteString(w, contents)
		return err
	}

	output := g.Output
	if output == "" {
		output = defaultOutput(g.Entities[0], settings.Lang)
	}
	if err := writeOutput(ctx, output, contents, g.Force); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Progress(start, "Generation finished")
	logger.Success("Generated %s with DTOs for %d entities", output, len(entities))
	return nil
}
