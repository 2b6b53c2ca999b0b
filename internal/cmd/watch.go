package cmd

import (
	"context"
	"fmt"
	"time"

	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
	"git.weirdcat.su/weirdcat/dtogen/internal/parser"
	"git.weirdcat.su/weirdcat/dtogen/internal/validator"
	"git.weirdcat.su/weirdcat/dtogen/internal/watch"
)

type Watch struct {
	Entities []string      `arg:"" name:"entity" help:"Entity source files, in output order" type:"existingfile"`
	Output   string        `short:"o" help:"Output file (default: summary.dto.ts or summary_dto.go next to the first entity)" type:"path"`
	Debounce time.Duration `help:"Quiet period before regenerating" default:"200ms"`
}

// Run is called by Kong when the watch command is executed. It owns the output
// file and rewrites it on every change.
func (w *Watch) Run(ctx context.Context, settings config.Config) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	output := w.Output
	if output == "" {
		output = defaultOutput(w.Entities[0], settings.Lang)
	}

	regenerate := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			logger.Info("Changed: %v", changed)
		}
		entities, warnings, err := parser.ParseFiles(w.Entities)
		if err != nil {
			return err
		}
		if result := validator.NewValidator(entities, warnings, validatorOptions(settings)...).Validate(); !result.IsValid() {
			return fmt.Errorf("validation failed: %w", result.Err())
		}
		contents, err := render(entities, settings)
		if err != nil {
			return err
		}
		if err := writeOutput(ctx, output, contents, true); err != nil {
			return err
		}
		logger.Success("Regenerated %s", output)
		return nil
	}

	if err := regenerate(ctx, nil); err != nil {
		logger.Error("Initial generation failed: %v", err)
	}

	watcher, err := watch.New(w.Entities, w.Debounce, regenerate)
	if err != nil {
		return err
	}
	logger.Info("Watching %d entity files, press Ctrl+C to stop", len(w.Entities))
	return watcher.Run(ctx)
}
