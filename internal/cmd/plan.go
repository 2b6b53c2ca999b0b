package cmd

import (
	"fmt"
	"io"
	"os"

	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/planner"
)

type Plan struct {
	Identifier string `arg:"" help:"Identifier ending in Dto, e.g. UserProfileDto"`
	Base       string `help:"Directory of the referencing document" default:"." type:"path"`
	Format     string `help:"Output format" enum:"text,json,yaml" default:"text"`

	out io.Writer
}

// Run is called by Kong when the plan command is executed.
func (p *Plan) Run() error {
	plan, err := planner.PlanDto(p.Identifier, p.Base)
	if err != nil {
		return err
	}

	w := p.out
	if w == nil {
		w = os.Stdout
	}

	if p.Format != "text" {
		data, err := config.Marshal(p.Format, plan)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	_, err = fmt.Fprintf(w, "class:   %s\nfile:    %s\npath:    %s\nimport:  %scontent: %s\n",
		plan.ClassName, plan.FileName, plan.FilePath, plan.ImportStatement(), plan.FileContent)
	return err
}
