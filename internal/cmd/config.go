package cmd

import (
	"errors"
	"os"
	"reflect"

	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file holding every flag default.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output string `help:"Destination file path (defaults to dtogen.<format> in the current directory)" type:"path"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

// Run is called by Kong when the config init command is executed.
func (c *ConfigInit) Run() error {
	data, err := config.Marshal(c.Format, config.Template(reflect.TypeOf(CLI{}), config.KeySeparator(c.Format)))
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = "dtogen." + config.NormalizeFormat(c.Format)
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := config.EnsureDir(dest); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}

	logger.Success("Wrote %s", dest)
	return nil
}
