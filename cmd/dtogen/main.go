package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"git.weirdcat.su/weirdcat/dtogen/internal/cmd"
	"git.weirdcat.su/weirdcat/dtogen/internal/config"
	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
)

var loaders = map[string]kong.ConfigurationLoader{
	"json": kong.JSON,
	"yaml": kongyaml.Loader,
	"toml": kongtoml.Loader,
}

func newParser(cli *cmd.CLI, userConfig string) (*kong.Kong, error) {
	options := []kong.Option{
		kong.Name("dtogen"),
		kong.Description("Generate class-validator DTOs from entity classes and create missing DTO files"),
		kong.UsageOnError(),
	}

	// kong keeps the last resolved value: lowest priority file first, env last
	candidates := config.CandidatePaths(userConfig)
	for i := len(candidates) - 1; i >= 0; i-- {
		c := candidates[i]
		options = append(options, kong.Configuration(loaders[c.Format], c.Path))
	}
	options = append(options, kong.Resolvers(config.EnvResolver()))

	return kong.New(cli, options...)
}

func main() {
	args := os.Args[1:]

	var cli cmd.CLI
	parser, err := newParser(&cli, config.FindUserConfig(args))
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	closer, err := logger.Init(logger.Options{
		Level:   logger.ParseLevel(cli.Log.Level),
		File:    cli.Log.File,
		NoColor: cli.NoColor,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(cli.Settings)

	err = kctx.Run()
	stop()
	_ = closer.Close()
	kctx.FatalIfErrorf(err)
}
