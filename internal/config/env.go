package config

import (
	"os"

	"github.com/alecthomas/kong"
)

// EnvResolver resolves flags from their env tags. Registered after the
// configuration loaders it lets DTOGEN_* variables override config files,
// since kong keeps the last value any resolver returns.
func EnvResolver() kong.Resolver {
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, env := range flag.Tag.Envs {
			if v, ok := os.LookupEnv(env); ok && v != "" {
				return v, nil
			}
		}
		return nil, nil
	})
}
