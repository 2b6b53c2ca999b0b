package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appName = "dtogen"
	// EnvConfig names an explicit config file
	EnvConfig = "DTOGEN_CONFIG"
)

// DefaultConfigDir returns the platform-specific configuration directory
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, appName), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// EnsureDir ensures the directory for a given file path exists
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// FindUserConfig returns the --config argument or DTOGEN_CONFIG, before kong parses anything
func FindUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(EnvConfig)
}

// Candidate is a config file location and the format of its loader
type Candidate struct {
	Path   string
	Format string
}

// CandidatePaths lists config file candidates, highest priority first.
// A user path is routed to the loader matching its extension.
func CandidatePaths(userPath string) []Candidate {
	var out []Candidate
	addAll := func(dir, base string) {
		out = append(out,
			Candidate{filepath.Join(dir, base+".json"), "json"},
			Candidate{filepath.Join(dir, base+".yaml"), "yaml"},
			Candidate{filepath.Join(dir, base+".yml"), "yaml"},
			Candidate{filepath.Join(dir, base+".toml"), "toml"},
		)
	}

	if userPath != "" {
		format := NormalizeFormat(filepath.Ext(userPath))
		if format == "" {
			format = "json"
		}
		out = append(out, Candidate{userPath, format})
	}

	if wd, err := os.Getwd(); err == nil {
		addAll(wd, appName)
		addAll(wd, "."+appName)
	}

	if dir, err := DefaultConfigDir(); err == nil {
		addAll(dir, "config")
	}

	return out
}
