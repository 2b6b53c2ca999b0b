package config

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"git.weirdcat.su/weirdcat/dtogen/internal/generator"
)

type templateCLI struct {
	Log struct {
		Level string `default:"normal"`
		File  string `type:"path"`
	} `embed:"" prefix:"log-"`
	NoColor    bool
	ConfigFile string   `name:"config" template:"-"`
	Hidden     string   `kong:"-"`
	Input      string   `arg:""`
	Settings   Config   `embed:""`
	Run        struct{} `cmd:""`
}

func TestTemplate(t *testing.T) {
	got := Template(reflect.TypeOf(templateCLI{}), "_")

	assert.Equal(t, map[string]any{
		"log_level": "normal",
		"no_color":  false,
		"lang":      "ts",
		"package":   "dto",
		"partial":   "explicit",
		"codes":     []int{2304, 2552},
	}, got)
}

func TestTemplateHyphenatedKeys(t *testing.T) {
	sep := KeySeparator("yml")
	got := Template(reflect.TypeOf(templateCLI{}), sep)

	assert.Equal(t, "-", sep)
	assert.Contains(t, got, "log-level")
	assert.Contains(t, got, "no-color")
	assert.Equal(t, "-", KeySeparator("toml"))
	assert.Equal(t, "_", KeySeparator("json"))
}

func TestMarshalRoundTrip(t *testing.T) {
	doc := map[string]any{"lang": "go", "package": "api"}

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{"json", json.Unmarshal},
		{"yaml", yaml.Unmarshal},
		{"yml", yaml.Unmarshal},
		{"toml", func(data []byte, v any) error {
			tree, err := toml.LoadBytes(data)
			if err != nil {
				return err
			}
			*v.(*map[string]any) = tree.ToMap()
			return nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Marshal(tt.format, doc)
			require.NoError(t, err)

			var back map[string]any
			require.NoError(t, tt.decode(data, &back))
			assert.Equal(t, "go", back["lang"])
			assert.Equal(t, "api", back["package"])
		})
	}

	_, err := Marshal("ini", doc)
	assert.Error(t, err)
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "yaml", NormalizeFormat(".yml"))
	assert.Equal(t, "json", NormalizeFormat("JSON"))
	assert.Equal(t, "toml", NormalizeFormat("toml"))
	assert.Equal(t, "", NormalizeFormat("xml"))
}

func TestFindUserConfig(t *testing.T) {
	t.Setenv(EnvConfig, "")

	tests := []struct {
		name     string
		args     []string
		env      string
		expected string
	}{
		{"separate value", []string{"generate", "--config", "cfg.yaml", "a.ts"}, "", "cfg.yaml"},
		{"equals form", []string{"--config=cfg.toml", "plan", "XDto"}, "", "cfg.toml"},
		{"flag wins over env", []string{"--config=flag.json"}, "env.json", "flag.json"},
		{"env fallback", []string{"generate", "a.ts"}, "env.yaml", "env.yaml"},
		{"dangling flag", []string{"--config"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfig, tt.env)
			assert.Equal(t, tt.expected, FindUserConfig(tt.args))
		})
	}
}

func TestCandidatePaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))

	got := CandidatePaths("custom.yml")
	require.NotEmpty(t, got)
	assert.Equal(t, Candidate{Path: "custom.yml", Format: "yaml"}, got[0])
	assert.Equal(t, "dtogen.json", filepath.Base(got[1].Path))
	assert.Equal(t, "json", got[1].Format)
	assert.Equal(t, "config.toml", filepath.Base(got[len(got)-1].Path))
	assert.Equal(t, "toml", got[len(got)-1].Format)

	got = CandidatePaths("settings.conf")
	assert.Equal(t, Candidate{Path: "settings.conf", Format: "json"}, got[0])

	got = CandidatePaths("")
	assert.Len(t, got, 12)
	assert.Equal(t, "dtogen.json", filepath.Base(got[0].Path))
}

func TestConfig(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, generator.PartialExplicit, cfg.GeneratorOptions().PartialStyle)
	assert.Equal(t, []int{2304, 2552}, cfg.Policy().Codes)

	cfg.Lang = "go"
	cfg.Package = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Codes = []int{2304, -1}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Partial = string(generator.PartialMappedTypes)
	cfg.Codes = nil
	assert.Equal(t, generator.PartialMappedTypes, cfg.GeneratorOptions().PartialStyle)
	assert.Equal(t, []int{2304, 2552}, cfg.Policy().Codes)
}
