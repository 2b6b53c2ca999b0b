package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// NormalizeFormat maps a format name or file extension to json, yaml or toml
func NormalizeFormat(f string) string {
	switch strings.ToLower(strings.TrimPrefix(f, ".")) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// Marshal encodes v in the given format
func Marshal(format string, v any) ([]byte, error) {
	switch NormalizeFormat(format) {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(v)
	case "toml":
		return toml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// KeySeparator returns the word separator the configuration loader of format
// expects in flag keys: kong's JSON resolver reads log_level, kong-yaml and
// kong-toml read log-level.
func KeySeparator(format string) string {
	if NormalizeFormat(format) == "json" {
		return "_"
	}
	return "-"
}

// Template builds a config document from the flag defaults of a kong command struct.
// Multi-word keys are joined with sep.
func Template(t reflect.Type, sep string) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" || f.Tag.Get("template") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("arg"); ok {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			prefix := strings.ReplaceAll(f.Tag.Get("prefix"), "-", sep)
			for k, v := range Template(f.Type, sep) {
				out[prefix+k] = v
			}
			continue
		}
		// kong expands an empty path to the working directory
		if f.Tag.Get("type") == "path" && f.Tag.Get("default") == "" {
			continue
		}
		if val := defaultValue(f.Type, f.Tag.Get("default")); val != nil {
			out[flagKey(f, sep)] = val
		}
	}
	return out
}

func flagKey(f reflect.StructField, sep string) string {
	name := f.Tag.Get("name")
	if name == "" {
		name = hyphenate(f.Name)
	}
	return strings.ReplaceAll(name, "-", sep)
}

// hyphenate converts a Go field name to kong's default flag name
func hyphenate(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func defaultValue(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int64:
		n, err := strconv.Atoi(def)
		if err != nil {
			return 0
		}
		return n
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Int {
			out := []int{}
			for _, part := range strings.Split(def, ",") {
				if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
					out = append(out, n)
				}
			}
			return out
		}
		out := []string{}
		for _, part := range strings.Split(def, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}
