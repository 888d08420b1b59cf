package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/uframe"
	toml "github.com/pelletier/go-toml/v2"
)

const defaultConfigPath = "~/.config/uframe/config.toml"

// Config holds flag defaults read from a TOML file. Keys are flag names with
// dashes replaced by underscores, e.g.
//
//	base_url = "https://ooinet.oceanobservatories.org"
//	api_user = "OOIAPI-XXXXXXXXXXXXXX"
//	api_token = "XXXXXXXXXXXX"
//	timeout = "300s"
type Config map[string]any

// configAliases maps file keys to the flag they configure when they differ.
var configAliases = map[string]string{
	"api_user":  "user",
	"api_token": "token",
}

// LoadConfig reads the config file at path. A missing file yields an empty
// Config. An empty path means the default location.
func LoadConfig(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, uframe.Errorf(uframe.ECONFIG, "config path: %v", err)
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Config{}, nil
	} else if err != nil {
		return nil, uframe.Errorf(uframe.ECONFIG, "read config: %v", err)
	}

	raw := map[string]any{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, uframe.Errorf(uframe.ECONFIG, "parse config %s: %v", resolved, err)
	}

	cfg := make(Config, len(raw))
	for k, v := range raw {
		key := strings.ReplaceAll(strings.ToLower(k), "-", "_")
		if alias, ok := configAliases[key]; ok {
			key = alias
		}
		cfg[key] = v
	}
	return cfg, nil
}

// Resolver returns a kong resolver supplying values for flags not given on
// the command line.
func (c Config) Resolver() kong.Resolver {
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]
		if !ok {
			return nil, nil
		}
		return fmt.Sprint(v), nil
	})
}

// configPathFromArgs returns the --config value in args, if any.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
