package helpers

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/ddlgen/ddlgen/gen"
	"github.com/ddlgen/ddlgen/gen/parser"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultConfigPath = "./ddlgen.yaml"
	EnvPrefix         = "DDLGEN_"
)

// GetConfigFromFile loads the configuration in layers: defaults, then
// the yaml file, then DDLGEN_ prefixed environment variables.
// A missing file is not an error, the other layers still apply.
func GetConfigFromFile(configPath string) (gen.Config, error) {
	var config gen.Config

	k := koanf.New(".")

	err := k.Load(confmap.Provider(map[string]any{
		"language_variant": "php8",
		"default_database": parser.DefaultDatabase,
		"generator":        "ddlgen-php " + Version(),
	}, "."), nil)
	if err != nil {
		return config, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		err := k.Load(file.Provider(configPath), yaml.Parser())
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return config, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return config, fmt.Errorf("loading env: %w", err)
	}

	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return config, fmt.Errorf("unmarshaling config: %w", err)
	}

	return config, nil
}

func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}

	return ""
}
