package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sdpower/mite-go/internal/types"
	log "github.com/sirupsen/logrus"
)

const (
	EnvPrefix      = "MITE_"
	ConfigFileName = ".mite_config.json"
	EnvFileName    = ".env"
)

// Credentials identify a Mite account. Built once by Load and passed by value.
type Credentials struct {
	Account string `koanf:"account" json:"account"`
	APIKey  string `koanf:"api_key" json:"api_key"`
}

type Options struct {
	// EnvFile defaults to .env in the working directory.
	EnvFile string
	// ConfigFile defaults to ~/.mite_config.json.
	ConfigFile string
	// SkipEnvironment ignores MITE_* process variables.
	SkipEnvironment bool
}

type source struct {
	name string
	load func(k *koanf.Koanf) error
}

// Load resolves credentials field by field from the .env file, then the
// config file, then the process environment. The first non-empty value wins.
func Load(opts Options) (Credentials, error) {
	if opts.EnvFile == "" {
		opts.EnvFile = EnvFileName
	}
	if opts.ConfigFile == "" {
		path, err := DefaultPath()
		if err != nil {
			return Credentials{}, err
		}
		opts.ConfigFile = path
	}

	sources := []source{
		{name: opts.EnvFile, load: loadEnvFile(opts.EnvFile)},
		{name: opts.ConfigFile, load: loadConfigFile(opts.ConfigFile)},
	}
	if !opts.SkipEnvironment {
		sources = append(sources, source{name: "environment", load: loadEnvironment})
	}

	var creds Credentials
	for _, src := range sources {
		k := koanf.New(".")
		if err := src.load(k); err != nil {
			return Credentials{}, err
		}

		var layer Credentials
		if err := k.Unmarshal("", &layer); err != nil {
			return Credentials{}, fmt.Errorf("failed to decode credentials from %s: %w", src.name, err)
		}

		if creds.Account == "" && layer.Account != "" {
			log.Debugf("account taken from %s", src.name)
			creds.Account = layer.Account
		}
		if creds.APIKey == "" && layer.APIKey != "" {
			log.Debugf("api key taken from %s", src.name)
			creds.APIKey = layer.APIKey
		}
	}

	var missing []string
	if creds.Account == "" {
		missing = append(missing, "account")
	}
	if creds.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if len(missing) > 0 {
		return Credentials{}, types.ConfigError{Missing: missing}
	}

	return creds, nil
}

func loadEnvFile(path string) func(k *koanf.Koanf) error {
	return func(k *koanf.Koanf) error {
		if !exists(path) {
			log.Debugf("env file %s not found", path)
			return nil
		}
		parser := dotenv.ParserEnv(EnvPrefix, ".", envKey)
		if err := k.Load(file.Provider(path), parser); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
}

func loadConfigFile(path string) func(k *koanf.Koanf) error {
	return func(k *koanf.Koanf) error {
		if !exists(path) {
			log.Debugf("config file %s not found", path)
			return nil
		}
		// JSON is valid YAML, so the yaml parser reads the config file as is.
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		return nil
	}
}

func loadEnvironment(k *koanf.Koanf) error {
	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKey(key), value
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	return nil
}

// envKey maps MITE_API_KEY to api_key.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DefaultPath returns ~/.mite_config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ConfigFileName), nil
}

// Save writes creds to path as indented JSON readable only by the owner.
func Save(path string, creds Credentials) error {
	if creds.Account == "" || creds.APIKey == "" {
		return types.ValidationError{Field: "credentials", Message: "account and api key are both required"}
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict permissions on %s: %w", path, err)
	}

	log.Debugf("saved credentials to %s", path)
	return nil
}
