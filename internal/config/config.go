package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is used for config search paths.
const AppName = "things-to-check"

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
//
// A config file set explicitly with SetConfigFile must exist and parse; the
// search paths are optional.
func Load(ctx context.Context, v *viper.Viper) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, AppName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// THINGS_* env vars, plus the platform-provided PORT (unprefixed).
	v.SetEnvPrefix("things")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("port", "PORT"); err != nil {
		return err
	}

	if strings.TrimSpace(v.GetString("log.level")) == "" {
		v.Set("log.level", "info")
	}
	return nil
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, AppName, "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for defaults and the TOML generator.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "port", Default: DefaultPort, Comment: "Listen port; the PORT environment variable overrides it"},
		{Key: "http_addr", Default: "", Comment: "Explicit listen address (host:port); takes precedence over port"},
		{Key: "public_url", Default: "", Comment: "Absolute base URL for share links; derived from each request when empty"},
		{Key: "trust_proxy", Default: false, Comment: "Honour X-Forwarded-Proto/Host when deriving share links"},

		{Key: "catalog.path", Default: "", Comment: "Suggestion list (.yml, .toml or .db); empty uses the built-in list"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.format", Default: "json", Comment: "Log encoding: json or console"},

		{Key: "slack.signing_secret", Default: "", Comment: "Slack signing secret; when set, /slack/troubleshoot requests must be signed"},
		{Key: "slack.keyring", Default: false, Comment: "Read the signing secret from the system keyring when signing_secret is empty"},

		{Key: "server.read_header_timeout", Default: "5s", Comment: "Maximum time to read request headers"},
		{Key: "server.read_timeout", Default: "15s", Comment: "Maximum time to read a whole request, body included"},
		{Key: "server.write_timeout", Default: "15s", Comment: "Maximum time to write a response"},
		{Key: "server.shutdown_timeout", Default: "10s", Comment: "Grace period for in-flight requests on shutdown"},
	}
}
