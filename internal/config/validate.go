package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		if _, err := Port(v); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := PublicURL(v); err != nil {
		errs = append(errs, err)
	}

	if p := strings.TrimSpace(v.GetString("catalog.path")); p != "" {
		if _, err := catalog.FormatOf(p); err != nil {
			errs = append(errs, fmt.Errorf("catalog.path: %w", err))
		}
	}

	if _, err := zapcore.ParseLevel(v.GetString("log.level")); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not a valid level", v.GetString("log.level")))
	}
	switch f := v.GetString("log.format"); f {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", f))
	}

	for _, key := range []string{"server.read_header_timeout", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout"} {
		if v.GetDuration(key) <= 0 {
			errs = append(errs, fmt.Errorf("%s must be greater than 0", key))
		}
	}

	return errors.Join(errs...)
}
