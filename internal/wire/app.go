package wire

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/thingstocheck/internal/catalog"
	"github.com/mithrel/thingstocheck/internal/keys"
	"github.com/mithrel/thingstocheck/internal/logging"
	"github.com/mithrel/thingstocheck/internal/render"
	"github.com/mithrel/thingstocheck/internal/suggest"
)

// App aggregates the major services for easy injection. Everything in it is
// read-only after BuildApp returns.
type App struct {
	Cfg      *viper.Viper
	Log      *zap.Logger
	Catalog  *catalog.Catalog
	Selector *suggest.Selector
}

// Secrets is consulted for the Slack signing secret when slack.keyring is on.
var Secrets keys.Store = &keys.KeyringStore{}

// BuildApp wires dependencies with the provided config. A catalog that cannot
// be loaded is fatal: the app refuses to start rather than serve nothing.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	logger, err := logging.New(cfg.GetString("log.level"), cfg.GetString("log.format"))
	if err != nil {
		return nil, err
	}
	secret, err := keys.SigningSecret(cfg, Secrets)
	if err != nil {
		return nil, err
	}
	if secret != "" && cfg.GetString("slack.signing_secret") == "" {
		// Downstream only reads the config key.
		cfg.Set("slack.signing_secret", secret)
		logger.Debug("slack signing secret loaded from keyring")
	}
	source := cfg.GetString("catalog.path")
	things, err := catalog.Load(ctx, source, render.HTML)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = catalog.DefaultSource
	}
	logger.Debug("catalog loaded",
		zap.String("source", source),
		zap.Int("entries", things.Len()),
		zap.String("digest", things.Digest()),
	)
	if things.IsEmpty() {
		logger.Warn("catalog is empty; every request will return not found", zap.String("source", source))
	}
	return &App{
		Cfg:      cfg,
		Log:      logger,
		Catalog:  things,
		Selector: suggest.New(),
	}, nil
}
