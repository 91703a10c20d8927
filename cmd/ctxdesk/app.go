package main

import (
	"context"

	"pkt.systems/ctxdesk"
	"pkt.systems/ctxdesk/internal/appconfig"
	"pkt.systems/pslog"
)

// openApp loads the config and builds an app without starting it.
func openApp(ctx context.Context, cfgPath string) (*ctxdesk.App, error) {
	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return nil, err
	}
	logger := pslog.Ctx(ctx)
	logger.Debug("config loaded", "state_dir", cfg.StateDir, "roots", cfg.Catalog.Roots)
	return ctxdesk.New(ctxdesk.Config{
		Session:      sessionCfg,
		StateDir:     cfg.StateDir,
		Catalog:      cfg.CatalogConfig(),
		MaxFileBytes: cfg.Catalog.MaxFileBytes,
		Debounce:     cfg.Debounce(),
	}, ctxdesk.Deps{Logger: logger})
}
