package app

import (
	"context"
	"fmt"

	"roomstudio/internal/api"
	"roomstudio/internal/config"
	"roomstudio/internal/logger"
	"roomstudio/internal/pipeline"
	"roomstudio/internal/prefs"
	"roomstudio/internal/ui"
)

// Options configure the roomstudio application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roomstudio/prefs.toml
	APIURL     string // overrides config and environment when set
	ImagePath  string // photo to load on startup, optional
}

// Run boots the roomstudio TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	apiURL := cfg.APIURL
	if opts.APIURL != "" {
		apiURL = opts.APIURL
	}
	client, err := api.NewClient(apiURL)
	if err != nil {
		return fmt.Errorf("init design service client: %w", err)
	}

	store := pipeline.NewStore()
	machine := pipeline.NewMachine(store, client)

	brushPx := userPrefs.BrushPx
	if brushPx <= 0 {
		brushPx = cfg.BrushPx
	}

	logger.Sugar.Infow("starting roomstudio", "api_url", apiURL, "theme", userPrefs.Theme)

	return ui.Run(ui.Options{
		Context:   ctx,
		Machine:   machine,
		Config:    &cfg,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		BrushPx:   brushPx,
		ImagePath: opts.ImagePath,
	})
}
