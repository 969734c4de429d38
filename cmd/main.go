package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/desertthunder/vgx/internal/services"
	"github.com/desertthunder/vgx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	catalog := services.NewVipVGMService(
		config.Catalog.BaseURL,
		config.Catalog.UserAgent,
		time.Duration(config.Catalog.TimeoutSeconds)*time.Second,
	)

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		Logger:     logger,
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				spotify.UseToken(context.Background(), token)
			}
			opts.Search = spotify
			opts.Playlists = spotify
			opts.Auth = spotify
		}
	}

	if db, err := openDatabase(config); err == nil {
		opts.DB = db
		defer db.Close()
	} else {
		logger.Debug("database unavailable, outcome caching disabled", "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "vgx",
		Usage:    "Bridge the VipVGM roster into Spotify playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// openDatabase opens the configured sqlite database when it has already been
// initialized via `vgx setup database`. A missing file is not an error here;
// commands that need persistence degrade gracefully without it.
func openDatabase(config *shared.Config) (*sql.DB, error) {
	if _, err := os.Stat(config.Database.Path); err != nil {
		return nil, err
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	return db, nil
}
