// Package bot wires the conversation engine to the Telegram runtime:
// commands, callback routes, the text/photo router and reply rendering.
package bot

import (
	"context"
	"fmt"

	"github.com/m3rciful/catalogbot/bot/engine"
	"github.com/m3rciful/catalogbot/bot/session"
	coreconfig "github.com/m3rciful/catalogbot/core/config"
	"github.com/m3rciful/catalogbot/core/logger"
	coretelegram "github.com/m3rciful/catalogbot/core/telegram"
	"github.com/m3rciful/catalogbot/imghost"
	"github.com/m3rciful/catalogbot/store"
)

// Config carries the application configuration for the generic runner.
type Config struct {
	Core *coreconfig.Config
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return c.Core }

// LoadConfig reads and validates the configuration file.
func LoadConfig(path string) (*Config, error) {
	core, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Core: core}, nil
}

// App is the assembled application.
type App struct {
	cfg     *coreconfig.Config
	engine  *engine.Engine
	catalog *store.Catalog
}

// Bootstrap initialises logging, connects the store, seeds the catalog and
// assembles the engine.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	if err := logger.InitLogger(cfg.Core); err != nil {
		return nil, fmt.Errorf("bot: init logger: %w", err)
	}

	client, err := store.Connect(ctx, cfg.Core.Firestore)
	if err != nil {
		return nil, err
	}
	cat := store.NewCatalog(client)
	if err := cat.Seed(ctx); err != nil {
		return nil, err
	}

	eng := engine.New(cat, imghost.New(cfg.Core.ImageHost), session.NewRepo())

	return &App{cfg: cfg.Core, engine: eng, catalog: cat}, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)
	reg.SetTextFallback(a.textHandler)

	opts := coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: a.middlewares(),
		Routes:      a.routes(reg),
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.catalog.Close()
		},
	}
	return opts, nil
}
