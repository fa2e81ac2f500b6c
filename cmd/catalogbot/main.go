package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/m3rciful/catalogbot/bot"
	"github.com/m3rciful/catalogbot/core/cmd"
)

func main() {
	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg := carrier.(*bot.Config)
			return bot.Bootstrap(context.Background(), cfg)
		},
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
