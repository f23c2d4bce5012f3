package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every environment-driven setting the bot process needs.
type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required"`
	SigningSecret     string `env:"SIGNING_SECRET,required"`
	HTTPPort          string `env:"PORT" envDefault:"8080"`
	HealthPort        string `env:"HEALTH_PORT" envDefault:"8081"`
	StoragePath       string `env:"STORAGE_PATH" envDefault:"nestle.json"`
	PlayerStoragePath string `env:"PLAYER_STORAGE_PATH" envDefault:"melodix.json"`
	SiteBaseURL       string `env:"SITE_URL" envDefault:"https://nestle-playlist.vercel.app"`
	CookiesFile       string `env:"COOKIES_FILE"`
	CommandPrefix     string `env:"COMMAND_PREFIX" envDefault:"nestle"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

// New loads .env (if present) and parses the environment into a Config.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
