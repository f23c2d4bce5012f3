package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	melodixstorage "github.com/keshon/melodix/storage"

	"github.com/Freyapa/BT-NESTLE/internal/command"
	"github.com/Freyapa/BT-NESTLE/internal/config"
	"github.com/Freyapa/BT-NESTLE/internal/discord"
	"github.com/Freyapa/BT-NESTLE/internal/music"
	"github.com/Freyapa/BT-NESTLE/internal/music/resolver"
	"github.com/Freyapa/BT-NESTLE/internal/playlist"
	"github.com/Freyapa/BT-NESTLE/internal/storage"
	"github.com/Freyapa/BT-NESTLE/internal/telemetry"
	"github.com/Freyapa/BT-NESTLE/internal/version"
	"github.com/Freyapa/BT-NESTLE/internal/web"
)

const tokenTTL = 24 * time.Hour

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Str("app", version.AppName).Str("version", version.Version).Msg("starting")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Playlist storage is optional at runtime: if the file cannot be opened
	// the bot still plays music, and playlist commands report the outage.
	var store storage.Store
	if s, err := storage.New(cfg.StoragePath); err != nil {
		log.Warn().Err(err).Msg("playlist storage unavailable, continuing without it")
		store = storage.NewStub()
	} else {
		store = s
		defer s.Close()
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord session")
	}

	playerStore, err := melodixstorage.New(cfg.PlayerStoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("player storage init failed")
	}

	res := resolver.New()
	if cfg.CookiesFile != "" {
		if err := res.LoadCookies(cfg.CookiesFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.CookiesFile).Msg("cookies not loaded")
		}
	}

	reg := music.NewRegistry(dg, music.MelodixEngineFactory(dg, playerStore))
	orch := music.NewOrchestrator(reg, res, dg)
	bridge := playlist.NewBridge(store, orch)
	issuer := web.NewIssuer(cfg.SigningSecret, tokenTTL)

	discord.MirrorEvents(dg, reg)

	commands := command.NewRegistry()
	mws := []command.Middleware{command.WithGuildOnly(), command.WithCommandLogger()}
	commands.Register(&command.PlayCommand{Orch: orch}, mws...)
	commands.Register(&command.SkipCommand{Orch: orch}, mws...)
	commands.Register(&command.LeaveCommand{Orch: orch}, mws...)
	commands.Register(&command.PlaylistCommand{Bridge: bridge}, mws...)
	commands.Register(&command.FilterCommand{Orch: orch}, mws...)
	commands.Register(&command.DeleteChatCommand{}, mws...)
	commands.Register(&command.SiteCommand{Issuer: issuer, BaseURL: cfg.SiteBaseURL}, command.WithCommandLogger())

	bot := discord.NewBot(dg, cfg, commands)

	go telemetry.NewPublisher(dg, reg, store).Run(ctx)
	go web.NewServer(store, issuer).Run(ctx, ":"+cfg.HTTPPort)
	go web.RunHealthServer(ctx, ":"+cfg.HealthPort)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot exited with error")
		}
		cancel()
	}

	log.Info().Msg("bot exited cleanly")
}
