package telemetry

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/Freyapa/BT-NESTLE/internal/music"
	"github.com/Freyapa/BT-NESTLE/internal/storage"
)

// Publisher mirrors live bot state to the external store on a fixed interval
// for the dashboard. Strictly best effort: any failure is dropped and must
// never touch playback.
type Publisher struct {
	dg       *discordgo.Session
	registry *music.Registry
	store    storage.Store

	interval time.Duration
	started  time.Time
}

func NewPublisher(dg *discordgo.Session, registry *music.Registry, store storage.Store) *Publisher {
	return &Publisher{
		dg:       dg,
		registry: registry,
		store:    store,
		interval: 5 * time.Second,
		started:  time.Now(),
	}
}

// Run publishes until ctx is cancelled. Run it in a goroutine.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishOnce()
		}
	}
}

func (p *Publisher) publishOnce() {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Interface("panic", rec).Msg("telemetry publish panicked")
		}
	}()

	status, sessions := p.snapshot()
	if err := p.store.SetBotStatus(status); err != nil {
		log.Debug().Err(err).Msg("bot status publish dropped")
	}
	if err := p.store.SetActiveSessions(sessions); err != nil {
		log.Debug().Err(err).Msg("session list publish dropped")
	}
}

// snapshot computes the full state to overwrite; nothing from previous ticks
// survives.
func (p *Publisher) snapshot() (storage.BotStatus, []storage.SessionStatus) {
	status := storage.BotStatus{
		Uptime:      time.Since(p.started).Seconds(),
		LastUpdated: time.Now().UnixMilli(),
	}

	if p.dg != nil {
		status.Ping = p.dg.HeartbeatLatency().Milliseconds()
		if p.dg.State != nil {
			status.Servers = len(p.dg.State.Guilds)
			for _, g := range p.dg.State.Guilds {
				status.Users += g.MemberCount
			}
		}
	}

	active := p.registry.Active()
	sessions := make([]storage.SessionStatus, 0, len(active))
	for _, info := range active {
		sess := storage.SessionStatus{
			GuildID:     info.GuildID,
			Name:        "Room #" + lastN(info.GuildID, 4),
			Ping:        status.Ping,
			ChannelName: "Unknown",
		}
		if p.dg != nil && p.dg.State != nil {
			if g, err := p.dg.State.Guild(info.GuildID); err == nil && g.Name != "" {
				sess.Name = g.Name
			}
			if ch, err := p.dg.State.Channel(info.VoiceChannelID); err == nil && ch.Name != "" {
				sess.ChannelName = ch.Name
			}
		}
		sessions = append(sessions, sess)
	}
	return status, sessions
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
