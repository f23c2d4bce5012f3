package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/Freyapa/BT-NESTLE/internal/command"
	"github.com/Freyapa/BT-NESTLE/internal/config"
	"github.com/Freyapa/BT-NESTLE/internal/version"
)

// Bot wires the gateway session to the command registry. Both inbound
// surfaces, slash interactions and prefixed text messages, dispatch through
// the same registry.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	registry *command.Registry
}

func NewBot(dg *discordgo.Session, cfg *config.Config, reg *command.Registry) *Bot {
	return &Bot{dg: dg, cfg: cfg, registry: reg}
}

// Run opens the gateway session and blocks until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.configureIntents()
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing gateway")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Str("version", version.Version).
		Msg("gateway ready")

	_ = s.UpdateListeningStatus(b.cfg.CommandPrefix + " play")

	if b.cfg.InitSlashCommands {
		if err := b.registerSlashCommands(s); err != nil {
			log.Error().Err(err).Msg("slash command registration failed")
		}
	}
}

// registerSlashCommands overwrites the global application command set with
// the registry's current table.
func (b *Bot) registerSlashCommands(s *discordgo.Session) error {
	cmds := b.registry.All()
	defs := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, c := range cmds {
		defs = append(defs, &discordgo.ApplicationCommand{
			Name:        c.Name(),
			Description: c.Description(),
			Options:     c.Options(),
		})
	}
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", defs)
	if err != nil {
		return fmt.Errorf("bulk overwrite: %w", err)
	}
	log.Info().Int("count", len(defs)).Msg("slash commands registered")
	return nil
}

// onMessageCreate is the text-surface adapter. It parses prefixed messages
// into the canonical invocation and hands them to the registry; everything
// else in the channel is ignored.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	name, arg, ok := command.ParsePrefixed(b.cfg.CommandPrefix, m.Content)
	if !ok {
		return
	}

	b.registry.Dispatch(&command.Invocation{
		Command:   name,
		Arg:       arg,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Surface:   command.SurfaceText,
		Session:   s,
		Respond:   &messageResponder{s: s, channelID: m.ChannelID},
	})
}

// onInteractionCreate is the slash-surface adapter.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	arg := ""
	if len(data.Options) > 0 {
		arg = data.Options[0].StringValue()
	}

	userID, username := interactionUser(i)
	b.registry.Dispatch(&command.Invocation{
		Command:   data.Name,
		Arg:       arg,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    userID,
		Username:  username,
		Surface:   command.SurfaceSlash,
		Session:   s,
		Respond:   &interactionResponder{s: s, i: i.Interaction},
	})
}

func interactionUser(i *discordgo.InteractionCreate) (id, name string) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID, i.Member.User.Username
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}
