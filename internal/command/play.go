package command

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Freyapa/BT-NESTLE/internal/music"
	"github.com/Freyapa/BT-NESTLE/internal/music/resolver"
)

// statusDetailLimit caps error detail inside an inline status edit; channel
// mirrors get the longer errDetailLimit.
const statusDetailLimit = 100

type PlayCommand struct {
	Orch *music.Orchestrator
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a song by name or link" }
func (c *PlayCommand) Aliases() []string   { return []string{"p", "เล่น"} }

func (c *PlayCommand) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		stringOption("query", "Song name or link", true),
	}
}

func (c *PlayCommand) Run(inv *Invocation) error {
	query := strings.TrimSpace(inv.Arg)
	if query == "" {
		return inv.Respond.Ephemeral("A song name or link is required.")
	}

	if err := inv.Respond.Ack(false); err != nil {
		return nil
	}

	vs, err := music.FindUserVoiceState(inv.Session, inv.GuildID, inv.UserID)
	if err != nil {
		return inv.Respond.Edit("You must be in a voice channel.")
	}

	_ = inv.Respond.Edit("Searching...")

	outcome, err := c.Orch.Play(inv.GuildID, vs.ChannelID, inv.ChannelID, query, inv.Username)
	switch {
	case errors.Is(err, resolver.ErrNoResults):
		return inv.Respond.Edit("No results found.")
	case errors.Is(err, music.ErrVoicePermission):
		return inv.Respond.Edit("Permission denied. Cannot join the voice channel.")
	case err != nil:
		return inv.Respond.Edit("Error: " + Truncate(err.Error(), statusDetailLimit))
	}

	label := trackLabel(outcome.Track)
	if outcome.Queued {
		return inv.Respond.Edit("Added: " + label)
	}
	return inv.Respond.Edit("Playing: " + label)
}

func trackLabel(t music.Track) string {
	if t.Title != "" {
		return t.Title
	}
	return t.URL
}
