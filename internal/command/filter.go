package command

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Freyapa/BT-NESTLE/internal/music"
)

type FilterCommand struct {
	Orch *music.Orchestrator
}

func (c *FilterCommand) Name() string        { return "filter" }
func (c *FilterCommand) Description() string { return "Toggle an audio filter for this session" }
func (c *FilterCommand) Aliases() []string   { return []string{"ฟิลเตอร์"} }

func (c *FilterCommand) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		stringOption("name", "Filter name", true),
	}
}

func (c *FilterCommand) Run(inv *Invocation) error {
	name := strings.ToLower(strings.TrimSpace(inv.Arg))
	if name == "" {
		return inv.Respond.Ephemeral("A filter name is required.")
	}

	enabled, err := c.Orch.ToggleFilter(inv.GuildID, name)
	if errors.Is(err, music.ErrNoActiveSession) {
		return inv.Respond.Ephemeral("Nothing is playing right now.")
	}
	if err != nil {
		return err
	}

	state := "off"
	if enabled {
		state = "on"
	}
	return inv.Respond.Reply("Filter " + name + " is now " + state + ".")
}
