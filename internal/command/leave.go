package command

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Freyapa/BT-NESTLE/internal/music"
)

type LeaveCommand struct {
	Orch *music.Orchestrator
}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Leave the voice channel" }
func (c *LeaveCommand) Aliases() []string   { return []string{"ออก"} }

func (c *LeaveCommand) Options() []*discordgo.ApplicationCommandOption { return nil }

// Run is idempotent: leaving with no session is informational, not an error.
func (c *LeaveCommand) Run(inv *Invocation) error {
	if err := inv.Respond.Ack(false); err != nil {
		return nil
	}

	if !c.Orch.Leave(inv.GuildID) {
		return inv.Respond.Edit("Not in a voice channel.")
	}

	// The original quietly removes its own acknowledgment on success.
	if err := inv.Respond.Delete(); err != nil {
		return inv.Respond.Edit("Left the voice channel.")
	}
	return nil
}
