package command

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/Freyapa/BT-NESTLE/internal/music"
)

type SkipCommand struct {
	Orch *music.Orchestrator
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current song" }
func (c *SkipCommand) Aliases() []string   { return []string{"s", "ข้าม"} }

func (c *SkipCommand) Options() []*discordgo.ApplicationCommandOption { return nil }

func (c *SkipCommand) Run(inv *Invocation) error {
	if err := inv.Respond.Ack(false); err != nil {
		return nil
	}

	err := c.Orch.Skip(inv.GuildID)
	switch {
	case errors.Is(err, music.ErrEmptyQueue):
		return inv.Respond.Edit("Queue is empty, nothing to skip.")
	case errors.Is(err, music.ErrNoNextTrack):
		return inv.Respond.Edit("No more songs to skip.")
	case err != nil:
		return err
	}
	return inv.Respond.Edit("Skipped.")
}
