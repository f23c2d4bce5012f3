package command

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Freyapa/BT-NESTLE/internal/music"
	"github.com/Freyapa/BT-NESTLE/internal/playlist"
	"github.com/Freyapa/BT-NESTLE/internal/storage"
)

type PlaylistCommand struct {
	Bridge *playlist.Bridge
}

func (c *PlaylistCommand) Name() string        { return "playlist" }
func (c *PlaylistCommand) Description() string { return "Queue every song from your saved playlist" }
func (c *PlaylistCommand) Aliases() []string   { return []string{"pl", "เพลย์ลิสต์"} }

func (c *PlaylistCommand) Options() []*discordgo.ApplicationCommandOption { return nil }

func (c *PlaylistCommand) Run(inv *Invocation) error {
	if err := inv.Respond.Ack(false); err != nil {
		return nil
	}

	vs, err := music.FindUserVoiceState(inv.Session, inv.GuildID, inv.UserID)
	if err != nil {
		return inv.Respond.Edit("You must be in a voice channel.")
	}

	_ = inv.Respond.Edit("Loading your playlist...")

	n, err := c.Bridge.BulkEnqueue(inv.GuildID, vs.ChannelID, inv.ChannelID, inv.UserID, inv.Username)
	switch {
	case errors.Is(err, playlist.ErrEmptyPlaylist):
		return inv.Respond.Edit("Your playlist is empty.")
	case errors.Is(err, storage.ErrNotConnected):
		return inv.Respond.Edit("Playlist storage is not connected.")
	case errors.Is(err, music.ErrVoicePermission):
		return inv.Respond.Edit("Permission denied. Cannot join the voice channel.")
	case err != nil:
		return inv.Respond.Edit("Error: " + Truncate(err.Error(), statusDetailLimit))
	}

	return inv.Respond.Edit(fmt.Sprintf("Added %d songs from your playlist to the queue.", n))
}
