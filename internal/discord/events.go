package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/Freyapa/BT-NESTLE/internal/music"
)

const embedColor = 0x9f00d4

// MirrorEvents subscribes to playback events and posts them to the text
// channel the triggering command came from. Send failures are logged and
// dropped; playback never stalls on a chat problem.
func MirrorEvents(s *discordgo.Session, reg *music.Registry) {
	reg.OnEvent(func(e music.Event) {
		if e.TextChannelID == "" {
			return
		}

		embed := eventEmbed(e)
		if embed == nil {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(e.TextChannelID, embed); err != nil {
			log.Debug().Err(err).Str("channel", e.TextChannelID).Msg("event mirror dropped")
		}
	})
}

func eventEmbed(e music.Event) *discordgo.MessageEmbed {
	switch e.Type {
	case music.EventNowPlaying:
		desc := fmt.Sprintf("**Now Playing**\n[%s](%s)", trackTitle(e.Track), e.Track.URL)
		if e.Track.Requester != "" {
			desc += "\nRequested by " + e.Track.Requester
		}
		embed := &discordgo.MessageEmbed{Description: desc, Color: embedColor}
		if e.Track.Thumbnail != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Track.Thumbnail}
		}
		return embed
	case music.EventTrackAdded:
		if e.Count > 1 {
			return &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Added **%d** songs to the queue.", e.Count),
				Color:       embedColor,
			}
		}
		return &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Added to queue: [%s](%s)", trackTitle(e.Track), e.Track.URL),
			Color:       embedColor,
		}
	case music.EventQueueDrained:
		return &discordgo.MessageEmbed{
			Description: "Queue finished. Leaving shortly unless something else is played.",
			Color:       embedColor,
		}
	}
	return nil
}

func trackTitle(t music.Track) string {
	if t.Title != "" {
		return t.Title
	}
	return t.URL
}
