package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/melodix/player"
	songpkg "github.com/keshon/melodix/song"
	melodixstorage "github.com/keshon/melodix/storage"
)

// Engine is the queue/streaming surface a guild session drives. The real
// implementation wraps a melodix player; tests substitute a fake.
type Engine interface {
	Enqueue(url string) error
	Play(voiceChannelID string)
	Skip()
	Stop()
	QueueLen() int
	NowPlaying() (Track, bool)
}

// EngineFactory builds one Engine per guild session.
type EngineFactory func(guildID string) Engine

type melodixEngine struct {
	p *player.Player
}

// MelodixEngineFactory wires melodix as the playback engine. Each guild gets
// its own player; they share the library's storage file.
func MelodixEngineFactory(dg *discordgo.Session, store *melodixstorage.Storage) EngineFactory {
	return func(guildID string) Engine {
		p := player.New(dg, store)
		p.GuildID = guildID
		return &melodixEngine{p: p}
	}
}

func (e *melodixEngine) Enqueue(url string) error {
	songs, err := songpkg.New().FetchSong(url)
	if err != nil {
		return fmt.Errorf("fetch song: %w", err)
	}
	if len(songs) == 0 {
		return fmt.Errorf("no playable source for %s", url)
	}
	e.p.Queue = append(e.p.Queue, songs...)
	return nil
}

func (e *melodixEngine) Play(voiceChannelID string) {
	e.p.ChannelID = voiceChannelID
	e.p.Play()
}

// Skip and Stop use non-blocking sends: the player only drains its signal
// channel while streaming, and a session that never started must not wedge
// a leave command.
func (e *melodixEngine) Skip() {
	select {
	case e.p.Signals <- player.ActionSkip:
	default:
	}
}

func (e *melodixEngine) Stop() {
	select {
	case e.p.Signals <- player.ActionStop:
	default:
	}
}

func (e *melodixEngine) QueueLen() int {
	return len(e.p.Queue)
}

func (e *melodixEngine) NowPlaying() (Track, bool) {
	s := e.p.Song
	if s == nil {
		return Track{}, false
	}
	title, _, url, err := s.GetInfo(s)
	if err != nil {
		return Track{Title: s.Title, URL: s.PublicLink}, true
	}
	return Track{Title: title, URL: url}, true
}
