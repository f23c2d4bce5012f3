package playlist

import (
	"errors"
	"fmt"

	"github.com/Freyapa/BT-NESTLE/internal/music"
	"github.com/Freyapa/BT-NESTLE/internal/storage"
)

// ErrEmptyPlaylist means the user has nothing saved to enqueue.
var ErrEmptyPlaylist = errors.New("playlist is empty")

// Bridge is the CRUD layer over a user's saved track list, shared by the bot
// commands and the HTTP API. The user ID always comes from verified identity
// (token subject or Discord member), never from request parameters.
type Bridge struct {
	store storage.Store
	orch  *music.Orchestrator
}

func NewBridge(store storage.Store, orch *music.Orchestrator) *Bridge {
	return &Bridge{store: store, orch: orch}
}

// List returns the user's entries ordered by ascending AddedAt.
func (b *Bridge) List(userID string) ([]storage.PlaylistEntry, error) {
	return b.store.ListPlaylist(userID)
}

func (b *Bridge) Add(userID, url, title string) (storage.PlaylistEntry, error) {
	if url == "" {
		return storage.PlaylistEntry{}, fmt.Errorf("url is required")
	}
	return b.store.AddPlaylistEntry(userID, url, title)
}

func (b *Bridge) Remove(userID, entryID string) error {
	return b.store.RemovePlaylistEntry(userID, entryID)
}

// BulkEnqueue loads the user's playlist and hands it to the orchestrator as
// one ordered batch, so queue insertion is atomic from the caller's side.
func (b *Bridge) BulkEnqueue(guildID, voiceChannelID, textChannelID, userID, requester string) (int, error) {
	entries, err := b.store.ListPlaylist(userID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, ErrEmptyPlaylist
	}

	tracks := make([]music.Track, 0, len(entries))
	for _, e := range entries {
		if e.URL == "" {
			continue
		}
		tracks = append(tracks, music.Track{
			Title:     e.Title,
			URL:       e.URL,
			Requester: requester,
		})
	}
	if len(tracks) == 0 {
		return 0, ErrEmptyPlaylist
	}

	return b.orch.PlayBatch(guildID, voiceChannelID, textChannelID, tracks)
}
