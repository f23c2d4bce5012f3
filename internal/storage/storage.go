package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/keshon/datastore"
)

const (
	playlistKeyPrefix = "playlists/"
	botStatusKey      = "stats/bot_status"
	activeSessionsKey = "stats/active_sessions"
)

// ErrNotConnected is returned by the stub store when the database could not
// be opened at startup. Playback keeps working; playlist features degrade.
var ErrNotConnected = errors.New("database is not connected")

// PlaylistEntry is a single saved track in a user's web playlist.
type PlaylistEntry struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

// BotStatus is the per-tick telemetry summary mirrored for the dashboard.
type BotStatus struct {
	Ping        int64   `json:"ping"`
	Uptime      float64 `json:"uptime"`
	Servers     int     `json:"servers"`
	Users       int     `json:"users"`
	LastUpdated int64   `json:"last_updated"`
}

// SessionStatus describes one active voice session for the dashboard.
type SessionStatus struct {
	GuildID     string `json:"guildId"`
	Name        string `json:"name"`
	Ping        int64  `json:"ping"`
	ChannelName string `json:"channelName"`
}

// Store is the document-database surface the bot and the HTTP API share.
type Store interface {
	ListPlaylist(userID string) ([]PlaylistEntry, error)
	AddPlaylistEntry(userID, url, title string) (PlaylistEntry, error)
	RemovePlaylistEntry(userID, entryID string) error
	SetBotStatus(status BotStatus) error
	SetActiveSessions(sessions []SessionStatus) error
	Close() error
}

// Storage persists playlists and telemetry in the external document store.
type Storage struct {
	ds *datastore.DataStore
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func playlistKey(userID string) string {
	return playlistKeyPrefix + userID
}

// loadPlaylist reads the raw map stored under a user's playlist key. The
// datastore hands back map[string]any after a reload, so values go through a
// JSON round trip the same way guild records do in the upstream store.
func (s *Storage) loadPlaylist(userID string) (map[string]PlaylistEntry, error) {
	data, exists := s.ds.Get(playlistKey(userID))
	if !exists {
		return map[string]PlaylistEntry{}, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal playlist data: %w", err)
	}

	var entries map[string]PlaylistEntry
	if err := json.Unmarshal(jsonData, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal playlist data: %w", err)
	}
	if entries == nil {
		entries = map[string]PlaylistEntry{}
	}
	return entries, nil
}

// ListPlaylist returns the user's entries sorted by ascending AddedAt.
// A user with no entries gets an empty list, not an error.
func (s *Storage) ListPlaylist(userID string) ([]PlaylistEntry, error) {
	entries, err := s.loadPlaylist(userID)
	if err != nil {
		return nil, err
	}

	list := make([]PlaylistEntry, 0, len(entries))
	for id, e := range entries {
		if e.ID == "" {
			e.ID = id
		}
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AddedAt.Before(list[j].AddedAt)
	})
	return list, nil
}

func (s *Storage) AddPlaylistEntry(userID, url, title string) (PlaylistEntry, error) {
	entries, err := s.loadPlaylist(userID)
	if err != nil {
		return PlaylistEntry{}, err
	}

	entry := PlaylistEntry{
		ID:      uuid.NewString(),
		URL:     url,
		Title:   title,
		AddedAt: time.Now().UTC(),
	}
	entries[entry.ID] = entry
	s.ds.Add(playlistKey(userID), entries)
	return entry, nil
}

func (s *Storage) RemovePlaylistEntry(userID, entryID string) error {
	entries, err := s.loadPlaylist(userID)
	if err != nil {
		return err
	}

	if _, ok := entries[entryID]; !ok {
		return fmt.Errorf("playlist entry %q not found", entryID)
	}
	delete(entries, entryID)
	s.ds.Add(playlistKey(userID), entries)
	return nil
}

// SetBotStatus overwrites the dashboard status document.
func (s *Storage) SetBotStatus(status BotStatus) error {
	s.ds.Add(botStatusKey, status)
	return nil
}

// SetActiveSessions overwrites the full session list. Sessions gone since the
// previous tick must not linger, so this is never a merge.
func (s *Storage) SetActiveSessions(sessions []SessionStatus) error {
	if sessions == nil {
		sessions = []SessionStatus{}
	}
	s.ds.Add(activeSessionsKey, sessions)
	return nil
}
