package playlist

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freyapa/BT-NESTLE/internal/music"
	"github.com/Freyapa/BT-NESTLE/internal/storage"
)

// memStore is an in-memory Store keeping insertion order per user.
type memStore struct {
	entries map[string][]storage.PlaylistEntry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]storage.PlaylistEntry)}
}

func (m *memStore) ListPlaylist(userID string) ([]storage.PlaylistEntry, error) {
	return m.entries[userID], nil
}

func (m *memStore) AddPlaylistEntry(userID, url, title string) (storage.PlaylistEntry, error) {
	e := storage.PlaylistEntry{ID: url, URL: url, Title: title, AddedAt: time.Now()}
	m.entries[userID] = append(m.entries[userID], e)
	return e, nil
}

func (m *memStore) RemovePlaylistEntry(userID, entryID string) error {
	list := m.entries[userID]
	for i, e := range list {
		if e.ID == entryID {
			m.entries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotConnected
}

func (m *memStore) SetBotStatus(storage.BotStatus) error { return nil }

func (m *memStore) SetActiveSessions([]storage.SessionStatus) error { return nil }

func (m *memStore) Close() error { return nil }

// recordEngine captures every URL handed to it, in order.
type recordEngine struct {
	mu      sync.Mutex
	urls    []string
	playing bool
}

func (e *recordEngine) Enqueue(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.urls = append(e.urls, url)
	return nil
}
func (e *recordEngine) Play(string) { e.mu.Lock(); e.playing = true; e.mu.Unlock() }
func (e *recordEngine) Skip()       {}
func (e *recordEngine) Stop()       {}
func (e *recordEngine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.urls)
}
func (e *recordEngine) NowPlaying() (music.Track, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return music.Track{}, false
	}
	return music.Track{URL: e.urls[0]}, true
}

func newTestBridge(store storage.Store) (*Bridge, *recordEngine) {
	eng := &recordEngine{}
	reg := music.NewRegistry(nil, func(string) music.Engine { return eng })
	orch := music.NewOrchestrator(reg, nil, nil)
	return NewBridge(store, orch), eng
}

func TestBulkEnqueueEmptyPlaylist(t *testing.T) {
	bridge, _ := newTestBridge(newMemStore())

	_, err := bridge.BulkEnqueue("g1", "voice", "text", "user-1", "tester")
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestBulkEnqueuePreservesSavedOrder(t *testing.T) {
	store := newMemStore()
	for _, url := range []string{"https://a", "https://b", "https://c"} {
		_, err := store.AddPlaylistEntry("user-1", url, "")
		require.NoError(t, err)
	}
	bridge, eng := newTestBridge(store)

	n, err := bridge.BulkEnqueue("g1", "voice", "text", "user-1", "tester")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	eng.mu.Lock()
	urls := append([]string(nil), eng.urls...)
	eng.mu.Unlock()
	assert.Equal(t, []string{"https://a", "https://b", "https://c"}, urls)
}

func TestBulkEnqueueSkipsBlankURLs(t *testing.T) {
	store := newMemStore()
	store.entries["user-1"] = []storage.PlaylistEntry{
		{ID: "1", URL: "https://a"},
		{ID: "2", URL: ""},
		{ID: "3", URL: "https://b"},
	}
	bridge, _ := newTestBridge(store)

	n, err := bridge.BulkEnqueue("g1", "voice", "text", "user-1", "tester")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBulkEnqueueStoreErrorPropagates(t *testing.T) {
	bridge, _ := newTestBridge(storage.NewStub())

	_, err := bridge.BulkEnqueue("g1", "voice", "text", "user-1", "tester")
	assert.ErrorIs(t, err, storage.ErrNotConnected)
}

func TestAddRequiresURL(t *testing.T) {
	bridge, _ := newTestBridge(newMemStore())

	_, err := bridge.Add("user-1", "", "No URL")
	assert.Error(t, err)
}
