package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	store *Storage
	path  string
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "store.json")
	store, err := New(s.path)
	s.Require().NoError(err)
	s.store = store
}

func (s *StorageSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) TestListEmptyPlaylist() {
	list, err := s.store.ListPlaylist("user-1")
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *StorageSuite) TestAddAndListOrdered() {
	first, err := s.store.AddPlaylistEntry("user-1", "https://example.com/1", "First")
	s.Require().NoError(err)
	second, err := s.store.AddPlaylistEntry("user-1", "https://example.com/2", "Second")
	s.Require().NoError(err)

	s.NotEmpty(first.ID)
	s.NotEqual(first.ID, second.ID)

	list, err := s.store.ListPlaylist("user-1")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("First", list[0].Title)
	s.Equal("Second", list[1].Title)
	s.False(list[1].AddedAt.Before(list[0].AddedAt))
}

func (s *StorageSuite) TestPlaylistsAreUserScoped() {
	_, err := s.store.AddPlaylistEntry("user-1", "https://example.com/1", "Mine")
	s.Require().NoError(err)

	list, err := s.store.ListPlaylist("user-2")
	s.Require().NoError(err)
	s.Empty(list, "another user's playlist leaked")
}

func (s *StorageSuite) TestRemoveEntry() {
	entry, err := s.store.AddPlaylistEntry("user-1", "https://example.com/1", "Gone soon")
	s.Require().NoError(err)

	s.Require().NoError(s.store.RemovePlaylistEntry("user-1", entry.ID))

	list, err := s.store.ListPlaylist("user-1")
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *StorageSuite) TestRemoveMissingEntry() {
	s.Error(s.store.RemovePlaylistEntry("user-1", "no-such-id"))
}

func (s *StorageSuite) TestTelemetryWrites() {
	s.NoError(s.store.SetBotStatus(BotStatus{Ping: 42, Servers: 3, Users: 100}))
	s.NoError(s.store.SetActiveSessions([]SessionStatus{
		{GuildID: "g1", Name: "Guild One", Ping: 42, ChannelName: "General"},
	}))
	s.NoError(s.store.SetActiveSessions(nil))
}

func (s *StorageSuite) TestSurvivesReload() {
	entry, err := s.store.AddPlaylistEntry("user-1", "https://example.com/1", "Persistent")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Close())

	reopened, err := New(s.path)
	s.Require().NoError(err)
	s.store = reopened

	list, err := reopened.ListPlaylist("user-1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(entry.ID, list[0].ID)
	s.Equal("Persistent", list[0].Title)
}

func TestStubReportsNotConnected(t *testing.T) {
	stub := NewStub()

	if _, err := stub.ListPlaylist("u"); err != ErrNotConnected {
		t.Errorf("ListPlaylist: expected ErrNotConnected, got %v", err)
	}
	if _, err := stub.AddPlaylistEntry("u", "url", "title"); err != ErrNotConnected {
		t.Errorf("AddPlaylistEntry: expected ErrNotConnected, got %v", err)
	}
	if err := stub.RemovePlaylistEntry("u", "id"); err != ErrNotConnected {
		t.Errorf("RemovePlaylistEntry: expected ErrNotConnected, got %v", err)
	}

	// Telemetry writes are silently absorbed so the publisher stays quiet.
	if err := stub.SetBotStatus(BotStatus{}); err != nil {
		t.Errorf("SetBotStatus: expected nil, got %v", err)
	}
	if err := stub.SetActiveSessions(nil); err != nil {
		t.Errorf("SetActiveSessions: expected nil, got %v", err)
	}
}
