package storage

// Stub is the degraded store used when the database cannot be opened at
// startup. Playlist operations report ErrNotConnected; telemetry writes are
// silently dropped so they never disturb playback.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (*Stub) ListPlaylist(string) ([]PlaylistEntry, error) {
	return nil, ErrNotConnected
}

func (*Stub) AddPlaylistEntry(string, string, string) (PlaylistEntry, error) {
	return PlaylistEntry{}, ErrNotConnected
}

func (*Stub) RemovePlaylistEntry(string, string) error {
	return ErrNotConnected
}

func (*Stub) SetBotStatus(BotStatus) error { return nil }

func (*Stub) SetActiveSessions([]SessionStatus) error { return nil }

func (*Stub) Close() error { return nil }
