package music

import "errors"

// Track is a single resolved, playable audio reference. Immutable once
// enqueued; the engine owns playback order from that point on.
type Track struct {
	Title     string
	URL       string
	Thumbnail string
	Requester string
}

var (
	ErrNoVoiceChannel  = errors.New("you must be in a voice channel")
	ErrVoicePermission = errors.New("missing permission to join the voice channel")
	ErrEmptyQueue      = errors.New("queue is empty")
	ErrNoNextTrack     = errors.New("no more tracks to skip")
	ErrNoActiveSession = errors.New("no active session in this guild")
)
