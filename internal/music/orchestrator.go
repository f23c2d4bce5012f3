package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// TrackResolver turns a user query into a playable URL plus display metadata.
type TrackResolver interface {
	Resolve(query string) (string, error)
	Metadata(url string) (title, thumbnail string, err error)
}

// Orchestrator maps inbound playback commands onto session operations and
// keeps the precondition checks out of the command handlers.
type Orchestrator struct {
	registry *Registry
	resolver TrackResolver
	dg       *discordgo.Session
}

func NewOrchestrator(reg *Registry, res TrackResolver, dg *discordgo.Session) *Orchestrator {
	return &Orchestrator{registry: reg, resolver: res, dg: dg}
}

func (o *Orchestrator) Registry() *Registry { return o.registry }

// PlayOutcome reports what Play did with the resolved track.
type PlayOutcome struct {
	Track  Track
	Queued bool // appended behind a currently playing track
}

// Play resolves the query and enqueues or starts playback in the guild's
// session. Resolution happens before any session mutation, so a failed
// search leaves the registry untouched.
func (o *Orchestrator) Play(guildID, voiceChannelID, textChannelID, query, requester string) (PlayOutcome, error) {
	url, err := o.resolver.Resolve(query)
	if err != nil {
		return PlayOutcome{}, err
	}

	t := Track{URL: url, Requester: requester}
	if title, thumb, err := o.resolver.Metadata(url); err == nil {
		t.Title = title
		t.Thumbnail = thumb
	}

	if err := o.voicePermission(voiceChannelID); err != nil {
		return PlayOutcome{}, err
	}

	sess := o.registry.GetOrCreate(guildID, voiceChannelID, textChannelID)
	if err := sess.Enqueue(t); err != nil {
		return PlayOutcome{}, err
	}

	if sess.Playing() {
		o.registry.emit(Event{Type: EventTrackAdded, GuildID: guildID, TextChannelID: textChannelID, Track: t, Count: 1})
		return PlayOutcome{Track: t, Queued: true}, nil
	}

	sess.Start()
	o.registry.emit(Event{Type: EventNowPlaying, GuildID: guildID, TextChannelID: textChannelID, Track: t})
	return PlayOutcome{Track: t}, nil
}

// PlayBatch enqueues an already-ordered set of tracks as one unit and starts
// playback if the session is idle. Individual fetch failures skip the track
// rather than aborting the batch.
func (o *Orchestrator) PlayBatch(guildID, voiceChannelID, textChannelID string, tracks []Track) (int, error) {
	if err := o.voicePermission(voiceChannelID); err != nil {
		return 0, err
	}

	sess := o.registry.GetOrCreate(guildID, voiceChannelID, textChannelID)

	added := 0
	var first Track
	for _, t := range tracks {
		if err := sess.Enqueue(t); err != nil {
			log.Warn().Err(err).Str("url", t.URL).Msg("skipping unplayable batch track")
			continue
		}
		if added == 0 {
			first = t
		}
		added++
	}
	if added == 0 {
		return 0, fmt.Errorf("no playable tracks in batch")
	}

	if !sess.Playing() {
		sess.Start()
		o.registry.emit(Event{Type: EventNowPlaying, GuildID: guildID, TextChannelID: textChannelID, Track: first})
	}
	o.registry.emit(Event{Type: EventTrackAdded, GuildID: guildID, TextChannelID: textChannelID, Count: added})
	return added, nil
}

// Skip advances to the next track. Distinct outcomes: no session at all
// (ErrEmptyQueue) versus a session with nothing queued (ErrNoNextTrack).
func (o *Orchestrator) Skip(guildID string) error {
	sess, ok := o.registry.Get(guildID)
	if !ok {
		return ErrEmptyQueue
	}
	if sess.QueueLen() == 0 {
		return ErrNoNextTrack
	}
	sess.engine.Skip()
	return nil
}

// Leave reports whether there was a session to tear down; leaving twice is
// informational, never an error.
func (o *Orchestrator) Leave(guildID string) bool {
	return o.registry.Leave(guildID)
}

func (o *Orchestrator) ToggleFilter(guildID, name string) (bool, error) {
	sess, ok := o.registry.Get(guildID)
	if !ok {
		return false, ErrNoActiveSession
	}
	return sess.ToggleFilter(name), nil
}

// voicePermission pre-checks connect/speak on the target channel so a
// permission problem is reported distinctly instead of retried.
func (o *Orchestrator) voicePermission(channelID string) error {
	if o.dg == nil || o.dg.State == nil || o.dg.State.User == nil {
		return nil
	}
	perms, err := o.dg.State.UserChannelPermissions(o.dg.State.User.ID, channelID)
	if err != nil {
		// Channel not cached yet; let the engine find out.
		return nil
	}
	if perms&discordgo.PermissionVoiceConnect == 0 || perms&discordgo.PermissionVoiceSpeak == 0 {
		return ErrVoicePermission
	}
	return nil
}

// FindUserVoiceState locates the voice channel a user currently occupies.
func FindUserVoiceState(s *discordgo.Session, guildID, userID string) (*discordgo.VoiceState, error) {
	if s == nil || s.State == nil {
		return nil, ErrNoVoiceChannel
	}
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil, ErrNoVoiceChannel
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs, nil
		}
	}
	return nil, ErrNoVoiceChannel
}
