package music

import (
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type EventType int

const (
	EventNowPlaying EventType = iota
	EventTrackAdded
	EventQueueDrained
)

// Event is emitted by the registry when a session's playback state changes.
// The subscriber mirrors it to the session's bound text channel.
type Event struct {
	Type          EventType
	GuildID       string
	TextChannelID string
	Track         Track
	Count         int
}

// Session is the per-guild playback state: the engine handle, the voice and
// text destinations it is bound to, the active filter set, and metadata for
// tracks handed to the engine. Channel bindings are rebound on every play
// request and guarded by mu; the drain watcher reads them concurrently.
type Session struct {
	GuildID string

	engine Engine

	mu             sync.Mutex
	voiceChannelID string
	textChannelID  string
	filters        map[string]bool
	meta           map[string]Track
}

func (s *Session) rebind(voiceChannelID, textChannelID string) {
	s.mu.Lock()
	s.voiceChannelID = voiceChannelID
	s.textChannelID = textChannelID
	s.mu.Unlock()
}

// Channels returns the current voice and text bindings.
func (s *Session) Channels() (voiceChannelID, textChannelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceChannelID, s.textChannelID
}

func (s *Session) Enqueue(t Track) error {
	if err := s.engine.Enqueue(t.URL); err != nil {
		return err
	}
	s.mu.Lock()
	s.meta[t.URL] = t
	s.mu.Unlock()
	return nil
}

func (s *Session) Start() {
	voice, _ := s.Channels()
	s.engine.Play(voice)
}

func (s *Session) Playing() bool {
	_, ok := s.engine.NowPlaying()
	return ok
}

func (s *Session) QueueLen() int {
	return s.engine.QueueLen()
}

// ToggleFilter flips membership of name in the active filter set and reports
// the resulting state.
func (s *Session) ToggleFilter(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filters[name] {
		delete(s.filters, name)
		return false
	}
	s.filters[name] = true
	return true
}

func (s *Session) Filters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.filters))
	for name := range s.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TrackMeta returns the metadata recorded when a URL was enqueued.
func (s *Session) TrackMeta(url string) (Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.meta[url]
	return t, ok
}

// SessionInfo is the telemetry view of one active session.
type SessionInfo struct {
	GuildID        string
	VoiceChannelID string
}

// Registry owns every guild session. It is passed by reference to whoever
// needs it; there is no ambient lookup. At most one session per guild.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	newEngine EngineFactory
	dg        *discordgo.Session

	onEvent func(Event)

	graceDelay  time.Duration
	settleDelay time.Duration
	watchEvery  time.Duration
}

func NewRegistry(dg *discordgo.Session, factory EngineFactory) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		newEngine:   factory,
		dg:          dg,
		graceDelay:  2 * time.Second,
		settleDelay: time.Second,
		watchEvery:  time.Second,
	}
}

// OnEvent registers the single event subscriber. Must be called before any
// session exists.
func (r *Registry) OnEvent(fn func(Event)) {
	r.onEvent = fn
}

func (r *Registry) emit(e Event) {
	if r.onEvent == nil {
		return
	}
	// Mirror notifications are best effort and must never stall playback.
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Interface("panic", rec).Msg("event subscriber panicked")
		}
	}()
	r.onEvent(e)
}

func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// GetOrCreate returns the guild's session, creating it (and its drain
// watcher) on first use. Voice and text destinations are rebound on every
// call so a play request from another channel moves the session.
func (r *Registry) GetOrCreate(guildID, voiceChannelID, textChannelID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[guildID]; ok {
		s.rebind(voiceChannelID, textChannelID)
		return s
	}

	s := &Session{
		GuildID:        guildID,
		voiceChannelID: voiceChannelID,
		textChannelID:  textChannelID,
		engine:         r.newEngine(guildID),
		filters:        make(map[string]bool),
		meta:           make(map[string]Track),
	}
	r.sessions[guildID] = s
	go r.watch(s)
	return s
}

// Leave tears down the guild's session. Idempotent: returns false when no
// session existed. The logical session and the underlying voice connection
// are two separate handles; the transport is released after a short settle
// delay so the engine's own teardown lands first.
func (r *Registry) Leave(guildID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[guildID]
	if ok {
		delete(r.sessions, guildID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	s.engine.Stop()
	time.AfterFunc(r.settleDelay, func() {
		r.disconnectVoice(guildID)
	})
	log.Info().Str("guild", guildID).Msg("session released")
	return true
}

func (r *Registry) disconnectVoice(guildID string) {
	if r.dg == nil {
		return
	}
	r.dg.RLock()
	vc := r.dg.VoiceConnections[guildID]
	r.dg.RUnlock()
	if vc == nil {
		return
	}
	if err := vc.Disconnect(); err != nil {
		log.Warn().Err(err).Str("guild", guildID).Msg("voice disconnect failed")
	}
}

// Active lists sessions for the telemetry snapshot.
func (r *Registry) Active() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		voice, _ := s.Channels()
		infos = append(infos, SessionInfo{GuildID: s.GuildID, VoiceChannelID: voice})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].GuildID < infos[j].GuildID })
	return infos
}

// watch polls the session's engine and handles queue exhaustion: emit a
// drained event, then leave after a grace delay. Liveness is re-checked
// before acting, so a play request racing the timer keeps the session and
// no explicit cancellation is needed.
func (r *Registry) watch(s *Session) {
	ticker := time.NewTicker(r.watchEvery)
	defer ticker.Stop()

	wasPlaying := false
	for range ticker.C {
		cur, ok := r.Get(s.GuildID)
		if !ok || cur != s {
			return
		}

		if s.Playing() {
			wasPlaying = true
			continue
		}
		if !wasPlaying || s.QueueLen() > 0 {
			continue
		}

		_, text := s.Channels()
		r.emit(Event{Type: EventQueueDrained, GuildID: s.GuildID, TextChannelID: text})
		time.AfterFunc(r.graceDelay, func() {
			cur, ok := r.Get(s.GuildID)
			if !ok || cur != s {
				return
			}
			if s.Playing() || s.QueueLen() > 0 {
				go r.watch(s)
				return
			}
			r.Leave(s.GuildID)
		})
		return
	}
}
