package music

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is an in-memory Engine for session and orchestrator tests.
type fakeEngine struct {
	mu       sync.Mutex
	queue    []string
	playing  string
	playedOn string
	skips    int
	stops    int
	failURLs map[string]bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failURLs: make(map[string]bool)}
}

func (e *fakeEngine) Enqueue(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failURLs[url] {
		return assert.AnError
	}
	e.queue = append(e.queue, url)
	return nil
}

func (e *fakeEngine) Play(voiceChannelID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playedOn = voiceChannelID
	if len(e.queue) > 0 {
		e.playing = e.queue[0]
		e.queue = e.queue[1:]
	}
}

func (e *fakeEngine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.skips++
	if len(e.queue) > 0 {
		e.playing = e.queue[0]
		e.queue = e.queue[1:]
	} else {
		e.playing = ""
	}
}

func (e *fakeEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stops++
	e.playing = ""
	e.queue = nil
}

func (e *fakeEngine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *fakeEngine) NowPlaying() (Track, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing == "" {
		return Track{}, false
	}
	return Track{URL: e.playing}, true
}

func (e *fakeEngine) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = ""
}

func (e *fakeEngine) enqueued() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.queue...)
}

func newTestRegistry() (*Registry, *fakeEngine) {
	eng := newFakeEngine()
	r := NewRegistry(nil, func(guildID string) Engine { return eng })
	r.watchEvery = 5 * time.Millisecond
	r.graceDelay = 20 * time.Millisecond
	r.settleDelay = time.Millisecond
	return r, eng
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	r, _ := newTestRegistry()

	s1 := r.GetOrCreate("g1", "voice-a", "text-a")
	s2 := r.GetOrCreate("g1", "voice-b", "text-b")

	require.Same(t, s1, s2)
	voice, text := s2.Channels()
	assert.Equal(t, "voice-b", voice)
	assert.Equal(t, "text-b", text)
	assert.Len(t, r.Active(), 1)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r, _ := newTestRegistry()

	const n = 16
	results := make(chan *Session, n)
	for i := 0; i < n; i++ {
		go func() {
			results <- r.GetOrCreate("g1", "voice", "text")
		}()
	}

	first := <-results
	for i := 1; i < n; i++ {
		assert.Same(t, first, <-results)
	}
	assert.Len(t, r.Active(), 1)
}

func TestLeaveIsIdempotent(t *testing.T) {
	r, eng := newTestRegistry()
	r.GetOrCreate("g1", "voice", "text")

	assert.True(t, r.Leave("g1"))
	assert.False(t, r.Leave("g1"))

	eng.mu.Lock()
	stops := eng.stops
	eng.mu.Unlock()
	assert.Equal(t, 1, stops)
	assert.Empty(t, r.Active())
}

func TestToggleFilter(t *testing.T) {
	r, _ := newTestRegistry()
	s := r.GetOrCreate("g1", "voice", "text")

	assert.True(t, s.ToggleFilter("bassboost"))
	assert.True(t, s.ToggleFilter("nightcore"))
	assert.Equal(t, []string{"bassboost", "nightcore"}, s.Filters())

	assert.False(t, s.ToggleFilter("bassboost"))
	assert.Equal(t, []string{"nightcore"}, s.Filters())
}

func TestWatchLeavesAfterQueueDrains(t *testing.T) {
	r, eng := newTestRegistry()

	var mu sync.Mutex
	var drained bool
	r.OnEvent(func(e Event) {
		if e.Type == EventQueueDrained {
			mu.Lock()
			drained = true
			mu.Unlock()
		}
	})

	s := r.GetOrCreate("g1", "voice", "text")
	require.NoError(t, s.Enqueue(Track{URL: "https://example.com/a"}))
	s.Start()

	eng.finish()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return drained
	}, time.Second, 5*time.Millisecond, "drain event never fired")

	require.Eventually(t, func() bool {
		_, ok := r.Get("g1")
		return !ok
	}, time.Second, 5*time.Millisecond, "session never torn down")
}

func TestWatchGraceCancelledByNewPlayback(t *testing.T) {
	r, eng := newTestRegistry()
	r.graceDelay = 50 * time.Millisecond

	drained := make(chan struct{}, 1)
	r.OnEvent(func(e Event) {
		if e.Type == EventQueueDrained {
			select {
			case drained <- struct{}{}:
			default:
			}
		}
	})

	s := r.GetOrCreate("g1", "voice", "text")
	require.NoError(t, s.Enqueue(Track{URL: "https://example.com/a"}))
	s.Start()
	eng.finish()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("drain event never fired")
	}

	// New playback inside the grace window keeps the session alive.
	require.NoError(t, s.Enqueue(Track{URL: "https://example.com/b"}))
	s.Start()

	time.Sleep(150 * time.Millisecond)
	_, ok := r.Get("g1")
	assert.True(t, ok, "session was torn down despite resumed playback")
}

func TestEmitSurvivesPanickingSubscriber(t *testing.T) {
	r, _ := newTestRegistry()
	r.OnEvent(func(Event) { panic("subscriber bug") })

	assert.NotPanics(t, func() {
		r.emit(Event{Type: EventNowPlaying, GuildID: "g1"})
	})
}
