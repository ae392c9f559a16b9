package session

import (
	"sync"
	"time"

	"github.com/vancomm/minesweeper-agent/internal/metrics"
	"github.com/vancomm/minesweeper-agent/internal/play"
)

// Session is one live game. All access to the player goes through Do, so
// requests for the same game are served one at a time.
type Session struct {
	Id       int64
	PlayerId *int64

	mu       sync.Mutex
	player   *play.Player
	lastSeen time.Time
}

func New(id int64, playerId *int64, p *play.Player) *Session {
	return &Session{
		Id:       id,
		PlayerId: playerId,
		player:   p,
		lastSeen: time.Now(),
	}
}

// Do runs fn with exclusive access to the session's player.
func (s *Session) Do(fn func(p *play.Player) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return fn(s.player)
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Registry holds the live sessions of a server.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Id] = s
	metrics.Sessions.Set(float64(len(r.sessions)))
}

func (r *Registry) Get(id int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	metrics.Sessions.Set(float64(len(r.sessions)))
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops the sessions that were not used for maxAge and returns their
// ids.
func (r *Registry) Sweep(maxAge time.Duration) []int64 {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []int64
	for id, s := range r.sessions {
		if s.idleSince(now) >= maxAge {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	metrics.Sessions.Set(float64(len(r.sessions)))
	return evicted
}
