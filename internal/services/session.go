package services

import (
	"sync"

	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/internal/overrides"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

// Session holds the editing state for one betting pool: the working override
// store, the diff baseline, the per-draw value cache and the draws directory.
// It lives for the process lifetime, mirroring the lifetime of a console
// editing session; the draw value cache is intentionally never invalidated
// mid-session.
type Session struct {
	mu sync.Mutex

	poolID   int
	store    *overrides.Store
	baseline overrides.Snapshot
	loaded   bool

	drawValues   map[int]map[string]string
	mergedDraws  map[int]bool
	draws        map[int]models.Draw
	activeDrawID int

	// Commission configs fetched at load, grouped by lottery; per-lottery
	// entries surface lazily when their draws are first visited.
	lotteryCommissions map[int][]lotoapi.CommissionConfig
}

func newSession(poolID int) *Session {
	return &Session{
		poolID:             poolID,
		store:              overrides.NewStore(),
		baseline:           overrides.EmptySnapshot(),
		drawValues:         make(map[int]map[string]string),
		mergedDraws:        make(map[int]bool),
		draws:              make(map[int]models.Draw),
		lotteryCommissions: make(map[int][]lotoapi.CommissionConfig),
	}
}

// lotteryDrawResolver returns the legacy-key resolver over this session's
// draws directory: the lowest draw ID belonging to the lottery.
func (s *Session) lotteryDrawResolver() overrides.LotteryDrawResolver {
	return func(lotteryID int) (int, bool) {
		best, found := 0, false
		for id, draw := range s.draws {
			if draw.LotteryID != lotteryID {
				continue
			}
			if !found || id < best {
				best, found = id, true
			}
		}
		return best, found
	}
}

// drawByID looks up a draw in the session directory.
func (s *Session) drawByID(drawID int) (models.Draw, bool) {
	d, ok := s.draws[drawID]
	return d, ok
}

// SessionRegistry hands out one Session per betting pool.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[int]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[int]*Session)}
}

// Get returns the session for a pool, creating it on first use.
func (r *SessionRegistry) Get(poolID int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[poolID]
	if !ok {
		s = newSession(poolID)
		r.sessions[poolID] = s
	}
	return s
}

// Drop discards a pool's session; the next access starts fresh.
func (r *SessionRegistry) Drop(poolID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, poolID)
}
