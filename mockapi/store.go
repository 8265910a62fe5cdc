package mockapi

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var errUnknownUser = errors.New("unknown user")

type player struct {
	id           string
	email        string
	passwordHash string
	generation   int
	status       map[string]int
}

// store holds players and refresh tokens in memory.
type store struct {
	mu            sync.RWMutex
	players       map[string]*player // by email
	refreshTokens map[string]string  // token digest -> email
	flaky         map[string]int
}

func newStore() *store {
	return &store{
		players:       make(map[string]*player),
		refreshTokens: make(map[string]string),
		flaky:         make(map[string]int),
	}
}

func (s *store) addPlayer(email, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := make(map[string]int, len(StatusKeys))
	for _, k := range StatusKeys {
		status[k] = MaxStatusValue
	}
	s.players[email] = &player{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: passwordHash,
		status:       status,
	}
}

func (s *store) player(email string) (player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[email]
	if !ok {
		return player{}, false
	}
	return *p, true
}

func (s *store) generation(email string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[email]
	if !ok {
		return 0, false
	}
	return p.generation, true
}

func (s *store) revoke(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[email]
	if !ok {
		return errUnknownUser
	}
	p.generation++
	return nil
}

func (s *store) saveRefresh(digest, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[digest] = email
}

// takeRefresh removes and returns the owner of a refresh token.
func (s *store) takeRefresh(digest string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.refreshTokens[digest]
	if ok {
		delete(s.refreshTokens, digest)
	}
	return email, ok
}

func (s *store) statuses(email string) ([]Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[email]
	if !ok {
		return nil, errUnknownUser
	}
	out := make([]Status, 0, len(p.status))
	for k, v := range p.status {
		out = append(out, Status{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Status) int {
		return slices.Index(StatusKeys, a.Key) - slices.Index(StatusKeys, b.Key)
	})
	return out, nil
}

func (s *store) setStatus(email, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[email]
	if !ok {
		return errUnknownUser
	}
	p.status[key] = value
	return nil
}

// hitFlaky increments and returns the hit count for key.
func (s *store) hitFlaky(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flaky[key]++
	return s.flaky[key]
}

func (s *store) counts() (players, refreshTokens int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), len(s.refreshTokens)
}
