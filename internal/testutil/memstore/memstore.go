// Package memstore provides in-memory stand-ins for the Postgres repository
// and the Redis session registry.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/repository"
)

// Users is an in-memory user store.
type Users struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.User
}

// NewUsers returns an empty user store.
func NewUsers() *Users {
	return &Users{byID: make(map[int64]model.User)}
}

// Add stores user and assigns its id.
func (s *Users) Add(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	user.ID = s.nextID
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.byID[user.ID] = *user
}

// Remove deletes a user.
func (s *Users) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// GetUserByID implements service.UserStore.
func (s *Users) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

// GetUserByEmail implements service.UserStore.
func (s *Users) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.byID {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UpdatePasswordHash implements service.UserStore.
func (s *Users) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	s.byID[id] = user
	return nil
}

// Travels is an in-memory travel store.
type Travels struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.Travel
	calls  int
}

// NewTravels returns an empty travel store.
func NewTravels() *Travels {
	return &Travels{byID: make(map[int64]model.Travel)}
}

// CallCount returns how many store methods have run.
func (s *Travels) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ListTravels implements service.TravelStore.
func (s *Travels) ListTravels(_ context.Context) ([]*model.Travel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	ids := make([]int64, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	travels := make([]*model.Travel, 0, len(ids))
	for _, id := range ids {
		travel := s.byID[id]
		travels = append(travels, &travel)
	}
	return travels, nil
}

// GetTravelByID implements service.TravelStore.
func (s *Travels) GetTravelByID(_ context.Context, id int64) (*model.Travel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	travel, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrTravelNotFound
	}
	return &travel, nil
}

// CreateTravel implements service.TravelStore.
func (s *Travels) CreateTravel(_ context.Context, travel *model.Travel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	s.nextID++
	travel.ID = s.nextID
	now := time.Now().UTC()
	travel.CreatedAt, travel.UpdatedAt = now, now
	s.byID[travel.ID] = *travel
	return nil
}

// UpdateTravel implements service.TravelStore.
func (s *Travels) UpdateTravel(_ context.Context, travel *model.Travel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if _, ok := s.byID[travel.ID]; !ok {
		return repository.ErrTravelNotFound
	}
	travel.UpdatedAt = time.Now().UTC()
	s.byID[travel.ID] = *travel
	return nil
}

// DeleteTravel implements service.TravelStore.
func (s *Travels) DeleteTravel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if _, ok := s.byID[id]; !ok {
		return repository.ErrTravelNotFound
	}
	delete(s.byID, id)
	return nil
}

type session struct {
	userID    int64
	expiresAt time.Time
}

// Sessions is an in-memory session registry.
type Sessions struct {
	mu   sync.Mutex
	live map[string]session
	now  func() time.Time
	err  error
}

// NewSessions returns an empty registry using now as its clock.
func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{live: make(map[string]session), now: now}
}

// FailWith makes every later call return err. Pass nil to recover.
func (s *Sessions) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sess := range s.live {
		if s.now().Before(sess.expiresAt) {
			n++
		}
	}
	return n
}

// RegisterSession implements service.SessionRegistry.
func (s *Sessions) RegisterSession(_ context.Context, tokenID string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	s.live[tokenID] = session{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

// SessionOwner implements service.SessionRegistry.
func (s *Sessions) SessionOwner(_ context.Context, tokenID string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, false, s.err
	}

	if !s.existsLocked(tokenID) {
		return 0, false, nil
	}
	return s.live[tokenID].userID, true, nil
}

// RotateSession implements service.SessionRegistry.
func (s *Sessions) RotateSession(_ context.Context, oldID, newID string, userID int64, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}

	if !s.existsLocked(oldID) {
		return false, nil
	}
	delete(s.live, oldID)
	s.live[newID] = session{userID: userID, expiresAt: s.now().Add(ttl)}
	return true, nil
}

// DeleteSession implements service.SessionRegistry.
func (s *Sessions) DeleteSession(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	delete(s.live, tokenID)
	return nil
}

func (s *Sessions) existsLocked(tokenID string) bool {
	sess, ok := s.live[tokenID]
	return ok && s.now().Before(sess.expiresAt)
}
