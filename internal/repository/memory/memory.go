// Package memory implements repository.ProfileRepository with a map held in
// process memory. Nothing survives a restart.
//
// WHY AN INJECTABLE LOCKER?
// The store's only concurrency rule is "one lock around every map access".
// Taking the lock as a sync.Locker lets tests hand in an instrumented lock
// and keeps the store's lifecycle explicit: main builds one and passes it to
// the service instead of the service reaching for a package-level global.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/profile-service/internal/apperror"
	"github.com/sakif/profile-service/internal/model"
	"github.com/sakif/profile-service/internal/repository"
)

// compile-time check that *ProfileStore implements repository.ProfileRepository
var _ repository.ProfileRepository = (*ProfileStore)(nil)

// ProfileStore is a mutex-guarded map from username to profile.
type ProfileStore struct {
	mu       sync.Locker
	profiles map[string]*model.UserProfile
}

// New creates an empty store guarded by mu. A nil mu gets a fresh sync.Mutex.
func New(mu sync.Locker) *ProfileStore {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &ProfileStore{
		mu:       mu,
		profiles: make(map[string]*model.UserProfile),
	}
}

// Insert adds a profile unless the username is already taken.
// The check and the write happen under one lock, so two concurrent inserts
// for the same username cannot both succeed.
func (s *ProfileStore) Insert(_ context.Context, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[profile.Username]; exists {
		return apperror.Conflict("Username already exists.")
	}

	// Store a copy so the caller can't mutate our record after the fact
	stored := cloneProfile(profile)
	s.profiles[profile.Username] = stored
	return nil
}

// Get returns a copy of the stored profile.
func (s *ProfileStore) Get(_ context.Context, username string) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[username]
	if !ok {
		return nil, apperror.NotFound("User not found.")
	}
	return cloneProfile(p), nil
}

// SetPicture replaces the picture filename of an existing profile in place.
func (s *ProfileStore) SetPicture(_ context.Context, username, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[username]
	if !ok {
		return apperror.NotFound("User not found.")
	}
	p.ProfilePicture = filename
	return nil
}

// Len reports how many profiles are stored.
func (s *ProfileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

func cloneProfile(p *model.UserProfile) *model.UserProfile {
	c := *p
	if p.Bio != nil {
		bio := *p.Bio
		c.Bio = &bio
	}
	return &c
}
