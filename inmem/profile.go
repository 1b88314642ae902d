package inmem

import (
	"context"
	"sync"

	"github.com/forgefit/forgefit"
)

// Profiles in insertion order, which is the order FirstByUserId scans them.
type ProfileStore struct {
	lastId   int64
	profiles []forgefit.Profile
	mutex    sync.RWMutex
}

var _ forgefit.ProfileStore = (*ProfileStore)(nil)

func NewProfileStore() ProfileStore {
	return ProfileStore{
		lastId:   0,
		profiles: make([]forgefit.Profile, 0, 10),
		mutex:    sync.RWMutex{},
	}
}

// Add appends profile even if user already has one.
func (s *ProfileStore) Add(profile forgefit.Profile) forgefit.Profile {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	profile.Id = s.lastId
	s.profiles = append(s.profiles, profile)
	return profile
}

// Upsert updates first profile of the user or adds a new one.
func (s *ProfileStore) Upsert(userId forgefit.UserId, username *string) forgefit.Profile {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, p := range s.profiles {
		if p.UserId == userId {
			s.profiles[i].Username = username
			return s.profiles[i]
		}
	}
	s.lastId++
	profile := forgefit.Profile{Id: s.lastId, UserId: userId, Username: username}
	s.profiles = append(s.profiles, profile)
	return profile
}

func (s *ProfileStore) FirstByUserId(ctx context.Context, userId forgefit.UserId) (forgefit.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, p := range s.profiles {
		if p.UserId == userId {
			return p, nil
		}
	}
	return forgefit.Profile{}, forgefit.ErrProfileNotFound
}
