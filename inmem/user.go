package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
)

type UserStore struct {
	// Receives profile of every registered discord user when set.
	Profiles *ProfileStore

	lastId int64
	users  map[forgefit.UserId]forgefit.User
	mutex  sync.RWMutex
}

var _ forgefit.UserStore = (*UserStore)(nil)

func NewUserStore() UserStore {
	return UserStore{
		lastId: 0,
		users:  map[forgefit.UserId]forgefit.User{},
		mutex:  sync.RWMutex{},
	}
}

// Add stores user under a new id.
func (s *UserStore) Add(user forgefit.User) forgefit.User {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	user.Id = forgefit.UserId(s.lastId)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.Id] = user
	return user
}

func (s *UserStore) RegisterDiscordUser(ctx context.Context, u discord.User) (forgefit.User, error) {
	s.mutex.Lock()
	user, ok := s.byDiscordId(u.Id)
	if !ok {
		s.lastId++
		user = forgefit.User{
			Id:        forgefit.UserId(s.lastId),
			CreatedAt: time.Now(),
			DiscordId: u.Id,
		}
	}
	user.Name = forgefit.OptionalString(u.DisplayName())
	user.Email = forgefit.OptionalString(u.Email)
	user.Image = forgefit.OptionalString(u.AvatarUrl())
	s.users[user.Id] = user
	s.mutex.Unlock()

	if s.Profiles != nil {
		s.Profiles.Upsert(user.Id, forgefit.OptionalString(u.Username))
	}
	return user, nil
}

func (s *UserStore) ById(ctx context.Context, userId forgefit.UserId) (forgefit.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, ok := s.users[userId]
	if !ok {
		return u, forgefit.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) ByDiscordId(ctx context.Context, discordId string) (forgefit.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, ok := s.byDiscordId(discordId)
	if !ok {
		return forgefit.User{}, forgefit.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) Delete(userId forgefit.UserId) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.users, userId)
}

func (s *UserStore) byDiscordId(discordId string) (forgefit.User, bool) {
	for _, u := range s.users {
		if u.DiscordId == discordId {
			return u, true
		}
	}
	return forgefit.User{}, false
}
