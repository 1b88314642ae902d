package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/google/uuid"
)

type DraftStore struct {
	drafts map[forgefit.UserId][]forgefit.Draft
	mutex  sync.RWMutex
}

var _ forgefit.DraftStore = (*DraftStore)(nil)

func NewDraftStore() DraftStore {
	return DraftStore{
		drafts: make(map[forgefit.UserId][]forgefit.Draft),
		mutex:  sync.RWMutex{},
	}
}

func (s *DraftStore) Create(ctx context.Context, ownerId forgefit.UserId, values forgefit.DraftValues) (forgefit.Draft, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	draft := forgefit.Draft{
		Id:        uuid.New().String(),
		OwnerId:   ownerId,
		Values:    values,
		CreatedAt: time.Now().UTC(),
	}
	s.drafts[ownerId] = append(s.drafts[ownerId], draft)
	return draft, nil
}

func (s *DraftStore) ByOwner(ctx context.Context, ownerId forgefit.UserId) ([]forgefit.Draft, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	owned := s.drafts[ownerId]
	drafts := make([]forgefit.Draft, len(owned))
	for i, d := range owned {
		drafts[len(owned)-1-i] = d
	}
	return drafts, nil
}
