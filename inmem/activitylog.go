package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/forgefit/forgefit"
)

type ActivityStore struct {
	lastId int64
	logs   map[forgefit.UserId][]forgefit.ActivityLog
	mutex  sync.RWMutex
}

var _ forgefit.ActivityStore = (*ActivityStore)(nil)

func NewActivityStore() ActivityStore {
	return ActivityStore{
		lastId: 0,
		logs:   make(map[forgefit.UserId][]forgefit.ActivityLog),
		mutex:  sync.RWMutex{},
	}
}

func (s *ActivityStore) AddLog(ctx context.Context, userId forgefit.UserId, activity forgefit.Activity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	s.logs[userId] = append(s.logs[userId], forgefit.ActivityLog{
		Id:        s.lastId,
		CreatedAt: time.Now().UTC(),
		UserId:    userId,
		Name:      activity.Name,
		Data:      activity.Data,
	})
	return nil
}

func (s *ActivityStore) ByUserId(ctx context.Context, userId forgefit.UserId) ([]forgefit.ActivityLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ulogs := s.logs[userId]
	logs := make([]forgefit.ActivityLog, len(ulogs))
	for i, l := range ulogs {
		logs[len(ulogs)-1-i] = l
	}
	return logs, nil
}
