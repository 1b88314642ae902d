package forgefit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Form values of a training item. Shape is owned by the form, drafts keep them as they are.
type DraftValues = map[string]interface{}

type Draft struct {
	Id        string
	OwnerId   UserId
	Values    DraftValues
	CreatedAt time.Time
}

type DraftStore interface {
	Create(ctx context.Context, ownerId UserId, values DraftValues) (Draft, error)

	// Drafts of given owner, newest first.
	ByOwner(ctx context.Context, ownerId UserId) ([]Draft, error)
}

// Notified after a draft is persisted.
type DraftEvents interface {
	DraftCreated(ctx context.Context, draft Draft) error
}

type DraftService struct {
	Store      DraftStore
	Activities ActivityStore
	Events     DraftEvents
}

// Create persists one draft owned by the caller. Nothing is retried.
func (s *DraftService) Create(ctx context.Context, identity Identity, values DraftValues) (Draft, error) {
	if !identity.Authenticated {
		return Draft{}, ErrUnauthenticated
	}
	if values == nil {
		values = DraftValues{}
	}

	draft, err := s.Store.Create(ctx, identity.UserId, values)
	if err != nil {
		return Draft{}, fmt.Errorf("store draft: %w", err)
	}

	if s.Activities != nil {
		err = s.Activities.AddLog(ctx, draft.OwnerId, Activity{Name: ActivityDraftCreated, Data: map[string]interface{}{
			"draft_id": draft.Id,
		}})
		if err != nil {
			return Draft{}, fmt.Errorf("add draft_created activity log: %w", err)
		}
	}

	// the draft is already stored, a lost notification must not fail the call
	if s.Events != nil {
		if err := s.Events.DraftCreated(ctx, draft); err != nil {
			logrus.WithError(err).
				WithField("draft_id", draft.Id).
				Warningln("Could not publish draft created event.")
		}
	}
	return draft, nil
}

func (s *DraftService) ByOwner(ctx context.Context, identity Identity) ([]Draft, error) {
	if !identity.Authenticated {
		return nil, ErrUnauthenticated
	}
	drafts, err := s.Store.ByOwner(ctx, identity.UserId)
	if err != nil {
		return nil, fmt.Errorf("drafts by owner: %w", err)
	}
	return drafts, nil
}
