package mock

import (
	"context"

	"github.com/forgefit/forgefit"
)

type DraftStore struct {
	CreateFn func(ctx context.Context, ownerId forgefit.UserId, values forgefit.DraftValues) (forgefit.Draft, error)

	ByOwnerFn func(ctx context.Context, ownerId forgefit.UserId) ([]forgefit.Draft, error)
}

func (s DraftStore) Create(ctx context.Context, ownerId forgefit.UserId, values forgefit.DraftValues) (forgefit.Draft, error) {
	return s.CreateFn(ctx, ownerId, values)
}

func (s DraftStore) ByOwner(ctx context.Context, ownerId forgefit.UserId) ([]forgefit.Draft, error) {
	return s.ByOwnerFn(ctx, ownerId)
}

type DraftEvents struct {
	DraftCreatedFn func(ctx context.Context, draft forgefit.Draft) error
}

func (e DraftEvents) DraftCreated(ctx context.Context, draft forgefit.Draft) error {
	return e.DraftCreatedFn(ctx, draft)
}
