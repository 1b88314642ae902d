package mock

import (
	"context"

	"github.com/forgefit/forgefit"
)

type ActivityStore struct {
	AddLogFn func(ctx context.Context, userId forgefit.UserId, activity forgefit.Activity) error

	ByUserIdFn func(ctx context.Context, userId forgefit.UserId) ([]forgefit.ActivityLog, error)
}

func (s ActivityStore) AddLog(ctx context.Context, userId forgefit.UserId, activity forgefit.Activity) error {
	return s.AddLogFn(ctx, userId, activity)
}

func (s ActivityStore) ByUserId(ctx context.Context, userId forgefit.UserId) ([]forgefit.ActivityLog, error) {
	return s.ByUserIdFn(ctx, userId)
}
