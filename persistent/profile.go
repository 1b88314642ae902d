package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forgefit/forgefit"
	"github.com/uptrace/bun"
)

type Profile struct {
	bun.BaseModel `bun:"table:profile"`

	Id       int64 `bun:",pk,autoincrement"`
	UserId   int64 `bun:",notnull"`
	Username *string
}

func (p Profile) ToDomain() forgefit.Profile {
	return forgefit.Profile{
		Id:       p.Id,
		UserId:   forgefit.UserId(p.UserId),
		Username: p.Username,
	}
}

type ProfileStore struct {
	DB *bun.DB
}

var _ forgefit.ProfileStore = (*ProfileStore)(nil)

// Served by profile_user_id_idx. Takes whichever row postgres returns first.
func (s *ProfileStore) FirstByUserId(ctx context.Context, userId forgefit.UserId) (forgefit.Profile, error) {
	profile := new(Profile)
	err := s.DB.NewSelect().
		Model(profile).
		Where(`user_id=?`, userId).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return forgefit.Profile{}, forgefit.ErrProfileNotFound
		}
		return forgefit.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return profile.ToDomain(), nil
}
