package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Draft struct {
	bun.BaseModel `bun:"table:draft"`

	Id        string                 `bun:",pk,type:uuid"`
	CreatedAt time.Time              `bun:",nullzero,notnull,default:current_timestamp"`
	OwnerId   int64                  `bun:",notnull"`
	Payload   map[string]interface{} `bun:",notnull,type:jsonb"`
}

func (d Draft) ToDomain() forgefit.Draft {
	return forgefit.Draft{
		Id:        d.Id,
		OwnerId:   forgefit.UserId(d.OwnerId),
		Values:    d.Payload,
		CreatedAt: d.CreatedAt,
	}
}

type DraftStore struct {
	DB *bun.DB
}

var _ forgefit.DraftStore = (*DraftStore)(nil)

func (s *DraftStore) Create(ctx context.Context, ownerId forgefit.UserId, values forgefit.DraftValues) (forgefit.Draft, error) {
	draft := &Draft{
		Id:      uuid.New().String(),
		OwnerId: int64(ownerId),
		Payload: values,
	}
	_, err := s.DB.NewInsert().
		Model(draft).
		Returning("created_at").
		Exec(ctx)
	if err != nil {
		return forgefit.Draft{}, fmt.Errorf("insert draft: %w", err)
	}
	return draft.ToDomain(), nil
}

func (s *DraftStore) ByOwner(ctx context.Context, ownerId forgefit.UserId) ([]forgefit.Draft, error) {
	var drafts []Draft
	err := s.DB.NewSelect().
		Model(&drafts).
		Where("owner_id=?", ownerId).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	dd := make([]forgefit.Draft, len(drafts))
	for i, d := range drafts {
		dd[i] = d.ToDomain()
	}
	return dd, nil
}
