package inmem

import (
	"context"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/stretchr/testify/assert"
)

func TestDraftStore(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewDraftStore()
	{
		drafts, err := s.ByOwner(ctx, 3)
		if assert.NoError(err) {
			assert.Equal(0, len(drafts))
		}
	}

	values := forgefit.DraftValues{"name": "Pallof press", "sets": float64(3)}
	first, err := s.Create(ctx, 3, values)
	if !assert.NoError(err) {
		return
	}
	assert.NotEmpty(first.Id)
	assert.Equal(forgefit.UserId(3), first.OwnerId)
	assert.Equal(values, first.Values)

	second, err := s.Create(ctx, 3, forgefit.DraftValues{"name": "Farmer carry"})
	if !assert.NoError(err) {
		return
	}
	_, err = s.Create(ctx, 4, forgefit.DraftValues{})
	if !assert.NoError(err) {
		return
	}

	drafts, err := s.ByOwner(ctx, 3)
	if !assert.NoError(err) || !assert.Equal(2, len(drafts)) {
		return
	}
	assert.Equal(second.Id, drafts[0].Id)
	assert.Equal(first.Id, drafts[1].Id)
}
