package inmem

import (
	"context"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/stretchr/testify/assert"
)

func TestActivityStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	uid := forgefit.UserId(5)

	s := NewActivityStore()
	{
		logs, err := s.ByUserId(ctx, uid)
		if assert.NoError(err) {
			assert.Equal(0, len(logs))
		}
	}

	err := s.AddLog(ctx, uid, forgefit.Activity{Name: "session_created", Data: map[string]interface{}{"ip": "10.0.0.2"}})
	if !assert.NoError(err) {
		return
	}
	err = s.AddLog(ctx, uid, forgefit.Activity{Name: forgefit.ActivityDraftCreated})
	if !assert.NoError(err) {
		return
	}

	{
		logs, err := s.ByUserId(ctx, uid)
		if !assert.NoError(err) {
			return
		}
		if !assert.Equal(2, len(logs)) {
			return
		}
		assert.Equal(forgefit.ActivityDraftCreated, logs[0].Name)
		assert.Equal("session_created", logs[1].Name)
		assert.Equal(map[string]interface{}{"ip": "10.0.0.2"}, logs[1].Data)
	}

	{
		// unknown user id
		logs, err := s.ByUserId(ctx, forgefit.UserId(34290))
		if assert.NoError(err) {
			assert.Equal(0, len(logs))
		}
	}
}
