package rest

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
	"github.com/forgefit/forgefit/inmem"
	"github.com/forgefit/forgefit/persistent"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/buntdb"
)

type testStores struct {
	users      *inmem.UserStore
	profiles   *inmem.ProfileStore
	activities *inmem.ActivityStore
	drafts     *inmem.DraftStore
	sessions   *persistent.SessionStore
}

func newTestStores(t *testing.T) testStores {
	bunt, err := buntdb.Open(":memory:")
	if err != nil {
		t.Fatalf("open buntdb: %v", err)
	}
	t.Cleanup(func() {
		_ = bunt.Close()
	})

	profiles := inmem.NewProfileStore()
	users := inmem.NewUserStore()
	users.Profiles = &profiles
	activities := inmem.NewActivityStore()
	drafts := inmem.NewDraftStore()
	sessions := &persistent.SessionStore{Buntdb: bunt, ActivityStore: &activities}
	if err := sessions.CreateIndexes(); err != nil {
		t.Fatalf("create session indexes: %v", err)
	}
	return testStores{
		users:      &users,
		profiles:   &profiles,
		activities: &activities,
		drafts:     &drafts,
		sessions:   sessions,
	}
}

// Registers discord user and opens a session for it.
func (s testStores) login(t *testing.T, u discord.User) (forgefit.User, forgefit.Session) {
	ctx := context.Background()
	user, err := s.users.RegisterDiscordUser(ctx, u)
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	session, err := s.sessions.RegisterNew(ctx, user.Id, "127.0.0.1", "Firefox")
	if err != nil {
		t.Fatalf("register session: %v", err)
	}
	return user, session
}

func readBody(assert *assert.Assertions, resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(err)
	return string(body)
}
