package forgefit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Identity of the caller, resolved by transport from its credentials.
type Identity struct {
	UserId        UserId
	Authenticated bool
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(userId UserId) Identity {
	return Identity{UserId: userId, Authenticated: true}
}

// Absence tells why CurrentUser holds no user.
type Absence byte

const (
	AbsenceNone            Absence = 0
	AbsenceUnauthenticated Absence = 1
	AbsenceUserMissing     Absence = 2
)

func (a Absence) String() string {
	switch a {
	case AbsenceNone:
		return "none"
	case AbsenceUnauthenticated:
		return "unauthenticated"
	case AbsenceUserMissing:
		return "user_missing"
	default:
		return fmt.Sprintf("absence(%d)", byte(a))
	}
}

// Sanitized projection of user and its profile.
type Me struct {
	Id       UserId  `json:"id"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Image    *string `json:"image"`
}

type CurrentUser struct {
	Me      Me
	Absence Absence
}

func (c CurrentUser) Ok() bool {
	return c.Absence == AbsenceNone
}

// Both absences encode as null.
func (c CurrentUser) MarshalJSON() ([]byte, error) {
	if !c.Ok() {
		return []byte("null"), nil
	}
	return json.Marshal(c.Me)
}

type MeQuery struct {
	Users    UserStore
	Profiles ProfileStore
}

func (q *MeQuery) Resolve(ctx context.Context, identity Identity) (CurrentUser, error) {
	if !identity.Authenticated {
		return CurrentUser{Absence: AbsenceUnauthenticated}, nil
	}

	user, err := q.Users.ById(ctx, identity.UserId)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return CurrentUser{Absence: AbsenceUserMissing}, nil
		}
		return CurrentUser{}, fmt.Errorf("user by id: %w", err)
	}

	var username *string
	profile, err := q.Profiles.FirstByUserId(ctx, user.Id)
	switch {
	case err == nil:
		username = profile.Username
	case errors.Is(err, ErrProfileNotFound):
	default:
		return CurrentUser{}, fmt.Errorf("first profile by user id: %w", err)
	}

	return CurrentUser{Me: Me{
		Id:       user.Id,
		Username: username,
		Name:     user.Name,
		Email:    user.Email,
		Image:    user.Image,
	}}, nil
}
