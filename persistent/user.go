package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:user"`

	Id        int64     `bun:",pk,autoincrement"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	DiscordId string    `bun:",notnull,unique"`
	Name      *string
	Email     *string
	Image     *string
}

func (u User) ToDomain() forgefit.User {
	return forgefit.User{
		Id:        forgefit.UserId(u.Id),
		CreatedAt: u.CreatedAt,
		DiscordId: u.DiscordId,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
	}
}

type UserStore struct {
	DB *bun.DB
}

var _ forgefit.UserStore = (*UserStore)(nil)

func (s *UserStore) RegisterDiscordUser(ctx context.Context, u discord.User) (forgefit.User, error) {
	user := &User{
		DiscordId: u.Id,
		Name:      forgefit.OptionalString(u.DisplayName()),
		Email:     forgefit.OptionalString(u.Email),
		Image:     forgefit.OptionalString(u.AvatarUrl()),
	}

	err := s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(user).
			On(`CONFLICT (discord_id) DO UPDATE SET name=EXCLUDED.name, ` +
				`email=EXCLUDED.email, image=EXCLUDED.image`).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		// profile.user_id carries no unique constraint, so no upsert on conflict
		username := forgefit.OptionalString(u.Username)
		res, err := tx.NewUpdate().
			Model((*Profile)(nil)).
			Set("username = ?", username).
			Where("user_id = ?", user.Id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		updated, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if updated > 0 {
			return nil
		}

		_, err = tx.NewInsert().
			Model(&Profile{UserId: user.Id, Username: username}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return forgefit.User{}, err
	}

	return user.ToDomain(), nil
}

func (s *UserStore) ById(ctx context.Context, userId forgefit.UserId) (forgefit.User, error) {
	user := new(User)
	err := s.DB.NewSelect().
		Model(user).
		Where(`"user"."id"=?`, userId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return forgefit.User{}, forgefit.ErrUserNotFound
		}
		return forgefit.User{}, fmt.Errorf("select user: %w", err)
	}
	return user.ToDomain(), nil
}
