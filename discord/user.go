package discord

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const cdnUrl = "https://cdn.discordapp.com"

type User struct {
	Id         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	AvatarHash string `json:"avatar"`
}

// Display name, falls back to username for accounts without global name.
func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Empty if user has no custom avatar.
func (u User) AvatarUrl() string {
	if u.AvatarHash == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.png", cdnUrl, u.Id, u.AvatarHash)
}

type UserMe = func(token Token) (User, error)

type UserMeProvider = func() UserMe

// Impl of discord rest api /users/@me
func RestUserMe(token Token) (User, error) {
	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(apiUrl + "/users/@me")
	req.Header.Set(fiber.HeaderAuthorization, token.String())

	err := agent.Parse()
	if err != nil {
		return User{}, fmt.Errorf("agent parse: %w", err)
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) != 0 {
		return User{}, fmt.Errorf("agent bytes: %v", errs)
	}

	switch statusCode {
	case fiber.StatusOK:
	case fiber.StatusUnauthorized:
		return User{}, ErrUnauthorized
	case fiber.StatusTooManyRequests:
		return User{}, ErrRateLimited
	default:
		return User{}, fmt.Errorf("invalid status code %d: %s", statusCode, string(body))
	}

	var response User
	if err = json.Unmarshal(body, &response); err != nil {
		return User{}, fmt.Errorf("unmarshal body: %w", err)
	}
	return response, nil
}

func RestUserMeProvider() UserMe {
	return RestUserMe
}
