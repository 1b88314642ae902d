package persistent

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

const sessionTTL = 30 * 24 * time.Hour // 30 days

type Session struct {
	Id             string    `json:"id"`
	UserId         int64     `json:"userId"`
	Token          string    `json:"token"`
	Ip             string    `json:"ip"`
	UserAgent      string    `json:"userAgent"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (s Session) ToDomain() forgefit.Session {
	return forgefit.Session{
		Id:             s.Id,
		UserId:         forgefit.UserId(s.UserId),
		Token:          s.Token,
		Ip:             s.Ip,
		UserAgent:      s.UserAgent,
		LastAccessedAt: s.LastAccessedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

type SessionStore struct {
	Buntdb        *buntdb.DB
	ActivityStore forgefit.ActivityStore
}

var _ forgefit.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) CreateIndexes() error {
	err := s.Buntdb.CreateIndex("sessions", "session:*", buntdb.IndexString)
	if err != nil && !errors.Is(err, buntdb.ErrIndexExists) {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

func (s *SessionStore) RegisterNew(ctx context.Context, userId forgefit.UserId, ip string, userAgent string) (forgefit.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return forgefit.Session{}, fmt.Errorf("generate token: %w", err)
	}
	id := uuid.New().String()

	err = s.ActivityStore.AddLog(ctx, userId, forgefit.Activity{Name: forgefit.ActivitySessionCreated, Data: map[string]interface{}{
		"ip":         ip,
		"userAgent":  userAgent,
		"session_id": id,
	}})
	if err != nil {
		return forgefit.Session{}, fmt.Errorf("add session_created activity log: %w", err)
	}

	now := time.Now().UTC()
	session := Session{
		Id:             id,
		UserId:         int64(userId),
		Token:          token,
		Ip:             ip,
		UserAgent:      userAgent,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(sessionTTL),
	}
	serializedSession, err := json.Marshal(&session)
	if err != nil {
		return forgefit.Session{}, fmt.Errorf("session serialize: %w", err)
	}

	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		expireOptions := &buntdb.SetOptions{Expires: true, TTL: sessionTTL}

		_, replaced, err := tx.Set("session_by_id:"+session.Id, session.Token, expireOptions)
		if err != nil {
			return fmt.Errorf("set map session id to auth token: %w", err)
		}
		if replaced {
			return fmt.Errorf("session id collision '%s'", session.Id)
		}

		_, _, err = tx.Set("session:"+session.Token, string(serializedSession), expireOptions)
		if err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		return nil
	})
	if err != nil {
		return forgefit.Session{}, fmt.Errorf("bunt update: %w", err)
	}
	return session.ToDomain(), nil
}

func (s *SessionStore) Exists(token string) (bool, error) {
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get("session:" + token)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, buntdb.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("bunt view: %w", err)
	}
}

func getSession(tx *buntdb.Tx, token string) (Session, error) {
	var session Session
	serializedSession, err := tx.Get("session:" + token)
	if err != nil {
		return session, fmt.Errorf("get serialized session: %w", err)
	}
	if err := json.Unmarshal([]byte(serializedSession), &session); err != nil {
		return session, fmt.Errorf("deserialize session: %w", err)
	}
	return session, nil
}

// Sessions of given user.
func userSessions(tx *buntdb.Tx, userId int64) ([]Session, error) {
	sessions := make([]Session, 0, 10)
	var listErr error
	err := tx.Ascend("sessions", func(key, value string) bool {
		var session Session
		if err := json.Unmarshal([]byte(value), &session); err != nil {
			listErr = fmt.Errorf("deserialize session: %w", err)
			return false
		}
		if session.UserId == userId {
			sessions = append(sessions, session)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("ascend sessions: %w", err)
	}
	if listErr != nil {
		return nil, fmt.Errorf("ascend content sessions: %w", listErr)
	}
	return sessions, nil
}

func (s *SessionStore) ActiveSessions(token string) ([]forgefit.Session, error) {
	var sessions []Session
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		owner, err := getSession(tx, token)
		if err != nil {
			return err
		}
		sessions, err = userSessions(tx, owner.UserId)
		if err != nil {
			return fmt.Errorf("lookup active sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil, forgefit.ErrSessionNotFound
		} else {
			return nil, fmt.Errorf("buntdb view: %w", err)
		}
	}

	ds := make([]forgefit.Session, len(sessions))
	for i, session := range sessions {
		ds[i] = session.ToDomain()
	}
	return ds, nil
}

func (s *SessionStore) AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (forgefit.Session, error) {
	var previousSession Session
	var session Session
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		var err error
		previousSession, err = getSession(tx, token)
		if err != nil {
			return err
		}

		session = previousSession
		session.Ip = ip
		session.UserAgent = userAgent
		session.LastAccessedAt = time.Now().UTC()
		session.ExpiresAt = session.LastAccessedAt.Add(sessionTTL)
		serializedSession, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("serialize session: %w", err)
		}

		expireOptions := &buntdb.SetOptions{Expires: true, TTL: sessionTTL}
		_, _, err = tx.Set("session:"+token, string(serializedSession), expireOptions)
		if err != nil {
			return fmt.Errorf("store session: %w", err)
		}
		_, _, err = tx.Set("session_by_id:"+session.Id, token, expireOptions)
		if err != nil {
			return fmt.Errorf("store session id: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return forgefit.Session{}, forgefit.ErrSessionNotFound
		} else {
			return forgefit.Session{}, fmt.Errorf("refresh session in buntdb: %w", err)
		}
	}

	userId := forgefit.UserId(session.UserId)
	if previousSession.Ip != session.Ip {
		activity := forgefit.Activity{Name: forgefit.ActivitySessionChangedIp, Data: map[string]interface{}{
			"session_id":  session.Id,
			"previous_ip": previousSession.Ip,
			"new_ip":      session.Ip,
		}}
		if err := s.ActivityStore.AddLog(ctx, userId, activity); err != nil {
			return forgefit.Session{}, fmt.Errorf("log ip change: %w", err)
		}
	}
	if previousSession.UserAgent != session.UserAgent {
		activity := forgefit.Activity{Name: forgefit.ActivitySessionChangedUserAgent, Data: map[string]interface{}{
			"session_id":          session.Id,
			"previous_user_agent": previousSession.UserAgent,
			"new_user_agent":      session.UserAgent,
		}}
		if err := s.ActivityStore.AddLog(ctx, userId, activity); err != nil {
			return forgefit.Session{}, fmt.Errorf("log useragent change: %w", err)
		}
	}
	return session.ToDomain(), nil
}

func (s *SessionStore) InvalidateById(userId forgefit.UserId, sessionId string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		token, err := tx.Get("session_by_id:" + sessionId)
		if err != nil {
			return fmt.Errorf("get session by id: %w", err)
		}
		session, err := getSession(tx, token)
		if err != nil {
			return err
		}
		if userId != forgefit.UserId(session.UserId) {
			return fmt.Errorf("different user id (required: %d, found: %d): %w",
				userId, session.UserId, forgefit.ErrSessionNotFound)
		}
		return deleteSession(tx, session)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return forgefit.ErrSessionNotFound
		}
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

func (s *SessionStore) InvalidateByAuthToken(authToken string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		session, err := getSession(tx, authToken)
		if err != nil {
			return err
		}
		return deleteSession(tx, session)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return forgefit.ErrSessionNotFound
		}
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

func (s *SessionStore) InvalidateAllExcept(exceptToken string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		owner, err := getSession(tx, exceptToken)
		if err != nil {
			return err
		}
		sessions, err := userSessions(tx, owner.UserId)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if session.Token == exceptToken {
				continue
			}
			if err := deleteSession(tx, session); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return forgefit.ErrSessionNotFound
		}
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

func deleteSession(tx *buntdb.Tx, session Session) error {
	_, err := tx.Delete("session:" + session.Token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	_, err = tx.Delete("session_by_id:" + session.Id)
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("delete session_by_id: %w", err)
	}
	return nil
}

func generateSessionToken() (string, error) {
	const tokenBytes = 60
	rawToken := make([]byte, tokenBytes)
	// crypto/rand - getentropy(2)
	bytesRead, err := crand.Read(rawToken)
	if err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	if bytesRead != tokenBytes {
		return "", fmt.Errorf("bytes read %d / required %d", bytesRead, tokenBytes)
	}
	dirtyToken := base64.RawURLEncoding.EncodeToString(rawToken)

	// keys are "session:<token>", a ":" inside the token could reach other key spaces
	token := strings.Replace(dirtyToken, ":", "_", -1)
	return token, nil
}
