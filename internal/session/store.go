package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store persists sessions in the sessions table and tracks them with a
// cookie that only carries the opaque id.
type Store struct {
	DB         *sql.DB
	CookieName string
	MaxAge     time.Duration
	Secure     bool

	now func() time.Time
}

func NewStore(db *sql.DB, cookieName string, maxAge time.Duration, secure bool) *Store {
	return &Store{DB: db, CookieName: cookieName, MaxAge: maxAge, Secure: secure, now: time.Now}
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Load returns the session named by the request cookie. Unknown, expired
// or missing ids yield a fresh, unsaved session.
func (s *Store) Load(c *gin.Context) (*Session, error) {
	sid, err := c.Cookie(s.CookieName)
	if err != nil || sid == "" {
		return &Session{}, nil
	}

	var (
		raw       string
		expiresAt int64
	)
	err = s.DB.QueryRowContext(c.Request.Context(),
		"SELECT data, expires_at FROM sessions WHERE sid = ?", sid,
	).Scan(&raw, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if expiresAt <= s.clock().Unix() {
		return &Session{}, nil
	}

	sess := &Session{ID: sid, persisted: true}
	if err := json.Unmarshal([]byte(raw), &sess.Data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Save writes the session row, assigning an id on first save, and refreshes
// the cookie.
func (s *Store) Save(c *gin.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}

	raw, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	expires := s.clock().Add(s.MaxAge)

	_, err = s.DB.ExecContext(c.Request.Context(), `
		INSERT INTO sessions (sid, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(sid) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		sess.ID, string(raw), expires.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	sess.persisted = true

	s.setCookie(c, sess.ID, int(s.MaxAge.Seconds()))
	return nil
}

// Regenerate drops the old row and gives sess a new id with empty data.
// Copy anything worth keeping before calling it.
func (s *Store) Regenerate(c *gin.Context, sess *Session) error {
	if sess.ID != "" {
		if err := s.delete(c.Request.Context(), sess.ID); err != nil {
			return err
		}
	}
	sess.ID = uuid.New().String()
	sess.Data = Data{}
	sess.persisted = false
	return nil
}

// Destroy deletes the row and clears the cookie.
func (s *Store) Destroy(c *gin.Context, sess *Session) error {
	if sess.ID != "" {
		if err := s.delete(c.Request.Context(), sess.ID); err != nil {
			return err
		}
	}
	sess.ID = ""
	sess.Data = Data{}
	sess.persisted = false

	s.setCookie(c, "", -1)
	return nil
}

// DeleteExpired removes rows past their expiry and returns how many.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", s.clock().Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) delete(ctx context.Context, sid string) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM sessions WHERE sid = ?", sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.CookieName, value, maxAge, "/", "", s.Secure, true)
}
