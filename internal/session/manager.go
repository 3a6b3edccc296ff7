package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

const (
	CookieName  = "session"
	ContextUser = "currentUser"
	contextSID  = "sessionID"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and revokes sessions. The cookie holds a signed token naming
// the session; the session itself lives in the Store, so revoking it there
// invalidates the cookie even before it expires.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Begin creates a session for user and sets the cookie.
func (m *Manager) Begin(c *gin.Context, user *models.User) (*models.Session, error) {
	now := m.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Save(c.Request.Context(), sess); err != nil {
		return nil, err
	}

	token, err := m.sign(sess, user.Role, now)
	if err != nil {
		_ = m.store.Delete(c.Request.Context(), sess.ID)
		return nil, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return sess, nil
}

// Resolve returns the live session named by the request cookie.
func (m *Manager) Resolve(c *gin.Context) (*models.Session, error) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil, ErrNoSession
	}
	return m.resolveToken(c.Request.Context(), token)
}

func (m *Manager) resolveToken(ctx context.Context, token string) (*models.Session, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrNoSession
	}

	userID, err := strconv.ParseUint(cl.Subject, 10, 64)
	if err != nil || cl.ID == "" {
		return nil, ErrNoSession
	}

	sess, err := m.store.Get(ctx, cl.ID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != uint(userID) || !m.now().Before(sess.ExpiresAt) {
		return nil, ErrNoSession
	}
	return sess, nil
}

// End revokes the request's session, if any, clears the cookie and returns
// the revoked session (nil when there was none).
func (m *Manager) End(c *gin.Context) (*models.Session, error) {
	sess, err := m.Resolve(c)
	if err == nil {
		err = m.store.Delete(c.Request.Context(), sess.ID)
	} else if errors.Is(err, ErrNoSession) {
		err = nil
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	return sess, err
}

func (m *Manager) sign(sess *models.Session, role string, now time.Time) (string, error) {
	cl := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatUint(uint64(sess.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// --------------------------------------------------
// Request context
// --------------------------------------------------

func SetCurrent(c *gin.Context, sess *models.Session, user *models.User) {
	c.Set(ContextUser, user)
	c.Set(contextSID, sess.ID)
}

// CurrentUser is the authenticated user for this request, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
