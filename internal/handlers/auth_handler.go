package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/metrics"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
)

type AuthHandler struct {
	db       *gorm.DB
	sessions *session.Manager
	audit    audit.Sink
}

func NewAuthHandler(db *gorm.DB, sessions *session.Manager, audit audit.Sink) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, audit: audit}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// --------- Handlers ---------

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Email": "",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title": "Log in",
			"Email": "",
			"Error": httperr.Message(httperr.ErrBusiness(httperr.CodeValidation)),
		})
		return
	}

	// Emails are matched exactly; only surrounding whitespace is dropped.
	email := strings.TrimSpace(req.Email)

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Internal(c, err)
		return
	}

	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		metrics.LoginFailuresTotal.Inc()
		h.audit.Dispatch(audit.Event{
			Action:   audit.ActionLoginFailed,
			Entity:   "user",
			Metadata: map[string]any{"email": email},
		})

		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Title": "Log in",
			"Email": email,
			"Error": httperr.Message(httperr.ErrBusiness(httperr.CodeInvalidCredentials)),
		})
		return
	}

	if _, err := h.sessions.Begin(c, &user); err != nil {
		httperr.Internal(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   audit.ActionLoginSucceeded,
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, err := h.sessions.End(c)
	if err != nil {
		zap.L().Warn("logout: revoke session", zap.Error(err))
	}

	if sess != nil {
		h.audit.Dispatch(audit.Event{
			UserID:   &sess.UserID,
			Action:   audit.ActionLogout,
			Entity:   "user",
			EntityID: &sess.UserID,
		})
	}

	c.Redirect(http.StatusFound, "/login")
}

// --------- Passwords ---------

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// checkPassword always runs one bcrypt comparison, even for unknown users, so
// response time does not reveal which emails exist.
func checkPassword(hash, password string) bool {
	if hash == "" {
		dummyHashOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
