package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
)

const LoginPath = "/login"

// RequireSession lets the request through only with a live session whose user
// still exists; otherwise it redirects to the login page.
func RequireSession(mgr *session.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := mgr.Resolve(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				httperr.Internal(c, err)
				c.Abort()
				return
			}
			redirectToLogin(c)
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, sess.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				zap.L().Info("session for deleted user", zap.Uint("user_id", sess.UserID))
				redirectToLogin(c)
				return
			}
			httperr.Internal(c, err)
			c.Abort()
			return
		}

		session.SetCurrent(c, sess, &user)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}
