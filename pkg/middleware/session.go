package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gss/competition-registration/pkg/logger"
	"github.com/gss/competition-registration/pkg/session"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "competition_session"

const sessionContextKey = "session"

// Session attaches the caller's session to the request, creating one when
// the cookie is missing or stale
func Session(store *session.Store, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)

		sess, created := store.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID, 0, "/", "", secure, true)
		}

		c.Set(sessionContextKey, sess)
		c.Request = c.Request.WithContext(logger.WithSession(c.Request.Context(), sess.ID))
		c.Next()
	}
}

// CurrentSession returns the session attached by Session
func CurrentSession(c *gin.Context) *session.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := value.(*session.Session)
	return sess
}
