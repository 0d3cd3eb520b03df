package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studentportal/internal/session"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	CtxSessionID = "sessionID"
	CtxSession   = "session"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionAuth guards the protected views: it resolves the session cookie (or a
// bearer header, for non-browser clients), loads the session, and redirects to
// the login page before any protected handler runs when no session exists.
func SessionAuth(store session.Store, cookieName, signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := cookieToken(c, cookieName)
		if tokenStr == "" {
			redirectToLogin(c, cookieName)
			return
		}
		sid, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			redirectToLogin(c, cookieName)
			return
		}
		sess, ok, err := store.Get(c.Request.Context(), sid)
		if err != nil || !ok {
			redirectToLogin(c, cookieName)
			return
		}
		c.Set(CtxSessionID, sid)
		c.Set(CtxSession, sess)
		c.Next()
	}
}

func cookieToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	authz := c.GetHeader("Authorization")
	if authz != "" && strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

func redirectToLogin(c *gin.Context, cookieName string) {
	ClearCookie(c, cookieName)
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(c *gin.Context, cookieName string) {
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
}
