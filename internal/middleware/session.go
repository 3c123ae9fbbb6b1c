package middleware

import (
	"errors"                        // Error inspection
	"net/http"                      // Cookie SameSite mode
	"tarot_portal/internal/domain"  // Importing domain models
	"tarot_portal/internal/session" // Session gateway
	"time"                          // Cookie lifetime

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys and cookie name
const (
	SessionCookieName = "session"      // Cookie holding the session token
	CurrentUserKey    = "currentUser"  // *domain.User of the logged in user
	SessionTokenKey   = "sessionToken" // Raw token of the current request
	SessionDownKey    = "sessionDown"  // Set when the session could not be checked
)

// LoadSession resolves the session cookie and stores the user in the context.
// Anonymous requests pass through untouched. The cookie is only cleared when the
// session is gone; during a backend outage it is kept and the request runs anonymous.
func LoadSession(gw *session.Gateway, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName) // Read session cookie
		if err != nil || token == "" {
			c.Next() // No cookie, anonymous request
			return
		}
		user, err := gw.Resolve(c.Request.Context(), token) // Map token to user
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				ClearSessionCookie(c, secure) // Drop stale or forged cookie
			} else {
				c.Set(SessionDownKey, true) // Keep cookie, it may still be valid
			}
			c.Next()
			return
		}
		c.Set(CurrentUserKey, user)   // Store user in context
		c.Set(SessionTokenKey, token) // Keep token for logout
		c.Next()                      // Proceed to the next handler
	}
}

// RequireLogin redirects anonymous requests to the login page. When the session
// could not be checked, unavailable handles the request instead.
func RequireLogin(unavailable gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if a user was resolved for this request
		if _, ok := CurrentUser(c); !ok {
			if c.GetBool(SessionDownKey) {
				unavailable(c) // Neither logged in nor provably logged out
				c.Abort()
				return
			}
			c.Redirect(http.StatusFound, "/login") // Send to login entry point
			c.Abort()
			return
		}
		c.Next() // Logged in, proceed
	}
}

// CurrentUser returns the logged in user, if any
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// SessionToken returns the token the current request was authenticated with
func SessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

// SetSessionCookie writes the session token cookie
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)                                              // Not sent on cross-site POSTs
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true) // HttpOnly cookie
}

// ClearSessionCookie expires the session cookie on the client
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true) // Negative MaxAge deletes it
}
