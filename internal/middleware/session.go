package middleware

import (
	"errors"
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"poll_maker/internal/utils" // Session token and store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys set by the session middleware
const (
	UserIDKey    = "userID"
	SessionIDKey = "sessionID"
)

// SessionCookieName is the cookie holding the signed session token
const SessionCookieName = "session"

// RequireSession rejects requests without a live session
func RequireSession(store *utils.SessionStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := loadSession(c, store, secret)
		if err != nil {
			logrus.WithError(err).Error("Session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in to continue"})
			return
		}
		c.Next()
	}
}

// OptionalSession identifies the caller when a live session is present and
// lets anonymous requests through otherwise
func OptionalSession(store *utils.SessionStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := loadSession(c, store, secret); err != nil {
			logrus.WithError(err).Warn("Session lookup failed, continuing anonymously")
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, if any
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentUserIDPtr is CurrentUserID as a nil-able pointer
func CurrentUserIDPtr(c *gin.Context) *uint {
	if id, ok := CurrentUserID(c); ok {
		return &id
	}
	return nil
}

// SessionToken returns the raw session token from the cookie or the
// Authorization header
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// loadSession verifies the token and that its session is still live in the
// store. It returns false without error for missing, invalid, expired or
// revoked sessions.
func loadSession(c *gin.Context, store *utils.SessionStore, secret string) (bool, error) {
	tokenStr := SessionToken(c)
	if tokenStr == "" {
		return false, nil
	}
	claims, err := utils.ParseJWT(tokenStr, secret)
	if err != nil {
		return false, nil
	}
	sess, err := store.Lookup(c.Request.Context(), claims.SessionID)
	if errors.Is(err, utils.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sess.UserID != claims.UserID {
		return false, nil
	}
	c.Set(UserIDKey, sess.UserID)
	c.Set(SessionIDKey, sess.ID)
	return true, nil
}
