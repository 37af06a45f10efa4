package api

import (
	"errors"
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"poll_maker/internal/domain"     // Request errors
	"poll_maker/internal/middleware" // Session context helpers
	"poll_maker/internal/service"    // Account operations
	"poll_maker/internal/utils"      // Session token and store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the registration form
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// LoginRequest is the login form
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// AuthResponse is returned after a successful login
type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`    // Same token as the session cookie, for API clients
	Redirect string `json:"redirect"` // Where a browser should go next
}

// RegisterFormHandler describes the registration form
func RegisterFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"form": "register", "fields": []string{"username", "email", "password"}})
	}
}

// RegisterHandler creates a new account
func RegisterHandler(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind form or JSON body to struct
		if err := c.ShouldBind(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate and create the user
		user, err := accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			respondError(c, err, logrus.Fields{"username": req.Username})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "Registration successful! Please log in.", "redirect": "/login"})
	}
}

// LoginFormHandler describes the login form, or points a logged in user home
func LoginFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CurrentUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged in", "redirect": "/"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"form": "login", "fields": []string{"username", "password"}, "next": c.Query("next")})
	}
}

// LoginHandler authenticates a user and opens a session
func LoginHandler(accounts *service.AccountService, sessions *utils.SessionStore, secret string, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A live session needs no second login
		if _, ok := middleware.CurrentUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged in", "redirect": "/"})
			return
		}
		var req LoginRequest // Bind form or JSON body to struct
		if err := c.ShouldBind(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Check username and password
		user, err := accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Username not found"})
			return
		case err != nil:
			respondError(c, err, logrus.Fields{"username": req.Username})
			return
		}
		sess, err := sessions.Create(c.Request.Context(), user.ID) // Store the session in Redis
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID})
			return
		}
		token, err := utils.GenerateJWT(user.ID, sess.ID, secret, sessions.TTL()) // Sign a token bound to the session
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID})
			return
		}
		// Set the session cookie
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookieName, token, int(sessions.TTL().Seconds()), "/", "", secureCookie, true)
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User logged in")
		c.JSON(http.StatusOK, AuthResponse{
			Message:  "Logged in successfully",
			Token:    token,
			Redirect: safeRedirect(c.Query("next")),
		})
	}
}

// LogoutHandler revokes the current session. Calling it without a session
// still succeeds.
func LogoutHandler(sessions *utils.SessionStore, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Revoke the server-side session if there is one
		if sid := c.GetString(middleware.SessionIDKey); sid != "" {
			if err := sessions.Delete(c.Request.Context(), sid); err != nil {
				respondError(c, err, logrus.Fields{"session_id": sid})
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": c.GetUint(middleware.UserIDKey)}).Info("User logged out")
		}
		// Expire the cookie
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secureCookie, true)
		c.JSON(http.StatusOK, gin.H{"message": "You have been logged out", "redirect": "/"})
	}
}

// safeRedirect accepts only local absolute paths as a post-login target
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
