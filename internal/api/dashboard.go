package api

import (
	"context"
	"net/http" // HTTP status codes
	"time"

	"poll_maker/internal/middleware" // Session context helpers
	"poll_maker/internal/service"    // Account and poll operations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// HomeHandler lists the caller's polls, or the landing content for anonymous visitors
func HomeHandler(accounts *service.AccountService, polls *service.PollService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		// Anonymous visitors get the landing content
		if !ok {
			c.JSON(http.StatusOK, gin.H{
				"title":   "Create & Share Polls Instantly",
				"message": "Register or log in to create polls and vote.",
				"links":   gin.H{"register": "/register", "login": "/login"},
			})
			return
		}
		user, err := accounts.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": userID})
			return
		}
		owned, err := polls.ListOwnedPolls(c.Request.Context(), userID) // Polls the user created
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"title": "Your Polls", "user": user, "polls": owned})
	}
}

// MyPollsHandler lists the polls the caller created and the polls they voted on
func MyPollsHandler(polls *service.PollService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		created, err := polls.ListOwnedPolls(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": userID})
			return
		}
		voted, err := polls.ListVotedPolls(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"created_polls": created, "voted_polls": voted})
	}
}

// Pinger is anything whose backing connection can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether every dependency answers a ping
func HealthHandler(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status := http.StatusOK
		checks := gin.H{}
		// Ping every dependency with a shared deadline
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				logrus.WithFields(logrus.Fields{"dependency": name, "error": err.Error()}).Warn("Health check failed")
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		c.JSON(status, gin.H{"checks": checks})
	}
}
