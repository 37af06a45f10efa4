package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Timestamps for log entries

	"poll_maker/internal/domain"     // Request errors
	"poll_maker/internal/middleware" // Session context helpers
	"poll_maker/internal/service"    // Poll operations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreatePollRequest is the poll creation form. Options repeat the "options"
// form field or come as a JSON array. In a form post is_private is a
// checkbox and is read by checkboxChecked.
type CreatePollRequest struct {
	Title       string   `form:"title" json:"title"`
	Description string   `form:"description" json:"description"`
	Options     []string `form:"options" json:"options"`
	IsPrivate   bool     `form:"-" json:"is_private"`
}

// PollResponse is a poll view plus what the client needs to share or vote on it
type PollResponse struct {
	*service.PollView
	ShareURL string `json:"share_url"` // Absolute link to the poll
	CanVote  bool   `json:"can_vote"`  // Logged in and not voted yet
}

// CreatePollFormHandler describes the poll creation form
func CreatePollFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"form":        "create_poll",
			"fields":      []string{"title", "description", "options", "is_private"},
			"min_options": domain.MinOptions,
		})
	}
}

// CreatePollHandler creates a poll owned by the current user
func CreatePollHandler(polls *service.PollService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c) // Set by RequireSession
		var req CreatePollRequest                // Bind form or JSON body to struct
		if err := c.ShouldBind(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Browsers send "on" for a ticked checkbox and omit it otherwise
		if c.ContentType() != gin.MIMEJSON {
			req.IsPrivate = checkboxChecked(c.PostForm("is_private"))
		}
		// Poll and options are written in one transaction
		poll, err := polls.CreatePoll(c.Request.Context(), userID, req.Title, req.Description, req.Options, req.IsPrivate)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": userID})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"poll_id":    poll.ID,
			"options":    len(poll.Options),
			"is_private": poll.IsPrivate,
			"timestamp":  time.Now().Format(time.RFC3339),
		}).Info("Poll created")
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Poll created successfully!",
			"poll":      poll,
			"share_url": shareURL(c, poll.ID),
		})
	}
}

// ViewPollHandler shows a poll with its tally. Anonymous viewers see public polls.
func ViewPollHandler(polls *service.PollService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pollID, ok := pollIDParam(c)
		if !ok {
			return
		}
		viewerID := middleware.CurrentUserIDPtr(c) // Nil for anonymous viewers
		view, err := polls.ViewPoll(c.Request.Context(), pollID, viewerID)
		if err != nil {
			respondError(c, err, logrus.Fields{"poll_id": pollID})
			return
		}
		c.JSON(http.StatusOK, PollResponse{
			PollView: view,
			ShareURL: shareURL(c, pollID),
			CanVote:  viewerID != nil && !view.HasVoted(),
		})
	}
}

// DeletePollHandler deletes a poll if the current user created it
func DeletePollHandler(polls *service.PollService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pollID, ok := pollIDParam(c)
		if !ok {
			return
		}
		userID, _ := middleware.CurrentUserID(c) // Set by RequireSession
		// Ownership is checked by the service
		if err := polls.DeletePoll(c.Request.Context(), pollID, userID); err != nil {
			respondError(c, err, logrus.Fields{"user_id": userID, "poll_id": pollID})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "poll_id": pollID}).Info("Poll deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Poll deleted successfully", "redirect": "/my-polls"})
	}
}

// pollIDParam parses the :id path parameter, answering 404 when it is not an id
func pollIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// checkboxChecked reports whether a submitted checkbox value means ticked
func checkboxChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func shareURL(c *gin.Context, pollID uint) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/poll/" + strconv.FormatUint(uint64(pollID), 10)
}
