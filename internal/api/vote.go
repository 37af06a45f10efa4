package api

import (
	"net/http" // HTTP status codes

	"poll_maker/internal/middleware" // Session context helpers
	"poll_maker/internal/service"    // Vote operations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// VoteRequest carries the chosen option in the "option" field
type VoteRequest struct {
	OptionID uint `form:"option" json:"option"`
}

// VoteHandler records the current user's vote on a poll
func VoteHandler(votes *service.VoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pollID, ok := pollIDParam(c)
		if !ok {
			return
		}
		userID, _ := middleware.CurrentUserID(c) // Set by RequireSession
		var req VoteRequest                      // Bind form or JSON body to struct
		// An option must be selected
		if err := c.ShouldBind(&req); err != nil || req.OptionID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select an option to vote."})
			return
		}
		fields := logrus.Fields{"user_id": userID, "poll_id": pollID, "option_id": req.OptionID}
		// Record the vote once per user and poll
		vote, err := votes.CastVote(c.Request.Context(), userID, pollID, req.OptionID)
		if err != nil {
			respondError(c, err, fields)
			return
		}
		logrus.WithFields(fields).Info("Vote recorded")
		c.JSON(http.StatusCreated, gin.H{"message": "Your vote has been recorded!", "vote": vote})
	}
}

// TallyHandler returns only the per-option counts of a poll the caller may view
func TallyHandler(polls *service.PollService, votes *service.VoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pollID, ok := pollIDParam(c)
		if !ok {
			return
		}
		// ViewPoll enforces visibility; TallyVotes alone does not know the viewer
		if _, err := polls.ViewPoll(c.Request.Context(), pollID, middleware.CurrentUserIDPtr(c)); err != nil {
			respondError(c, err, logrus.Fields{"poll_id": pollID})
			return
		}
		tally, err := votes.TallyVotes(c.Request.Context(), pollID)
		if err != nil {
			respondError(c, err, logrus.Fields{"poll_id": pollID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"poll_id": pollID, "tally": tally})
	}
}
