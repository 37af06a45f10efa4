package api

import (
	"poll_maker/internal/middleware" // Session and logging middleware
	"poll_maker/internal/service"    // Account, poll and vote operations
	"poll_maker/internal/utils"      // Session store

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps is everything the router needs
type Deps struct {
	Accounts     *service.AccountService
	Polls        *service.PollService
	Votes        *service.VoteService
	Sessions     *utils.SessionStore
	JWTSecret    string
	CookieSecure bool
	Health       map[string]Pinger
}

// NewRouter wires every route onto a new gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	optional := middleware.OptionalSession(d.Sessions, d.JWTSecret)
	required := middleware.RequireSession(d.Sessions, d.JWTSecret)

	r.GET("/healthz", HealthHandler(d.Health))

	// Public pages, personalised when a session is present
	r.GET("/", optional, HomeHandler(d.Accounts, d.Polls))
	r.GET("/poll/:id", optional, ViewPollHandler(d.Polls))
	r.GET("/poll/:id/results", optional, TallyHandler(d.Polls, d.Votes))

	// Account routes
	r.GET("/register", RegisterFormHandler())
	r.POST("/register", RegisterHandler(d.Accounts))
	r.GET("/login", optional, LoginFormHandler())
	r.POST("/login", optional, LoginHandler(d.Accounts, d.Sessions, d.JWTSecret, d.CookieSecure))
	r.GET("/logout", optional, LogoutHandler(d.Sessions, d.CookieSecure))

	// Routes that need a logged in user
	auth := r.Group("/", required)
	auth.GET("/create", CreatePollFormHandler())
	auth.POST("/create", CreatePollHandler(d.Polls))
	auth.POST("/vote/:id", VoteHandler(d.Votes))
	auth.POST("/poll/:id/delete", DeletePollHandler(d.Polls))
	auth.GET("/my-polls", MyPollsHandler(d.Polls))
	auth.GET("/my_polls", MyPollsHandler(d.Polls))

	return r
}
