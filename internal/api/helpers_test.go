package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"poll_maker/internal/db"
	"poll_maker/internal/domain"
	"poll_maker/internal/middleware"
	"poll_maker/internal/service"
	"poll_maker/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type testServer struct {
	router   *gin.Engine
	redis    *miniredis.Miniredis
	accounts *service.AccountService
	polls    *service.PollService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.NewTestDB(t)
	mr, sessions := testutil.NewTestSessionStore(t)
	accounts := service.NewAccountService(gdb).WithCost(bcrypt.MinCost)
	polls := service.NewPollService(gdb)
	router := NewRouter(Deps{
		Accounts:  accounts,
		Polls:     polls,
		Votes:     service.NewVoteService(gdb),
		Sessions:  sessions,
		JWTSecret: testSecret,
		Health: map[string]Pinger{
			"database": db.HealthCheck{DB: gdb},
			"redis":    sessions,
		},
	})
	return &testServer{router: router, redis: mr, accounts: accounts, polls: polls}
}

// do sends a request, form encoding values for non-GET methods. opts may
// adjust the request before it is served.
func (s *testServer) do(method, path string, form url.Values, cookie *http.Cookie, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user directly through the service
func (s *testServer) register(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := s.accounts.Register(context.Background(), username, username+"@example.com", "testpass123")
	require.NoError(t, err)
	return u
}

// login posts the login form and returns the session cookie
func (s *testServer) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := s.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {"testpass123"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func (s *testServer) createPoll(t *testing.T, owner *domain.User, private bool, options ...string) *domain.Poll {
	t.Helper()
	if len(options) == 0 {
		options = []string{"Option 1", "Option 2"}
	}
	p, err := s.polls.CreatePoll(context.Background(), owner.ID, "Test Poll Question", "This is a test poll description", options, private)
	require.NoError(t, err)
	return p
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// bearer sends token in the Authorization header
func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}
