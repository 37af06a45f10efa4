package service

import (
	"context"
	"testing"

	"poll_maker/internal/domain"
	"poll_maker/internal/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	accounts *AccountService
	polls    *PollService
	votes    *VoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &fixture{
		db:       db,
		accounts: NewAccountService(db).WithCost(bcrypt.MinCost),
		polls:    NewPollService(db),
		votes:    NewVoteService(db),
	}
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), name, name+"@example.com", "password123")
	require.NoError(t, err)
	return u
}

func (f *fixture) poll(t *testing.T, owner *domain.User, private bool, options ...string) *domain.Poll {
	t.Helper()
	if len(options) == 0 {
		options = []string{"Option 1", "Option 2"}
	}
	p, err := f.polls.CreatePoll(context.Background(), owner.ID, "Test Poll Question", "", options, private)
	require.NoError(t, err)
	return p
}

func ptr(id uint) *uint {
	return &id
}
