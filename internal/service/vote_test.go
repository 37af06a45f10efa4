package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"poll_maker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCastVoteOncePerPoll(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	voter := f.user(t, "voter")
	poll := f.poll(t, owner, false)
	ctx := context.Background()

	vote, err := f.votes.CastVote(ctx, voter.ID, poll.ID, poll.Options[0].ID)
	require.NoError(t, err)
	assert.NotZero(t, vote.ID)
	assert.False(t, vote.VotedAt.IsZero())

	_, err = f.votes.CastVote(ctx, voter.ID, poll.ID, poll.Options[1].ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	var votes []domain.Vote
	require.NoError(t, f.db.Where("user_id = ? AND poll_id = ?", voter.ID, poll.ID).Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, poll.Options[0].ID, votes[0].OptionID)
}

func TestCastVoteErrors(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	voter := f.user(t, "voter")
	poll := f.poll(t, owner, false)
	other := f.poll(t, owner, false)
	private := f.poll(t, owner, true)
	ctx := context.Background()

	tests := []struct {
		name     string
		pollID   uint
		optionID uint
		wantErr  error
	}{
		{"unknown poll", 999, poll.Options[0].ID, domain.ErrNotFound},
		{"unknown option", poll.ID, 999, domain.ErrNotFound},
		{"option of another poll", poll.ID, other.Options[0].ID, domain.ErrOptionMismatch},
		{"private poll of someone else", private.ID, private.Options[0].ID, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.votes.CastVote(ctx, voter.ID, tt.pollID, tt.optionID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&domain.Vote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOwnerCanVoteOnPrivatePoll(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	private := f.poll(t, owner, true)

	_, err := f.votes.CastVote(context.Background(), owner.ID, private.ID, private.Options[0].ID)
	assert.NoError(t, err)
}

func TestCastVoteConcurrent(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	voter := f.user(t, "voter")
	poll := f.poll(t, owner, false)

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		already   int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			option := poll.Options[i%len(poll.Options)].ID
			_, err := f.votes.CastVote(context.Background(), voter.ID, poll.ID, option)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrAlreadyVoted):
				already++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, already)

	var count int64
	require.NoError(t, f.db.Model(&domain.Vote{}).Where("poll_id = ?", poll.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVoteUniqueIndex(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	voter := f.user(t, "voter")
	poll := f.poll(t, owner, false)

	require.NoError(t, f.db.Create(&domain.Vote{UserID: voter.ID, PollID: poll.ID, OptionID: poll.Options[0].ID}).Error)
	err := f.db.Create(&domain.Vote{UserID: voter.ID, PollID: poll.ID, OptionID: poll.Options[1].ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTallyVotes(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	poll := f.poll(t, owner, false, "A", "B", "C")
	ctx := context.Background()

	picks := []int{0, 0, 1, 0} // indexes into poll.Options, one per voter
	for i, pick := range picks {
		voter := f.user(t, "voter"+string(rune('a'+i)))
		_, err := f.votes.CastVote(ctx, voter.ID, poll.ID, poll.Options[pick].ID)
		require.NoError(t, err)
	}

	tally, err := f.votes.TallyVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{
		poll.Options[0].ID: 3,
		poll.Options[1].ID: 1,
		poll.Options[2].ID: 0,
	}, tally)

	var sum int64
	for _, n := range tally {
		sum += n
	}
	assert.Equal(t, int64(len(picks)), sum)

	_, err = f.votes.TallyVotes(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
