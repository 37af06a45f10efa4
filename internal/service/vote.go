package service

import (
	"context"
	"errors"
	"fmt"

	"poll_maker/internal/domain"

	"gorm.io/gorm"
)

// VoteService records votes and counts them
type VoteService struct {
	db *gorm.DB
}

// NewVoteService returns a VoteService backed by db
func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// CastVote records userID's vote for optionID on pollID. The existence check
// and insert run in one transaction, and the unique index on (user_id,
// poll_id) turns a concurrent second insert into ErrAlreadyVoted.
func (s *VoteService) CastVote(ctx context.Context, userID, pollID, optionID uint) (*domain.Vote, error) {
	vote := &domain.Vote{UserID: userID, PollID: pollID, OptionID: optionID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poll domain.Poll // Find the poll
		if err := tx.First(&poll, pollID).Error; err != nil {
			return notFound(err)
		}
		// Voters must be able to see the poll
		if !canView(&poll, &userID) {
			return domain.ErrForbidden
		}
		var option domain.Option // Find the option
		if err := tx.First(&option, optionID).Error; err != nil {
			return notFound(err)
		}
		// Option must belong to this poll
		if option.PollID != poll.ID {
			return domain.ErrOptionMismatch
		}
		// Check for an earlier vote
		voted, err := exists(tx.Model(&domain.Vote{}).Where("user_id = ? AND poll_id = ?", userID, pollID))
		if err != nil {
			return err
		}
		if voted {
			return domain.ErrAlreadyVoted
		}
		if err := tx.Create(vote).Error; err != nil {
			return fmt.Errorf("create vote: %w", err) // Return error to rollback
		}
		return nil
	})
	// A concurrent vote won the race on the unique index
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domain.ErrAlreadyVoted
	}
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// TallyVotes maps every option of pollID to its vote count
func (s *VoteService) TallyVotes(ctx context.Context, pollID uint) (map[uint]int64, error) {
	db := s.db.WithContext(ctx)
	poll, err := loadPoll(db, pollID)
	if err != nil {
		return nil, err
	}
	counts, _, err := tally(db, poll)
	return counts, err
}
