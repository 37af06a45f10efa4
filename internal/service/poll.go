package service

import (
	"context"
	"fmt"
	"strings"

	"poll_maker/internal/domain"

	"gorm.io/gorm"
)

// PollView is what a viewer gets back from ViewPoll
type PollView struct {
	Poll       domain.Poll    `json:"poll"`
	Tally      map[uint]int64 `json:"tally"`       // Option id to vote count, every option present
	TotalVotes int64          `json:"total_votes"` // Distinct voters on the poll
	UserVote   *uint          `json:"user_vote"`   // Option the viewer picked, nil if they have not voted
	IsOwner    bool           `json:"is_owner"`
}

// HasVoted reports whether the viewer has already voted
func (v *PollView) HasVoted() bool {
	return v.UserVote != nil
}

// PollService creates, shows, lists and deletes polls
type PollService struct {
	db *gorm.DB
}

// NewPollService returns a PollService backed by db
func NewPollService(db *gorm.DB) *PollService {
	return &PollService{db: db}
}

// CreatePoll stores a poll and its options in one transaction. Blank options
// are dropped; the rest keep their input order.
func (s *PollService) CreatePoll(ctx context.Context, ownerID uint, title, description string, options []string, isPrivate bool) (*domain.Poll, error) {
	title = strings.TrimSpace(title)
	var texts []string // Non-blank options in input order
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			texts = append(texts, o)
		}
	}
	// Check option count before anything is written
	if len(texts) < domain.MinOptions {
		return nil, domain.ErrInsufficientOptions
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	poll := &domain.Poll{
		Title:       title,
		Description: strings.TrimSpace(description),
		IsPrivate:   isPrivate,
		UserID:      ownerID,
	}
	// Position keeps the input order
	for i, text := range texts {
		poll.Options = append(poll.Options, domain.Option{Text: text, Position: i})
	}
	// Create inserts the options through the association inside the same transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(poll).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}
	return poll, nil
}

// ViewPoll returns a poll with its tally. Private polls are only shown to
// their owner; viewerID is nil for anonymous viewers.
func (s *PollService) ViewPoll(ctx context.Context, pollID uint, viewerID *uint) (*PollView, error) {
	db := s.db.WithContext(ctx)
	poll, err := loadPoll(db, pollID)
	if err != nil {
		return nil, err
	}
	// Private polls are only visible to their owner
	if !canView(poll, viewerID) {
		return nil, domain.ErrForbidden
	}
	counts, total, err := tally(db, poll) // Counts are shown on every permitted view
	if err != nil {
		return nil, err
	}
	view := &PollView{Poll: *poll, Tally: counts, TotalVotes: total}
	// Look up the viewer's own vote
	if viewerID != nil {
		view.IsOwner = poll.UserID == *viewerID
		var vote domain.Vote
		err := db.Where("user_id = ? AND poll_id = ?", *viewerID, pollID).Limit(1).Find(&vote).Error
		if err != nil {
			return nil, fmt.Errorf("query vote: %w", err)
		}
		if vote.ID != 0 {
			view.UserVote = &vote.OptionID
		}
	}
	return view, nil
}

// DeletePoll removes a poll owned by requesterID. Options and votes are
// removed by the ON DELETE CASCADE foreign keys.
func (s *PollService) DeletePoll(ctx context.Context, pollID, requesterID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poll domain.Poll // Find the poll
		if err := tx.First(&poll, pollID).Error; err != nil {
			return notFound(err)
		}
		// Only the creator may delete it
		if poll.UserID != requesterID {
			return domain.ErrForbidden
		}
		if err := tx.Delete(&poll).Error; err != nil {
			return fmt.Errorf("delete poll: %w", err) // Return error to rollback
		}
		return nil
	})
}

// ListOwnedPolls returns the polls created by ownerID, oldest first
func (s *PollService) ListOwnedPolls(ctx context.Context, ownerID uint) ([]domain.Poll, error) {
	var polls []domain.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Where("user_id = ?", ownerID).
		Order("created_at, id").
		Find(&polls).Error
	if err != nil {
		return nil, fmt.Errorf("list owned polls: %w", err)
	}
	return polls, nil
}

// ListVotedPolls returns the polls userID has voted on, oldest first
func (s *PollService) ListVotedPolls(ctx context.Context, userID uint) ([]domain.Poll, error) {
	var polls []domain.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Joins("JOIN votes ON votes.poll_id = polls.id").
		Where("votes.user_id = ?", userID).
		Order("polls.created_at, polls.id").
		Find(&polls).Error
	if err != nil {
		return nil, fmt.Errorf("list voted polls: %w", err)
	}
	return polls, nil
}

func orderOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

func loadPoll(db *gorm.DB, pollID uint) (*domain.Poll, error) {
	var poll domain.Poll
	if err := db.Preload("Options", orderOptions).First(&poll, pollID).Error; err != nil {
		return nil, notFound(err)
	}
	return &poll, nil
}

func canView(poll *domain.Poll, viewerID *uint) bool {
	return !poll.IsPrivate || (viewerID != nil && *viewerID == poll.UserID)
}

// tally counts votes per option, filling in zero for options nobody picked
func tally(db *gorm.DB, poll *domain.Poll) (map[uint]int64, int64, error) {
	var rows []struct {
		OptionID uint
		Count    int64
	}
	err := db.Model(&domain.Vote{}).
		Select("option_id, COUNT(*) AS count").
		Where("poll_id = ?", poll.ID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("tally votes: %w", err)
	}
	counts := make(map[uint]int64, len(poll.Options))
	for _, o := range poll.Options {
		counts[o.ID] = 0 // Options without votes still appear
	}
	var total int64
	for _, r := range rows {
		counts[r.OptionID] = r.Count
		total += r.Count
	}
	return counts, total, nil
}
