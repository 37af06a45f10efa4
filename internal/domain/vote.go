package domain

import "time"

// Vote Model
//
// The composite unique index on (user_id, poll_id) is what guarantees a single
// vote per user and poll; the service-level existence check only produces the
// friendlier error.
type Vote struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_votes_user_poll,priority:1" json:"user_id"`
	PollID   uint      `gorm:"not null;uniqueIndex:idx_votes_user_poll,priority:2;index" json:"poll_id"`
	OptionID uint      `gorm:"not null;index" json:"option_id"`
	VotedAt  time.Time `gorm:"autoCreateTime" json:"voted_at"` // Server assigned timestamp
}
