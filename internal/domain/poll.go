package domain

import "time"

// MinOptions is the smallest number of options a poll can be created with.
const MinOptions = 2

// Poll Model
type Poll struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Title       string    `gorm:"size:200;not null" json:"title"`              // Poll question
	Description string    `gorm:"type:text" json:"description"`                // Optional description
	IsPrivate   bool      `gorm:"not null;default:false" json:"is_private"`    // Visible to the creator only
	UserID      uint      `gorm:"not null;index" json:"user_id"`               // Foreign key to the creator
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                     // Creation time
	Options     []Option  `gorm:"constraint:OnDelete:CASCADE;" json:"options"` // Choices, deleted with the poll
	Votes       []Vote    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`       // Votes, deleted with the poll
}

// Option Model
type Option struct {
	ID       uint   `gorm:"primaryKey" json:"id"`          // Primary key
	PollID   uint   `gorm:"not null;index" json:"poll_id"` // Foreign key to Poll
	Text     string `gorm:"size:200;not null" json:"text"` // Label shown to voters
	Position int    `gorm:"not null" json:"position"`      // Display order within the poll
	Votes    []Vote `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// TableName keeps the table name readable next to "polls" and "votes".
func (Option) TableName() string {
	return "poll_options"
}
