package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Username  string    `gorm:"size:80;uniqueIndex;not null" json:"username"` // Unique username
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`   // Unique email
	Password  string    `gorm:"size:255;not null" json:"-"`                   // Bcrypt hash, never plaintext
	CreatedAt time.Time `json:"created_at"`                                   // Registration time
	Polls     []Poll    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`        // Polls created by the user
	Votes     []Vote    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`        // Votes cast by the user
}
