package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poll_maker/internal/domain"

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"
)

// AccountService registers and authenticates users
type AccountService struct {
	db   *gorm.DB
	cost int
}

// NewAccountService returns an AccountService hashing with bcrypt.DefaultCost
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost, mostly so tests can use bcrypt.MinCost.
func (s *AccountService) WithCost(cost int) *AccountService {
	s.cost = cost
	return s
}

// Register creates a new user. A taken username is reported before any other
// field is looked at.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username) // Ignore surrounding whitespace
	email = strings.TrimSpace(email)
	// Username is checked first
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	db := s.db.WithContext(ctx)

	taken, err := exists(db.Model(&domain.User{}).Where("username = ?", username)) // Check if username exists
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateUsername
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	taken, err = exists(db.Model(&domain.User{}).Where("email = ?", email)) // Check if email exists
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost) // Hash password
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Username: username, Email: email, Password: string(hash)} // Never store the plain password
	if err := db.Create(user).Error; err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUser(db, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// duplicateUser works out which unique column a failed user insert collided on
func duplicateUser(db *gorm.DB, email string) error {
	taken, err := exists(db.Model(&domain.User{}).Where("email = ?", email))
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrDuplicateEmail
	}
	return domain.ErrDuplicateUsername
}

// Authenticate checks a username and password against the stored hash
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User // Find user by username
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	// Compare password with hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user by id
func (s *AccountService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
