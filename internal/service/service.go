// Package service holds the account, poll and vote operations. Every
// operation takes the caller's identity as an argument; nothing here knows
// about HTTP sessions.
package service

import (
	"errors"
	"fmt"

	"poll_maker/internal/domain"

	"gorm.io/gorm"
)

// notFound maps gorm.ErrRecordNotFound to domain.ErrNotFound and wraps
// everything else as a storage failure.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("query: %w", err)
}

// exists reports whether query matches at least one row
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return count > 0, nil
}
