package domain

import "errors"

// Request errors returned by the account, poll and vote services.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientOptions = errors.New("a poll must have at least 2 options")
	ErrAlreadyVoted        = errors.New("you have already voted on this poll")
	ErrOptionMismatch      = errors.New("option does not belong to this poll")
)
