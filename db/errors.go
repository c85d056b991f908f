package db

import "errors"

// Common errors
var (
	ErrConnect      = errors.New("database connection error")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("repository not found")
	ErrTransaction  = errors.New("transaction failed")
)
