package domain

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrNoActiveSession   = errors.New("no active session")
	ErrPersistence       = errors.New("profile persistence failed")
	ErrInsufficientCoins = errors.New("insufficient eco coins")
)
