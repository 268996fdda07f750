package domain

import "errors"

var (
	ErrItemNotFound      = errors.New("reward item not found")
	ErrInsufficientCoins = errors.New("insufficient eco coins")
)
