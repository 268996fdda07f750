package oauth

import "errors"

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidProvider  = errors.New("provider misconfigured")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnauthorized     = errors.New("provider rejected the exchange")
)
