// Package authorization enforces role-based access with casbin. Roles
// form a ladder: admin inherits teacher, teacher inherits student.
package authorization

import (
	"context"
	"errors"
)

var (
	ErrInvalidActor  = errors.New("invalid actor")
	ErrInvalidObject = errors.New("invalid object")
	ErrInvalidAction = errors.New("invalid action")
	ErrForbidden     = errors.New("forbidden")
)

type Service interface {
	Authorize(ctx context.Context, userID string, role string, object string, action string) error
}
