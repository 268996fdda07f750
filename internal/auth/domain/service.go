package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignInResult, error)
	SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error)
	SignInExternal(ctx context.Context, req ExternalSignInRequest) (*SignInResult, error)
	SignOut(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, *User, error)
	UserByID(ctx context.Context, id snowflake.ID) (*User, error)
}

type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        Role
	UserAgent   string
	IPAddress   string
}

type SignInRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// ExternalSignInRequest carries an identity already verified by an
// OAuth provider. NewUser is true when the account did not exist yet.
type ExternalSignInRequest struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
	AllowSignUp bool
	UserAgent   string
	IPAddress   string
}

type SignInResult struct {
	User      *User
	Session   *SessionView
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
	NewUser   bool
}
