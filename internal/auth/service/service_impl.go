package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/auth/events"
	"github.com/carbonctrl/carbonctrl/internal/auth/password"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour

	minPasswordLength = 8
)

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	genID       *snowflake.Node
	clock       clock.Clock
	hub         *events.Hub
}

func New(log *zap.Logger, repo domain.Repository, sessionRepo domain.SessionRepository, genID *snowflake.Node, clk clock.Clock, hub *events.Hub) domain.Service {
	return &Service{
		log:         log.Named("auth.service"),
		repo:        repo,
		sessionRepo: sessionRepo,
		genID:       genID,
		clock:       clk,
		hub:         hub,
	}
}

func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.SignInResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	role, ok := domain.ParseRole(string(req.Role))
	if !ok || role == domain.RoleAdmin {
		// admin accounts are seeded, never self-registered
		role = domain.RoleStudent
	}

	if _, err := s.repo.FindOne(ctx, domain.User{Email: email}); err == nil {
		return nil, domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = defaultDisplayName(email)
	}
	user := &domain.User{
		ID:           s.genID.Generate(),
		ExternalID:   uuid.NewString(),
		Provider:     "local",
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: &hashed,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, err
	}

	result, err := s.openSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}
	result.NewUser = true
	s.publishSignedIn(result)
	return result, nil
}

func (s *Service) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.SignInResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindOne(ctx, domain.User{Email: email, Provider: "local"})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.openSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}
	s.publishSignedIn(result)
	return result, nil
}

func (s *Service) SignInExternal(ctx context.Context, req domain.ExternalSignInRequest) (*domain.SignInResult, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	email, err := normalizeEmail(req.Email)
	if externalID == "" || err != nil {
		return nil, domain.ErrProviderDenied
	}

	newUser := false
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if errors.Is(err, domain.ErrUserNotFound) {
		if !req.AllowSignUp {
			return nil, domain.ErrProviderDenied
		}
		displayName := strings.TrimSpace(req.DisplayName)
		if displayName == "" {
			displayName = defaultDisplayName(email)
		}
		user = &domain.User{
			ID:          s.genID.Generate(),
			ExternalID:  externalID,
			Provider:    strings.TrimSpace(req.Provider),
			Email:       email,
			DisplayName: displayName,
			Role:        domain.RoleStudent,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			if db.IsDuplicateKeyErr(err) {
				// a local account already holds this email
				return nil, domain.ErrEmailInUse
			}
			return nil, err
		}
		newUser = true
	} else if err != nil {
		return nil, err
	}

	result, err := s.openSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}
	result.NewUser = newUser
	s.publishSignedIn(result)
	return result, nil
}

func (s *Service) SignOut(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	now := s.clock.Now()
	if err := s.sessionRepo.RevokeSession(ctx, session.ID, now); err != nil {
		return err
	}

	s.hub.Publish(events.Event{
		Type:       events.TypeSignedOut,
		UserID:     session.UserID.String(),
		OccurredAt: now,
	})
	return nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, *domain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.ErrInvalidSession
		}
		return nil, nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	// best effort; a failed touch must not invalidate the session
	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		s.log.Warn("failed to touch session last seen",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}

	return session, user, nil
}

func (s *Service) UserByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) openSession(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*domain.SignInResult, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(userAgent),
		IPAddress:        strings.TrimSpace(ipAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.SignInResult{
		User: user,
		Session: &domain.SessionView{
			UserID:      user.ID.String(),
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			Provider:    user.Provider,
		},
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) publishSignedIn(result *domain.SignInResult) {
	s.hub.Publish(events.Event{
		Type:       events.TypeSignedIn,
		UserID:     result.User.ID.String(),
		Email:      result.User.Email,
		Role:       string(result.User.Role),
		Provider:   result.User.Provider,
		NewUser:    result.NewUser,
		OccurredAt: s.clock.Now(),
	})
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func defaultDisplayName(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
