package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/auth"
	"github.com/polito-log/backend/internal/config"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/email"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/repositories"
)

var (
	ErrInvalidMagicLink = errors.New("invalid or expired magic link")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrDeliveryFailed   = errors.New("failed to send magic link")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnauthenticated  = errors.New("could not validate credentials")
)

const magicLinkSentMessage = "Magic link sent successfully"

type AuthService struct {
	users      repositories.UserRepository
	magicLinks repositories.MagicLinkRepository
	sender     email.Sender
	codec      *auth.Codec
	cfg        *config.Config
	now        func() time.Time
}

func NewAuthService(
	users repositories.UserRepository,
	magicLinks repositories.MagicLinkRepository,
	sender email.Sender,
	codec *auth.Codec,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		users:      users,
		magicLinks: magicLinks,
		sender:     sender,
		codec:      codec,
		cfg:        cfg,
		now:        time.Now,
	}
}

// RequestMagicLink stores a fresh single-use token for the address and mails
// the login link. Earlier tokens for the same address stay valid.
func (s *AuthService) RequestMagicLink(ctx context.Context, req *dto.MagicLinkRequest) (*dto.MagicLinkResponse, error) {
	addr := normalizeEmail(req.Email)

	var userID *uuid.UUID
	var username string
	user, err := s.users.GetByEmail(ctx, addr)
	switch {
	case err == nil:
		userID = &user.ID
		username = user.Username
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := auth.GenerateMagicLinkToken()
	if err != nil {
		return nil, err
	}

	link := &models.MagicLink{
		ID:        uuid.New(),
		Token:     token,
		Email:     addr,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.cfg.MagicLinkTTL),
	}
	if err := s.magicLinks.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to store magic link: %w", err)
	}

	msg := email.MagicLinkMessage{
		To:       addr,
		Link:     s.verifyURL(token),
		Username: username,
	}
	if err := s.sender.SendMagicLink(ctx, msg); err != nil {
		slog.Error("magic link delivery failed", "email", addr, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return &dto.MagicLinkResponse{Message: magicLinkSentMessage, Email: addr}, nil
}

// VerifyMagicLink consumes a token and opens a session, creating the account
// on the first login for an address.
func (s *AuthService) VerifyMagicLink(ctx context.Context, req *dto.VerifyRequest) (*dto.TokenResponse, error) {
	if req.Token == "" {
		return nil, ErrInvalidMagicLink
	}
	now := s.now()

	link, err := s.magicLinks.GetValidByToken(ctx, req.Token, now)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidMagicLink
		}
		return nil, fmt.Errorf("failed to load magic link: %w", err)
	}

	user, err := s.resolveUser(ctx, link.Email)
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	if err := s.magicLinks.MarkUsed(ctx, link.ID, user.ID, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidMagicLink
		}
		return nil, fmt.Errorf("failed to consume magic link: %w", err)
	}

	token, expiresAt, err := s.codec.CreateSessionToken(auth.Identity{
		Subject:  user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User: dto.SessionUser{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

func (s *AuthService) resolveUser(ctx context.Context, addr string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, addr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	username, err := s.freeUsername(ctx, localPart(addr))
	if err != nil {
		return nil, err
	}

	user = &models.User{
		ID:       uuid.New(),
		Email:    addr,
		Username: username,
		IsActive: true,
		Role:     models.RoleDefault,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		// A concurrent verification for the same address got there first;
		// MarkUsed decides which of the two wins the link.
		if existing, lookupErr := s.users.GetByEmail(ctx, addr); lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUsernameTaken, err)
	}

	slog.Info("user provisioned", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// freeUsername probes base, base1, base2, ... and returns the first name no
// user holds.
func (s *AuthService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		_, err := s.users.GetByUsername(ctx, candidate)
		if errors.Is(err, repositories.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// Authenticate resolves decoded session claims to an active user.
func (s *AuthService) Authenticate(ctx context.Context, claims *auth.SessionClaims) (*models.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's username. Nothing is written when the
// name belongs to someone else.
func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetCurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username == nil || *req.Username == user.Username {
		return user, nil
	}

	existing, err := s.users.GetByUsername(ctx, *req.Username)
	switch {
	case err == nil && existing.ID != user.ID:
		return nil, ErrUsernameTaken
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user.Username = *req.Username
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateUserAccess sets another user's role and active flag.
func (s *AuthService) UpdateUserAccess(ctx context.Context, id uuid.UUID, req *dto.UpdateUserAccessRequest) (*models.User, error) {
	user, err := s.GetCurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	slog.Info("user access updated", "user_id", user.ID, "role", user.Role, "is_active", user.IsActive)
	return user, nil
}

// CleanupExpiredMagicLinks deletes links past their expiry, used or not.
func (s *AuthService) CleanupExpiredMagicLinks(ctx context.Context) (int64, error) {
	n, err := s.magicLinks.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired magic links: %w", err)
	}
	slog.Info("expired magic links deleted", "count", n)
	return n, nil
}

func (s *AuthService) verifyURL(token string) string {
	return s.cfg.FrontendURL + "/auth/verify?token=" + url.QueryEscape(token)
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func localPart(addr string) string {
	local, _, _ := strings.Cut(addr, "@")
	return local
}
