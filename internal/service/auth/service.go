package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/service/authz"
	"github.com/sportivai/federation-api/pkg/auth"
	"github.com/sportivai/federation-api/pkg/errors"
	"github.com/sportivai/federation-api/pkg/hook"
	"github.com/sportivai/federation-api/pkg/security"
)

// InvitationTTL is how long an invitation token stays redeemable.
const InvitationTTL = 7 * 24 * time.Hour

// Mailer delivers invitation emails. Nil disables the send.
type Mailer interface {
	SendInvitation(ctx context.Context, invitation *model.Invitation) error
}

type Service struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	jwtSvc      auth.JWTService
	hasher      security.PasswordHasher
	authz       *authz.Evaluator
	mailer      Mailer
	logger      *zerolog.Logger
	tokenTTL    time.Duration
}

func NewService(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	evaluator *authz.Evaluator,
	mailer Mailer,
	logger *zerolog.Logger,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		users:       users,
		invitations: invitations,
		jwtSvc:      jwtSvc,
		hasher:      hasher,
		authz:       evaluator,
		mailer:      mailer,
		logger:      logger,
		tokenTTL:    tokenTTL,
	}
}

// Login verifies credentials and issues a token carrying the effective role.
// Bad email and bad password produce the same error.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized(err)
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized(err)
	}

	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtSvc.GenerateAccessToken(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenTTL),
		Principal:   principal,
	}, nil
}

// principalFor derives the effective role once, at issue time. The
// user_roles relation wins when populated; the legacy users.role column is
// the fallback for accounts that predate it.
func (s *Service) principalFor(ctx context.Context, user *model.User) (*model.Principal, error) {
	role := user.Role
	names, err := s.users.ListRoleNames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	for _, name := range names {
		switch model.Role(name) {
		case model.RoleFederationAdmin:
			role = model.RoleFederationAdmin
		case model.RoleClubManager:
			if role != model.RoleFederationAdmin {
				role = model.RoleClubManager
			}
		}
	}

	return &model.Principal{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         role,
		ClubID:       user.ClubID,
		FederationID: user.FederationID,
	}, nil
}

// Invite creates a single-use invitation for a future member. Federation
// admin only; the invitee inherits the admin's federation scope.
func (s *Service) Invite(ctx context.Context, actor *model.Principal, req *model.CreateInvitationRequest) (*model.Invitation, error) {
	if err := s.authz.RequireFederationAdmin(actor); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.Conflict("a user with this email already exists", nil)
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	invitation := &model.Invitation{
		ID:           uuid.New(),
		Token:        token,
		Email:        req.Email,
		Role:         req.Role,
		ClubID:       req.ClubID,
		FederationID: actor.FederationID,
		ExpiresAt:    time.Now().Add(InvitationTTL),
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	if s.mailer != nil {
		var hooks hook.Hooks
		hooks.Add(func(ctx context.Context) error {
			return s.mailer.SendInvitation(ctx, invitation)
		})
		hooks.Run(ctx, s.logger)
	}

	return invitation, nil
}

// Register consumes an invitation and creates the account, then logs the new
// user straight in.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	invitation, err := s.invitations.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.BadRequest("invalid invitation", err)
		}
		return nil, err
	}
	if !invitation.Valid(time.Now()) {
		return nil, errors.BadRequest("invitation expired or already used", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Email:        invitation.Email,
		PasswordHash: hash,
		Role:         invitation.Role,
		ClubID:       invitation.ClubID,
		FederationID: invitation.FederationID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.IsConflict(err) {
			return nil, errors.Conflict("a user with this email already exists", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.invitations.MarkUsed(ctx, invitation.ID); err != nil {
		s.logger.Error().Err(err).Str("invitation_id", invitation.ID.String()).Msg("failed to mark invitation used")
	}

	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := s.jwtSvc.GenerateAccessToken(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenTTL),
		Principal:   principal,
	}, nil
}

func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
