// Package auth implements login and token validation.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/premierlux/premierlux-backend/internal/auth/jwt"
	userrepo "github.com/premierlux/premierlux-backend/internal/user/repository"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Default owner account seeded into an empty database
const (
	seedOwnerEmail    = "owner@example.com"
	seedOwnerName     = "System Owner"
	seedOwnerPassword = "owner123"
)

// Service handles authentication
type Service struct {
	users    *userrepo.UserRepository
	settings *userrepo.SettingsRepository
	audit    *userrepo.AuditRepository
	tokens   *jwt.Manager
	logger   *logger.Logger
}

// NewService creates a new auth service
func NewService(users *userrepo.UserRepository, settings *userrepo.SettingsRepository, audit *userrepo.AuditRepository, tokens *jwt.Manager, log *logger.Logger) *Service {
	return &Service{
		users:    users,
		settings: settings,
		audit:    audit,
		tokens:   tokens,
		logger:   log.WithComponent("auth"),
	}
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token  *jwt.Token    `json:"token"`
	User   userrepo.User `json:"user"`
	Role   string        `json:"role"`
	Name   string        `json:"name"`
	Branch string        `json:"branch"`
}

// Login authenticates a user. During a lockdown only the owner may log in.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.InvalidCredentials()
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.InvalidCredentials()
	}

	lockdown, err := s.settings.Lockdown(ctx)
	if err != nil {
		return nil, err
	}
	if lockdown.Enabled && user.Role != scope.RoleOwner {
		return nil, errors.Forbidden("System is under MAINTENANCE. Owner access only.")
	}

	token, err := s.tokens.Generate(scope.Scope{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Branch: user.Branch,
	})
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, &userrepo.AuditEntry{
		UserEmail: user.Email,
		Action:    "Login",
		Details:   "User logged into the system",
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login audit entry")
	}

	return &LoginResult{
		Token:  token,
		User:   *user,
		Role:   user.Role,
		Name:   user.Name,
		Branch: user.Branch,
	}, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SeedOwner creates the default owner account when no users exist
func (s *Service) SeedOwner(ctx context.Context) error {
	existing, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := HashPassword(seedOwnerPassword)
	if err != nil {
		return err
	}

	owner := userrepo.User{
		Email:        seedOwnerEmail,
		PasswordHash: hash,
		Name:         seedOwnerName,
		Role:         scope.RoleOwner,
		Branch:       scope.AllBranches,
	}

	if err := s.users.Create(ctx, &owner); err != nil {
		return err
	}

	s.logger.Warn().
		Str("email", seedOwnerEmail).
		Msg("seeded default owner account, change the password immediately")

	return nil
}
