// Package user implements account management and owner governance.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/premierlux/premierlux-backend/internal/auth"
	invrepo "github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/internal/user/repository"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/messaging"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Service handles user management and governance
type Service struct {
	users     *repository.UserRepository
	settings  *repository.SettingsRepository
	audit     *repository.AuditRepository
	items     *invrepo.ItemRepository
	batches   *invrepo.BatchRepository
	suppliers *invrepo.SupplierRepository
	acks      *invrepo.AcknowledgementRepository
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// Deps bundles the service's dependencies
type Deps struct {
	Users     *repository.UserRepository
	Settings  *repository.SettingsRepository
	Audit     *repository.AuditRepository
	Items     *invrepo.ItemRepository
	Batches   *invrepo.BatchRepository
	Suppliers *invrepo.SupplierRepository
	Acks      *invrepo.AcknowledgementRepository
	Publisher *messaging.Publisher
	Logger    *logger.Logger
}

// NewService creates a new user service
func NewService(d Deps) *Service {
	return &Service{
		users:     d.Users,
		settings:  d.Settings,
		audit:     d.Audit,
		items:     d.Items,
		batches:   d.Batches,
		suppliers: d.Suppliers,
		acks:      d.Acks,
		publisher: d.Publisher,
		logger:    d.Logger.WithComponent("user-service"),
	}
}

func (s *Service) record(ctx context.Context, sc scope.Scope, action, details string) {
	if err := s.audit.Record(ctx, &repository.AuditEntry{
		UserEmail: sc.Email,
		Action:    action,
		Details:   details,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record audit entry")
	}

	if s.publisher != nil {
		event := messaging.AuditLogCreatedEvent{
			UserEmail: sc.Email,
			Action:    action,
			Details:   details,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishEvent(ctx, messaging.ExchangeSystem, messaging.EventAuditLogCreated, "user-service", event); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish audit event")
		}
	}
}

// List lists all users. Management only.
func (s *Service) List(ctx context.Context, sc scope.Scope) ([]repository.User, error) {
	if !sc.IsManagement() {
		return nil, errors.Forbidden("admin access required")
	}
	return s.users.List(ctx)
}

// CreateInput holds the fields for a new account
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Branch   string
}

// Create creates a user. Admins may only create staff; only the owner can
// create admins, and nobody can create a second owner.
func (s *Service) Create(ctx context.Context, sc scope.Scope, in CreateInput) (*repository.User, error) {
	if !sc.IsManagement() {
		return nil, errors.Forbidden("admin access required")
	}

	switch in.Role {
	case "":
		in.Role = scope.RoleStaff
	case scope.RoleStaff:
	case scope.RoleAdmin:
		if !sc.IsOwner() {
			return nil, errors.Forbidden("only the owner can create administrators")
		}
	case scope.RoleOwner:
		return nil, errors.Forbidden("cannot create another owner")
	default:
		return nil, errors.BadRequest("unknown role")
	}

	if in.Branch == "" {
		in.Branch = scope.AllBranches
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := repository.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
		Branch:       in.Branch,
	}

	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}

	s.record(ctx, sc, "Create User", fmt.Sprintf("Created %s for %s", in.Role, in.Branch))

	return &u, nil
}

// Delete removes a user subject to the role hierarchy: nobody deletes the
// owner, and admins may only delete staff.
func (s *Service) Delete(ctx context.Context, sc scope.Scope, id string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("admin access required")
	}

	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if target.Role == scope.RoleOwner {
		return errors.Forbidden("Cannot delete the System Owner")
	}
	if !sc.IsOwner() && target.Role != scope.RoleStaff {
		return errors.Forbidden("Admins can only delete Staff accounts")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if s.acks != nil {
		if err := s.acks.ClearForUser(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to clear acknowledgements for deleted user")
		}
	}

	s.record(ctx, sc, "Delete User", fmt.Sprintf("Deleted user %s", target.Email))

	return nil
}

// Update changes a user's profile and optionally resets their password.
// Same hierarchy as Delete; role changes to or from owner are rejected.
func (s *Service) Update(ctx context.Context, sc scope.Scope, u *repository.User, newPassword string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("admin access required")
	}

	target, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}

	if target.Role == scope.RoleOwner || u.Role == scope.RoleOwner {
		return errors.Forbidden("the owner account cannot be modified here")
	}
	if !sc.IsOwner() && (target.Role != scope.RoleStaff || u.Role != scope.RoleStaff) {
		return errors.Forbidden("Admins can only manage Staff accounts")
	}

	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return err
		}
		s.record(ctx, sc, "Reset Password", fmt.Sprintf("Reset password for %s", target.Email))
	}

	return nil
}

// AuditLogs lists recent audit entries. Management only.
func (s *Service) AuditLogs(ctx context.Context, sc scope.Scope, limit int) ([]repository.AuditEntry, error) {
	if !sc.IsManagement() {
		return nil, errors.Forbidden("admin access required")
	}
	return s.audit.List(ctx, limit)
}

// Settings returns the governance settings. Owner only.
func (s *Service) Settings(ctx context.Context, sc scope.Scope) (map[string]interface{}, error) {
	if !sc.IsOwner() {
		return nil, errors.Forbidden("owner access required")
	}

	lockdown, err := s.settings.Lockdown(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"lockdown": lockdown.Enabled}, nil
}

// SetLockdown toggles maintenance mode. Owner only. While enabled, only
// the owner can log in.
func (s *Service) SetLockdown(ctx context.Context, sc scope.Scope, enabled bool) error {
	if !sc.IsOwner() {
		return errors.Forbidden("owner access required")
	}

	if err := s.settings.SetLockdown(ctx, repository.LockdownState{
		Enabled:   enabled,
		EnabledBy: sc.Email,
	}); err != nil {
		return err
	}

	action := "Disabled"
	if enabled {
		action = "Enabled"
	}
	s.record(ctx, sc, "System Lockdown", fmt.Sprintf("Owner %s Maintenance Mode", action))

	return nil
}

// ClearAuditLogs wipes the audit trail, then records the wipe itself.
// Owner only.
func (s *Service) ClearAuditLogs(ctx context.Context, sc scope.Scope) (int64, error) {
	if !sc.IsOwner() {
		return 0, errors.Forbidden("owner access required")
	}

	removed, err := s.audit.Clear(ctx)
	if err != nil {
		return 0, err
	}

	s.record(ctx, sc, "Wipe Data", "Owner cleared all audit logs")

	return removed, nil
}

// Broadcast sends a message to every connected client via the system
// exchange. Owner only.
func (s *Service) Broadcast(ctx context.Context, sc scope.Scope, message string) error {
	if !sc.IsOwner() {
		return errors.Forbidden("owner access required")
	}

	if s.publisher == nil {
		return errors.Internal("event bus unavailable")
	}

	event := messaging.SystemBroadcastEvent{
		Message: message,
		SentBy:  sc.Email,
		SentAt:  time.Now().UTC(),
	}

	return s.publisher.PublishEvent(ctx, messaging.ExchangeSystem, messaging.EventSystemBroadcast, "user-service", event)
}

// KillSessions instructs all non-owner clients to log out. Owner only.
func (s *Service) KillSessions(ctx context.Context, sc scope.Scope) error {
	if !sc.IsOwner() {
		return errors.Forbidden("owner access required")
	}

	if s.publisher == nil {
		return errors.Internal("event bus unavailable")
	}

	event := messaging.ForceLogoutEvent{
		Reason:      "terminated by owner",
		InitiatedBy: sc.Email,
		InitiatedAt: time.Now().UTC(),
	}

	return s.publisher.PublishEvent(ctx, messaging.ExchangeSystem, messaging.EventForceLogout, "user-service", event)
}

// Backup bundles inventory, batches and suppliers into one export.
// Owner only.
func (s *Service) Backup(ctx context.Context, sc scope.Scope) (map[string]interface{}, error) {
	if !sc.IsOwner() {
		return nil, errors.Forbidden("owner access required")
	}

	items, err := s.items.List(ctx, sc, invrepo.ItemFilter{})
	if err != nil {
		return nil, err
	}

	batches, err := s.batches.List(ctx, sc, invrepo.BatchFilter{})
	if err != nil {
		return nil, err
	}

	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"inventory": items,
		"batches":   batches,
		"suppliers": suppliers,
	}, nil
}
