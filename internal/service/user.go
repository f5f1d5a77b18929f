package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iohusni/garaadsom-book-shop/internal/auth"
	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	domainerrors "github.com/iohusni/garaadsom-book-shop/internal/errors"
	"github.com/iohusni/garaadsom-book-shop/internal/id"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

// UserService handles user management.
type UserService struct {
	store          *store.Store
	sessionService *SessionService
	audit          *AuditService
	logger         *slog.Logger
}

// NewUserService creates a new user management service.
func NewUserService(store *store.Store, sessionService *SessionService, audit *AuditService, logger *slog.Logger) *UserService {
	return &UserService{
		store:          store,
		sessionService: sessionService,
		audit:          audit,
		logger:         logger,
	}
}

// EnsureSystemUser creates the reserved system actor on first startup.
// The record has no password, so it can never authenticate; it exists so
// scheduler-initiated audit entries reference a real user.
func (s *UserService) EnsureSystemUser(ctx context.Context) error {
	_, err := s.store.Users.Get(ctx, domain.SystemUserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check system user: %w", err)
	}

	system := &domain.User{
		ID:       domain.SystemUserID,
		Username: domain.SystemUsername,
		Name:     "System",
		Role:     domain.RoleAdmin,
		Status:   domain.UserStatusActive,
	}
	system.InitTimestamps()

	if err := s.store.Users.Create(ctx, domain.SystemUserID, system); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create system user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("System user created", "user_id", domain.SystemUserID)
	}
	return nil
}

// CreateUserRequest contains the data for an admin-created account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	Role     string `json:"role" validate:"required,oneof=ADMIN USER"`
}

// UpdateUserRequest contains admin-editable user fields. Nil pointers leave
// the field unchanged.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN USER"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE BANNED REMOVED"`
}

// Create adds a user on behalf of an admin. Unlike signup, any role can be
// assigned.
func (s *UserService) Create(ctx context.Context, actorID string, req CreateUserRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Username == domain.SystemUsername {
		return nil, domainerrors.Conflict("username is reserved")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.Role(req.Role),
		Status:       domain.UserStatusActive,
	}
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(ctx, actorID, domain.ActionUserCreated, domain.TargetUser, userID,
		fmt.Sprintf("User created: %s", user.Username))

	if s.logger != nil {
		s.logger.Info("User created", "user_id", userID, "role", user.Role, "actor", actorID)
	}

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns every user record, system actor included.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// Update applies admin edits to a user. Banning a user also revokes all of
// their sessions.
func (s *UserService) Update(ctx context.Context, actorID, userID string, req UpdateUserRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsSystem() {
		return nil, domainerrors.Forbidden("the system user cannot be modified")
	}

	banned := false
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if req.Status != nil {
		newStatus := domain.UserStatus(*req.Status)
		banned = newStatus == domain.UserStatusBanned && user.Status != domain.UserStatusBanned
		user.Status = newStatus
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if banned {
		if err := s.sessionService.RevokeUserSessions(ctx, userID); err != nil && s.logger != nil {
			s.logger.Warn("Failed to revoke sessions for banned user", "user_id", userID, "error", err)
		}
		s.audit.Record(ctx, actorID, domain.ActionUserBanned, domain.TargetUser, userID,
			fmt.Sprintf("User banned: %s", user.Username))
	} else {
		s.audit.Record(ctx, actorID, domain.ActionUserUpdated, domain.TargetUser, userID,
			fmt.Sprintf("User updated: %s", user.Username))
	}

	return user, nil
}

// Remove deletes a user account. Blocked when the user still owns
// transactions, for self-removal, and for the system actor.
func (s *UserService) Remove(ctx context.Context, actorID, userID string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsSystem() {
		return domainerrors.Forbidden("the system user cannot be removed")
	}
	if userID == actorID {
		return domainerrors.Forbidden("you cannot remove your own account")
	}

	owned, err := s.store.ListUserTransactions(ctx, userID, 1)
	if err != nil {
		return fmt.Errorf("check user transactions: %w", err)
	}
	if len(owned) > 0 {
		return domainerrors.Conflict("user still owns transactions")
	}

	if err := s.sessionService.RevokeUserSessions(ctx, userID); err != nil && s.logger != nil {
		s.logger.Warn("Failed to revoke sessions for removed user", "user_id", userID, "error", err)
	}

	if err := s.store.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.audit.Record(ctx, actorID, domain.ActionUserRemoved, domain.TargetUser, userID,
		fmt.Sprintf("User removed: %s", user.Username))

	if s.logger != nil {
		s.logger.Info("User removed", "user_id", userID, "actor", actorID)
	}

	return nil
}
