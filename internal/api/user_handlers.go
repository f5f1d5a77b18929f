package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's information",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns all user accounts. Admin only.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users",
		Summary:     "Create user",
		Description: "Creates a user account with any role. Admin only.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a single user account. Admin only.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/{id}",
		Summary:     "Update user",
		Description: "Updates user fields including role and status. Banning revokes all sessions. Admin only.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}",
		Summary:     "Remove user",
		Description: "Removes a user account. Rejected when the user still owns transactions.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveUser)
}

// === DTOs ===

// CreateUserRequest is the request body for admin user creation.
type CreateUserRequest struct {
	Username string `json:"username" doc:"Unique username, 3-20 alphanumeric characters"`
	Name     string `json:"name" doc:"Display name"`
	Email    string `json:"email,omitempty" doc:"Optional email address"`
	Password string `json:"password" doc:"Password, at least 6 characters"`
	Role     string `json:"role" doc:"Role (ADMIN or USER)"`
}

// CreateUserInput wraps the create request for Huma.
type CreateUserInput struct {
	AuthenticatedInput
	Body CreateUserRequest
}

// UpdateUserRequest is the request body for user updates. Omitted fields
// are left unchanged.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" doc:"Display name"`
	Email  *string `json:"email,omitempty" doc:"Email address"`
	Role   *string `json:"role,omitempty" doc:"Role (ADMIN or USER)"`
	Status *string `json:"status,omitempty" doc:"Account status (ACTIVE, BANNED, REMOVED)"`
}

// UpdateUserInput wraps the update request for Huma.
type UpdateUserInput struct {
	AuthenticatedInput
	ID   string `path:"id" doc:"User ID"`
	Body UpdateUserRequest
}

// UserIDInput identifies a user by path parameter.
type UserIDInput struct {
	AuthenticatedInput
	ID string `path:"id" doc:"User ID"`
}

// UserOutput wraps a single user for Huma.
type UserOutput struct {
	Body UserResponse
}

// ListUsersResponse contains the user listing.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"User accounts"`
	Count int            `json:"count" doc:"Number of users"`
}

// ListUsersOutput wraps the listing for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthenticatedInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *AuthenticatedInput) (*ListUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Users.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, mapUser(u))
	}
	resp.Count = len(resp.Users)

	return &ListUsersOutput{Body: resp}, nil
}

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Users.Create(ctx, admin.ID, service.CreateUserRequest{
		Username: input.Body.Username,
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Role:     input.Body.Role,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *UserIDInput) (*UserOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Users.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Users.Update(ctx, admin.ID, input.ID, service.UpdateUserRequest{
		Name:   input.Body.Name,
		Email:  input.Body.Email,
		Role:   input.Body.Role,
		Status: input.Body.Status,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleRemoveUser(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Users.Remove(ctx, admin.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "User removed"},
	}, nil
}
