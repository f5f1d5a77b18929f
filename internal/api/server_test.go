package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/iohusni/garaadsom-book-shop/internal/auth"
	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

const testKeyHex = "6f3d2a1b4c5e6f708192a3b4c5d6e7f80912233445566778899aabbccddeeff0"

// testEnvelope mirrors the wire envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope mirrors the error envelope for decoding in tests.
type testErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a test server with all dependencies on a
// throwaway database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	audit := service.NewAuditService(st, logger)
	sessions := service.NewSessionService(st, tokenService, logger)
	users := service.NewUserService(st, sessions, audit, logger)
	require.NoError(t, users.EnsureSystemUser(context.Background()))

	services := &Services{
		Auth:         service.NewAuthService(st, tokenService, sessions, audit, logger),
		Users:        users,
		Books:        service.NewBookService(st, audit, logger),
		Transactions: service.NewTransactionService(st, audit, logger),
		Audit:        audit,
		Stats:        service.NewStatsService(st, logger),
	}

	s := NewServer(st, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// signupUser registers a member through the API and returns the access
// token and user ID.
func (ts *testServer) signupUser(t *testing.T, username string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"username": username,
		"name":     "Test Member",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Signup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// signupAdmin registers a member and promotes it to admin directly in the
// store, then logs in again so the token carries the new role.
func (ts *testServer) signupAdmin(t *testing.T, username string) (token, userID string) {
	t.Helper()

	_, userID = ts.signupUser(t, username)

	ctx := context.Background()
	user, err := ts.store.Users.Get(ctx, userID)
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, ts.store.Users.Update(ctx, user.ID, user))

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": username,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.AccessToken, userID
}

// createWeekBook opens a week-long active book through the API as admin.
func (ts *testServer) createWeekBook(t *testing.T, adminToken string, start time.Time) BookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+adminToken, map[string]any{
		"title":         domain.WeeklyTitle(start),
		"start_date":    start.Format(time.RFC3339),
		"end_date":      start.AddDate(0, 0, 6).Format(time.RFC3339),
		"duration_days": 7,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Create book failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data
}
