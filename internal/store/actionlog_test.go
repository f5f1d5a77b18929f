package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

func testLogEntry(id, actorID string, createdAt time.Time) *domain.ActionLog {
	return &domain.ActionLog{
		ID:         id,
		ActorID:    actorID,
		ActionType: domain.ActionBookCreated,
		TargetType: domain.TargetBook,
		TargetID:   "book-1",
		Details:    "Book created",
		CreatedAt:  createdAt,
	}
}

func TestActionLogs_ListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)

	for i := range 3 {
		entry := testLogEntry(fmt.Sprintf("log-%d", i), "user-1", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreateActionLog(ctx, entry))
	}

	entries, err := s.ListActionLogs(ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "log-2", entries[0].ID)
	assert.Equal(t, "log-0", entries[2].ID)
}

func TestActionLogs_CursorPagination(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)

	for i := range 5 {
		entry := testLogEntry(fmt.Sprintf("log-%d", i), "user-1", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreateActionLog(ctx, entry))
	}

	page1, err := s.ListActionLogs(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "log-4", page1[0].ID)
	assert.Equal(t, "log-3", page1[1].ID)

	cursor := page1[1].CreatedAt
	page2, err := s.ListActionLogs(ctx, 2, &cursor)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "log-2", page2[0].ID)
	assert.Equal(t, "log-1", page2[1].ID)
}

func TestActionLogs_ByActor(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateActionLog(ctx, testLogEntry("log-1", "user-1", base)))
	require.NoError(t, s.CreateActionLog(ctx, testLogEntry("log-2", domain.SystemUserID, base.Add(time.Minute))))
	require.NoError(t, s.CreateActionLog(ctx, testLogEntry("log-3", "user-1", base.Add(2*time.Minute))))

	entries, err := s.ListActorActionLogs(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "log-3", entries[0].ID)
	assert.Equal(t, "log-1", entries[1].ID)
}

func TestSessions_Lifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	session := &domain.Session{
		ID:               "sess-1",
		UserID:           "user-1",
		RefreshTokenHash: "abc123",
		ExpiresAt:        now.Add(time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	require.NoError(t, s.CreateSession(ctx, session))

	found, err := s.GetSessionByRefreshToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", found.ID)

	// Rotation moves the token index
	session.RefreshTokenHash = "def456"
	require.NoError(t, s.UpdateSession(ctx, session))

	_, err = s.GetSessionByRefreshToken(ctx, "abc123")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	found, err = s.GetSessionByRefreshToken(ctx, "def456")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", found.ID)

	require.NoError(t, s.DeleteSession(ctx, "sess-1"))
	_, err = s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessions_ExpiredReported(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	session := &domain.Session{
		ID:               "sess-1",
		UserID:           "user-1",
		RefreshTokenHash: "abc123",
		ExpiresAt:        now.Add(-time.Hour),
		CreatedAt:        now.Add(-2 * time.Hour),
		LastSeenAt:       now.Add(-2 * time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, session))

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, store.ErrSessionExpired)

	deleted, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
