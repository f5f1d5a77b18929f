package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	domainerrors "github.com/iohusni/garaadsom-book-shop/internal/errors"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testUser(id, username string) *domain.User {
	u := &domain.User{
		ID:           id,
		Username:     username,
		Name:         "Test User",
		PasswordHash: "$argon2id$...",
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	u.InitTimestamps()
	return u
}

func TestUsers_UsernameUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "cabdi")))

	// Same username, different casing
	err := s.Users.Create(ctx, "user-2", testUser("user-2", "Cabdi"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, store.ErrAlreadyExists))
}

func TestUsers_GetByUsernameCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "cabdi")))

	found, err := s.Users.GetByIndex(ctx, "username", "CABDI")
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.ID)
}

func TestUsers_EmptyEmailNotIndexed(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Two users without email must not collide on the email index
	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "cabdi")))
	require.NoError(t, s.Users.Create(ctx, "user-2", testUser("user-2", "xaliimo")))
}

func testBook(id string, status domain.BookStatus, start time.Time) *domain.Book {
	b := &domain.Book{
		ID:           id,
		Title:        domain.WeeklyTitle(start),
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 6),
		DurationDays: 6,
		Status:       status,
		CreatedBy:    domain.SystemUserID,
	}
	b.InitTimestamps()
	return b
}

func TestBooks_SingleActive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", domain.BookStatusActive, start)))

	// A second active book is rejected
	err := s.CreateBook(ctx, testBook("book-2", domain.BookStatusActive, start.AddDate(0, 0, 7)))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, store.ErrActiveBookExists))

	// An inactive book is fine
	require.NoError(t, s.CreateBook(ctx, testBook("book-3", domain.BookStatusInactive, start.AddDate(0, 0, 7))))

	active, err := s.GetActiveBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "book-1", active.ID)
}

func TestBooks_SingleActive_ConcurrentCreates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	const racers = 4
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book := testBook(fmt.Sprintf("book-%d", i), domain.BookStatusActive, start.AddDate(0, 0, 7*i))
			errs[i] = s.CreateBook(ctx, book)
		}()
	}
	wg.Wait()

	// Exactly one claim commits; every loser gets the domain error
	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, domainerrors.Is(err, store.ErrActiveBookExists))
	}
	assert.Equal(t, 1, winners)

	_, err := s.GetActiveBook(ctx)
	require.NoError(t, err)
}

func TestBooks_ActiveSlotFollowsStatus(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	book := testBook("book-1", domain.BookStatusActive, start)
	require.NoError(t, s.CreateBook(ctx, book))

	// Closing the book frees the slot
	book.Status = domain.BookStatusClosed
	require.NoError(t, s.UpdateBook(ctx, book))

	_, err := s.GetActiveBook(ctx)
	assert.True(t, domainerrors.Is(err, store.ErrNotFound))

	// The next book can claim it
	require.NoError(t, s.CreateBook(ctx, testBook("book-2", domain.BookStatusActive, start.AddDate(0, 0, 7))))

	active, err := s.GetActiveBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "book-2", active.ID)
}

func TestBooks_ReactivateConflicts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", domain.BookStatusActive, start)))

	idle := testBook("book-2", domain.BookStatusInactive, start.AddDate(0, 0, 7))
	require.NoError(t, s.CreateBook(ctx, idle))

	idle.Status = domain.BookStatusActive
	err := s.UpdateBook(ctx, idle)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, store.ErrActiveBookExists))
}

func TestBooks_DeleteReleasesActiveSlot(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", domain.BookStatusActive, start)))
	require.NoError(t, s.DeleteBook(ctx, "book-1"))

	_, err := s.GetActiveBook(ctx)
	assert.True(t, domainerrors.Is(err, store.ErrNotFound))

	// Idempotent delete
	require.NoError(t, s.DeleteBook(ctx, "book-1"))
}

func TestBooks_ListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", domain.BookStatusClosed, start)))
	require.NoError(t, s.CreateBook(ctx, testBook("book-2", domain.BookStatusActive, start.AddDate(0, 0, 7))))

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "book-2", books[0].ID)
	assert.Equal(t, "book-1", books[1].ID)
}
