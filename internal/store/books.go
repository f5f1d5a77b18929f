package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
)

// Book storage key prefixes.
const (
	bookPrefix = "book:"

	// bookActiveKey is a singleton pointer to the currently active book.
	// Claiming it happens inside the same transaction as the book write,
	// which is what guarantees at most one active book ever exists.
	bookActiveKey = "book:idx:active"
)

// CreateBook stores a new book. If the book is ACTIVE, the active slot is
// claimed in the same transaction; a second active book fails with
// ErrActiveBookExists no matter how the writes interleave.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshaling book: %w", err)
	}

	key := []byte(bookPrefix + book.ID)

	return s.update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("book %s: %w", book.ID, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking book key: %w", err)
		}

		if book.IsActive() {
			if err := claimActiveSlot(txn, book.ID); err != nil {
				return err
			}
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("setting book key: %w", err)
		}

		return nil
	})
}

// GetBook retrieves a single book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book domain.Book
	if err := s.get([]byte(bookPrefix+id), &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting book %s: %w", id, err)
	}

	return &book, nil
}

// GetActiveBook returns the currently active book, or ErrNotFound when no
// book is active.
func (s *Store) GetActiveBook(ctx context.Context) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(bookActiveKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("active book: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up active book: %w", err)
	}

	return s.GetBook(ctx, id)
}

// UpdateBook rewrites an existing book, maintaining the active slot across
// status transitions in the same transaction.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshaling book: %w", err)
	}

	key := []byte(bookPrefix + book.ID)

	return s.update(func(txn *badger.Txn) error {
		var old domain.Book
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("book %s: %w", book.ID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("getting book key: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &old)
		}); err != nil {
			return fmt.Errorf("unmarshaling old book: %w", err)
		}

		switch {
		case book.IsActive() && !old.IsActive():
			if err := claimActiveSlot(txn, book.ID); err != nil {
				return err
			}
		case !book.IsActive() && old.IsActive():
			if err := releaseActiveSlot(txn, book.ID); err != nil {
				return err
			}
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("setting book key: %w", err)
		}

		return nil
	})
}

// DeleteBook removes a book, releasing the active slot if it holds it.
// Idempotent: deleting a missing book is not an error.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(bookPrefix + id)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting book key: %w", err)
		}

		if err := releaseActiveSlot(txn, id); err != nil {
			return err
		}

		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("deleting book key: %w", err)
		}

		return nil
	})
}

// ListBooks returns all books sorted by start date descending.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var books []*domain.Book

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bookPrefix)); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			key := string(it.Item().Key())
			if strings.HasPrefix(key[len(bookPrefix):], "idx:") {
				continue
			}

			var book domain.Book
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return fmt.Errorf("unmarshaling book %s: %w", key, err)
			}
			books = append(books, &book)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].StartDate.After(books[j].StartDate)
	})

	return books, nil
}

// claimActiveSlot marks bookID as the active book, failing if another book
// already holds the slot.
func claimActiveSlot(txn *badger.Txn, bookID string) error {
	item, err := txn.Get([]byte(bookActiveKey))
	if err == nil {
		var holder string
		//nolint:errcheck // Value on a live item only fails on a corrupt store
		_ = item.Value(func(val []byte) error {
			holder = string(val)
			return nil
		})
		if holder != bookID {
			return fmt.Errorf("book %s is active: %w", holder, ErrActiveBookExists)
		}
		return nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("checking active slot: %w", err)
	}

	if err := txn.Set([]byte(bookActiveKey), []byte(bookID)); err != nil {
		return fmt.Errorf("claiming active slot: %w", err)
	}
	return nil
}

// releaseActiveSlot clears the active pointer if bookID holds it.
func releaseActiveSlot(txn *badger.Txn, bookID string) error {
	item, err := txn.Get([]byte(bookActiveKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking active slot: %w", err)
	}

	var holder string
	//nolint:errcheck // Value on a live item only fails on a corrupt store
	_ = item.Value(func(val []byte) error {
		holder = string(val)
		return nil
	})
	if holder != bookID {
		return nil
	}

	if err := txn.Delete([]byte(bookActiveKey)); err != nil {
		return fmt.Errorf("releasing active slot: %w", err)
	}
	return nil
}
