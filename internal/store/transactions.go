package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
)

// Transaction storage key prefixes.
// Index keys embed inverted timestamps so forward iteration yields newest
// entries first.
const (
	txnPrefix        = "txn:"
	txnIdxBookPrefix = "txn:idx:book:"
	txnIdxUserPrefix = "txn:idx:user:"
)

func txnIndexKeys(t *domain.Transaction) (bookKey, userKey []byte) {
	invertedTS := invertedTimestamp(t.CreatedAt)
	bookKey = []byte(txnIdxBookPrefix + t.BookID + ":" + invertedTS + ":" + t.ID)
	userKey = []byte(txnIdxUserPrefix + t.UserID + ":" + invertedTS + ":" + t.ID)
	return bookKey, userKey
}

// CreateTransaction stores a new transaction with its book and user indexes
// in a single write.
func (s *Store) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling transaction: %w", err)
	}

	key := []byte(txnPrefix + t.ID)
	bookKey, userKey := txnIndexKeys(t)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("transaction %s: %w", t.ID, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking transaction key: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("setting transaction key: %w", err)
		}
		if err := txn.Set(bookKey, []byte{}); err != nil {
			return fmt.Errorf("setting book index: %w", err)
		}
		if err := txn.Set(userKey, []byte{}); err != nil {
			return fmt.Errorf("setting user index: %w", err)
		}

		return nil
	})
}

// GetTransaction retrieves a single transaction by ID.
func (s *Store) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var t domain.Transaction
	if err := s.get([]byte(txnPrefix+id), &t); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting transaction %s: %w", id, err)
	}

	return &t, nil
}

// UpdateTransaction rewrites an existing transaction. The book, user and
// creation time never change on update, so the index keys stay valid.
func (s *Store) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling transaction: %w", err)
	}

	key := []byte(txnPrefix + t.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("transaction %s: %w", t.ID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("getting transaction key: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("setting transaction key: %w", err)
		}

		return nil
	})
}

// DeleteTransaction removes a transaction and its index keys.
// Idempotent: deleting a missing transaction is not an error.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(txnPrefix + id)

	return s.db.Update(func(txn *badger.Txn) error {
		var t domain.Transaction
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting transaction key: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &t)
		}); err != nil {
			return fmt.Errorf("unmarshaling transaction: %w", err)
		}

		bookKey, userKey := txnIndexKeys(&t)
		if err := txn.Delete(bookKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("deleting book index: %w", err)
		}
		if err := txn.Delete(userKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("deleting user index: %w", err)
		}

		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("deleting transaction key: %w", err)
		}

		return nil
	})
}

// ListBookTransactions returns transactions for a book, newest first.
// A limit of 0 means no limit.
func (s *Store) ListBookTransactions(ctx context.Context, bookID string, limit int) ([]*domain.Transaction, error) {
	return s.listByIndex(ctx, txnIdxBookPrefix+bookID+":", limit)
}

// ListUserTransactions returns transactions logged by a user, newest first.
// A limit of 0 means no limit.
func (s *Store) ListUserTransactions(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	return s.listByIndex(ctx, txnIdxUserPrefix+userID+":", limit)
}

func (s *Store) listByIndex(ctx context.Context, indexPrefix string, limit int) ([]*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	prefix := []byte(indexPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // Key-only index
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(ids) >= limit {
				break
			}

			// Key format: txn:idx:{index}:{value}:{inverted_ts}:{id}
			key := string(it.Item().Key())
			idStart := strings.LastIndex(key, ":")
			if idStart < 0 || idStart+1 >= len(key) {
				continue
			}
			ids = append(ids, key[idStart+1:])
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scanning transaction index: %w", err)
	}

	transactions := make([]*domain.Transaction, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTransaction(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// BookTotals aggregates the amounts logged against a book.
func (s *Store) BookTotals(ctx context.Context, bookID string) (gained, spent float64, count int, err error) {
	transactions, err := s.ListBookTransactions(ctx, bookID, 0)
	if err != nil {
		return 0, 0, 0, err
	}

	for _, t := range transactions {
		gained += t.AmountGained
		spent += t.AmountSpent
	}

	return gained, spent, len(transactions), nil
}
