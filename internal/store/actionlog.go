package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
)

// Action log storage key prefixes.
// Entries are append-only: there is no update or delete path. Inverted
// timestamps keep the newest entries first during forward iteration.
const (
	logPrefix         = "log:"
	logIdxTimePrefix  = "log:idx:time:"
	logIdxActorPrefix = "log:idx:actor:"
)

// CreateActionLog appends a new audit entry with its indexes in a single
// transaction.
func (s *Store) CreateActionLog(ctx context.Context, entry *domain.ActionLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling action log: %w", err)
	}

	invertedTS := invertedTimestamp(entry.CreatedAt)

	return s.db.Update(func(txn *badger.Txn) error {
		primaryKey := []byte(logPrefix + entry.ID)
		if err := txn.Set(primaryKey, data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}

		timeKey := []byte(logIdxTimePrefix + invertedTS + ":" + entry.ID)
		if err := txn.Set(timeKey, []byte{}); err != nil {
			return fmt.Errorf("setting time index: %w", err)
		}

		actorKey := []byte(logIdxActorPrefix + entry.ActorID + ":" + invertedTS + ":" + entry.ID)
		if err := txn.Set(actorKey, []byte{}); err != nil {
			return fmt.Errorf("setting actor index: %w", err)
		}

		return nil
	})
}

// GetActionLog retrieves a single audit entry by ID.
func (s *Store) GetActionLog(ctx context.Context, id string) (*domain.ActionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry domain.ActionLog
	if err := s.get([]byte(logPrefix+id), &entry); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("action log %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting action log %s: %w", id, err)
	}

	return &entry, nil
}

// ListActionLogs returns the audit trail sorted by CreatedAt descending.
// Pass the CreatedAt of the last item from the previous page as 'before'
// for cursor-based pagination; nil starts from the newest entry.
func (s *Store) ListActionLogs(ctx context.Context, limit int, before *time.Time) ([]*domain.ActionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seekKey := []byte(logIdxTimePrefix)
	if before != nil {
		seekKey = []byte(logIdxTimePrefix + invertedTimestamp(*before))
	}

	return s.scanLogIndex(ctx, logIdxTimePrefix, seekKey, limit, before)
}

// ListActorActionLogs returns audit entries recorded for one actor, newest
// first.
func (s *Store) ListActorActionLogs(ctx context.Context, actorID string, limit int) ([]*domain.ActionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := logIdxActorPrefix + actorID + ":"
	return s.scanLogIndex(ctx, prefix, []byte(prefix), limit, nil)
}

func (s *Store) scanLogIndex(ctx context.Context, indexPrefix string, seekKey []byte, limit int, before *time.Time) ([]*domain.ActionLog, error) {
	var entries []*domain.ActionLog

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // Key-only index
		opts.Prefix = []byte(indexPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seekKey); it.ValidForPrefix([]byte(indexPrefix)); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			key := string(it.Item().Key())
			idStart := strings.LastIndex(key, ":")
			if idStart < 0 || idStart+1 >= len(key) {
				continue
			}

			entry, err := s.getActionLogInTxn(txn, key[idStart+1:])
			if err != nil {
				continue
			}

			// Seek can land on the cursor entry itself; page strictly before it
			if before != nil && !entry.CreatedAt.Before(*before) {
				continue
			}

			entries = append(entries, entry)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scanning action log index: %w", err)
	}

	return entries, nil
}

func (s *Store) getActionLogInTxn(txn *badger.Txn, id string) (*domain.ActionLog, error) {
	item, err := txn.Get([]byte(logPrefix + id))
	if err != nil {
		return nil, err
	}

	var entry domain.ActionLog
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	}); err != nil {
		return nil, err
	}

	return &entry, nil
}
