package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/id"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

// AuditService appends entries to the immutable action log.
type AuditService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(store *store.Store, logger *slog.Logger) *AuditService {
	return &AuditService{store: store, logger: logger}
}

// Record appends one audit entry. A failed write is logged and swallowed:
// the audit trail never rolls back or fails the mutation it describes.
func (s *AuditService) Record(ctx context.Context, actorID string, action domain.ActionType, target domain.TargetType, targetID, details string) {
	entryID, err := id.Generate("log")
	if err != nil {
		s.warn("generate audit entry ID", err)
		return
	}

	entry := &domain.ActionLog{
		ID:         entryID,
		ActorID:    actorID,
		ActionType: action,
		TargetType: target,
		TargetID:   targetID,
		Details:    details,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateActionLog(ctx, entry); err != nil {
		s.warn(fmt.Sprintf("append audit entry %s", action), err)
	}
}

// List returns the newest-first audit trail.
// A limit of 0 falls back to 100; pass the CreatedAt of the last item from
// the previous page as before for pagination.
func (s *AuditService) List(ctx context.Context, limit int, before *time.Time) ([]*domain.ActionLog, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.store.ListActionLogs(ctx, limit, before)
}

// ListByActor returns the newest-first entries recorded for one actor.
func (s *AuditService) ListByActor(ctx context.Context, actorID string, limit int) ([]*domain.ActionLog, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.store.ListActorActionLogs(ctx, actorID, limit)
}

func (s *AuditService) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn("Audit write failed", "op", msg, "error", err)
	}
}
