package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
)

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listActionLogs",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs",
		Summary:     "List action logs",
		Description: "Returns the audit trail newest first. Paginate with the before cursor. Admin only.",
		Tags:        []string{"Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListActionLogs)
}

// === DTOs ===

// ActionLogResponse contains one audit entry in API responses.
type ActionLogResponse struct {
	ID         string    `json:"id" doc:"Log entry ID"`
	ActorID    string    `json:"actor_id" doc:"User who performed the action"`
	ActionType string    `json:"action_type" doc:"What happened, e.g. BOOK_CLOSED"`
	TargetType string    `json:"target_type" doc:"Kind of record acted on (USER, BOOK, TRANSACTION)"`
	TargetID   string    `json:"target_id" doc:"ID of the record acted on"`
	Details    string    `json:"details,omitempty" doc:"Human-readable summary"`
	CreatedAt  time.Time `json:"created_at" doc:"When the action happened"`
}

// ListLogsInput carries pagination and filter parameters.
type ListLogsInput struct {
	AuthenticatedInput
	Limit   int    `query:"limit" doc:"Maximum entries to return (default 100)"`
	Before  string `query:"before" doc:"Return entries strictly older than this RFC 3339 timestamp"`
	ActorID string `query:"actor_id" doc:"Only entries by this actor"`
}

// ListLogsResponse contains the audit trail page.
type ListLogsResponse struct {
	Logs  []ActionLogResponse `json:"logs" doc:"Entries, newest first"`
	Count int                 `json:"count" doc:"Number of entries in this page"`
}

// ListLogsOutput wraps the page for Huma.
type ListLogsOutput struct {
	Body ListLogsResponse
}

func mapActionLog(l *domain.ActionLog) ActionLogResponse {
	return ActionLogResponse{
		ID:         l.ID,
		ActorID:    l.ActorID,
		ActionType: string(l.ActionType),
		TargetType: string(l.TargetType),
		TargetID:   l.TargetID,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListActionLogs(ctx context.Context, input *ListLogsInput) (*ListLogsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	var before *time.Time
	if input.Before != "" {
		t, err := time.Parse(time.RFC3339, input.Before)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid before timestamp, expected RFC 3339")
		}
		before = &t
	}

	var logs []*domain.ActionLog
	var err error
	if input.ActorID != "" {
		logs, err = s.services.Audit.ListByActor(ctx, input.ActorID, input.Limit)
	} else {
		logs, err = s.services.Audit.List(ctx, input.Limit, before)
	}
	if err != nil {
		return nil, err
	}

	resp := ListLogsResponse{Logs: make([]ActionLogResponse, 0, len(logs))}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, mapActionLog(l))
	}
	resp.Count = len(resp.Logs)

	return &ListLogsOutput{Body: resp}, nil
}
