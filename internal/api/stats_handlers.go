package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatsOverview",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/overview",
		Summary:     "Get overview stats",
		Description: "Returns aggregate counts and totals. Admins see portal-wide numbers; members see their own.",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStatsOverview)
}

// OverviewResponse contains aggregate portal numbers.
type OverviewResponse struct {
	TotalBooks        int     `json:"total_books" doc:"Number of books"`
	ActiveBooks       int     `json:"active_books" doc:"Number of active books (0 or 1)"`
	TotalUsers        int     `json:"total_users" doc:"Number of user accounts"`
	TotalTransactions int     `json:"total_transactions" doc:"Number of transactions in scope"`
	TotalGained       float64 `json:"total_gained" doc:"Sum of gained amounts in scope"`
	TotalSpent        float64 `json:"total_spent" doc:"Sum of spent amounts in scope"`
	Net               float64 `json:"net" doc:"Gained minus spent"`
}

// OverviewOutput wraps the overview for Huma.
type OverviewOutput struct {
	Body OverviewResponse
}

func (s *Server) handleGetStatsOverview(ctx context.Context, input *AuthenticatedInput) (*OverviewOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	overview, err := s.services.Stats.Overview(ctx, caller)
	if err != nil {
		return nil, err
	}

	return &OverviewOutput{
		Body: OverviewResponse{
			TotalBooks:        overview.TotalBooks,
			ActiveBooks:       overview.ActiveBooks,
			TotalUsers:        overview.TotalUsers,
			TotalTransactions: overview.TotalTransactions,
			TotalGained:       overview.TotalGained,
			TotalSpent:        overview.TotalSpent,
			Net:               overview.Net,
		},
	}, nil
}
