package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

func (s *Server) registerTransactionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTransaction",
		Method:      http.MethodPost,
		Path:        "/api/v1/transactions",
		Summary:     "Log transaction",
		Description: "Logs a daily gain/spend entry against an active book. The entry is always owned by the caller.",
		Tags:        []string{"Transactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTransaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTransactions",
		Method:      http.MethodGet,
		Path:        "/api/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns transactions newest first, filtered by book and/or user. Members always see only their own entries.",
		Tags:        []string{"Transactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTransactions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTransaction",
		Method:      http.MethodGet,
		Path:        "/api/v1/transactions/{id}",
		Summary:     "Get transaction",
		Description: "Returns a single transaction. Visible to its owner and to admins.",
		Tags:        []string{"Transactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTransaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTransaction",
		Method:      http.MethodPatch,
		Path:        "/api/v1/transactions/{id}",
		Summary:     "Update transaction",
		Description: "Updates a transaction. Only the owner may edit, and only while the book is still active.",
		Tags:        []string{"Transactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTransaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTransaction",
		Method:      http.MethodDelete,
		Path:        "/api/v1/transactions/{id}",
		Summary:     "Delete transaction",
		Description: "Deletes a transaction. Only the owner may delete, and only while the book is still active.",
		Tags:        []string{"Transactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTransaction)
}

// === DTOs ===

// TransactionResponse contains transaction data in API responses.
type TransactionResponse struct {
	ID              string    `json:"id" doc:"Transaction ID"`
	UserID          string    `json:"user_id" doc:"Owning user ID"`
	BookID          string    `json:"book_id" doc:"Book ID"`
	TransactionDate time.Time `json:"transaction_date" doc:"Date the gain/spend happened"`
	AmountGained    float64   `json:"amount_gained" doc:"Amount gained"`
	AmountSpent     float64   `json:"amount_spent" doc:"Amount spent"`
	Note            string    `json:"note,omitempty" doc:"Optional note"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// CreateTransactionRequest is the request body for logging an entry.
type CreateTransactionRequest struct {
	BookID          string    `json:"book_id" doc:"Book to log against"`
	TransactionDate time.Time `json:"transaction_date" doc:"Date the gain/spend happened, within the book period"`
	AmountGained    float64   `json:"amount_gained" doc:"Amount gained, zero or more"`
	AmountSpent     float64   `json:"amount_spent" doc:"Amount spent, zero or more"`
	Note            string    `json:"note,omitempty" doc:"Optional note, up to 500 characters"`
}

// CreateTransactionInput wraps the create request for Huma.
type CreateTransactionInput struct {
	AuthenticatedInput
	Body CreateTransactionRequest
}

// UpdateTransactionRequest is the request body for edits. Omitted fields
// are left unchanged; the book and owner can never change.
type UpdateTransactionRequest struct {
	TransactionDate *time.Time `json:"transaction_date,omitempty" doc:"Date the gain/spend happened"`
	AmountGained    *float64   `json:"amount_gained,omitempty" doc:"Amount gained"`
	AmountSpent     *float64   `json:"amount_spent,omitempty" doc:"Amount spent"`
	Note            *string    `json:"note,omitempty" doc:"Note"`
}

// UpdateTransactionInput wraps the update request for Huma.
type UpdateTransactionInput struct {
	AuthenticatedInput
	ID   string `path:"id" doc:"Transaction ID"`
	Body UpdateTransactionRequest
}

// TransactionIDInput identifies a transaction by path parameter.
type TransactionIDInput struct {
	AuthenticatedInput
	ID string `path:"id" doc:"Transaction ID"`
}

// ListTransactionsInput carries the optional filters.
type ListTransactionsInput struct {
	AuthenticatedInput
	BookID string `query:"book_id" doc:"Filter by book"`
	UserID string `query:"user_id" doc:"Filter by user (admin only)"`
}

// TransactionOutput wraps a single transaction for Huma.
type TransactionOutput struct {
	Body TransactionResponse
}

// ListTransactionsResponse contains the transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions" doc:"Transactions, newest first"`
	Count        int                   `json:"count" doc:"Number of transactions"`
}

// ListTransactionsOutput wraps the listing for Huma.
type ListTransactionsOutput struct {
	Body ListTransactionsResponse
}

func mapTransaction(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		BookID:          t.BookID,
		TransactionDate: t.TransactionDate,
		AmountGained:    t.AmountGained,
		AmountSpent:     t.AmountSpent,
		Note:            t.Note,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateTransaction(ctx context.Context, input *CreateTransactionInput) (*TransactionOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	txn, err := s.services.Transactions.Create(ctx, caller, service.CreateTransactionRequest{
		BookID:          input.Body.BookID,
		TransactionDate: input.Body.TransactionDate,
		AmountGained:    input.Body.AmountGained,
		AmountSpent:     input.Body.AmountSpent,
		Note:            input.Body.Note,
	})
	if err != nil {
		return nil, err
	}

	return &TransactionOutput{Body: mapTransaction(txn)}, nil
}

func (s *Server) handleListTransactions(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	txns, err := s.services.Transactions.List(ctx, caller, input.BookID, input.UserID)
	if err != nil {
		return nil, err
	}

	resp := ListTransactionsResponse{Transactions: make([]TransactionResponse, 0, len(txns))}
	for _, t := range txns {
		resp.Transactions = append(resp.Transactions, mapTransaction(t))
	}
	resp.Count = len(resp.Transactions)

	return &ListTransactionsOutput{Body: resp}, nil
}

func (s *Server) handleGetTransaction(ctx context.Context, input *TransactionIDInput) (*TransactionOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	txn, err := s.services.Transactions.Get(ctx, caller, input.ID)
	if err != nil {
		return nil, err
	}

	return &TransactionOutput{Body: mapTransaction(txn)}, nil
}

func (s *Server) handleUpdateTransaction(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	txn, err := s.services.Transactions.Update(ctx, caller, input.ID, service.UpdateTransactionRequest{
		TransactionDate: input.Body.TransactionDate,
		AmountGained:    input.Body.AmountGained,
		AmountSpent:     input.Body.AmountSpent,
		Note:            input.Body.Note,
	})
	if err != nil {
		return nil, err
	}

	return &TransactionOutput{Body: mapTransaction(txn)}, nil
}

func (s *Server) handleDeleteTransaction(ctx context.Context, input *TransactionIDInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Transactions.Delete(ctx, caller, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Transaction deleted"},
	}, nil
}
