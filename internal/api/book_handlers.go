package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Opens a new weekly book. Only one book may be ACTIVE at a time. Admin only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns books newest first, optionally filtered by status",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getActiveBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/active",
		Summary:     "Get active book",
		Description: "Returns the single book currently accepting transactions",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetActiveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates book fields. Closing a book is terminal; a closed book cannot be reopened. Admin only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book. Rejected when the book has transactions. Admin only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookReport",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/report",
		Summary:     "Get book report",
		Description: "Returns the book with its transactions and totals. Members see only their own rows; admins may scope to one user with the user_id query parameter.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBookReport)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID           string    `json:"id" doc:"Book ID"`
	Title        string    `json:"title" doc:"Weekly title"`
	StartDate    time.Time `json:"start_date" doc:"Period start"`
	EndDate      time.Time `json:"end_date" doc:"Period end, inclusive"`
	DurationDays int       `json:"duration_days" doc:"Period length in days"`
	Status       string    `json:"status" doc:"Book status (ACTIVE, INACTIVE, CLOSED)"`
	CreatedBy    string    `json:"created_by" doc:"Creating user ID"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// CreateBookRequest is the request body for opening a book.
type CreateBookRequest struct {
	Title        string    `json:"title" doc:"Weekly title, e.g. \"Week 27 of July - July - 2025\""`
	StartDate    time.Time `json:"start_date" doc:"Period start"`
	EndDate      time.Time `json:"end_date" doc:"Period end, inclusive"`
	DurationDays int       `json:"duration_days" doc:"Period length in days"`
	Status       string    `json:"status,omitempty" doc:"Initial status (ACTIVE or INACTIVE, default ACTIVE)"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	AuthenticatedInput
	Body CreateBookRequest
}

// UpdateBookRequest is the request body for book updates. Omitted fields
// are left unchanged; the duration is recomputed when either date changes.
type UpdateBookRequest struct {
	Title     *string    `json:"title,omitempty" doc:"Weekly title"`
	StartDate *time.Time `json:"start_date,omitempty" doc:"Period start"`
	EndDate   *time.Time `json:"end_date,omitempty" doc:"Period end, inclusive"`
	Status    *string    `json:"status,omitempty" doc:"Book status (ACTIVE, INACTIVE, CLOSED)"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	AuthenticatedInput
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// BookIDInput identifies a book by path parameter.
type BookIDInput struct {
	AuthenticatedInput
	ID string `path:"id" doc:"Book ID"`
}

// ListBooksInput carries the optional status filter.
type ListBooksInput struct {
	AuthenticatedInput
	Status string `query:"status" doc:"Filter by status (ACTIVE, INACTIVE, CLOSED)"`
}

// BookReportInput identifies a book and the optional user scope.
type BookReportInput struct {
	AuthenticatedInput
	ID     string `path:"id" doc:"Book ID"`
	UserID string `query:"user_id" doc:"Scope the report to one user (admin only)"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// ListBooksResponse contains the book listing.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books, newest first"`
	Count int            `json:"count" doc:"Number of books"`
}

// ListBooksOutput wraps the listing for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// BookReportResponse contains a book with its transactions and totals.
type BookReportResponse struct {
	Book         BookResponse          `json:"book" doc:"The book"`
	Transactions []TransactionResponse `json:"transactions" doc:"Transactions, newest first"`
	TotalGained  float64               `json:"total_gained" doc:"Sum of gained amounts"`
	TotalSpent   float64               `json:"total_spent" doc:"Sum of spent amounts"`
	Net          float64               `json:"net" doc:"Gained minus spent"`
}

// BookReportOutput wraps the report for Huma.
type BookReportOutput struct {
	Body BookReportResponse
}

func mapBook(b *domain.Book) BookResponse {
	return BookResponse{
		ID:           b.ID,
		Title:        b.Title,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		DurationDays: b.DurationDays,
		Status:       string(b.Status),
		CreatedBy:    b.CreatedBy,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Books.Create(ctx, admin.ID, service.CreateBookRequest{
		Title:        input.Body.Title,
		StartDate:    input.Body.StartDate,
		EndDate:      input.Body.EndDate,
		DurationDays: input.Body.DurationDays,
		Status:       input.Body.Status,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	books, err := s.services.Books.List(ctx, input.Status)
	if err != nil {
		return nil, err
	}

	resp := ListBooksResponse{Books: make([]BookResponse, 0, len(books))}
	for _, b := range books {
		resp.Books = append(resp.Books, mapBook(b))
	}
	resp.Count = len(resp.Books)

	return &ListBooksOutput{Body: resp}, nil
}

func (s *Server) handleGetActiveBook(ctx context.Context, input *AuthenticatedInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Books.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Books.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Books.Update(ctx, admin.ID, input.ID, service.UpdateBookRequest{
		Title:     input.Body.Title,
		StartDate: input.Body.StartDate,
		EndDate:   input.Body.EndDate,
		Status:    input.Body.Status,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Books.Delete(ctx, admin.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Book deleted"},
	}, nil
}

func (s *Server) handleGetBookReport(ctx context.Context, input *BookReportInput) (*BookReportOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	report, err := s.services.Books.Report(ctx, caller, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	resp := BookReportResponse{
		Book:         mapBook(report.Book),
		Transactions: make([]TransactionResponse, 0, len(report.Transactions)),
		TotalGained:  report.TotalGained,
		TotalSpent:   report.TotalSpent,
		Net:          report.Net,
	}
	for _, t := range report.Transactions {
		resp.Transactions = append(resp.Transactions, mapTransaction(t))
	}

	return &BookReportOutput{Body: resp}, nil
}
