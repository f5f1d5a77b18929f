package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) logEntry(t *testing.T, token, bookID string, date time.Time, gained, spent float64) TransactionResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/transactions", "Authorization: Bearer "+token, map[string]any{
		"book_id":          bookID,
		"transaction_date": date.Format(time.RFC3339),
		"amount_gained":    gained,
		"amount_spent":     spent,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[TransactionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateTransaction_DateOutsidePeriod(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	memberToken, _ := ts.signupUser(t, "cabdi")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)

	resp := ts.api.Post("/api/v1/transactions", "Authorization: Bearer "+memberToken, map[string]any{
		"book_id":          book.ID,
		"transaction_date": start.AddDate(0, 0, 10).Format(time.RFC3339),
		"amount_gained":    5.0,
		"amount_spent":     0.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "DATE_RANGE", envelope.Code)
}

func TestUpdateTransaction_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	aliceToken, _ := ts.signupUser(t, "aamina")
	bobToken, _ := ts.signupUser(t, "bashiir")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)
	txn := ts.logEntry(t, aliceToken, book.ID, start.AddDate(0, 0, 1), 50, 20)

	// Another member cannot edit.
	resp := ts.api.Patch("/api/v1/transactions/"+txn.ID, "Authorization: Bearer "+bobToken, map[string]any{
		"amount_gained": 99.0,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// There is no admin override either.
	resp = ts.api.Patch("/api/v1/transactions/"+txn.ID, "Authorization: Bearer "+adminToken, map[string]any{
		"amount_gained": 99.0,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The owner can.
	resp = ts.api.Patch("/api/v1/transactions/"+txn.ID, "Authorization: Bearer "+aliceToken, map[string]any{
		"amount_gained": 99.0,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[TransactionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 99.0, envelope.Data.AmountGained)
}

func TestListTransactions_MemberSeesOwnOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	aliceToken, aliceID := ts.signupUser(t, "aamina")
	bobToken, _ := ts.signupUser(t, "bashiir")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)
	ts.logEntry(t, aliceToken, book.ID, start.AddDate(0, 0, 1), 50, 20)
	ts.logEntry(t, bobToken, book.ID, start.AddDate(0, 0, 1), 30, 5)

	resp := ts.api.Get("/api/v1/transactions?book_id="+book.ID, "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTransactionsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Data.Count)
	assert.Equal(t, aliceID, envelope.Data.Transactions[0].UserID)

	// Admin with the same filter sees both.
	resp = ts.api.Get("/api/v1/transactions?book_id="+book.ID, "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Count)
}

func TestDeleteTransaction_ClosedBookRejected(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	memberToken, _ := ts.signupUser(t, "cabdi")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)
	txn := ts.logEntry(t, memberToken, book.ID, start.AddDate(0, 0, 1), 50, 20)

	resp := ts.api.Patch("/api/v1/books/"+book.ID, "Authorization: Bearer "+adminToken, map[string]any{
		"status": "CLOSED",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/transactions/"+txn.ID, "Authorization: Bearer "+memberToken)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "STATE_INVALID", envelope.Code)
}

func TestListActionLogs_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	memberToken, _ := ts.signupUser(t, "cabdi")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	ts.createWeekBook(t, adminToken, start)

	resp := ts.api.Get("/api/v1/logs", "Authorization: Bearer "+memberToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/logs", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListLogsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Logs)
	// Newest first: the book creation is the most recent action.
	assert.Equal(t, "BOOK_CREATED", envelope.Data.Logs[0].ActionType)
}

func TestStatsOverview_ScopedByRole(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	aliceToken, _ := ts.signupUser(t, "aamina")
	bobToken, _ := ts.signupUser(t, "bashiir")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)
	ts.logEntry(t, aliceToken, book.ID, start.AddDate(0, 0, 1), 100, 40)
	ts.logEntry(t, bobToken, book.ID, start.AddDate(0, 0, 1), 10, 5)

	resp := ts.api.Get("/api/v1/stats/overview", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var adminView testEnvelope[OverviewResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &adminView))
	assert.Equal(t, 2, adminView.Data.TotalTransactions)
	assert.Equal(t, 110.0, adminView.Data.TotalGained)

	resp = ts.api.Get("/api/v1/stats/overview", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var memberView testEnvelope[OverviewResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &memberView))
	assert.Equal(t, 1, memberView.Data.TotalTransactions)
	assert.Equal(t, 100.0, memberView.Data.TotalGained)
}
