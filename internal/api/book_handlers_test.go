package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	memberToken, _ := ts.signupUser(t, "cabdi")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+memberToken, map[string]any{
		"title":         "Week 27 of July - July - 2025",
		"start_date":    start.Format(time.RFC3339),
		"end_date":      start.AddDate(0, 0, 6).Format(time.RFC3339),
		"duration_days": 7,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "FORBIDDEN", envelope.Code)
}

func TestCreateBook_SecondActiveConflicts(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)
	assert.Equal(t, "ACTIVE", book.Status)

	next := start.AddDate(0, 0, 7)
	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+adminToken, map[string]any{
		"title":         "Week 28 of July - July - 2025",
		"start_date":    next.Format(time.RFC3339),
		"end_date":      next.AddDate(0, 0, 6).Format(time.RFC3339),
		"duration_days": 7,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestGetActiveBook(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	memberToken, _ := ts.signupUser(t, "cabdi")

	// No active book yet.
	resp := ts.api.Get("/api/v1/books/active", "Authorization: Bearer "+memberToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)

	resp = ts.api.Get("/api/v1/books/active", "Authorization: Bearer "+memberToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, book.ID, envelope.Data.ID)
}

func TestUpdateBook_ClosedIsTerminal(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)

	resp := ts.api.Patch("/api/v1/books/"+book.ID, "Authorization: Bearer "+adminToken, map[string]any{
		"status": "CLOSED",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Patch("/api/v1/books/"+book.ID, "Authorization: Bearer "+adminToken, map[string]any{
		"status": "ACTIVE",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "STATE_INVALID", envelope.Code)
}

func TestDeleteBook_BlockedByTransactions(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	memberToken, _ := ts.signupUser(t, "cabdi")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)

	resp := ts.api.Post("/api/v1/transactions", "Authorization: Bearer "+memberToken, map[string]any{
		"book_id":          book.ID,
		"transaction_date": start.AddDate(0, 0, 1).Format(time.RFC3339),
		"amount_gained":    25.0,
		"amount_spent":     10.0,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestBookReport_ScopesMembersToOwnRows(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupAdmin(t, "boss")
	aliceToken, aliceID := ts.signupUser(t, "aamina")
	bobToken, _ := ts.signupUser(t, "bashiir")

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	book := ts.createWeekBook(t, adminToken, start)

	for _, tok := range []string{aliceToken, bobToken} {
		resp := ts.api.Post("/api/v1/transactions", "Authorization: Bearer "+tok, map[string]any{
			"book_id":          book.ID,
			"transaction_date": start.AddDate(0, 0, 2).Format(time.RFC3339),
			"amount_gained":    100.0,
			"amount_spent":     40.0,
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	// Member sees only their own rows.
	resp := ts.api.Get("/api/v1/books/"+book.ID+"/report", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var memberReport testEnvelope[BookReportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &memberReport))
	require.Len(t, memberReport.Data.Transactions, 1)
	assert.Equal(t, aliceID, memberReport.Data.Transactions[0].UserID)
	assert.Equal(t, 100.0, memberReport.Data.TotalGained)
	assert.Equal(t, 60.0, memberReport.Data.Net)

	// Admin sees everything.
	resp = ts.api.Get("/api/v1/books/"+book.ID+"/report", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var adminReport testEnvelope[BookReportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &adminReport))
	assert.Len(t, adminReport.Data.Transactions, 2)
	assert.Equal(t, 200.0, adminReport.Data.TotalGained)
}
