package domain

import "time"

// Transaction is a single day's recorded gain and/or spend entry, owned by
// one user within one book.
type Transaction struct {
	Timestamps
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	BookID          string    `json:"book_id"`
	TransactionDate time.Time `json:"transaction_date"`
	AmountGained    float64   `json:"amount_gained"`
	AmountSpent     float64   `json:"amount_spent"`
	Note            string    `json:"note,omitempty"`
}

// Net returns the transaction's net amount (gained minus spent).
func (t *Transaction) Net() float64 {
	return t.AmountGained - t.AmountSpent
}

// OwnedBy reports whether the transaction belongs to the given user.
// Only the owner may ever mutate a transaction; admins get no override.
func (t *Transaction) OwnedBy(userID string) bool {
	return t.UserID == userID
}
