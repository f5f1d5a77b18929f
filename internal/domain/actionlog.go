package domain

import "time"

// ActionType enumerates the auditable state-changing operations.
type ActionType string

const (
	ActionUserCreated ActionType = "USER_CREATED"
	ActionUserUpdated ActionType = "USER_UPDATED"
	ActionUserRemoved ActionType = "USER_REMOVED"
	ActionUserBanned  ActionType = "USER_BANNED"

	ActionBookCreated ActionType = "BOOK_CREATED"
	ActionBookUpdated ActionType = "BOOK_UPDATED"
	ActionBookDeleted ActionType = "BOOK_DELETED"
	ActionBookClosed  ActionType = "BOOK_CLOSED"

	ActionTransactionCreated ActionType = "TRANSACTION_CREATED"
	ActionTransactionUpdated ActionType = "TRANSACTION_UPDATED"
	ActionTransactionDeleted ActionType = "TRANSACTION_DELETED"
)

// TargetType identifies the kind of record an action was applied to.
type TargetType string

const (
	TargetUser        TargetType = "USER"
	TargetBook        TargetType = "BOOK"
	TargetTransaction TargetType = "TRANSACTION"
)

// ActionLog is one immutable audit-trail entry. Entries are never updated or
// deleted after creation. The target reference is weak: deleting a record
// leaves its historical entries with a dangling TargetID, which is intended.
type ActionLog struct {
	ID         string     `json:"id"`
	ActorID    string     `json:"actor_id"`
	ActionType ActionType `json:"action_type"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Details    string     `json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
