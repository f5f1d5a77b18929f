package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserCanLogin(t *testing.T) {
	user := &User{ID: "user-abc", Role: RoleUser, Status: UserStatusActive}
	assert.True(t, user.CanLogin())

	user.Status = UserStatusBanned
	assert.False(t, user.CanLogin())

	user.Status = UserStatusRemoved
	assert.False(t, user.CanLogin())

	system := &User{ID: SystemUserID, Username: SystemUsername, Role: RoleAdmin, Status: UserStatusActive}
	assert.True(t, system.IsSystem())
	assert.False(t, system.CanLogin(), "the system actor can never log in")
}

func TestTransactionOwnership(t *testing.T) {
	tx := &Transaction{ID: "txn-1", UserID: "user-a", AmountGained: 120, AmountSpent: 45.5}

	assert.True(t, tx.OwnedBy("user-a"))
	assert.False(t, tx.OwnedBy("user-b"))
	assert.InDelta(t, 74.5, tx.Net(), 1e-9)
}
