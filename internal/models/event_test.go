package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventUnknownMembers(t *testing.T) {
	event := &Event{
		Members: []string{"alice", "bob"},
		Transactions: []Transaction{
			{Type: "user_to_user", FromMember: "alice", ToMember: "mallory", Amount: 100},
			{Type: "user_expense", FromMember: "trent", Amount: 100},
			{Type: "fund_to_user", ToMember: "mallory", Amount: 100},
			{Type: "fund_expense", Amount: 100},
		},
	}

	assert.Equal(t, []string{"mallory", "trent"}, event.UnknownMembers())
}

func TestEventUnknownMembersEmpty(t *testing.T) {
	event := &Event{
		Members:      []string{"alice"},
		Transactions: []Transaction{{Type: "user_to_fund", FromMember: "alice", Amount: 100}},
	}

	assert.Empty(t, event.UnknownMembers())
}
