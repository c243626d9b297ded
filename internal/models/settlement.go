package models

// Settlement represents a payment between event members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// EventID is the event this settlement belongs to.
	EventID string

	// FromMember is the member who pays (debtor settling up).
	FromMember string

	// ToMember is the member who receives payment (creditor being paid).
	ToMember string

	// Amount is the payment amount in the smallest currency unit.
	Amount int64

	// IsPaid is false until the caller records the payment.
	IsPaid bool

	// CreatedAt is the Unix timestamp when the settlement was computed.
	CreatedAt int64
}
