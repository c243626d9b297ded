package models

// Event is a group of members sharing a fund and a transaction ledger.
type Event struct {
	// ID is the caller's identifier for the event.
	ID string

	// FundHolder is the member who holds the shared fund.
	// In practice this is the event's creator.
	FundHolder string

	// Members lists the participants in the caller's order.
	// The order decides ties when the settlement plan is built.
	Members []string

	// Transactions is the event's ledger.
	Transactions []Transaction
}

// Transaction is one entry of an event's ledger.
type Transaction struct {
	// Type is one of user_to_user, user_to_fund, fund_to_user,
	// user_expense or fund_expense.
	Type string

	// FromMember is the payer, empty when the fund pays.
	FromMember string

	// ToMember is the payee, empty when money goes into the fund or is spent.
	ToMember string

	// Amount is in the smallest currency unit.
	Amount int64
}

// UnknownMembers returns the payer and payee IDs referenced by the ledger that
// are not members of the event, in order of first appearance.
func (e *Event) UnknownMembers() []string {
	members := make(map[string]bool, len(e.Members))
	for _, m := range e.Members {
		members[m] = true
	}

	seen := make(map[string]bool)
	var unknown []string
	for _, tx := range e.Transactions {
		for _, id := range []string{tx.FromMember, tx.ToMember} {
			if id == "" || members[id] || seen[id] {
				continue
			}
			seen[id] = true
			unknown = append(unknown, id)
		}
	}
	return unknown
}
