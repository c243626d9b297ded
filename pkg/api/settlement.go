// Package api defines the request and response messages of the
// splitthebill.v1 RPC services.
package api

// Transaction is one ledger entry of an event. FromMember and ToMember are
// empty when the fund is on that side of the transaction.
type Transaction struct {
	Type       string `json:"type"`
	FromMember string `json:"from_member,omitempty"`
	ToMember   string `json:"to_member,omitempty"`
	Amount     int64  `json:"amount"`
}

// Ledger is the snapshot of an event the settlement is computed from.
type Ledger struct {
	EventID      string        `json:"event_id"`
	Members      []string      `json:"members"`
	FundHolder   string        `json:"fund_holder"`
	Transactions []Transaction `json:"transactions"`
}

type SettleRequest struct {
	Ledger Ledger `json:"ledger"`
	// Tolerance overrides the server's default rounding granularity.
	// Zero disables rounding.
	Tolerance *int64 `json:"tolerance,omitempty"`
}

// Settlement is a payment instruction tied to the event it settles.
type Settlement struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	FromMember string `json:"from_member"`
	ToMember   string `json:"to_member"`
	Amount     int64  `json:"amount"`
	IsPaid     bool   `json:"is_paid"`
	CreatedAt  int64  `json:"created_at"`
}

type SettleResponse struct {
	EventID      string       `json:"event_id"`
	Tolerance    int64        `json:"tolerance"`
	TotalFund    int64        `json:"total_fund"`
	TotalExpense int64        `json:"total_expense"`
	Settlements  []Settlement `json:"settlements"`
}

type PreviewCashFlowsRequest struct {
	Ledger Ledger `json:"ledger"`
}

// CashFlow is an unminimized payment through the fund holder. Amount is a
// decimal string with two places because a share may be fractional.
type CashFlow struct {
	FromMember string `json:"from_member"`
	ToMember   string `json:"to_member"`
	Amount     string `json:"amount"`
}

type PreviewCashFlowsResponse struct {
	EventID   string     `json:"event_id"`
	CashFlows []CashFlow `json:"cash_flows"`
}

type GetSummaryRequest struct {
	Ledger Ledger `json:"ledger"`
}

// MemberBalance is a member's net position: positive when the group owes
// them, negative when they owe the group.
type MemberBalance struct {
	Member    string `json:"member"`
	NetAmount int64  `json:"net_amount"`
}

type GetSummaryResponse struct {
	EventID          string          `json:"event_id"`
	TotalFund        int64           `json:"total_fund"`
	TotalExpense     int64           `json:"total_expense"`
	ExpensePerMember string          `json:"expense_per_member"`
	Balances         []MemberBalance `json:"balances"`
}

// GetEventID returns the id of the event the request is about. A nil request
// has no event.
func (r *SettleRequest) GetEventID() string {
	if r == nil {
		return ""
	}
	return r.Ledger.EventID
}

func (r *PreviewCashFlowsRequest) GetEventID() string {
	if r == nil {
		return ""
	}
	return r.Ledger.EventID
}

func (r *GetSummaryRequest) GetEventID() string {
	if r == nil {
		return ""
	}
	return r.Ledger.EventID
}
