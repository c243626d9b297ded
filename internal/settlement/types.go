package settlement

import "math/big"

// Member identifies a participant. Only equality is meaningful.
// The empty string marks an absent payer or payee on a Transaction.
type Member string

// TransactionType classifies a ledger entry by who pays and who receives.
type TransactionType string

const (
	UserToUser  TransactionType = "user_to_user"
	UserToFund  TransactionType = "user_to_fund"
	FundToUser  TransactionType = "fund_to_user"
	UserExpense TransactionType = "user_expense"
	FundExpense TransactionType = "fund_expense"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	Type   TransactionType
	From   Member // payer, empty when the fund pays or for fund expenses
	To     Member // payee, empty when paid into the fund or spent
	Amount int64  // smallest currency unit, always positive
}

// IsExpense reports whether the transaction counts toward shared spend.
func (t Transaction) IsExpense() bool {
	return t.Type == UserExpense || t.Type == FundExpense
}

// Flow is an unminimized payment routed through the fund holder.
// Amount is exact because a member's expense share may be fractional.
type Flow struct {
	From   Member
	To     Member
	Amount *big.Rat
}

// CashFlow is a single settlement instruction: From pays To Amount.
type CashFlow struct {
	From   Member
	To     Member
	Amount int64
}
