package settlement

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput rejects requests the engine cannot compute a plan for.
	ErrInvalidInput = errors.New("invalid settlement input")
	// ErrMalformedTransaction rejects a transaction whose payer/payee shape
	// does not match its type.
	ErrMalformedTransaction = errors.New("malformed transaction")
)

// ValidateTransaction checks the amount and the payer/payee shape required by
// the transaction type.
func ValidateTransaction(tx Transaction) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrMalformedTransaction, tx.Amount)
	}

	hasFrom, hasTo := tx.From != "", tx.To != ""
	switch tx.Type {
	case UserToUser:
		if !hasFrom || !hasTo {
			return fmt.Errorf("%w: %s requires both from and to", ErrMalformedTransaction, tx.Type)
		}
	case UserToFund, UserExpense:
		if !hasFrom || hasTo {
			return fmt.Errorf("%w: %s requires from and no to", ErrMalformedTransaction, tx.Type)
		}
	case FundToUser:
		if hasFrom || !hasTo {
			return fmt.Errorf("%w: %s requires to and no from", ErrMalformedTransaction, tx.Type)
		}
	case FundExpense:
		if hasFrom || hasTo {
			return fmt.Errorf("%w: %s takes neither from nor to", ErrMalformedTransaction, tx.Type)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedTransaction, tx.Type)
	}
	return nil
}

// ValidateTransactions validates every entry and reports the first failure
// with its position in the ledger. The amounts of the whole ledger must sum to
// at most math.MaxInt64, which bounds every net amount and total computed
// from it.
func ValidateTransactions(transactions []Transaction) error {
	var volume int64
	for i, tx := range transactions {
		if err := ValidateTransaction(tx); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if tx.Amount > math.MaxInt64-volume {
			return fmt.Errorf("transaction %d: %w: ledger amounts overflow int64", i, ErrInvalidInput)
		}
		volume += tx.Amount
	}
	return nil
}

// ValidateMembers rejects an empty member list, empty or duplicate ids, and a
// fund holder who is not one of the members.
func ValidateMembers(members []Member, holder Member) error {
	if len(members) == 0 {
		return fmt.Errorf("%w: at least one member is required", ErrInvalidInput)
	}
	seen := make(map[Member]bool, len(members))
	for _, m := range members {
		if m == "" {
			return fmt.Errorf("%w: empty member id", ErrInvalidInput)
		}
		if seen[m] {
			return fmt.Errorf("%w: duplicate member %q", ErrInvalidInput, m)
		}
		seen[m] = true
	}
	if !seen[holder] {
		return fmt.Errorf("%w: fund holder %q is not a member", ErrInvalidInput, holder)
	}
	return nil
}
