// Package settlement turns an event's transaction ledger into a short list of
// payments that settles every member's debt.
package settlement

import (
	"fmt"
	"math/big"
	"slices"
)

// DefaultTolerance rounds settlement payments down to multiples of 1000 of the
// smallest currency unit.
const DefaultTolerance = 1000

// NetAmount returns how much the group owes member according to the ledger.
// Money the member paid out counts positive, money received counts negative.
func NetAmount(member Member, transactions []Transaction) int64 {
	var net int64
	for _, tx := range transactions {
		if tx.From == member {
			net += tx.Amount
		} else if tx.To == member {
			net -= tx.Amount
		}
	}
	return net
}

// TotalExpense sums user and fund expenses, the spend shared by all members.
func TotalExpense(transactions []Transaction) int64 {
	var total int64
	for _, tx := range transactions {
		if tx.IsExpense() {
			total += tx.Amount
		}
	}
	return total
}

// TotalFund returns the balance left in the shared fund: deposits minus
// withdrawals and fund expenses.
func TotalFund(transactions []Transaction) int64 {
	var total int64
	for _, tx := range transactions {
		switch tx.Type {
		case UserToFund:
			total += tx.Amount
		case FundToUser, FundExpense:
			total -= tx.Amount
		}
	}
	return total
}

// ExpensePerMember splits the total expense equally. The result is exact and
// may be fractional.
func ExpensePerMember(transactions []Transaction, memberCount int) (*big.Rat, error) {
	if memberCount <= 0 {
		return nil, fmt.Errorf("%w: member count must be positive, got %d", ErrInvalidInput, memberCount)
	}
	return big.NewRat(TotalExpense(transactions), int64(memberCount)), nil
}

// CashFlows routes every member through the fund holder: a member whose share
// exceeds what they put in pays the holder the difference, and the holder pays
// back anyone who put in more than their share.
//
// The holder's own difference would be a payment to itself and is omitted; it
// has no effect on the minimized plan.
func CashFlows(members []Member, transactions []Transaction, holder Member) ([]Flow, error) {
	if err := ValidateMembers(members, holder); err != nil {
		return nil, err
	}
	share, err := ExpensePerMember(transactions, len(members))
	if err != nil {
		return nil, err
	}

	var flows []Flow
	for _, member := range members {
		if member == holder {
			continue
		}
		diff := new(big.Rat).Sub(share, new(big.Rat).SetInt64(NetAmount(member, transactions)))
		switch diff.Sign() {
		case 1:
			flows = append(flows, Flow{From: member, To: holder, Amount: diff})
		case -1:
			flows = append(flows, Flow{From: holder, To: member, Amount: diff.Neg(diff)})
		}
	}
	return flows, nil
}

// MinimizeCashFlows pairs the biggest creditor with the biggest debtor until
// fewer than two members are left or every balance is zero. Each round settles
// whichever side is smaller and drops that member, so the plan has at most
// len(members)-1 payments.
//
// Members are scanned in the given order and the last one wins a tie on
// either side. A positive tolerance rounds each payment down to a multiple of
// tolerance; the settled member is dropped even when that leaves change
// behind. Amounts below one unit are never paid, and payments rounded down to
// zero are left out of the plan.
func MinimizeCashFlows(members []Member, flows []Flow, tolerance int64) ([]CashFlow, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance must not be negative, got %d", ErrInvalidInput, tolerance)
	}

	net := make(map[Member]*big.Rat, len(members))
	for _, m := range members {
		if m == "" {
			return nil, fmt.Errorf("%w: empty member id", ErrInvalidInput)
		}
		if _, dup := net[m]; dup {
			return nil, fmt.Errorf("%w: duplicate member %q", ErrInvalidInput, m)
		}
		net[m] = new(big.Rat)
	}
	for _, f := range flows {
		if n, ok := net[f.From]; ok {
			n.Sub(n, f.Amount)
		}
		if n, ok := net[f.To]; ok {
			n.Add(n, f.Amount)
		}
	}

	remaining := slices.Clone(members)
	plan := make([]CashFlow, 0, len(members))
	for len(remaining) > 1 {
		if allZero(remaining, net) {
			break
		}

		credit, debit := new(big.Rat), new(big.Rat)
		var creditor, debtor Member
		for _, m := range remaining {
			if n := net[m]; n.Cmp(credit) >= 0 {
				creditor, credit = m, n
			} else if n.Cmp(debit) <= 0 {
				debtor, debit = m, n
			}
		}
		if creditor == "" || debtor == "" {
			// Only residual change of one sign is left.
			break
		}

		settled, owed := debtor, new(big.Rat).Neg(debit)
		if credit.Cmp(owed) < 0 {
			settled, owed = creditor, new(big.Rat).Set(credit)
		}

		if amount := roundDown(owed, tolerance); amount > 0 {
			plan = append(plan, CashFlow{From: debtor, To: creditor, Amount: amount})
			paid := new(big.Rat).SetInt64(amount)
			net[debtor].Add(net[debtor], paid)
			net[creditor].Sub(net[creditor], paid)
		}

		i := slices.Index(remaining, settled)
		remaining = slices.Delete(remaining, i, i+1)
	}
	return plan, nil
}

// Settle computes the minimized payment plan for an event whose fund is held
// by holder.
func Settle(members []Member, transactions []Transaction, holder Member, tolerance int64) ([]CashFlow, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance must not be negative, got %d", ErrInvalidInput, tolerance)
	}
	if err := ValidateTransactions(transactions); err != nil {
		return nil, err
	}
	flows, err := CashFlows(members, transactions, holder)
	if err != nil {
		return nil, err
	}
	return MinimizeCashFlows(members, flows, tolerance)
}

func allZero(members []Member, net map[Member]*big.Rat) bool {
	for _, m := range members {
		if net[m].Sign() != 0 {
			return false
		}
	}
	return true
}

// roundDown floors a non-negative amount to a multiple of tolerance, or to a
// whole unit when tolerance is zero.
func roundDown(amount *big.Rat, tolerance int64) int64 {
	unit := tolerance
	if unit == 0 {
		unit = 1
	}
	q := new(big.Int).Mul(amount.Denom(), big.NewInt(unit))
	q.Quo(amount.Num(), q)
	return q.Int64() * unit
}
