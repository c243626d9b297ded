package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitthebill/internal/metrics"
	"github.com/mmynk/splitthebill/internal/models"
	"github.com/mmynk/splitthebill/internal/settlement"
	pb "github.com/mmynk/splitthebill/pkg/api"
	"github.com/mmynk/splitthebill/pkg/api/apiconnect"
)

// Limits bounds the size of a ledger accepted in one call. Zero disables a
// limit.
type Limits struct {
	MaxMembers      int
	MaxTransactions int
}

// SettlementService implements the Connect SettlementService
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	defaultTolerance int64
	limits           Limits
	logger           *slog.Logger
	metrics          *metrics.Metrics
	now              func() time.Time
}

// NewSettlementService creates a SettlementService that rounds payments to
// defaultTolerance unless a request overrides it. m may be nil.
func NewSettlementService(defaultTolerance int64, limits Limits, logger *slog.Logger, m *metrics.Metrics) *SettlementService {
	return &SettlementService{
		defaultTolerance: defaultTolerance,
		limits:           limits,
		logger:           logger,
		metrics:          m,
		now:              time.Now,
	}
}

// Settle computes the minimized payment plan for an event.
func (s *SettlementService) Settle(ctx context.Context, req *connect.Request[pb.SettleRequest]) (*connect.Response[pb.SettleResponse], error) {
	event, err := s.eventFromLedger(req.Msg.Ledger)
	if err != nil {
		s.logger.WarnContext(ctx, "Settle rejected ledger", "event_id", req.Msg.Ledger.EventID, "error", err)
		return nil, err
	}

	tolerance := s.defaultTolerance
	if req.Msg.Tolerance != nil {
		tolerance = *req.Msg.Tolerance
	}

	members, transactions, holder := engineInput(event)
	plan, err := settlement.Settle(members, transactions, holder, tolerance)
	if err != nil {
		s.logger.WarnContext(ctx, "Settle failed", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveSettlement(len(plan))

	createdAt := s.now().Unix()
	settlements := make([]pb.Settlement, len(plan))
	for i, record := range newSettlements(event.ID, plan, createdAt) {
		settlements[i] = pb.Settlement{
			ID:         record.ID,
			EventID:    record.EventID,
			FromMember: record.FromMember,
			ToMember:   record.ToMember,
			Amount:     record.Amount,
			IsPaid:     record.IsPaid,
			CreatedAt:  record.CreatedAt,
		}
	}

	s.logger.InfoContext(ctx, "Settlement computed",
		"event_id", event.ID,
		"members_count", len(members),
		"transactions_count", len(transactions),
		"tolerance", tolerance,
		"payments_count", len(plan),
	)

	return connect.NewResponse(&pb.SettleResponse{
		EventID:      event.ID,
		Tolerance:    tolerance,
		TotalFund:    settlement.TotalFund(transactions),
		TotalExpense: settlement.TotalExpense(transactions),
		Settlements:  settlements,
	}), nil
}

// PreviewCashFlows returns the unminimized payments routed through the fund holder.
func (s *SettlementService) PreviewCashFlows(ctx context.Context, req *connect.Request[pb.PreviewCashFlowsRequest]) (*connect.Response[pb.PreviewCashFlowsResponse], error) {
	event, err := s.eventFromLedger(req.Msg.Ledger)
	if err != nil {
		s.logger.WarnContext(ctx, "PreviewCashFlows rejected ledger", "event_id", req.Msg.Ledger.EventID, "error", err)
		return nil, err
	}

	members, transactions, holder := engineInput(event)
	if err := settlement.ValidateTransactions(transactions); err != nil {
		return nil, toConnectError(err)
	}
	flows, err := settlement.CashFlows(members, transactions, holder)
	if err != nil {
		return nil, toConnectError(err)
	}

	cashFlows := make([]pb.CashFlow, len(flows))
	for i, f := range flows {
		cashFlows[i] = pb.CashFlow{
			FromMember: string(f.From),
			ToMember:   string(f.To),
			Amount:     formatAmount(f.Amount),
		}
	}

	s.logger.DebugContext(ctx, "Cash flows previewed", "event_id", event.ID, "flows_count", len(flows))

	return connect.NewResponse(&pb.PreviewCashFlowsResponse{
		EventID:   event.ID,
		CashFlows: cashFlows,
	}), nil
}

// GetSummary returns the fund and expense totals and each member's net amount.
func (s *SettlementService) GetSummary(ctx context.Context, req *connect.Request[pb.GetSummaryRequest]) (*connect.Response[pb.GetSummaryResponse], error) {
	event, err := s.eventFromLedger(req.Msg.Ledger)
	if err != nil {
		s.logger.WarnContext(ctx, "GetSummary rejected ledger", "event_id", req.Msg.Ledger.EventID, "error", err)
		return nil, err
	}

	members, transactions, holder := engineInput(event)
	if err := settlement.ValidateMembers(members, holder); err != nil {
		return nil, toConnectError(err)
	}
	if err := settlement.ValidateTransactions(transactions); err != nil {
		return nil, toConnectError(err)
	}
	share, err := settlement.ExpensePerMember(transactions, len(members))
	if err != nil {
		return nil, toConnectError(err)
	}

	balances := make([]pb.MemberBalance, len(members))
	for i, m := range members {
		balances[i] = pb.MemberBalance{
			Member:    string(m),
			NetAmount: settlement.NetAmount(m, transactions),
		}
	}

	return connect.NewResponse(&pb.GetSummaryResponse{
		EventID:          event.ID,
		TotalFund:        settlement.TotalFund(transactions),
		TotalExpense:     settlement.TotalExpense(transactions),
		ExpensePerMember: formatAmount(share),
		Balances:         balances,
	}), nil
}

// eventFromLedger converts the request ledger and rejects ledgers that are too
// large or that reference people outside the event.
func (s *SettlementService) eventFromLedger(l pb.Ledger) (*models.Event, error) {
	if s.limits.MaxMembers > 0 && len(l.Members) > s.limits.MaxMembers {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("event has %d members, at most %d allowed", len(l.Members), s.limits.MaxMembers))
	}
	if s.limits.MaxTransactions > 0 && len(l.Transactions) > s.limits.MaxTransactions {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("event has %d transactions, at most %d allowed", len(l.Transactions), s.limits.MaxTransactions))
	}

	event := &models.Event{
		ID:           l.EventID,
		FundHolder:   l.FundHolder,
		Members:      l.Members,
		Transactions: make([]models.Transaction, len(l.Transactions)),
	}
	for i, tx := range l.Transactions {
		event.Transactions[i] = models.Transaction{
			Type:       tx.Type,
			FromMember: tx.FromMember,
			ToMember:   tx.ToMember,
			Amount:     tx.Amount,
		}
	}

	if unknown := event.UnknownMembers(); len(unknown) > 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("transactions reference non-members: %v", unknown))
	}
	if l.FundHolder == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("fund_holder required"))
	}
	return event, nil
}

func engineInput(event *models.Event) ([]settlement.Member, []settlement.Transaction, settlement.Member) {
	members := make([]settlement.Member, len(event.Members))
	for i, m := range event.Members {
		members[i] = settlement.Member(m)
	}
	transactions := make([]settlement.Transaction, len(event.Transactions))
	for i, tx := range event.Transactions {
		transactions[i] = settlement.Transaction{
			Type:   settlement.TransactionType(tx.Type),
			From:   settlement.Member(tx.FromMember),
			To:     settlement.Member(tx.ToMember),
			Amount: tx.Amount,
		}
	}
	return members, transactions, settlement.Member(event.FundHolder)
}

// newSettlements turns a payment plan into unpaid settlement records.
func newSettlements(eventID string, plan []settlement.CashFlow, createdAt int64) []models.Settlement {
	records := make([]models.Settlement, len(plan))
	for i, cf := range plan {
		records[i] = models.Settlement{
			ID:         uuid.NewString(),
			EventID:    eventID,
			FromMember: string(cf.From),
			ToMember:   string(cf.To),
			Amount:     cf.Amount,
			CreatedAt:  createdAt,
		}
	}
	return records
}

// formatAmount renders an exact amount with two decimal places.
func formatAmount(amount *big.Rat) string {
	num := decimal.NewFromBigInt(amount.Num(), 0)
	den := decimal.NewFromBigInt(amount.Denom(), 0)
	return num.DivRound(den, 2).StringFixed(2)
}

func toConnectError(err error) error {
	if errors.Is(err, settlement.ErrInvalidInput) || errors.Is(err, settlement.ErrMalformedTransaction) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
