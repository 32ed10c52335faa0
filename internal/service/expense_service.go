package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/settlement"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
)

// ExpenseService implements the Connect ExpenseService on top of the per-trip ledgers.
type ExpenseService struct {
	api.UnimplementedExpenseServiceHandler
	store   storage.Store
	ledgers *Ledgers
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, ledgers *Ledgers, m *metrics.Metrics, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{
		store:   store,
		ledgers: ledgers,
		metrics: m,
		logger:  logger,
	}
}

// AddExpense validates and records a shared cost.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	msg := req.Msg
	l, _, err := s.ledger(ctx, msg.TripID)
	if err != nil {
		return nil, err
	}

	amount := msg.Amount
	if msg.AmountText != "" {
		if amount != 0 {
			return nil, connect.NewError(connect.CodeInvalidArgument, errAmountTwice)
		}
		if amount, err = money.ParseCents(msg.AmountText); err != nil {
			return nil, toConnectError(err)
		}
	}

	id, err := l.AddExpense(ledger.ExpenseInput{
		Amount:        amount,
		Payer:         msg.Payer,
		Policy:        models.SplitPolicy(msg.Policy),
		Beneficiaries: msg.Beneficiaries,
		Shares:        fromAPIShares(msg.Shares),
		Description:   msg.Description,
		ActivityID:    msg.ActivityID,
	}, s.ledgers.persist(ctx, msg.TripID))
	if err != nil {
		return nil, s.writeFailed("AddExpense", msg.TripID, err)
	}
	s.metrics.RecordsAppended.WithLabelValues(string(models.KindExpense)).Inc()

	record, _ := l.Record(id)
	s.logger.Info("Expense added",
		"trip_id", msg.TripID,
		"expense_id", id,
		"amount", money.FormatCents(record.Amount),
		"payer", record.Payer,
		"beneficiaries", len(record.Shares),
	)

	return connect.NewResponse(&api.AddExpenseResponse{
		ExpenseID: id,
		Shares:    toAPIShares(record.Shares),
	}), nil
}

// RecordPayment records a direct transfer between two members.
func (s *ExpenseService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	msg := req.Msg
	l, _, err := s.ledger(ctx, msg.TripID)
	if err != nil {
		return nil, err
	}

	id, err := l.RecordPayment(msg.From, msg.To, msg.Amount, msg.Description, s.ledgers.persist(ctx, msg.TripID))
	if err != nil {
		return nil, s.writeFailed("RecordPayment", msg.TripID, err)
	}
	s.metrics.RecordsAppended.WithLabelValues(string(models.KindPayment)).Inc()

	s.logger.Info("Payment recorded",
		"trip_id", msg.TripID,
		"payment_id", id,
		"amount", money.FormatCents(msg.Amount),
		"from", msg.From,
		"to", msg.To,
	)
	return connect.NewResponse(&api.RecordPaymentResponse{PaymentID: id}), nil
}

// ReverseExpense cancels the balance effect of an earlier expense or payment.
func (s *ExpenseService) ReverseExpense(ctx context.Context, req *connect.Request[api.ReverseExpenseRequest]) (*connect.Response[api.ReverseExpenseResponse], error) {
	msg := req.Msg
	l, _, err := s.ledger(ctx, msg.TripID)
	if err != nil {
		return nil, err
	}

	ids, err := l.Reverse(msg.ExpenseID, msg.Description, s.ledgers.persist(ctx, msg.TripID))
	if err != nil {
		return nil, s.writeFailed("ReverseExpense", msg.TripID, err)
	}
	s.metrics.RecordsAppended.WithLabelValues(string(models.KindReversal)).Add(float64(len(ids)))

	s.logger.Info("Expense reversed", "trip_id", msg.TripID, "expense_id", msg.ExpenseID, "records", len(ids))
	return connect.NewResponse(&api.ReverseExpenseResponse{ReversalIDs: ids}), nil
}

// ListExpenses returns the trip's log in insertion order.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	l, _, err := s.ledger(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	records := l.Records()
	expenses := make([]*api.Expense, len(records))
	for i, r := range records {
		expenses[i] = toAPIExpense(r)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: expenses}), nil
}

// GetBalances returns the balance sheet and the paid/share breakdown per member.
func (s *ExpenseService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	l, trip, err := s.ledger(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(trip.Members))
	for _, m := range trip.Members {
		names[m.ID] = m.Name
	}

	summaries := l.Summaries()
	members := make([]*api.MemberBalance, len(summaries))
	for i, sum := range summaries {
		members[i] = &api.MemberBalance{
			Participant: sum.Participant,
			Name:        names[sum.Participant],
			Paid:        sum.Paid,
			Share:       sum.Share,
			Net:         sum.Net,
		}
	}

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: l.Balances(),
		Members:  members,
	}), nil
}

// GetSettlementPlan computes the transfers that settle every balance of the trip.
func (s *ExpenseService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	l, _, err := s.ledger(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	plan, err := settlement.Plan(l.Balances())
	s.metrics.ObservePlan(len(plan), err)
	if err != nil {
		s.logger.Error("Settlement plan failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, toConnectError(err)
	}

	transfers := make([]*api.Transfer, len(plan))
	for i, t := range plan {
		transfers[i] = &api.Transfer{
			From:       t.From,
			To:         t.To,
			Amount:     t.Amount,
			AmountText: money.FormatCents(t.Amount),
		}
	}

	s.logger.Info("Settlement plan computed", "trip_id", req.Msg.TripID, "transfers", len(transfers))
	return connect.NewResponse(&api.GetSettlementPlanResponse{Transfers: transfers}), nil
}

// GetSpendingSummary reports total spending and spending per activity.
func (s *ExpenseService) GetSpendingSummary(ctx context.Context, req *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error) {
	l, _, err := s.ledger(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	totals := l.ActivityTotals()
	var total int64
	activities := make([]*api.ActivityTotal, 0, len(totals))
	for id, amount := range totals {
		total += amount
		activities = append(activities, &api.ActivityTotal{ActivityID: id, Amount: amount})
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].ActivityID < activities[j].ActivityID
	})

	return connect.NewResponse(&api.GetSpendingSummaryResponse{
		TotalSpent:     total,
		TotalSpentText: money.FormatCents(total),
		Activities:     activities,
	}), nil
}

// ledger returns the ledger of a trip the caller belongs to.
func (s *ExpenseService) ledger(ctx context.Context, tripID string) (*ledger.Ledger, *models.Trip, error) {
	trip, err := memberTrip(ctx, s.store, tripID)
	if err != nil {
		return nil, nil, err
	}
	l, err := s.ledgers.Get(ctx, trip.ID)
	if err != nil {
		s.logger.Error("Failed to load ledger", "trip_id", tripID, "error", err)
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}
	return l, trip, nil
}

// writeFailed logs and maps a rejected ledger write.
func (s *ExpenseService) writeFailed(op, tripID string, err error) error {
	if errors.Is(err, ledger.ErrValidation) {
		s.metrics.ValidationFailures.Inc()
		s.logger.Warn(op+" rejected", "trip_id", tripID, "error", err)
	} else {
		s.logger.Error(op+" failed", "trip_id", tripID, "error", err)
	}
	return toConnectError(err)
}
