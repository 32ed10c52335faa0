package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	ExpenseServiceName = "tripsplit.v1.ExpenseService"

	ExpenseServiceAddExpenseProcedure         = "/" + ExpenseServiceName + "/AddExpense"
	ExpenseServiceRecordPaymentProcedure      = "/" + ExpenseServiceName + "/RecordPayment"
	ExpenseServiceReverseExpenseProcedure     = "/" + ExpenseServiceName + "/ReverseExpense"
	ExpenseServiceListExpensesProcedure       = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceGetBalancesProcedure        = "/" + ExpenseServiceName + "/GetBalances"
	ExpenseServiceGetSettlementPlanProcedure  = "/" + ExpenseServiceName + "/GetSettlementPlan"
	ExpenseServiceGetSpendingSummaryProcedure = "/" + ExpenseServiceName + "/GetSpendingSummary"
)

// All amounts are integer cents unless the field name ends in _text.

type Share struct {
	Participant string `json:"participant"`
	Amount      int64  `json:"amount"`
}

type Expense struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Amount      int64   `json:"amount"`
	Payer       string  `json:"payer"`
	Policy      string  `json:"policy"`
	Shares      []Share `json:"shares"`
	Description string  `json:"description,omitempty"`
	ActivityID  string  `json:"activity_id,omitempty"`
	Reverses    string  `json:"reverses,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

type AddExpenseRequest struct {
	TripID string `json:"trip_id"`
	Amount int64  `json:"amount"`
	// AmountText is a decimal alternative to Amount, e.g. "12.34".
	AmountText    string   `json:"amount_text,omitempty"`
	Payer         string   `json:"payer"`
	Policy        string   `json:"policy,omitempty"` // equal (default) or weighted
	Beneficiaries []string `json:"beneficiaries,omitempty"`
	Shares        []Share  `json:"shares,omitempty"`
	Description   string   `json:"description,omitempty"`
	ActivityID    string   `json:"activity_id,omitempty"`
}

type AddExpenseResponse struct {
	ExpenseID string  `json:"expense_id"`
	Shares    []Share `json:"shares"`
}

type RecordPaymentRequest struct {
	TripID      string `json:"trip_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

type RecordPaymentResponse struct {
	PaymentID string `json:"payment_id"`
}

type ReverseExpenseRequest struct {
	TripID      string `json:"trip_id"`
	ExpenseID   string `json:"expense_id"`
	Description string `json:"description,omitempty"`
}

type ReverseExpenseResponse struct {
	ReversalIDs []string `json:"reversal_ids"`
}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`
}

type ListExpensesResponse struct {
	// Expenses in insertion order.
	Expenses []*Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	TripID string `json:"trip_id"`
}

type MemberBalance struct {
	Participant string `json:"participant"`
	Name        string `json:"name,omitempty"`
	Paid        int64  `json:"paid"`
	Share       int64  `json:"share"`
	Net         int64  `json:"net"` // Positive = owed money, negative = owes money
}

type GetBalancesResponse struct {
	Balances map[string]int64 `json:"balances"`
	Members  []*MemberBalance `json:"members"`
}

type GetSettlementPlanRequest struct {
	TripID string `json:"trip_id"`
}

type Transfer struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Amount     int64  `json:"amount"`
	AmountText string `json:"amount_text"`
}

type GetSettlementPlanResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

type GetSpendingSummaryRequest struct {
	TripID string `json:"trip_id"`
}

type ActivityTotal struct {
	ActivityID string `json:"activity_id"`
	Amount     int64  `json:"amount"`
}

type GetSpendingSummaryResponse struct {
	TotalSpent     int64            `json:"total_spent"`
	TotalSpentText string           `json:"total_spent_text"`
	Activities     []*ActivityTotal `json:"activities"`
}

// ExpenseServiceHandler is implemented by the server.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ReverseExpense(context.Context, *connect.Request[ReverseExpenseRequest]) (*connect.Response[ReverseExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error)
	GetSpendingSummary(context.Context, *connect.Request[GetSpendingSummaryRequest]) (*connect.Response[GetSpendingSummaryResponse], error)
}

// ExpenseServiceClient calls a remote ExpenseService.
type ExpenseServiceClient interface {
	ExpenseServiceHandler
}

// NewExpenseServiceHandler returns the mount path and handler for svc.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	addExpense := connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...)
	recordPayment := connect.NewUnaryHandler(ExpenseServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	reverseExpense := connect.NewUnaryHandler(ExpenseServiceReverseExpenseProcedure, svc.ReverseExpense, opts...)
	listExpenses := connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...)
	getBalances := connect.NewUnaryHandler(ExpenseServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getSettlementPlan := connect.NewUnaryHandler(ExpenseServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...)
	getSpendingSummary := connect.NewUnaryHandler(ExpenseServiceGetSpendingSummaryProcedure, svc.GetSpendingSummary, opts...)

	return "/" + ExpenseServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case ExpenseServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case ExpenseServiceReverseExpenseProcedure:
			reverseExpense.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case ExpenseServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case ExpenseServiceGetSettlementPlanProcedure:
			getSettlementPlan.ServeHTTP(w, r)
		case ExpenseServiceGetSpendingSummaryProcedure:
			getSpendingSummary.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type expenseServiceClient struct {
	addExpense         *connect.Client[AddExpenseRequest, AddExpenseResponse]
	recordPayment      *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	reverseExpense     *connect.Client[ReverseExpenseRequest, ReverseExpenseResponse]
	listExpenses       *connect.Client[ListExpensesRequest, ListExpensesResponse]
	getBalances        *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getSettlementPlan  *connect.Client[GetSettlementPlanRequest, GetSettlementPlanResponse]
	getSpendingSummary *connect.Client[GetSpendingSummaryRequest, GetSpendingSummaryResponse]
}

// NewExpenseServiceClient builds a client for the ExpenseService at baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		addExpense:         connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+ExpenseServiceAddExpenseProcedure, opts...),
		recordPayment:      connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+ExpenseServiceRecordPaymentProcedure, opts...),
		reverseExpense:     connect.NewClient[ReverseExpenseRequest, ReverseExpenseResponse](httpClient, baseURL+ExpenseServiceReverseExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		getBalances:        connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+ExpenseServiceGetBalancesProcedure, opts...),
		getSettlementPlan:  connect.NewClient[GetSettlementPlanRequest, GetSettlementPlanResponse](httpClient, baseURL+ExpenseServiceGetSettlementPlanProcedure, opts...),
		getSpendingSummary: connect.NewClient[GetSpendingSummaryRequest, GetSpendingSummaryResponse](httpClient, baseURL+ExpenseServiceGetSpendingSummaryProcedure, opts...),
	}
}

func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ReverseExpense(ctx context.Context, req *connect.Request[ReverseExpenseRequest]) (*connect.Response[ReverseExpenseResponse], error) {
	return c.reverseExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetSpendingSummary(ctx context.Context, req *connect.Request[GetSpendingSummaryRequest]) (*connect.Response[GetSpendingSummaryResponse], error) {
	return c.getSpendingSummary.CallUnary(ctx, req)
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}

func (UnimplementedExpenseServiceHandler) AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceAddExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return nil, unimplemented(ExpenseServiceRecordPaymentProcedure)
}

func (UnimplementedExpenseServiceHandler) ReverseExpense(context.Context, *connect.Request[ReverseExpenseRequest]) (*connect.Response[ReverseExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceReverseExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return nil, unimplemented(ExpenseServiceListExpensesProcedure)
}

func (UnimplementedExpenseServiceHandler) GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return nil, unimplemented(ExpenseServiceGetBalancesProcedure)
}

func (UnimplementedExpenseServiceHandler) GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return nil, unimplemented(ExpenseServiceGetSettlementPlanProcedure)
}

func (UnimplementedExpenseServiceHandler) GetSpendingSummary(context.Context, *connect.Request[GetSpendingSummaryRequest]) (*connect.Response[GetSpendingSummaryResponse], error) {
	return nil, unimplemented(ExpenseServiceGetSpendingSummaryProcedure)
}
