package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/logging"
)

// testEnv is a running server backed by a temp SQLite database.
type testEnv struct {
	store    *sqlite.SQLiteStore
	metrics  *metrics.Metrics
	auth     api.AuthServiceClient
	trips    api.TripServiceClient
	expenses api.ExpenseServiceClient
}

// setupTestServer wires the services the way the server binary does.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripsplit-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := logging.New(io.Discard, slog.LevelError, "text")
	m := metrics.New(prometheus.NewRegistry())
	jwtManager := auth.NewJWTManager(config.AuthConfig{JWTSecret: "test-secret", Issuer: "tripsplit", TokenTTL: time.Hour})
	ledgers := NewLedgers(store, m)

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	tripSvc := NewTripService(store, ledgers, logger)
	expenseSvc := NewExpenseService(store, ledgers, m, logger)

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(logger))
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(logger))

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(authSvc, public))
	mux.Handle(api.NewTripServiceHandler(tripSvc, private))
	mux.Handle(api.NewExpenseServiceHandler(expenseSvc, private))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:    store,
		metrics:  m,
		auth:     api.NewAuthServiceClient(http.DefaultClient, server.URL),
		trips:    api.NewTripServiceClient(http.DefaultClient, server.URL),
		expenses: api.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

// authed builds a request carrying the bearer token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

type testUser struct {
	id    string
	token string
}

func register(t *testing.T, env *testEnv, name string) testUser {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password-" + name,
	}))
	if err != nil {
		t.Fatalf("Register %s failed: %v", name, err)
	}
	return testUser{id: resp.Msg.User.ID, token: resp.Msg.Token}
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got success", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
