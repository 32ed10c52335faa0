package middleware

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/models"
)

type echo struct{}

func newJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.AuthConfig{JWTSecret: "test-secret", Issuer: "tripsplit", TokenTTL: time.Hour})
}

func captureUser(got *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*got = GetUserID(ctx)
		return connect.NewResponse(&echo{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := newJWTManager()
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "ada@example.com", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantUser string
		wantCode connect.Code
	}{
		{name: "valid token", header: "Bearer " + token, wantUser: "user-1"},
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			req := connect.NewRequest(&echo{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := RequireAuth(jwtManager)(captureUser(&got))(context.Background(), req)

			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("expected code %v, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantUser {
				t.Errorf("user: expected %q, got %q", tt.wantUser, got)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := newJWTManager()
	token, err := jwtManager.Generate(&models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var got string
	req := connect.NewRequest(&echo{})
	if _, err := OptionalAuth(jwtManager)(captureUser(&got))(context.Background(), req); err != nil {
		t.Fatalf("anonymous request failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected no user, got %q", got)
	}

	req.Header().Set("Authorization", "Bearer "+token)
	if _, err := OptionalAuth(jwtManager)(captureUser(&got))(context.Background(), req); err != nil {
		t.Fatalf("authenticated request failed: %v", err)
	}
	if got != "user-1" {
		t.Errorf("expected user-1, got %q", got)
	}
}

func TestRequireAuth_CarriesClaims(t *testing.T) {
	jwtManager := newJWTManager()
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "ada@example.com", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var email, name string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		email, name = GetEmail(ctx), GetName(ctx)
		return connect.NewResponse(&echo{}), nil
	}
	req := connect.NewRequest(&echo{})
	req.Header().Set("Authorization", "Bearer "+token)
	if _, err := RequireAuth(jwtManager)(next)(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "ada@example.com" || name != "Ada" {
		t.Errorf("expected ada@example.com/Ada, got %q/%q", email, name)
	}
}
