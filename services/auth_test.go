package services

import (
	"context"
	"errors"
	"testing"

	"ttms-analytics/models"
)

func TestExchangeIsCached(t *testing.T) {
	fake := newFakeTTMS()
	env := newTestEnv(t, fake, 900, 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		token, err := env.auth.Exchange(ctx, "login-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "admin-token" {
			t.Errorf("token = %q, want admin-token", token)
		}
	}
	if got := fake.count("auth-admin"); got != 1 {
		t.Errorf("auth-admin calls = %d, want 1", got)
	}
	if got := fake.lastSession("auth-admin"); got != "login-1" {
		t.Errorf("session_id sent = %q, want login-1", got)
	}
}

func TestExchangeEmptyResponse(t *testing.T) {
	fake := newFakeTTMS()
	fake.adminSession = ""
	env := newTestEnv(t, fake, 900, 10)

	_, err := env.auth.Exchange(context.Background(), "login-1")
	if !errors.Is(err, models.ErrUpstreamAuth) {
		t.Fatalf("expected ErrUpstreamAuth, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	fake := newFakeTTMS()
	env := newTestEnv(t, fake, 900, 10)
	ctx := context.Background()

	token, err := env.auth.Resolve(ctx, models.Credentials{AdminSessionID: "given", LoginSessionID: "login-1"})
	if err != nil || token != "given" {
		t.Errorf("admin token should win: token=%q err=%v", token, err)
	}
	if fake.count("auth-admin") != 0 {
		t.Error("admin token present, exchange must not be called")
	}

	token, err = env.auth.Resolve(ctx, models.Credentials{LoginSessionID: "login-1"})
	if err != nil || token != "admin-token" {
		t.Errorf("login token should be exchanged: token=%q err=%v", token, err)
	}

	if _, err := env.auth.Resolve(ctx, models.Credentials{}); !errors.Is(err, models.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	fake := newFakeTTMS()
	fake.users["alice"] = row{"login": "alice", "password": "secret", "session_id": "s-1", "full_name": "Alice", "description": "Pensyarah"}
	env := newTestEnv(t, fake, 900, 10)
	ctx := context.Background()

	user, err := env.auth.Authenticate(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.SessionID != "s-1" || user.Name != "Alice" {
		t.Errorf("unexpected user %+v", user)
	}

	if _, err := env.auth.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, models.ErrUpstreamAuth) {
		t.Errorf("expected ErrUpstreamAuth, got %v", err)
	}
	if _, err := env.auth.Authenticate(ctx, "", ""); !errors.Is(err, models.ErrMissingParameter) {
		t.Errorf("expected ErrMissingParameter, got %v", err)
	}
}

func TestStudentsUseExchangedSession(t *testing.T) {
	fake := newFakeTTMS()
	fake.students[testPeriod.Key()] = studentRows(2, "FC")
	env := newTestEnv(t, fake, 900, 10)

	students, err := env.students.FetchAll(context.Background(), testPeriod, models.Credentials{LoginSessionID: "login-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(students) != 2 {
		t.Errorf("got %d students, want 2", len(students))
	}
	if got := fake.lastSession("pelajar"); got != "admin-token" {
		t.Errorf("pelajar session_id = %q, want admin-token", got)
	}
}
