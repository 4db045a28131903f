package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"task-manager/internal/apperr"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		Secret:     []byte("test-secret"),
		Issuer:     "task-manager-test",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{AccessTTL: time.Minute, RefreshTTL: time.Hour}); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewManager(Config{Secret: []byte("s"), RefreshTTL: time.Hour}); err == nil {
		t.Fatal("expected error for zero access ttl")
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	pair, err := m.IssuePair(Identity{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if pair.Access.Claims.ID == pair.Refresh.Claims.ID {
		t.Fatal("expected distinct jti values")
	}

	access, err := m.Parse(pair.Access.Raw, AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if access.Username != "alice" || access.UserID != 7 || access.Subject != "7" {
		t.Fatalf("unexpected access claims %+v", access)
	}
	if !access.ExpiresAtTime().Equal(clock.now.Add(5 * time.Minute)) {
		t.Fatalf("unexpected access expiry %s", access.ExpiresAtTime())
	}

	refresh, err := m.Parse(pair.Refresh.Raw, RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refresh.Identity() != (Identity{UserID: 7, Username: "alice"}) {
		t.Fatalf("unexpected identity %+v", refresh.Identity())
	}
	if _, err := m.Parse(pair.Refresh.Raw, ""); err != nil {
		t.Fatalf("parse any type: %v", err)
	}
}

func TestParseRejectsWrongType(t *testing.T) {
	m := newTestManager(t, &fakeClock{now: time.Now()})
	pair, err := m.IssuePair(Identity{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	_, err = m.Parse(pair.Access.Raw, RefreshToken)
	if !errors.Is(err, apperr.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if err.Error() != "token has wrong type" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseRejectsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)
	token, err := m.IssueAccess(Identity{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	clock.now = clock.now.Add(6 * time.Minute)
	_, err = m.Parse(token.Raw, AccessToken)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired cause, got %v", err)
	}
	appErr, ok := apperr.As(err)
	if !ok || appErr.Reason != apperr.ReasonTokenNotValid {
		t.Fatalf("expected token_not_valid reason, got %+v", appErr)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newTestManager(t, clock)
	other, err := NewManager(Config{
		Secret:     []byte("other-secret"),
		Issuer:     "task-manager-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := other.IssueAccess(Identity{UserID: 3})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	_, err = m.Parse(token.Raw, AccessToken)
	if err == nil || err.Error() != "token signature is invalid" {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := newTestManager(t, &fakeClock{now: time.Now()})

	for _, raw := range []string{"", "   ", "not-a-jwt", strings.Repeat("a.", 3)} {
		if _, err := m.Parse(raw, ""); !errors.Is(err, apperr.ErrAuthentication) {
			t.Fatalf("%q: expected authentication error, got %v", raw, err)
		}
	}
}

func TestIssueRequiresUser(t *testing.T) {
	m := newTestManager(t, &fakeClock{now: time.Now()})
	if _, err := m.IssuePair(Identity{}); err == nil {
		t.Fatal("expected error for zero identity")
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity")
	}
	ctx := WithIdentity(context.Background(), Identity{UserID: 4, Username: "carol"})
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID != 4 || id.Username != "carol" {
		t.Fatalf("unexpected identity %+v", id)
	}
	if _, ok := IdentityFromContext(WithIdentity(context.Background(), Identity{})); ok {
		t.Fatal("expected zero identity to be ignored")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("expected hashed password")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong") || CheckPassword("", "s3cret-pass") {
		t.Fatal("expected mismatch")
	}
}
