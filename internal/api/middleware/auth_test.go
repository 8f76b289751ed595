package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequireAuthNoSecretDisablesAuth(t *testing.T) {
	var called bool
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected next handler to run when no secret is configured")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	secret := []byte("test-secret-32-bytes-long-enough")
	handler := RequireAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	secret := []byte("test-secret-32-bytes-long-enough")
	token, _, err := IssueToken(secret, "cli-operator")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var gotSubject string
	handler := RequireAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotSubject != "cli-operator" {
		t.Fatalf("expected subject %q, got %q", "cli-operator", gotSubject)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	token, _, err := IssueToken([]byte("secret-a-32-bytes-long-enough!!"), "x")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	handler := RequireAuth([]byte("secret-b-32-bytes-long-enough!!"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run with a token signed by a different secret")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestIssueTokenSetsExpiry(t *testing.T) {
	before := time.Now()
	_, expiresAt, err := IssueToken([]byte("secret-32-bytes-long-enough!!!!"), "sub")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if !expiresAt.After(before.Add(tokenTTL - time.Minute)) {
		t.Fatalf("expected expiry around tokenTTL from now, got %v", expiresAt)
	}
}
