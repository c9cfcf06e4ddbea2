package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type memSessions map[string]Claims

func (m memSessions) Create(ctx context.Context, c Claims) (string, error) {
	m["t"] = c
	return "t", nil
}

func (m memSessions) Lookup(ctx context.Context, token string) (Claims, error) {
	c, ok := m[token]
	if !ok {
		return Claims{}, ErrNoSession
	}
	return c, nil
}

func (m memSessions) Delete(ctx context.Context, token string) error {
	delete(m, token)
	return nil
}

func (m memSessions) RevokeUser(ctx context.Context, userID int64) error {
	for k, c := range m {
		if c.UserID == userID {
			delete(m, k)
		}
	}
	return nil
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer  xyz ": "xyz",
		"Basic abc":    "",
		"Bearer ":      "",
		"":             "",
	}
	for h, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", h)
		if got := BearerToken(r); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", h, got, want)
		}
	}
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	sessions := memSessions{
		"admin-token": {UserID: 1, Role: RoleAdmin},
		"cust-token":  {UserID: 2, Role: RoleCustomer},
	}
	var seen Claims
	h := Authenticate(sessions)(RequireRole(RoleAdmin, RoleOperator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"unknown token", "nope", http.StatusUnauthorized},
		{"customer", "cust-token", http.StatusForbidden},
		{"admin", "admin-token", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Fatalf("status %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
	if seen.UserID != 1 {
		t.Fatalf("claims not propagated: %+v", seen)
	}
}

func TestRoleHelpers(t *testing.T) {
	if !(Claims{Role: RoleOperator}).IsStaff() || (Claims{Role: RoleCustomer}).IsStaff() {
		t.Fatal("IsStaff")
	}
	if (Claims{Role: RoleOperator}).IsAdmin() {
		t.Fatal("IsAdmin")
	}
	if Role("root").Valid() || !RoleCustomer.Valid() {
		t.Fatal("Valid")
	}
}

func TestOptional(t *testing.T) {
	sessions := memSessions{"op-token": {UserID: 5, Role: RoleOperator}}
	var got Claims
	var ok bool
	h := Optional(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))

	for _, token := range []string{"", "stale"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		h.ServeHTTP(httptest.NewRecorder(), r)
		if ok {
			t.Fatalf("token %q: unexpected claims %+v", token, got)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer op-token")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if !ok || got.UserID != 5 {
		t.Fatalf("claims = %+v, %v", got, ok)
	}
}
