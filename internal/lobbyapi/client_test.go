package lobbyapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return c
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Username != "alice" || req.Password != "hunter22" {
			t.Fatalf("unexpected credentials: %+v", req)
		}
		json.NewEncoder(w).Encode(Credentials{
			UserID:       "u1",
			Username:     "alice",
			Role:         "player",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		})
	}))

	creds, err := c.Login(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if creds.AccessToken != "access-1" || creds.Username != "alice" {
		t.Fatalf("unexpected creds: %+v", creds)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errorResponse{Error: "invalid username or password"})
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRefresh_SendsRefreshToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/refresh" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.RefreshToken != "refresh-1" {
			t.Fatalf("unexpected token %q", req.RefreshToken)
		}
		json.NewEncoder(w).Encode(Credentials{AccessToken: "access-2", RefreshToken: "refresh-2"})
	}))

	creds, err := c.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("Refresh err: %v", err)
	}
	if creds.AccessToken != "access-2" {
		t.Fatalf("unexpected creds: %+v", creds)
	}
}

func TestListTables_BearerAuth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Fatalf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"tables":[{"table_id":"main","name":"Main","players":4,"max_players":9}]}`))
	}))

	tables, err := c.ListTables(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("ListTables err: %v", err)
	}
	if len(tables) != 1 || tables[0].TableID != "main" {
		t.Fatalf("unexpected tables: %+v", tables)
	}
}

func TestDeleteTable_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errorResponse{Error: "no such table"})
	}))

	err := c.DeleteTable(context.Background(), "access-1", "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_RejectsEmptyURL(t *testing.T) {
	if _, err := New("   "); err == nil {
		t.Fatal("expected error for blank base url")
	}
}
