package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vmorozov/customer-hub/internal/client/api"
	"github.com/vmorozov/customer-hub/internal/client/storage"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memStore) Close() error { return nil }

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) observe(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make([]State, len(r.events))
	for i, e := range r.events {
		states[i] = e.State
	}
	return states
}

func statesEqual(got, want []State) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func authServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"Access denied. Valid authentication token required."}`))
				return
			}
			w.Write([]byte(`{"success":true,"message":"ok","data":{"user":{"id":"user-1","email":"alice@example.com"}}}`))
		case "/api/auth/login":
			w.Write([]byte(`{"success":true,"message":"Login successful","data":{"user":{"id":"user-1","email":"alice@example.com"},"token":"` + validToken + `"}}`))
		case "/api/auth/register":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"message":"User registered successfully","data":{"user":{"id":"user-1","email":"alice@example.com"},"token":"` + validToken + `"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"API endpoint not found"}`))
		}
	}))
}

func TestManager_Bootstrap_NoToken(t *testing.T) {
	store := newMemStore()
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient("http://127.0.0.1:0"), store, recorder.observe)

	if err := manager.Bootstrap(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if manager.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", manager.State())
	}
	if !statesEqual(recorder.states(), []State{StateUnauthenticated}) {
		t.Errorf("unexpected transitions %v", recorder.states())
	}
}

func TestManager_Bootstrap_ValidToken(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	store.Set(storage.KeyToken, "tok-valid")
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient(server.URL), store, recorder.observe)

	if err := manager.Bootstrap(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if manager.State() != StateAuthenticated {
		t.Fatalf("expected authenticated, got %s", manager.State())
	}
	user, ok := manager.User()
	if !ok || user.Email != "alice@example.com" {
		t.Errorf("unexpected user %+v ok=%v", user, ok)
	}
}

func TestManager_Bootstrap_RejectedToken(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	store.Set(storage.KeyToken, "tok-stale")
	store.Set(storage.KeyUser, `{"id":"user-1"}`)
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient(server.URL), store, recorder.observe)

	err := manager.Bootstrap(context.Background())
	if !api.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}

	if manager.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", manager.State())
	}
	if _, ok, _ := store.Get(storage.KeyToken); ok {
		t.Error("expected stale token to be cleared")
	}
	if _, ok, _ := store.Get(storage.KeyUser); ok {
		t.Error("expected stored user to be cleared")
	}
}

func TestManager_Login_Success(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient(server.URL), store, recorder.observe)

	if err := manager.Login(context.Background(), "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !statesEqual(recorder.states(), []State{StateLoggingIn, StateAuthenticated}) {
		t.Errorf("unexpected transitions %v", recorder.states())
	}
	token, ok, _ := store.Get(storage.KeyToken)
	if !ok || token != "tok-valid" {
		t.Errorf("expected persisted token, got %q ok=%v", token, ok)
	}
	if _, ok, _ := store.Get(storage.KeyUser); !ok {
		t.Error("expected persisted user")
	}
}

func TestManager_Login_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
	}))
	defer server.Close()

	store := newMemStore()
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient(server.URL), store, recorder.observe)

	err := manager.Login(context.Background(), "alice@example.com", "Wrong1pass")
	if err == nil {
		t.Fatal("expected error")
	}
	if api.Message(err) != "Invalid email or password" {
		t.Errorf("unexpected message %q", api.Message(err))
	}

	if !statesEqual(recorder.states(), []State{StateLoggingIn, StateUnauthenticated}) {
		t.Errorf("unexpected transitions %v", recorder.states())
	}
	if _, ok, _ := store.Get(storage.KeyToken); ok {
		t.Error("expected no persisted token after failed login")
	}
}

func TestManager_Register_Success(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient(server.URL), store, recorder.observe)

	if err := manager.Register(context.Background(), "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if manager.State() != StateAuthenticated {
		t.Errorf("expected authenticated, got %s", manager.State())
	}
}

func TestManager_Logout_ClearsEverything(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	recorder := &eventRecorder{}
	manager := NewManager(api.NewClient(server.URL), store, recorder.observe)

	if err := manager.Login(context.Background(), "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("login: %v", err)
	}

	manager.Logout()

	if manager.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", manager.State())
	}
	if _, ok, _ := store.Get(storage.KeyToken); ok {
		t.Error("expected token cleared")
	}
	if _, ok, _ := store.Get(storage.KeyUser); ok {
		t.Error("expected user cleared")
	}
}

func TestManager_HandleAPIError_ForcesLogout(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	recorder := &eventRecorder{}
	client := api.NewClient(server.URL)
	manager := NewManager(client, store, recorder.observe)

	if err := manager.Login(context.Background(), "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A customer call rejected with 401 must tear the session down.
	client.SetToken("tok-revoked")
	_, err := client.Me(context.Background())
	if !api.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}

	if !manager.HandleAPIError(err) {
		t.Fatal("expected forced logout")
	}
	if manager.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", manager.State())
	}
	if _, ok, _ := store.Get(storage.KeyToken); ok {
		t.Error("expected token cleared")
	}

	// Further unauthenticated errors are no-ops once logged out.
	if manager.HandleAPIError(err) {
		t.Error("expected no second forced logout")
	}
}

func TestManager_HandleAPIError_IgnoresOtherFailures(t *testing.T) {
	server := authServer(t, "tok-valid")
	defer server.Close()

	store := newMemStore()
	manager := NewManager(api.NewClient(server.URL), store, nil)

	if err := manager.Login(context.Background(), "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("login: %v", err)
	}

	notFound := &api.Error{Kind: api.KindNotFound, StatusCode: 404, Message: "Customer not found"}
	if manager.HandleAPIError(notFound) {
		t.Error("not-found must not force logout")
	}
	if manager.State() != StateAuthenticated {
		t.Errorf("expected still authenticated, got %s", manager.State())
	}
}
