package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vmorozov/customer-hub/internal/client/api"
	"github.com/vmorozov/customer-hub/internal/client/storage"
)

type State int

const (
	StateUnknown State = iota
	StateLoggingIn
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateLoggingIn:
		return "logging_in"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "invalid"
	}
}

// Event describes one state transition. Err carries the classified failure
// that caused the transition, if any.
type Event struct {
	State State
	User  api.User
	Err   error
}

type Observer func(Event)

// Manager owns the client session: the persisted token and user, the current
// state, and the api client's bearer token. All transitions flow through the
// observer, including forced logout on an unauthenticated response.
type Manager struct {
	client   *api.Client
	store    storage.Store
	observer Observer

	mu    sync.Mutex
	state State
	user  api.User
}

func NewManager(client *api.Client, store storage.Store, observer Observer) *Manager {
	if observer == nil {
		observer = func(Event) {}
	}
	return &Manager{
		client:   client,
		store:    store,
		observer: observer,
		state:    StateUnknown,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the signed-in user, if the session is authenticated.
func (m *Manager) User() (api.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.state == StateAuthenticated
}

// Bootstrap restores a persisted session. A stored token is only trusted
// after the server confirms it still resolves to a user; any failure clears
// the persisted session.
func (m *Manager) Bootstrap(ctx context.Context) error {
	token, ok, err := m.store.Get(storage.KeyToken)
	if err != nil {
		m.transition(StateUnauthenticated, api.User{}, err)
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok || token == "" {
		m.transition(StateUnauthenticated, api.User{}, nil)
		return nil
	}

	m.client.SetToken(token)
	user, err := m.client.Me(ctx)
	if err != nil {
		m.clearPersisted()
		m.client.ClearToken()
		m.transition(StateUnauthenticated, api.User{}, err)
		return err
	}

	m.persistUser(user)
	m.transition(StateAuthenticated, user, nil)
	return nil
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.transition(StateLoggingIn, api.User{}, nil)

	result, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.transition(StateUnauthenticated, api.User{}, err)
		return err
	}

	return m.establish(result)
}

func (m *Manager) Register(ctx context.Context, email, password string) error {
	m.transition(StateLoggingIn, api.User{}, nil)

	result, err := m.client.Register(ctx, email, password)
	if err != nil {
		m.transition(StateUnauthenticated, api.User{}, err)
		return err
	}

	return m.establish(result)
}

// Logout clears the persisted session unconditionally.
func (m *Manager) Logout() {
	m.clearPersisted()
	m.client.ClearToken()
	m.transition(StateUnauthenticated, api.User{}, nil)
}

// HandleAPIError inspects a failure from any non-auth call and forces logout
// when the server no longer accepts the session token. It reports whether a
// logout happened.
func (m *Manager) HandleAPIError(err error) bool {
	if err == nil || !api.IsUnauthenticated(err) {
		return false
	}

	m.mu.Lock()
	active := m.state == StateAuthenticated
	m.mu.Unlock()
	if !active {
		return false
	}

	m.clearPersisted()
	m.client.ClearToken()
	m.transition(StateUnauthenticated, api.User{}, err)
	return true
}

func (m *Manager) establish(result api.AuthResult) error {
	m.client.SetToken(result.Token)

	if err := m.store.Set(storage.KeyToken, result.Token); err != nil {
		m.client.ClearToken()
		m.transition(StateUnauthenticated, api.User{}, err)
		return fmt.Errorf("persist session: %w", err)
	}
	m.persistUser(result.User)

	m.transition(StateAuthenticated, result.User, nil)
	return nil
}

func (m *Manager) persistUser(user api.User) {
	encoded, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = m.store.Set(storage.KeyUser, string(encoded))
}

func (m *Manager) clearPersisted() {
	_ = m.store.Delete(storage.KeyToken)
	_ = m.store.Delete(storage.KeyUser)
}

func (m *Manager) transition(state State, user api.User, err error) {
	m.mu.Lock()
	m.state = state
	m.user = user
	m.mu.Unlock()

	m.observer(Event{State: state, User: user, Err: err})
}
