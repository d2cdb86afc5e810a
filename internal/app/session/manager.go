// Package session owns who is signed in to the client and whether protected
// views may render.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/common/security"
	"brewalgo_client/internal/domain/model"
	"brewalgo_client/internal/platform/kvstore"

	"go.uber.org/zap"
)

// Storage keys. The credential is stored raw, the identity as JSON.
const (
	CredentialKey = "token"
	IdentityKey   = "user"
)

type Status int

const (
	StatusInitializing Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is a consistent read of the manager's three fields.
type Snapshot struct {
	Status     Status
	Credential string
	Identity   *model.User
}

type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
}

type Manager struct {
	store  kvstore.Store
	api    AuthAPI
	logger *zap.Logger
	now    func() time.Time

	// storeMu orders storage writes with the state swap that follows them.
	// Readers only take mu and are never held up by storage I/O.
	storeMu sync.Mutex

	mu          sync.RWMutex
	status      Status
	credential  string
	identity    *model.User
	ready       chan struct{}
	readyClosed bool
}

func NewManager(store kvstore.Store, api AuthAPI, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		api:    api,
		logger: logger,
		now:    time.Now,
		status: StatusInitializing,
		ready:  make(chan struct{}),
	}
}

// Initialize restores the session from storage. Anything short of a
// decodable identity next to a live credential counts as signed out, and
// leftovers are cleared, corrupt ones included. The returned error reports
// an unreadable store and is diagnostic only: the manager has resolved to
// Anonymous either way.
func (m *Manager) Initialize(ctx context.Context) error {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	if m.Status() != StatusInitializing {
		// already resolved by an earlier Initialize, a login or a logout
		m.logger.Debug("session already resolved, skipping restore")
		return nil
	}

	credential, identity, clear, readErr := m.restore(ctx)
	if clear {
		if err := m.store.Delete(ctx, CredentialKey, IdentityKey); err != nil {
			m.logger.Warn("failed to clear stale session", zap.Error(err))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusInitializing {
		return nil
	}
	if identity != nil {
		m.setLocked(StatusAuthenticated, credential, identity)
		m.logger.Info("session restored", zap.Int64("user_id", identity.ID))
	} else {
		m.setLocked(StatusAnonymous, "", nil)
	}
	return readErr
}

func (m *Manager) restore(ctx context.Context) (string, *model.User, bool, error) {
	vals, err := m.store.GetMany(ctx, CredentialKey, IdentityKey)
	if errors.Is(err, kvstore.ErrCorrupt) {
		// clearing the keys is the recovery
		m.logger.Warn("stored session is corrupt, clearing", zap.Error(err))
		return "", nil, true, nil
	}
	if err != nil {
		m.logger.Warn("failed to read stored session", zap.Error(err))
		return "", nil, false, err
	}

	credential, hasCred := vals[CredentialKey]
	rawIdentity, hasIdentity := vals[IdentityKey]
	switch {
	case !hasCred && !hasIdentity:
		return "", nil, false, nil
	case !hasCred || !hasIdentity || credential == "":
		m.logger.Info("stored session is incomplete, clearing")
		return "", nil, true, nil
	}

	var identity *model.User
	if err := json.Unmarshal([]byte(rawIdentity), &identity); err != nil || identity == nil {
		m.logger.Info("stored identity is unreadable, clearing", zap.Error(err))
		return "", nil, true, nil
	}
	if security.TokenExpired(credential, m.now()) {
		m.logger.Info("stored credential has expired, clearing")
		return "", nil, true, nil
	}
	return credential, identity, false, nil
}

// Login authenticates with the backend. On any failure the current state
// is left exactly as it was.
func (m *Manager) Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	if strings.TrimSpace(usernameOrEmail) == "" || password == "" {
		return nil, &common.ValidationError{Message: "Please enter your username and password"}
	}

	resp, err := m.api.Login(ctx, model.LoginRequest{Username: strings.TrimSpace(usernameOrEmail), Password: password})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp)
}

func (m *Manager) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, &common.ValidationError{Message: "Please fill in all fields"}
	}
	if !strings.Contains(email, "@") {
		return nil, &common.ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}

	resp, err := m.api.Register(ctx, model.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp)
}

func (m *Manager) establish(ctx context.Context, resp *model.AuthResponse) (*model.User, error) {
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, common.ErrMalformedResponse
	}
	identity := resp.User.Clone()

	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	if err := m.persist(ctx, resp.Token, identity); err != nil {
		// the session still works for this process, it just won't survive a restart
		m.logger.Error("failed to persist session", zap.Error(err))
	}

	m.mu.Lock()
	m.setLocked(StatusAuthenticated, resp.Token, identity)
	m.mu.Unlock()

	m.logger.Info("signed in", zap.Int64("user_id", identity.ID), zap.String("username", identity.Username))
	return identity.Clone(), nil
}

func (m *Manager) persist(ctx context.Context, credential string, identity *model.User) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return m.store.SetMany(ctx, map[string]string{
		CredentialKey: credential,
		IdentityKey:   string(raw),
	})
}

// Logout never contacts the backend and always succeeds locally.
func (m *Manager) Logout() {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Delete(ctx, CredentialKey, IdentityKey); err != nil {
		m.logger.Error("failed to clear stored session", zap.Error(err))
	}

	m.mu.Lock()
	m.setLocked(StatusAnonymous, "", nil)
	m.mu.Unlock()

	m.logger.Info("signed out")
}

// UpdateIdentity replaces the identity snapshot with fresher data for the
// same user, e.g. after a profile reload. Other users are ignored.
func (m *Manager) UpdateIdentity(ctx context.Context, u *model.User) {
	if u == nil {
		return
	}
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	m.mu.RLock()
	ok := m.status == StatusAuthenticated && m.identity != nil && m.identity.ID == u.ID
	credential := m.credential
	m.mu.RUnlock()
	if !ok {
		return
	}

	identity := u.Clone()
	if err := m.persist(ctx, credential, identity); err != nil {
		m.logger.Warn("failed to persist refreshed identity", zap.Error(err))
	}
	m.mu.Lock()
	if m.status == StatusAuthenticated && m.credential == credential {
		m.identity = identity
	}
	m.mu.Unlock()
}

// Teardown forgets the in-memory session. Storage is left alone so a later
// Initialize can restore it.
func (m *Manager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = StatusInitializing
	m.credential = ""
	m.identity = nil
	if m.readyClosed {
		m.ready = make(chan struct{})
		m.readyClosed = false
	}
}

func (m *Manager) CurrentIdentity() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity.Clone()
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Status: m.status, Credential: m.credential, Identity: m.identity.Clone()}
}

// Token is the bearer credential for outgoing requests, "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential
}

// Ready is closed once the status has left Initializing.
func (m *Manager) Ready() <-chan struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// setLocked keeps status, credential and identity in step. Callers hold mu.
func (m *Manager) setLocked(status Status, credential string, identity *model.User) {
	m.status = status
	m.credential = credential
	m.identity = identity
	if status != StatusInitializing && !m.readyClosed {
		close(m.ready)
		m.readyClosed = true
	}
}
