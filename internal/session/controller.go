// Package session keeps the application's authenticated/anonymous state
// consistent with the credential store and the gateway's unauthorized
// broadcast. It is the only writer of the credential store.
package session

//go:generate mockgen -source=controller.go -destination=mocks/mocks.go -package=mocks API

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/BenyThomas/mtm-sub002/internal/credstore"
	dErrors "github.com/BenyThomas/mtm-sub002/pkg/domain-errors"
)

const (
	authenticationPath = "/authentication"
	fallbackTenant     = "default"

	genericLoginMessage = "Invalid username or password"
)

// API is the slice of the gateway the controller needs: one request method
// and the unauthorized subscription.
type API interface {
	Do(ctx context.Context, method, path string, body, out any) error
	OnUnauthorized(fn func()) (cancel func())
}

// Controller exposes login, logout, and tenant switching, and owns the
// in-memory session state. All state is mutex-protected; the unauthorized
// handler may run from any goroutine with an in-flight call.
type Controller struct {
	api    API
	store  *credstore.Store
	logger *slog.Logger

	mu            sync.Mutex
	authenticated bool
	checking      bool
	tenant        string
	user          *UserProfile

	cancel    func()
	onExpired func()
}

// Option configures the Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithDefaultTenant sets the environment default consulted when the store
// holds no tenant override.
func WithDefaultTenant(tenant string) Option {
	return func(c *Controller) {
		if t := strings.TrimSpace(tenant); t != "" {
			c.tenant = t
		}
	}
}

// WithSessionExpiredHandler registers the side effect run when the
// unauthorized broadcast forces the session down: the UI's redirect plus
// notification, the CLI's printed notice.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Controller) {
		c.onExpired = fn
	}
}

// New restores session state from whatever the store holds. A present token
// means authenticated, optimistically: no verification round-trip is made,
// and an expired token is only discovered when the first real call returns
// 401. The controller subscribes to the unauthorized broadcast for its whole
// lifetime; call Close to detach it.
func New(store *credstore.Store, api API, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		store:  store,
		tenant: fallbackTenant,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if tenant, ok := store.Tenant(); ok && tenant != "" {
		c.tenant = tenant
	}
	if store.HasCredential() {
		c.authenticated = true
		c.user = c.cachedProfile()
	}

	c.cancel = api.OnUnauthorized(c.handleUnauthorized)
	return c
}

// Close detaches the controller from the unauthorized broadcast.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// State returns a snapshot of the current session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Authenticated: c.authenticated,
		Checking:      c.checking,
		Tenant:        c.tenant,
		User:          c.user,
	}
}

// Login authenticates against the platform. remember selects the durable
// scope; otherwise the credential lives only for this process. An optional
// tenant overrides the session tenant for this and subsequent requests. Any
// existing credential is cleared first, so the authentication call itself
// goes out with the tenant header only.
func (c *Controller) Login(ctx context.Context, username, password string, remember bool, tenant string) error {
	if username == "" || password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "username and password are required")
	}

	c.mu.Lock()
	if c.checking {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeInvalidInput, "a login is already in progress")
	}
	c.checking = true
	effective := c.tenant
	if t := strings.TrimSpace(tenant); t != "" {
		effective = t
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.checking = false
		c.mu.Unlock()
	}()

	c.store.ClearAll()
	c.persistTenant(effective)
	c.mu.Lock()
	c.tenant = effective
	c.mu.Unlock()

	var resp authenticationResponse
	err := c.api.Do(ctx, http.MethodPost, authenticationPath, &authenticationRequest{
		Username:         username,
		Password:         password,
		ReturnClientList: false,
	}, &resp)
	if err != nil {
		c.store.ClearAll()
		return loginError(err)
	}

	// The platform can answer 200 with authenticated=false or a missing key;
	// both are login failures.
	if !resp.Authenticated || resp.Base64EncodedAuthenticationKey == "" {
		c.store.ClearAll()
		return dErrors.New(dErrors.CodeLoginFailed, genericLoginMessage)
	}

	scope := credstore.Ephemeral
	if remember {
		scope = credstore.Durable
	}
	if err := c.store.SetCredential(scope, credstore.Credential{
		Token:    resp.Base64EncodedAuthenticationKey,
		Username: resp.Username,
	}); err != nil {
		c.store.ClearAll()
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not persist credential")
	}

	// SetCredential wipes both scopes first, so the tenant and cached profile
	// go back in afterwards. Both are display/routing data; failures here are
	// logged, not fatal.
	c.persistTenant(effective)
	profile := resp.profile()
	c.cacheProfile(profile)

	c.mu.Lock()
	c.authenticated = true
	c.user = profile
	c.mu.Unlock()

	c.logger.Info("login succeeded", "username", resp.Username, "tenant", effective)
	return nil
}

// Logout tears the session down locally. The Basic-style key needs no
// server-side invalidation call. Idempotent.
func (c *Controller) Logout() {
	c.store.ClearAll()
	c.mu.Lock()
	c.authenticated = false
	c.checking = false
	c.user = nil
	c.mu.Unlock()
}

// SwitchTenant trims and persists the tenant; an empty value maps back to
// "default". Authentication state is untouched: requests dispatched after
// this call carry the new tenant, in-flight ones keep the old.
func (c *Controller) SwitchTenant(tenant string) string {
	t := strings.TrimSpace(tenant)
	if t == "" {
		t = fallbackTenant
	}
	c.persistTenant(t)
	c.mu.Lock()
	c.tenant = t
	c.mu.Unlock()
	return t
}

// handleUnauthorized is the broadcast subscriber: logout plus the injected
// side effect. Several concurrent 401s may land here back to back; every
// transition it makes is idempotent.
func (c *Controller) handleUnauthorized() {
	c.mu.Lock()
	wasAuthenticated := c.authenticated
	c.mu.Unlock()

	c.Logout()
	if wasAuthenticated {
		c.logger.Warn("session expired, credentials cleared")
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}

func (c *Controller) persistTenant(tenant string) {
	if err := c.store.Write(credstore.Durable, credstore.KeyTenant, tenant); err != nil {
		c.logger.Warn("could not persist tenant", "tenant", tenant, "error", err)
	}
}

func (c *Controller) cacheProfile(p *UserProfile) {
	encoded, err := json.Marshal(p)
	if err == nil {
		err = c.store.Write(credstore.Durable, credstore.KeyProfile, string(encoded))
	}
	if err != nil {
		c.logger.Warn("could not cache user profile", "error", err)
	}
}

func (c *Controller) cachedProfile() *UserProfile {
	raw, ok := c.store.Read(credstore.KeyProfile)
	if !ok {
		return nil
	}
	var p UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}

// loginError shapes a failed authentication call for display: server-provided
// messages pass through, everything without one becomes the generic message.
// Transport failures keep their own code so the caller can distinguish an
// unreachable platform from rejected credentials.
func loginError(err error) error {
	if dErrors.HasCode(err, dErrors.CodeTimeout) || dErrors.HasCode(err, dErrors.CodeNetwork) {
		return err
	}
	msg := genericLoginMessage
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		msg = domainErr.Message
	}
	return &dErrors.Error{Code: dErrors.CodeLoginFailed, Message: msg, Err: err}
}
