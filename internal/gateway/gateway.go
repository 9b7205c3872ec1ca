// Package gateway is the single HTTP path to the Fineract platform. Every
// outbound call picks up the current tenant and auth headers at dispatch time,
// and every 401 response raises the unauthorized broadcast before the error
// reaches the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BenyThomas/mtm-sub002/internal/gateway/metrics"
	dErrors "github.com/BenyThomas/mtm-sub002/pkg/domain-errors"
)

const (
	// TenantHeader is the platform's tenant scoping header, sent on every request.
	TenantHeader = "Fineract-Platform-TenantId"

	// APIPath is the platform's versioned API prefix, appended to whichever
	// base address is in effect.
	APIPath = "/fineract-provider/api/v1"

	// DefaultTenant is the tenant of last resort when neither a stored
	// override nor an environment default exists.
	DefaultTenant = "default"

	// defaultProxyBase targets the local dev proxy when no external API base
	// is configured, so the same binary works against a directly reachable
	// instance or a development setup without code changes.
	defaultProxyBase = "http://localhost:8443"

	defaultTimeout = 30 * time.Second
)

// CredentialSource supplies the current token and tenant override. Both are
// consulted fresh on every request, never cached across calls.
type CredentialSource interface {
	Token() (string, bool)
	Tenant() (string, bool)
}

// Gateway is the shared client for all platform calls.
type Gateway struct {
	client        *http.Client
	base          string
	defaultTenant string
	creds         CredentialSource
	notifier      *Notifier
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithBaseURL points the Gateway at an externally reachable platform
// instance. The versioned API path is appended. Empty keeps the dev proxy
// fallback.
func WithBaseURL(base string) Option {
	return func(g *Gateway) {
		if base != "" {
			g.base = strings.TrimRight(base, "/") + APIPath
		}
	}
}

// WithHTTPClient swaps the underlying client. Mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// WithTimeout sets the fixed per-request ceiling.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.client.Timeout = d
		}
	}
}

// WithDefaultTenant sets the environment-default tenant consulted when the
// store holds no override.
func WithDefaultTenant(tenant string) Option {
	return func(g *Gateway) {
		if tenant != "" {
			g.defaultTenant = tenant
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithTracer injects a pre-configured tracer. Defaults to the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = t
	}
}

// New builds a Gateway over the given credential source.
func New(creds CredentialSource, opts ...Option) *Gateway {
	g := &Gateway{
		client:        &http.Client{Timeout: defaultTimeout},
		base:          defaultProxyBase + APIPath,
		defaultTenant: DefaultTenant,
		creds:         creds,
		notifier:      NewNotifier(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer("finadmin/gateway")
	}
	return g
}

// OnUnauthorized registers fn with the unauthorized broadcast and returns a
// cancel function. The broadcast fires exactly once per response carrying
// HTTP 401; timeouts and transport failures never fire it.
func (g *Gateway) OnUnauthorized(fn func()) (cancel func()) {
	return g.notifier.Subscribe(fn)
}

// BaseURL returns the resolved base address including the API path.
func (g *Gateway) BaseURL() string {
	return g.base
}

// Do sends one API request. The tenant header and, when a token is stored,
// the Basic authorization header are computed from the credential source at
// this moment; a credential change is visible on the very next call. On 2xx
// the body is decoded into out when out is non-nil. Non-2xx statuses and
// transport failures come back as domain errors; the caller always sees the
// original failure even when the unauthorized broadcast also fired.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	requestID := uuid.New().String()

	ctx, span := g.tracer.Start(ctx, "gateway.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("request.id", requestID),
	))

	status, err := g.do(ctx, method, path, requestID, body, out)

	if g.metrics != nil {
		g.metrics.ObserveRequest(method, strconv.Itoa(status), start)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	g.logger.DebugContext(ctx, "platform request",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	return err
}

func (g *Gateway) do(ctx context.Context, method, path, requestID string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "could not encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base+path, reader)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, "could not build request")
	}
	g.intercept(req, requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, dErrors.Wrap(err, dErrors.CodeNetwork, "could not read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if g.metrics != nil {
			g.metrics.IncrementUnauthorized()
		}
		g.logger.WarnContext(ctx, "unauthorized platform response",
			"method", method,
			"path", path,
			"request_id", requestID,
		)
		g.notifier.Emit()
		return resp.StatusCode, dErrors.New(dErrors.CodeUnauthorized,
			envelopeMessage(payload, "Session is no longer valid"))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		code := dErrors.CodeAPI
		if resp.StatusCode == http.StatusNotFound {
			code = dErrors.CodeNotFound
		}
		return resp.StatusCode, dErrors.New(code,
			envelopeMessage(payload, fmt.Sprintf("platform returned status %d", resp.StatusCode)))
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return resp.StatusCode, dErrors.Wrap(err, dErrors.CodeInternal, "could not decode response body")
		}
	}
	return resp.StatusCode, nil
}

// intercept attaches the per-call headers. The credential source is read here,
// at dispatch time, so concurrent in-flight calls may legitimately carry
// different tenant or auth headers when a login, logout, or tenant switch
// happens between their dispatches.
func (g *Gateway) intercept(req *http.Request, requestID string) {
	tenant, ok := g.creds.Tenant()
	if !ok || tenant == "" {
		tenant = g.defaultTenant
	}
	req.Header.Set(TenantHeader, tenant)

	if token, ok := g.creds.Token(); ok && token != "" {
		req.Header.Set("Authorization", "Basic "+token)
	} else {
		req.Header.Del("Authorization")
	}

	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

func transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeNetwork, "request failed")
}

// errorEnvelope is the platform's uniform error shape. Only the first
// defaultUserMessage is surfaced; everything else is opaque.
type errorEnvelope struct {
	DefaultUserMessage string `json:"defaultUserMessage"`
	Errors             []struct {
		DefaultUserMessage string `json:"defaultUserMessage"`
	} `json:"errors"`
}

func envelopeMessage(payload []byte, fallback string) string {
	var env errorEnvelope
	if err := json.Unmarshal(payload, &env); err == nil {
		if len(env.Errors) > 0 && env.Errors[0].DefaultUserMessage != "" {
			return env.Errors[0].DefaultUserMessage
		}
		if env.DefaultUserMessage != "" {
			return env.DefaultUserMessage
		}
	}
	return fallback
}
