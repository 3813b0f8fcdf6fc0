package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/metrics"
)

const (
	LoginPath         = "/api/v1/user/login"
	RegisterPath      = "/api/v1/user/register"
	UpdateDetailsPath = "/api/v1/user/update-details"
	OutreachPath      = "/api/v1/outreach/"
	MinistryPath      = "/api/v1/ministry"
	MediaPath         = "/api/v1/media"

	RequestIDHeader = "X-Request-ID"

	DefaultTimeout = 10 * time.Second

	maxBodySize = 4 << 20
)

const (
	loginFailed         = "Login failed"
	registrationFailed  = "Registration failed"
	profileUpdateFailed = "Profile update failed"
)

// HTTPClient implements Client over the backend's JSON API.
type HTTPClient struct {
	baseURL  *url.URL
	http     *http.Client
	timeout  time.Duration
	limiter  *rate.Limiter
	recorder metrics.Recorder
	logger   logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithRateLimit caps outgoing requests per second. rps <= 0 means no limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(c *HTTPClient) { c.recorder = r }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient returns a client rooted at baseURL, e.g.
// "http://192.168.0.195:8080".
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: want http(s)://host[:port]", baseURL)
	}

	c := &HTTPClient{
		baseURL:  u,
		http:     &http.Client{},
		timeout:  DefaultTimeout,
		limiter:  rate.NewLimiter(rate.Inf, 0),
		recorder: metrics.Nop(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "api")
	return c, nil
}

// envelope is the union of every response body the backend sends.
type envelope struct {
	Token       string             `json:"token"`
	User        *models.User       `json:"user"`
	UserDetails *models.User       `json:"user-details"`
	Data        *models.User       `json:"data"`
	Message     string             `json:"message"`
	Outreaches  []models.Outreach  `json:"outreaches"`
	Ministries  []models.Ministry  `json:"ministries"`
	Media       []models.MediaItem `json:"media"`
}

func (e *envelope) user() *models.User {
	switch {
	case e.User != nil:
		return e.User
	case e.UserDetails != nil:
		return e.UserDetails
	}
	return e.Data
}

type response struct {
	status    int
	body      envelope
	decodeErr error // body missing or not JSON
}

func (r *response) ok() bool { return r.status >= 200 && r.status < 300 }

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	resp, err := c.do(ctx, "login", http.MethodPost, LoginPath, "", req)
	if err != nil {
		return nil, err
	}
	return sessionFrom(resp, loginFailed)
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	resp, err := c.do(ctx, "register", http.MethodPost, RegisterPath, "", req)
	if err != nil {
		return nil, err
	}
	return sessionFrom(resp, registrationFailed)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdate) (*models.User, error) {
	resp, err := c.do(ctx, "update_details", http.MethodPost, UpdateDetailsPath, token, req)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, authError(resp, profileUpdateFailed)
	}
	if resp.decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, resp.decodeErr)
	}
	u := resp.body.user()
	if u == nil {
		return nil, fmt.Errorf("%w: no user in update response", ErrInvalidResponse)
	}
	return u, nil
}

func (c *HTTPClient) ListOutreaches(ctx context.Context) ([]models.Outreach, error) {
	resp, err := c.list(ctx, "outreaches", OutreachPath)
	if err != nil {
		return nil, err
	}
	return resp.body.Outreaches, nil
}

func (c *HTTPClient) ListMinistries(ctx context.Context) ([]models.Ministry, error) {
	resp, err := c.list(ctx, "ministries", MinistryPath)
	if err != nil {
		return nil, err
	}
	return resp.body.Ministries, nil
}

func (c *HTTPClient) ListMedia(ctx context.Context) ([]models.MediaItem, error) {
	resp, err := c.list(ctx, "media", MediaPath)
	if err != nil {
		return nil, err
	}
	return resp.body.Media, nil
}

func (c *HTTPClient) list(ctx context.Context, op, path string) (*response, error) {
	resp, err := c.do(ctx, op, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &StatusError{Op: op, StatusCode: resp.status, Message: resp.body.Message}
	}
	if resp.decodeErr != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, resp.decodeErr)
	}
	return resp, nil
}

func sessionFrom(resp *response, fallback string) (*models.Session, error) {
	if !resp.ok() {
		return nil, authError(resp, fallback)
	}
	if resp.decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, resp.decodeErr)
	}
	s := &models.Session{Token: resp.body.Token, User: resp.body.user()}
	if !s.Complete() {
		return nil, fmt.Errorf("%w: token or user missing", ErrInvalidResponse)
	}
	return s, nil
}

func authError(resp *response, fallback string) error {
	msg := strings.TrimSpace(resp.body.Message)
	if msg == "" {
		msg = fallback
	}
	return &AuthError{StatusCode: resp.status, Message: msg}
}

// do performs one round trip. Only transport failures are returned as
// errors; any HTTP status is handed back for the caller to judge.
func (c *HTTPClient) do(ctx context.Context, op, method, path, token string, body any) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.mapError(op, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		c.recorder.RecordRequest(op, 0, time.Since(start))
		c.logger.Warn(ctx, "request failed", "op", op, "request_id", requestID, "error", err)
		return nil, c.mapError(op, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.recorder.RecordRequest(op, httpResp.StatusCode, elapsed)
	if err != nil {
		return nil, c.mapError(op, err)
	}

	c.logger.Debug(ctx, "request done",
		"op", op, "method", method, "path", path, "status", httpResp.StatusCode,
		"request_id", requestID, "duration", elapsed)

	resp := &response{status: httpResp.StatusCode}
	if len(bytes.TrimSpace(raw)) > 0 {
		resp.decodeErr = json.Unmarshal(raw, &resp.body)
	} else {
		resp.decodeErr = errors.New("empty body")
	}
	return resp, nil
}

func (c *HTTPClient) mapError(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}
