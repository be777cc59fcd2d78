package apiimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/pkg/config"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	"github.com/minhnghia2k3/lumigram/pkg/retry"
	"go.uber.org/fx"
)

type ApiImpl struct {
	BaseURL string
	HTTP    *http.Client
	Session session.Store
	Logger  logger.Logger

	mu             sync.Mutex
	onForcedLogout api.ForcedLogoutFunc
}

type Opts struct {
	fx.In

	Config  *config.Config
	Session session.Store
	Logger  logger.Logger
}

func New(opts Opts) *ApiImpl {
	return &ApiImpl{
		BaseURL: opts.Config.API.BaseURL,
		HTTP:    &http.Client{Timeout: opts.Config.API.RequestTimeout},
		Session: opts.Session,
		Logger:  opts.Logger,
	}
}

var _ api.Client = (*ApiImpl)(nil)

func (c *ApiImpl) OnForcedLogout(fn api.ForcedLogoutFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onForcedLogout = fn
}

// serverError is the error payload shape the backend uses. Some endpoints
// fill "message", others "detail"; "message" wins when both are present.
type serverError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e serverError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}

// do issues one request. The bearer token is read from the session store at
// call time; an absent credential short-circuits without any network I/O.
func (c *ApiImpl) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var token string
	if authed {
		var err error
		token, err = c.Session.Token()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.ErrNotAuthenticated, "no access token found, please log in")
		}
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &pkgerrors.Error{
			Message: "Something went wrong. Please try again.",
			Err:     fmt.Errorf("%w: %v", pkgerrors.ErrServiceUnavailable, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout()
		return pkgerrors.Wrap(pkgerrors.ErrUnauthorized, "session expired, please log in again")
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(err, "failed to decode response")
		}
	}
	return nil
}

// get issues an idempotent read with retry on transient failures.
// Authentication and client errors are not retried.
func (c *ApiImpl) get(ctx context.Context, path string, query url.Values, out any) error {
	return retry.Do(ctx, c.Logger, "GET "+path, func() error {
		err := c.do(ctx, http.MethodGet, path, query, nil, out, true)
		if err != nil && !pkgerrors.IsServiceUnavailable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, retry.DefaultConfig())
}

func (c *ApiImpl) statusError(resp *http.Response) error {
	var payload serverError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &payload)

	msg := payload.text()
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}

	var cause error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		cause = pkgerrors.ErrNotFound
	case resp.StatusCode >= 500:
		cause = pkgerrors.ErrServiceUnavailable
	default:
		cause = pkgerrors.ErrInvalidInput
	}

	return &pkgerrors.Error{
		Code:    fmt.Sprintf("http_%d", resp.StatusCode),
		Message: msg,
		Err:     cause,
	}
}

func (c *ApiImpl) forceLogout() {
	if err := c.Session.Clear(); err != nil {
		c.Logger.Error("Failed to clear session after 401", "error", err)
	}
	c.mu.Lock()
	fn := c.onForcedLogout
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
