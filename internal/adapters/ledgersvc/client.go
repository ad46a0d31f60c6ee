package ledgersvc

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
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/metrics"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultReadRetries = 3
	maxResponseBytes   = 1 << 20
)

// Client talks to the ledger service over HTTP/JSON.
// GET requests are retried on connection errors and 5xx responses; mutations are sent exactly once.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *retryablehttp.Client
	now     func() time.Time
}

// Option configures the Client
type Option func(*Client)

// WithTimeout bounds every call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithReadRetries sets how many times a failed GET is retried.
func WithReadRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.http.RetryMax = n
		}
	}
}

// WithRetryWait sets the backoff bounds between GET retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = minWait
		c.http.RetryWaitMax = maxWait
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http.HTTPClient = hc
	}
}

// WithLogger routes retry logging to logger. A nil logger keeps retries silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.http.Logger = logger
		}
	}
}

// NewClient creates a ledger service client. apiKey is sent as X-API-Key when not empty.
func NewClient(baseURL, apiKey string, options ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = defaultReadRetries
	rc.Logger = nil
	// hand the last response back instead of a "giving up" error so its status can be classified
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: defaultTimeout,
		http:    rc,
		now:     time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portssvc.LedgerServiceClient = (*Client)(nil)

// call describes one request to the ledger service.
type call struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	token     string
}

func (c *Client) ApproveTransaction(ctx context.Context, transactionID, approverID string) domain.RemoteResult {
	_, res := c.do(ctx, call{
		operation: "approve",
		method:    http.MethodPost,
		path:      "/api/v1/transactions/" + url.PathEscape(transactionID) + "/approve",
		body:      approveRequest{ApprovedBy: approverID, ApprovedAt: c.now().UTC().Format(time.RFC3339)},
	})
	return res
}

func (c *Client) RejectTransaction(ctx context.Context, transactionID, rejecterID, reason string) domain.RemoteResult {
	_, res := c.do(ctx, call{
		operation: "reject",
		method:    http.MethodPost,
		path:      "/api/v1/transactions/" + url.PathEscape(transactionID) + "/reject",
		body:      rejectRequest{RejectedBy: rejecterID, RejectedAt: c.now().UTC().Format(time.RFC3339), Reason: reason},
	})
	return res
}

func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*domain.RemoteTransaction, domain.RemoteResult) {
	data, res := c.do(ctx, call{
		operation: "get_transaction",
		method:    http.MethodGet,
		path:      "/api/v1/transactions/" + url.PathEscape(transactionID),
	})
	if res.StatusCode == http.StatusNotFound {
		return nil, domain.RemoteResult{Outcome: domain.RemoteOK, StatusCode: res.StatusCode, Message: res.Message}
	}
	if !res.OK() {
		return nil, res
	}
	var rt remoteTransaction
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, invalidResponse(res, err)
	}
	txn := rt.toDomain()
	return &txn, res
}

func (c *Client) GetTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.RemoteTransaction, domain.RemoteResult) {
	query := url.Values{}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.Type != nil {
		query.Set("type", string(*filter.Type))
	}
	if filter.UserID != nil {
		query.Set("user_id", *filter.UserID)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	data, res := c.do(ctx, call{
		operation: "list_transactions",
		method:    http.MethodGet,
		path:      "/api/v1/transactions",
		query:     query,
	})
	if !res.OK() {
		return nil, res
	}
	var rts []remoteTransaction
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &rts); err != nil {
			return nil, invalidResponse(res, err)
		}
	}
	txns := make([]domain.RemoteTransaction, len(rts))
	for i, rt := range rts {
		txns[i] = rt.toDomain()
	}
	return txns, res
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.LedgerSession, domain.RemoteResult) {
	data, res := c.do(ctx, call{
		operation: "login",
		method:    http.MethodPost,
		path:      "/api/v1/auth/login",
		body:      loginRequest{Email: email, Password: password},
	})
	return decodeSession(data, res)
}

func (c *Client) Register(ctx context.Context, name, email, password, phone string) (*domain.LedgerSession, domain.RemoteResult) {
	data, res := c.do(ctx, call{
		operation: "register",
		method:    http.MethodPost,
		path:      "/api/v1/auth/register",
		body:      registerRequest{Name: name, Email: email, Password: password, Phone: phone},
	})
	return decodeSession(data, res)
}

func (c *Client) VerifyToken(ctx context.Context, token string) (*domain.LedgerUser, domain.RemoteResult) {
	data, res := c.do(ctx, call{
		operation: "verify_token",
		method:    http.MethodGet,
		path:      "/api/v1/verify-token",
		token:     token,
	})
	if !res.OK() {
		return nil, res
	}
	user, err := decodeUser(data)
	if err != nil {
		return nil, invalidResponse(res, err)
	}
	return &user, res
}

func (c *Client) Logout(ctx context.Context, token string) domain.RemoteResult {
	_, res := c.do(ctx, call{
		operation: "logout",
		method:    http.MethodPost,
		path:      "/api/v1/logout",
		token:     token,
	})
	return res
}

func (c *Client) GetUserBalance(ctx context.Context, token string) (*decimal.Decimal, domain.RemoteResult) {
	data, res := c.do(ctx, call{
		operation: "balance",
		method:    http.MethodGet,
		path:      "/api/v1/user/balance",
		token:     token,
	})
	if !res.OK() {
		return nil, res
	}
	var bd balanceData
	if err := json.Unmarshal(data, &bd); err != nil {
		return nil, invalidResponse(res, err)
	}
	return &bd.Balance, res
}

// Health calls GET /health, which does not use the response envelope.
func (c *Client) Health(ctx context.Context) domain.LedgerHealth {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return domain.LedgerHealth{Status: "unreachable", Result: domain.RemoteResult{Outcome: domain.RemoteUnavailable, Message: err.Error()}}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.HTTPClient.Do(req)
	if err != nil {
		res := transportFailure(ctx, err)
		observe("health", res, start)
		return domain.LedgerHealth{Status: "unreachable", Result: res}
	}
	defer resp.Body.Close()

	res := domain.RemoteResult{Outcome: domain.RemoteOK, StatusCode: resp.StatusCode}
	var hb healthBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&hb)
	if resp.StatusCode >= http.StatusMultipleChoices {
		res.Outcome = domain.RemoteUnavailable
		res.Message = http.StatusText(resp.StatusCode)
		if hb.Status == "" {
			hb.Status = "unhealthy"
		}
	}
	if hb.Status == "" {
		hb.Status = "ok"
	}
	observe("health", res, start)
	return domain.LedgerHealth{Status: hb.Status, Result: res}
}

// do sends one request and classifies the outcome. It returns the envelope data on success.
func (c *Client) do(ctx context.Context, cl call) (json.RawMessage, domain.RemoteResult) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	start := time.Now()

	var payload []byte
	if cl.body != nil {
		var err error
		if payload, err = json.Marshal(cl.body); err != nil {
			res := domain.RemoteResult{Outcome: domain.RemoteInvalidResponse, Message: "encode request: " + err.Error()}
			observe(cl.operation, res, start)
			return nil, res
		}
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, bodyReader)
	if err != nil {
		res := domain.RemoteResult{Outcome: domain.RemoteUnavailable, Message: err.Error()}
		observe(cl.operation, res, start)
		return nil, res
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.send(req)
	if err != nil {
		res := transportFailure(ctx, err)
		observe(cl.operation, res, start)
		return nil, res
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		res := transportFailure(ctx, err)
		res.StatusCode = resp.StatusCode
		observe(cl.operation, res, start)
		return nil, res
	}

	data, res := classify(resp.StatusCode, raw)
	observe(cl.operation, res, start)
	return data, res
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.http.HTTPClient.Do(req)
	}
	retryable, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return c.http.Do(retryable)
}

// classify maps an HTTP status and envelope to a RemoteResult.
func classify(status int, raw []byte) (json.RawMessage, domain.RemoteResult) {
	res := domain.RemoteResult{StatusCode: status}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	res.Message = env.Message
	if env.Error != nil {
		res.ErrorCode = env.Error.Code
		if env.Error.Message != "" {
			res.Message = env.Error.Message
		}
	}
	if res.Message == "" {
		res.Message = http.StatusText(status)
	}

	switch {
	case status >= http.StatusInternalServerError:
		res.Outcome = domain.RemoteUnavailable
	case status >= http.StatusBadRequest:
		res.Outcome = domain.RemoteRejectedCall
	case status < http.StatusOK || status >= http.StatusMultipleChoices:
		res.Outcome = domain.RemoteInvalidResponse
	case decodeErr != nil:
		res.Outcome = domain.RemoteInvalidResponse
		res.Message = "decode response: " + decodeErr.Error()
	case !env.Success:
		res.Outcome = domain.RemoteRejectedCall
	default:
		res.Outcome = domain.RemoteOK
		return env.Data, res
	}
	return nil, res
}

func transportFailure(ctx context.Context, err error) domain.RemoteResult {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.RemoteResult{Outcome: domain.RemoteTimedOut, Message: err.Error()}
	}
	return domain.RemoteResult{Outcome: domain.RemoteUnavailable, Message: err.Error()}
}

func invalidResponse(res domain.RemoteResult, err error) domain.RemoteResult {
	res.Outcome = domain.RemoteInvalidResponse
	res.Message = fmt.Sprintf("decode data: %v", err)
	return res
}

func decodeSession(data json.RawMessage, res domain.RemoteResult) (*domain.LedgerSession, domain.RemoteResult) {
	if !res.OK() {
		return nil, res
	}
	var sd sessionData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, invalidResponse(res, err)
	}
	if sd.User.ID == "" {
		// some deployments return the bare user object
		user, err := decodeUser(data)
		if err != nil {
			return nil, invalidResponse(res, err)
		}
		return &domain.LedgerSession{User: user, Token: sd.Token}, res
	}
	return &domain.LedgerSession{User: sd.User.toDomain(), Token: sd.Token}, res
}

func decodeUser(data json.RawMessage) (domain.LedgerUser, error) {
	var wrapped struct {
		User *remoteUser `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User.toDomain(), nil
	}
	var u remoteUser
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.LedgerUser{}, err
	}
	return u.toDomain(), nil
}

func observe(operation string, res domain.RemoteResult, start time.Time) {
	metrics.LedgerCallDuration.WithLabelValues(operation, string(res.Outcome)).Observe(time.Since(start).Seconds())
}
