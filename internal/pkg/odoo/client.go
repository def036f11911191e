// internal/pkg/odoo/client.go
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	xerrors "academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Session is an authenticated connection usable for model calls.
type Session interface {
	SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int, out any) error
	Create(ctx context.Context, model string, values map[string]any) (int64, error)
	Write(ctx context.Context, model string, ids []int64, values map[string]any) error
}

// Client speaks Odoo's JSON-RPC endpoint. Every failure it returns matches
// xerrors.ErrExternalSystem.
type Client struct {
	baseURL    string
	database   string
	httpClient *http.Client
	logger     *zap.Logger
	seq        atomic.Int64
}

func NewClient(baseURL, database string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		database:   database,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *RPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("odoo error %d: %s", e.Code, e.Data.Message)
	}
	return fmt.Sprintf("odoo error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, xerrors.External("odoo "+service+"."+method, fmt.Errorf("odoo url is not configured"))
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.seq.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jsonrpc", bytes.NewReader(body))
	if err != nil {
		return nil, xerrors.External("odoo request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.External("odoo "+service+"."+method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, xerrors.External("odoo "+service+"."+method, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, xerrors.External("odoo "+service+"."+method, fmt.Errorf("invalid rpc response: %w", err))
	}
	if out.Error != nil {
		return nil, xerrors.External("odoo "+service+"."+method, out.Error)
	}

	return out.Result, nil
}

// Connect authenticates login/secret against the configured database.
func (c *Client) Connect(ctx context.Context, login, secret string) (Session, error) {
	raw, err := c.call(ctx, "common", "login", []any{c.database, login, secret})
	if err != nil {
		return nil, err
	}

	// Odoo answers false instead of an error for bad credentials
	var uid int64
	if err := json.Unmarshal(raw, &uid); err != nil || uid <= 0 {
		return nil, xerrors.External("odoo authenticate", fmt.Errorf("invalid credentials for %q", login))
	}

	c.logger.Debug("odoo session opened", zap.String("login", login), zap.Int64("uid", uid))
	return &conn{client: c, uid: uid, secret: secret}, nil
}

type conn struct {
	client *Client
	uid    int64
	secret string
}

func (s *conn) executeKW(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return s.client.call(ctx, "object", "execute_kw", []any{
		s.client.database, s.uid, s.secret, model, method, args, kwargs,
	})
}

func (s *conn) SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int, out any) error {
	kwargs := map[string]any{"fields": fields}
	if limit > 0 {
		kwargs["limit"] = limit
	}

	raw, err := s.executeKW(ctx, model, "search_read", []any{domain}, kwargs)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return xerrors.External("odoo "+model+".search_read", fmt.Errorf("unexpected result: %w", err))
	}
	return nil
}

func (s *conn) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	raw, err := s.executeKW(ctx, model, "create", []any{values}, nil)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, xerrors.External("odoo "+model+".create", fmt.Errorf("unexpected result: %w", err))
	}
	return id, nil
}

func (s *conn) Write(ctx context.Context, model string, ids []int64, values map[string]any) error {
	raw, err := s.executeKW(ctx, model, "write", []any{ids, values}, nil)
	if err != nil {
		return err
	}

	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil || !ok {
		return xerrors.External("odoo "+model+".write", fmt.Errorf("write was not acknowledged"))
	}
	return nil
}
