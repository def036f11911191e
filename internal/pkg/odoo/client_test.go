package odoo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xerrors "academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type capturedCall struct {
	Service string
	Method  string
	Args    []json.RawMessage
}

func rpcServer(t *testing.T, handle func(call capturedCall) (any, *RPCError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jsonrpc" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			ID     int64 `json:"id"`
			Params struct {
				Service string            `json:"service"`
				Method  string            `json:"method"`
				Args    []json.RawMessage `json:"args"`
			} `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		result, rpcErr := handle(capturedCall{req.Params.Service, req.Params.Method, req.Params.Args})
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestConnectAndExecute(t *testing.T) {
	var calls []capturedCall
	srv := rpcServer(t, func(c capturedCall) (any, *RPCError) {
		calls = append(calls, c)
		if c.Service == "common" && c.Method == "login" {
			return 7, nil
		}
		var method string
		json.Unmarshal(c.Args[4], &method)
		switch method {
		case "search_read":
			return []map[string]any{{"id": 3, "name": "Monthly"}}, nil
		case "create":
			return 11, nil
		case "write":
			return true, nil
		}
		return nil, &RPCError{Code: 404, Message: "unknown"}
	})
	defer srv.Close()

	client := NewClient(srv.URL, "academy", time.Second, zap.NewNop())
	ctx := context.Background()

	sess, err := client.Connect(ctx, "api-user", "secret")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	var rows []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := sess.SearchRead(ctx, "product.template", []any{[]any{"default_code", "=", "x"}}, []string{"id", "name"}, 1, &rows); err != nil {
		t.Fatalf("search_read: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 3 {
		t.Fatalf("rows = %+v", rows)
	}

	id, err := sess.Create(ctx, "product.template", map[string]any{"name": "Monthly"})
	if err != nil || id != 11 {
		t.Fatalf("create = %d, %v", id, err)
	}

	if err := sess.Write(ctx, "product.template", []int64{3}, map[string]any{"name": "Monthly"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	last := calls[len(calls)-1]
	if last.Service != "object" || last.Method != "execute_kw" {
		t.Errorf("last call = %s.%s", last.Service, last.Method)
	}
	var db string
	var uid int64
	json.Unmarshal(last.Args[0], &db)
	json.Unmarshal(last.Args[1], &uid)
	if db != "academy" || uid != 7 {
		t.Errorf("execute_kw called with db=%q uid=%d", db, uid)
	}
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	srv := rpcServer(t, func(capturedCall) (any, *RPCError) { return false, nil })
	defer srv.Close()

	_, err := NewClient(srv.URL, "academy", time.Second, zap.NewNop()).Connect(context.Background(), "u", "bad")
	if !errors.Is(err, xerrors.ErrExternalSystem) {
		t.Fatalf("expected ErrExternalSystem, got %v", err)
	}
}

func TestRPCErrorIsExternal(t *testing.T) {
	srv := rpcServer(t, func(c capturedCall) (any, *RPCError) {
		if c.Method == "login" {
			return 1, nil
		}
		e := &RPCError{Code: 200, Message: "Odoo Server Error"}
		e.Data.Message = "Access Denied"
		return nil, e
	})
	defer srv.Close()

	sess, err := NewClient(srv.URL, "academy", time.Second, zap.NewNop()).Connect(context.Background(), "u", "p")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = sess.Create(context.Background(), "res.partner", map[string]any{"name": "x"})
	if !errors.Is(err, xerrors.ErrExternalSystem) {
		t.Fatalf("expected ErrExternalSystem, got %v", err)
	}
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Data.Message != "Access Denied" {
		t.Fatalf("expected wrapped RPCError, got %v", err)
	}
}

func TestHTTPFailuresAreExternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "academy", time.Second, zap.NewNop()).Connect(context.Background(), "u", "p")
	if !errors.Is(err, xerrors.ErrExternalSystem) {
		t.Fatalf("expected ErrExternalSystem for 502, got %v", err)
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, err = NewClient(url, "academy", time.Second, zap.NewNop()).Connect(context.Background(), "u", "p")
	if !errors.Is(err, xerrors.ErrExternalSystem) {
		t.Fatalf("expected ErrExternalSystem for unreachable host, got %v", err)
	}

	_, err = NewClient("", "academy", time.Second, zap.NewNop()).Connect(context.Background(), "u", "p")
	if !errors.Is(err, xerrors.ErrExternalSystem) {
		t.Fatalf("expected ErrExternalSystem for missing url, got %v", err)
	}
}
