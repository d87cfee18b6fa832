// Package jsonrpc serves the JSON-RPC 2.0 item façade: a narrower,
// item-only model (create_item, read_item, update_item, delete_item,
// query_items, mcp_ping) layered over the same core the MCP tool surface
// uses. It never builds SQL itself.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	pgcrud "github.com/pgcrud/postgres-crud-mcp"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Database is the slice of the core this façade needs.
type Database interface {
	InsertRecord(ctx context.Context, input pgcrud.InsertRecordInput) (*pgcrud.InsertRecordOutput, error)
	SelectRecords(ctx context.Context, input pgcrud.SelectRecordsInput) (*pgcrud.SelectRecordsOutput, error)
	UpdateRecords(ctx context.Context, input pgcrud.UpdateRecordsInput) (*pgcrud.UpdateRecordsOutput, error)
	DeleteRecords(ctx context.Context, input pgcrud.DeleteRecordsInput) (*pgcrud.DeleteRecordsOutput, error)
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorf(code int, format string, args ...any) *rpcError {
	if len(args) == 0 {
		return &rpcError{Code: code, Message: format}
	}
	return &rpcError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Handler dispatches JSON-RPC requests on a single POST route.
type Handler struct {
	db     Database
	logger zerolog.Logger
}

// NewHandler creates a Handler over the given core.
func NewHandler(db Database, logger zerolog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Routes returns a chi router serving the endpoint at POST /.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeHTTP)
	return r
}

// ServeHTTP handles one JSON-RPC request. Transport-level responses are
// always 200; failures travel in the JSON-RPC error envelope, matched to the
// request by the caller-supplied id.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.write(w, response{JSONRPC: "2.0", Error: errorf(codeParseError, "failed to read request body")})
		return
	}

	var req request
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		h.write(w, response{JSONRPC: "2.0", Error: errorf(codeParseError, "invalid JSON: %v", err)})
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		h.write(w, response{JSONRPC: "2.0", ID: req.ID, Error: errorf(codeInvalidRequest, "not a valid JSON-RPC 2.0 request")})
		return
	}

	result, rpcErr := h.dispatch(r.Context(), req.Method, req.Params)
	resp := response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
		h.logger.Warn().
			Str("method", req.Method).
			Int("code", rpcErr.Code).
			Str("message", rpcErr.Message).
			Msg("rpc error")
	} else {
		resp.Result = result
	}
	h.write(w, resp)
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, *rpcError) {
	switch method {
	case "mcp_ping":
		return "pong", nil
	case "create_item":
		return h.createItem(ctx, params)
	case "read_item":
		return h.readItem(ctx, params)
	case "update_item":
		return h.updateItem(ctx, params)
	case "delete_item":
		return h.deleteItem(ctx, params)
	case "query_items":
		return h.queryItems(ctx, params)
	default:
		return nil, errorf(codeMethodNotFound, "method not found: %s", method)
	}
}

func (h *Handler) write(w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode rpc response")
	}
}

// coreError maps a core failure onto a JSON-RPC error. Validation and
// not-found failures are the caller's problem (-32602); everything else is
// internal.
func coreError(err error) *rpcError {
	var validationErr *pgcrud.ValidationError
	var notFoundErr *pgcrud.NotFoundError
	if errors.As(err, &validationErr) || errors.As(err, &notFoundErr) {
		return errorf(codeInvalidParams, "%s", err.Error())
	}
	return errorf(codeInternalError, "%s", err.Error())
}
