package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/example/partstock/internal/record"
)

// DefaultCallTimeout bounds every store round trip. Timed-out mutations are
// treated like any other failure; there is no transport-level cancellation
// of superseded requests.
const DefaultCallTimeout = 8 * time.Second

// StoreGateway is the client's view of the remote store. *Gateway implements
// it over HTTP; tests substitute fakes.
type StoreGateway interface {
	ListInventory(ctx context.Context) ([]record.InventoryRecord, error)
	ListLogs(ctx context.Context) ([]record.LedgerEntry, error)
	VerifyUser(ctx context.Context, employeeID string) (name, token string, err error)
	RecordLogin(ctx context.Context, employeeID string) error
	CreateItem(ctx context.Context, employeeID string, item record.InventoryRecord) error
	AdjustQuantity(ctx context.Context, employeeID, partNumber string, delta int) (int, error)
	BatchAdjust(ctx context.Context, employeeID string, entries []record.BatchEntry) error
}

// Gateway talks to the store API. No call is retried automatically; failures
// surface to the caller, who may re-trigger manually.
type Gateway struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// NewGateway creates a gateway against baseURL (e.g. http://host:8080/api).
func NewGateway(baseURL string) (*Gateway, error) {
	if baseURL == "" {
		return nil, ErrNoEndpoint
	}
	return &Gateway{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultCallTimeout},
	}, nil
}

// NewGatewayFromEnv reads STORE_URL.
func NewGatewayFromEnv() (*Gateway, error) {
	return NewGateway(os.Getenv("STORE_URL"))
}

// SetToken attaches a session token to subsequent requests. Safe to call
// while other goroutines issue requests.
func (g *Gateway) SetToken(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

func (g *Gateway) ListInventory(ctx context.Context) ([]record.InventoryRecord, error) {
	var resp record.InventoryResponse
	if err := g.get(ctx, "inventory", &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, envelopeError(resp.Code, resp.Message)
	}
	return resp.Data, nil
}

func (g *Gateway) ListLogs(ctx context.Context) ([]record.LedgerEntry, error) {
	var resp record.LogsResponse
	if err := g.get(ctx, "logs", &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, envelopeError(resp.Code, resp.Message)
	}
	return resp.Data, nil
}

func (g *Gateway) VerifyUser(ctx context.Context, employeeID string) (string, string, error) {
	resp, err := g.post(ctx, record.TransactionRequest{
		Action:     record.WireCheckUser,
		EmployeeID: employeeID,
	})
	if err != nil {
		return "", "", err
	}
	return resp.Name, resp.Token, nil
}

func (g *Gateway) RecordLogin(ctx context.Context, employeeID string) error {
	_, err := g.post(ctx, record.TransactionRequest{
		Action:     record.WireLogin,
		EmployeeID: employeeID,
	})
	return err
}

func (g *Gateway) CreateItem(ctx context.Context, employeeID string, item record.InventoryRecord) error {
	_, err := g.post(ctx, record.TransactionRequest{
		Action:      record.WireAddItem,
		EmployeeID:  employeeID,
		NewItemData: &item,
	})
	return err
}

func (g *Gateway) AdjustQuantity(ctx context.Context, employeeID, partNumber string, delta int) (int, error) {
	action := record.WireCheckIn
	if delta < 0 {
		action = record.WireCheckOut
	}
	resp, err := g.post(ctx, record.TransactionRequest{
		Action:       action,
		EmployeeID:   employeeID,
		PartNumber:   partNumber,
		ChangeAmount: delta,
	})
	if err != nil {
		return 0, err
	}
	if resp.NewQuantity == nil {
		return 0, fmt.Errorf("%w: response missing newQuantity", ErrServer)
	}
	return *resp.NewQuantity, nil
}

func (g *Gateway) BatchAdjust(ctx context.Context, employeeID string, entries []record.BatchEntry) error {
	_, err := g.post(ctx, record.TransactionRequest{
		Action:     record.WireBatchTransaction,
		EmployeeID: employeeID,
		Items:      entries,
	})
	return err
}

func (g *Gateway) get(ctx context.Context, readType string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?type="+readType, nil)
	if err != nil {
		return err
	}
	return g.do(req, dest)
}

func (g *Gateway) post(ctx context.Context, body record.TransactionRequest) (*record.TransactionResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp record.TransactionResponse
	if err := g.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, envelopeError(resp.Code, resp.Message)
	}
	return &resp, nil
}

func (g *Gateway) do(req *http.Request, dest any) error {
	g.mu.Lock()
	token := g.token
	g.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := g.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return fmt.Errorf("%w: %s", ErrTimeout, req.URL.Path)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrTimeout, req.URL.Path)
		}
		return fmt.Errorf("store request: %w", err)
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}
	return nil
}

// envelopeError maps the machine-readable code onto the error taxonomy,
// falling back to message sniffing for stores that predate the code field.
func envelopeError(code, message string) error {
	switch code {
	case record.CodeDuplicateKey:
		return fmt.Errorf("%w: %s", ErrDuplicateKey, message)
	case record.CodeNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case record.CodeInsufficientStock:
		return fmt.Errorf("%w: %s", ErrInsufficientStock, message)
	case record.CodeAccessDenied:
		return fmt.Errorf("%w: %s", ErrAccessDenied, message)
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "already exists"):
		return fmt.Errorf("%w: %s", ErrDuplicateKey, message)
	case strings.Contains(lower, "not found"):
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case strings.Contains(lower, "insufficient stock"):
		return fmt.Errorf("%w: %s", ErrInsufficientStock, message)
	case strings.Contains(lower, "denied"):
		return fmt.Errorf("%w: %s", ErrAccessDenied, message)
	}
	return fmt.Errorf("%w: %s", ErrServer, message)
}
