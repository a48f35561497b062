package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/partstock/internal/auth"
	"github.com/example/partstock/internal/infrastructure/guard"
	"github.com/example/partstock/internal/infrastructure/sheet"
	"github.com/example/partstock/internal/record"
	"github.com/example/partstock/internal/stockroom"
)

func newTestRouter(t *testing.T) (http.Handler, *sheet.Memory) {
	t.Helper()
	store := sheet.NewMemory()
	svc := stockroom.NewService(store, guard.NewLocalLocker(), guard.NoopCache{})
	tokens := auth.NewTokenService("test-secret-key-that-is-long-enough!", time.Hour)
	return NewRouter(NewHandlers(svc, tokens), tokens), store
}

func doPost(t *testing.T, router http.Handler, body record.TransactionRequest) (*httptest.ResponseRecorder, record.TransactionResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp record.TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestGetInventory(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, store.AppendItem(context.Background(), record.InventoryRecord{PartNumber: "P-1", Quantity: 5}))

	req := httptest.NewRequest(http.MethodGet, "/api?type=inventory", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp record.InventoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "P-1", resp.Data[0].PartNumber)
}

func TestGetDefaultsToInventory(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetLogs(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, store.InsertLog(context.Background(), record.LedgerEntry{
		Timestamp: time.Now(), EmployeeID: "EMP-001", Action: record.ActionLogin,
		PartNumber: record.Placeholder, ChangeAmount: record.Placeholder, Balance: record.Placeholder,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api?type=logs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp record.LogsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, record.ActionLogin, resp.Data[0].Action)
}

func TestGetUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api?type=nonsense", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_DuplicateReturnsError(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, store.AppendItem(context.Background(), record.InventoryRecord{PartNumber: "P-1", Quantity: 5}))

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:      record.WireAddItem,
		EmployeeID:  "EMP-001",
		NewItemData: &record.InventoryRecord{PartNumber: "P-1", Quantity: 3},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, record.CodeDuplicateKey, resp.Code)
	assert.Contains(t, resp.Message, "already exists")

	items, _ := store.ListInventory(context.Background())
	assert.Len(t, items, 1, "record count must be unchanged")
}

func TestCheckOut_Success(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, store.AppendItem(context.Background(), record.InventoryRecord{PartNumber: "P-1", Quantity: 2}))

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:       record.WireCheckOut,
		EmployeeID:   "EMP-001",
		PartNumber:   "P-1",
		ChangeAmount: -1,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.NewQuantity)
	assert.Equal(t, 1, *resp.NewQuantity)
}

func TestCheckOut_InsufficientStock(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, store.AppendItem(context.Background(), record.InventoryRecord{PartNumber: "P-1", Quantity: 0}))

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:       record.WireCheckOut,
		EmployeeID:   "EMP-001",
		PartNumber:   "P-1",
		ChangeAmount: -1,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, record.CodeInsufficientStock, resp.Code)
}

func TestCheckIn_UnknownPart(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:       record.WireCheckIn,
		EmployeeID:   "EMP-001",
		PartNumber:   "P-404",
		ChangeAmount: 1,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, record.CodeNotFound, resp.Code)
}

func TestAdjust_SignMismatchRejected(t *testing.T) {
	tests := []struct {
		name   string
		action string
		amount int
	}{
		{"check-in with negative amount", record.WireCheckIn, -1},
		{"check-out with positive amount", record.WireCheckOut, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, store := newTestRouter(t)
			require.NoError(t, store.AppendItem(context.Background(), record.InventoryRecord{PartNumber: "P-1", Quantity: 5}))

			rec, resp := doPost(t, router, record.TransactionRequest{
				Action:       tt.action,
				EmployeeID:   "EMP-001",
				PartNumber:   "P-1",
				ChangeAmount: tt.amount,
			})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, record.CodeBadRequest, resp.Code)

			item, _, _ := store.FindItem(context.Background(), "P-1")
			assert.Equal(t, 5, item.Quantity, "rejected mismatch must not touch stock")
			logs, _ := store.ListLogs(context.Background(), stockroom.LogsLimit)
			assert.Empty(t, logs)
		})
	}
}

func TestBatchTransaction(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, store.AppendItem(context.Background(), record.InventoryRecord{PartNumber: "P-1", Quantity: 5}))

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:     record.WireBatchTransaction,
		EmployeeID: "EMP-001",
		Items: []record.BatchEntry{
			{PartNumber: "P-1", ChangeAmount: -1},
			{PartNumber: "P-404", ChangeAmount: -1},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)

	item, _, _ := store.FindItem(context.Background(), "P-1")
	assert.Equal(t, 4, item.Quantity)
}

func TestCheckUser_KnownEmployee(t *testing.T) {
	router, store := newTestRouter(t)
	store.AddUser("EMP-001", "Administrator")

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:     record.WireCheckUser,
		EmployeeID: "EMP-001",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Administrator", resp.Name)
	assert.NotEmpty(t, resp.Token)
}

func TestCheckUser_UnknownEmployee(t *testing.T) {
	router, store := newTestRouter(t)

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:     record.WireCheckUser,
		EmployeeID: "UNKNOWN",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, record.CodeAccessDenied, resp.Code)

	logs, _ := store.ListLogs(context.Background(), stockroom.LogsLimit)
	assert.Empty(t, logs, "a rejected check leaves no ledger rows")
}

func TestLogin_AppendsLedgerRow(t *testing.T) {
	router, store := newTestRouter(t)

	rec, resp := doPost(t, router, record.TransactionRequest{
		Action:     record.WireLogin,
		EmployeeID: "EMP-001",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)

	logs, _ := store.ListLogs(context.Background(), stockroom.LogsLimit)
	require.Len(t, logs, 1)
	assert.Equal(t, record.ActionLogin, logs[0].Action)
}

func TestUnknownAction(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, resp := doPost(t, router, record.TransactionRequest{Action: "REBOOT"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, record.CodeBadRequest, resp.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
