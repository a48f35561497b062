package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/partstock/internal/api/middleware"
	"github.com/example/partstock/internal/auth"
	"github.com/example/partstock/internal/infrastructure/guard"
	"github.com/example/partstock/internal/record"
	"github.com/example/partstock/internal/stockroom"
)

// Handlers exposes the spreadsheet store contract: reads via GET ?type=...,
// mutations via a single POST action dispatch.
type Handlers struct {
	svc    *stockroom.Service
	tokens *auth.TokenService
}

func NewHandlers(svc *stockroom.Service, tokens *auth.TokenService) *Handlers {
	return &Handlers{svc: svc, tokens: tokens}
}

// HandleRead serves GET ?type=inventory (default) and ?type=logs.
func (h *Handlers) HandleRead(w http.ResponseWriter, r *http.Request) {
	readType := r.URL.Query().Get("type")
	if readType == "" {
		readType = "inventory"
	}

	switch readType {
	case "inventory":
		items, err := h.svc.ListInventory(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.InventoryResponse{Status: "success", Data: items})
	case "logs":
		entries, err := h.svc.ListLogs(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.LogsResponse{Status: "success", Data: entries})
	default:
		respondJSON(w, http.StatusBadRequest, record.TransactionResponse{
			Status:  "error",
			Code:    record.CodeBadRequest,
			Message: "unknown read type: " + readType,
		})
	}
}

// HandleTransaction dispatches a POST body on its action field.
func (h *Handlers) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	var req record.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, record.TransactionResponse{
			Status:  "error",
			Code:    record.CodeBadRequest,
			Message: "invalid request body",
		})
		return
	}

	// The body names the employee; a session token can stand in when the
	// field is absent.
	if req.EmployeeID == "" {
		req.EmployeeID = middleware.GetEmployeeID(r.Context())
	}

	switch req.Action {
	case record.WireLogin:
		if err := h.svc.RecordLogin(r.Context(), req.EmployeeID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.TransactionResponse{Status: "success"})

	case record.WireAddItem:
		if req.NewItemData == nil {
			respondJSON(w, http.StatusBadRequest, record.TransactionResponse{
				Status:  "error",
				Code:    record.CodeBadRequest,
				Message: "newItemData is required",
			})
			return
		}
		if err := h.svc.AddItem(r.Context(), req.EmployeeID, *req.NewItemData); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.TransactionResponse{
			Status:  "success",
			Message: "Item created successfully",
		})

	case record.WireCheckIn, record.WireCheckOut:
		// The ledger records the action as sent, so the delta must agree
		// with it: check-ins add stock, check-outs remove it.
		if (req.Action == record.WireCheckIn && req.ChangeAmount < 0) ||
			(req.Action == record.WireCheckOut && req.ChangeAmount > 0) {
			respondJSON(w, http.StatusBadRequest, record.TransactionResponse{
				Status:  "error",
				Code:    record.CodeBadRequest,
				Message: "changeAmount sign does not match action",
			})
			return
		}
		newQty, err := h.svc.AdjustQuantity(r.Context(), req.EmployeeID, req.PartNumber, req.ChangeAmount)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.TransactionResponse{
			Status:      "success",
			Message:     "Transaction successful",
			NewQuantity: &newQty,
		})

	case record.WireBatchTransaction:
		if err := h.svc.BatchAdjust(r.Context(), req.EmployeeID, req.Items); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.TransactionResponse{Status: "success"})

	case record.WireCheckUser:
		name, err := h.svc.VerifyUser(r.Context(), req.EmployeeID)
		if err != nil {
			respondError(w, err)
			return
		}
		token, _, err := h.tokens.GenerateSessionToken(req.EmployeeID, name)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record.TransactionResponse{
			Status: "success",
			Name:   name,
			Token:  token,
		})

	default:
		respondJSON(w, http.StatusBadRequest, record.TransactionResponse{
			Status:  "error",
			Code:    record.CodeBadRequest,
			Message: "unknown action: " + req.Action,
		})
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondError translates the service error taxonomy into the wire envelope.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := record.CodeInternal

	switch {
	case errors.Is(err, stockroom.ErrDuplicateKey):
		status, code = http.StatusConflict, record.CodeDuplicateKey
	case errors.Is(err, stockroom.ErrNotFound):
		status, code = http.StatusNotFound, record.CodeNotFound
	case errors.Is(err, stockroom.ErrInsufficientStock):
		status, code = http.StatusConflict, record.CodeInsufficientStock
	case errors.Is(err, stockroom.ErrAccessDenied):
		status, code = http.StatusUnauthorized, record.CodeAccessDenied
	case errors.Is(err, stockroom.ErrInvalidPartNumber),
		errors.Is(err, stockroom.ErrInvalidQuantity),
		errors.Is(err, stockroom.ErrInvalidAmount):
		status, code = http.StatusBadRequest, record.CodeBadRequest
	case errors.Is(err, guard.ErrLockTimeout):
		status, code = http.StatusServiceUnavailable, record.CodeInternal
	}

	respondJSON(w, status, record.TransactionResponse{
		Status:  "error",
		Code:    code,
		Message: err.Error(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
