package record

// POST actions accepted by the store API.
const (
	WireLogin            = "LOGIN"
	WireAddItem          = "ADD_ITEM"
	WireCheckIn          = "CHECK_IN"
	WireCheckOut         = "CHECK_OUT"
	WireBatchTransaction = "BATCH_TRANSACTION"
	WireCheckUser        = "CHECK_USER"
)

// Machine-readable error codes carried alongside the human-readable message.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeDuplicateKey      = "DUPLICATE_KEY"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeInternal          = "INTERNAL"
)

// TransactionRequest is the POST body for all mutating actions. Fields beyond
// Action and EmployeeID are action-specific.
type TransactionRequest struct {
	Action       string           `json:"action"`
	EmployeeID   string           `json:"employeeId"`
	PartNumber   string           `json:"partNumber,omitempty"`
	ChangeAmount int              `json:"changeAmount,omitempty"`
	NewItemData  *InventoryRecord `json:"newItemData,omitempty"`
	Items        []BatchEntry     `json:"items,omitempty"`
}

// TransactionResponse is the envelope for every store response. Status is
// "success" or "error"; Code is set only on errors.
type TransactionResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Code        string `json:"code,omitempty"`
	NewQuantity *int   `json:"newQuantity,omitempty"`
	Name        string `json:"name,omitempty"`
	Token       string `json:"token,omitempty"`
}

// InventoryResponse is the GET ?type=inventory envelope.
type InventoryResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Data    []InventoryRecord `json:"data"`
}

// LogsResponse is the GET ?type=logs envelope.
type LogsResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Code    string        `json:"code,omitempty"`
	Data    []LedgerEntry `json:"data"`
}
