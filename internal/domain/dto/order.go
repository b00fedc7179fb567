package dto

// Wire payloads for the collaborator REST API.

type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
}

type CreateOrderRequest struct {
	TableID       string             `json:"table_id"`
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	Note          string             `json:"note,omitempty"`
}

type InitiatePaymentRequest struct {
	OrderID string `json:"order_id"`
	Method  string `json:"method"`
}

type UploadReceiptRequest struct {
	ReceiptRef string `json:"receipt_ref"`
}

// ErrorResponse is the collaborator error envelope: a numeric status code, a
// kind label, and a human-readable message.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"error"`
	Message string `json:"message"`
}
