package models

type PaymentMethodType string

const (
	MethodCash     PaymentMethodType = "cash"
	MethodPOS      PaymentMethodType = "pos"
	MethodTransfer PaymentMethodType = "transfer"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentMethod is a descriptor offered for selection. The bank fields are
// populated only for transfer methods.
type PaymentMethod struct {
	ID            string            `json:"id"`
	Type          PaymentMethodType `json:"type"`
	Name          string            `json:"name"`
	Active        bool              `json:"is_active"`
	BankName      string            `json:"bank_name,omitempty"`
	AccountNumber string            `json:"account_number,omitempty"`
	AccountHolder string            `json:"account_holder,omitempty"`
}

type Payment struct {
	ID         string            `json:"id"`
	OrderID    string            `json:"order_id"`
	Method     PaymentMethodType `json:"method"`
	Status     PaymentStatus     `json:"status"`
	Amount     int64             `json:"amount"`
	ReceiptRef string            `json:"receipt_ref,omitempty"`
}
