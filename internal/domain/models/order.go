package models

import "time"

// OrderStatus is the authoritative order state owned by the collaborator.
// The kitchen walks it forward pending → accepted → preparing → ready →
// completed; rejected sits outside the sequence and is reachable only from
// pending/accepted.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusRejected  OrderStatus = "rejected"
)

// StatusSequence is the ordered progression a non-rejected order follows.
var StatusSequence = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
}

// Rank returns the position of s in StatusSequence, or -1 for rejected and
// unknown statuses.
func (s OrderStatus) Rank() int {
	for i, st := range StatusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Terminal reports whether the order can no longer change, which is when
// polling stops.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusReady, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

type OrderItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Subtotal   int64  `json:"subtotal"`
	Note       string `json:"note,omitempty"`
}

// Order is a server-owned snapshot. TotalAmount and item subtotals are
// authoritative from the collaborator and are never recomputed client-side.
type Order struct {
	ID            string            `json:"id"`
	Number        string            `json:"order_number"`
	TableID       string            `json:"table_id"`
	Status        OrderStatus       `json:"status"`
	TotalAmount   int64             `json:"total_amount"`
	PaymentMethod PaymentMethodType `json:"payment_method"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Items         []OrderItem       `json:"items"`
	Note          string            `json:"note,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
