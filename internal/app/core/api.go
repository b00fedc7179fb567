package core

import (
	"context"

	"tableside/internal/domain/dto"
	"tableside/internal/domain/models"
)

// Collaborator surface consumed by the core. The upstream service owns menu,
// order, and payment records; the client only mirrors them.

type IMenuAPI interface {
	FetchMenu(ctx context.Context) ([]models.MenuCategory, error)
	FetchTable(ctx context.Context, tableID string) (models.Table, error)
}

type IOrderAPI interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (models.Order, error)
	FetchOrder(ctx context.Context, orderID string) (models.Order, error)
}

type IPaymentAPI interface {
	FetchPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	InitiatePayment(ctx context.Context, orderID string, method models.PaymentMethodType) (models.Payment, error)
	UploadReceipt(ctx context.Context, paymentID, receiptRef string) (models.Payment, error)
}
