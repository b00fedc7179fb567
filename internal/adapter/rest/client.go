// Package rest implements the collaborator API over HTTP. Every request has a
// bounded timeout; non-success responses are mapped to the typed failure
// taxonomy, never surfaced as silent data.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableside/internal/app/core"
	"tableside/internal/domain/dto"
	"tableside/internal/domain/models"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	mylog   *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, mylog *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		mylog:   mylog,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return core.Validationf("cannot encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return core.Validationf("cannot build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.mylog.Warn("request failed",
			zap.String("action", "collaborator_request"),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return core.TransientWrap(err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	c.mylog.Debug("collaborator request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= http.StatusMultipleChoices {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.TransientWrap(err, "cannot decode response body")
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var envelope dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Message == "" {
		return core.FromStatus(resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return core.FromStatus(resp.StatusCode, envelope.Message)
}

func (c *Client) FetchMenu(ctx context.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if err := c.do(ctx, http.MethodGet, "/api/v1/menu", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) FetchTable(ctx context.Context, tableID string) (models.Table, error) {
	var table models.Table
	if err := c.do(ctx, http.MethodGet, "/api/v1/tables/"+url.PathEscape(tableID), nil, &table); err != nil {
		return models.Table{}, err
	}
	return table, nil
}

func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", req, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (c *Client) FetchPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/api/v1/payment-methods", nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *Client) InitiatePayment(ctx context.Context, orderID string, method models.PaymentMethodType) (models.Payment, error) {
	req := dto.InitiatePaymentRequest{OrderID: orderID, Method: string(method)}
	var payment models.Payment
	if err := c.do(ctx, http.MethodPost, "/api/v1/payments", req, &payment); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (c *Client) UploadReceipt(ctx context.Context, paymentID, receiptRef string) (models.Payment, error) {
	req := dto.UploadReceiptRequest{ReceiptRef: receiptRef}
	var payment models.Payment
	if err := c.do(ctx, http.MethodPost, "/api/v1/payments/"+url.PathEscape(paymentID)+"/receipt", req, &payment); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}
