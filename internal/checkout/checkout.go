// Package checkout sequences cart submission, payment method selection,
// payment initiation, and the transfer receipt upload. The pipeline only
// moves forward; a failed stage can be retried without re-running a stage the
// collaborator already committed.
package checkout

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tableside/internal/app/core"
	"tableside/internal/domain/dto"
	"tableside/internal/domain/models"
	"tableside/internal/session"
)

type Stage int

const (
	// StageCart accepts cart mutation and method selection.
	StageCart Stage = iota
	// StagePayment holds a created order awaiting payment initiation.
	StagePayment
	// StageAwaitingReceipt holds an initiated transfer payment awaiting its
	// receipt reference.
	StageAwaitingReceipt
	// StageComplete means checkout is done and tracking takes over.
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageCart:
		return "cart"
	case StagePayment:
		return "payment"
	case StageAwaitingReceipt:
		return "awaiting_receipt"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}

type Orchestrator struct {
	sess     *session.Session
	orders   core.IOrderAPI
	payments core.IPaymentAPI
	mylog    *zap.Logger

	stage   Stage
	payment *models.Payment
}

func New(sess *session.Session, orders core.IOrderAPI, payments core.IPaymentAPI, mylog *zap.Logger) *Orchestrator {
	return &Orchestrator{
		sess:     sess,
		orders:   orders,
		payments: payments,
		mylog:    mylog,
	}
}

func (o *Orchestrator) Stage() Stage {
	return o.stage
}

// Payment returns the record created by InitiatePayment, if any.
func (o *Orchestrator) Payment() (models.Payment, bool) {
	if o.payment == nil {
		return models.Payment{}, false
	}
	return *o.payment, true
}

// LoadPaymentMethods fetches the offerable descriptors into the session.
func (o *Orchestrator) LoadPaymentMethods(ctx context.Context) error {
	methods, err := o.payments.FetchPaymentMethods(ctx)
	if err != nil {
		o.mylog.Error("failed to fetch payment methods", zap.String("action", "load_payment_methods"), zap.Error(err))
		return err
	}
	o.sess.SetPaymentMethods(methods)
	return nil
}

// SelectMethod records the customer's choice. Selection is pure state and
// stays reversible until payment initiation.
func (o *Orchestrator) SelectMethod(methodID string) error {
	if o.stage >= StageAwaitingReceipt {
		return core.Statef("payment already initiated, method can no longer change")
	}
	return o.sess.SelectMethod(methodID)
}

// Submit turns the cart into an order. Preconditions are checked before any
// network call; on success the cart is cleared exactly once and the active
// order snapshot is replaced with the creation result. On failure the cart is
// left untouched.
func (o *Orchestrator) Submit(ctx context.Context, note string) (models.Order, error) {
	mylog := o.mylog.With(zap.String("action", "submit_order"))

	if o.stage != StageCart {
		return models.Order{}, core.Statef("order already submitted, current stage %q", o.stage)
	}
	table, ok := o.sess.Table()
	if !ok {
		return models.Order{}, core.Validationf("no table is bound to this session")
	}
	crt := o.sess.Cart()
	if crt.Empty() {
		return models.Order{}, core.Validationf("cart is empty")
	}
	method, ok := o.sess.SelectedMethod()
	if !ok {
		// No silent first-active fallback: the customer must have confirmed
		// a method before submission.
		return models.Order{}, core.Validationf("no payment method selected")
	}

	req := dto.CreateOrderRequest{
		TableID:       table.ID,
		Items:         crt.Submission(),
		PaymentMethod: string(method.Type),
		Note:          note,
	}
	order, err := o.orders.CreateOrder(ctx, req)
	if err != nil {
		mylog.Error("order creation failed", zap.Error(err))
		return models.Order{}, err
	}

	crt.Clear()
	o.sess.SetActiveOrder(order)
	o.stage = StagePayment
	mylog.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.Int64("total_amount", order.TotalAmount))
	return order, nil
}

// InitiatePayment requests a payment record for the submitted order. Cash and
// pos complete the flow immediately; transfer enters the awaiting-receipt
// sub-state.
func (o *Orchestrator) InitiatePayment(ctx context.Context) (models.Payment, error) {
	mylog := o.mylog.With(zap.String("action", "initiate_payment"))

	if o.stage != StagePayment {
		return models.Payment{}, core.Statef("no order awaiting payment, current stage %q", o.stage)
	}
	order, ok := o.sess.ActiveOrder()
	if !ok {
		return models.Payment{}, core.Statef("no active order in session")
	}
	method, ok := o.sess.SelectedMethod()
	if !ok {
		return models.Payment{}, core.Statef("no payment method selected")
	}

	payment, err := o.payments.InitiatePayment(ctx, order.ID, method.Type)
	if err != nil {
		mylog.Error("payment initiation failed", zap.Error(err))
		return models.Payment{}, err
	}

	o.payment = &payment
	if method.Type == models.MethodTransfer {
		o.stage = StageAwaitingReceipt
	} else {
		o.stage = StageComplete
	}
	mylog.Info("payment initiated",
		zap.String("payment_id", payment.ID),
		zap.String("method", string(method.Type)),
		zap.String("stage", o.stage.String()))
	return payment, nil
}

// UploadReceipt submits the transfer evidence and completes checkout. The
// reference is validated before any network call.
func (o *Orchestrator) UploadReceipt(ctx context.Context, receiptRef string) (models.Payment, error) {
	mylog := o.mylog.With(zap.String("action", "upload_receipt"))

	if o.stage != StageAwaitingReceipt || o.payment == nil {
		return models.Payment{}, core.Statef("no pending transfer payment, current stage %q", o.stage)
	}
	if strings.TrimSpace(receiptRef) == "" {
		return models.Payment{}, core.Validationf("receipt reference is empty")
	}

	payment, err := o.payments.UploadReceipt(ctx, o.payment.ID, receiptRef)
	if err != nil {
		mylog.Error("receipt upload failed", zap.Error(err))
		return models.Payment{}, err
	}

	o.payment = &payment
	o.stage = StageComplete
	mylog.Info("receipt uploaded", zap.String("payment_id", payment.ID))
	return payment, nil
}
