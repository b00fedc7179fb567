// Package session holds the process-wide state for one customer visit: the
// scanned table, the cart, the active order snapshot, and payment method
// selection. It is constructed explicitly and passed by reference; tests get
// a fresh session per case.
package session

import (
	"tableside/internal/app/core"
	"tableside/internal/cart"
	"tableside/internal/domain/models"
)

type Session struct {
	table    *models.Table
	cart     *cart.Cart
	order    *models.Order
	methods  []models.PaymentMethod
	selected *models.PaymentMethod
}

func New() *Session {
	return &Session{cart: cart.New()}
}

// mustInit guards against use of an uninitialized (zero-value) session, which
// is a programming error rather than a recoverable condition.
func (s *Session) mustInit() {
	if s == nil || s.cart == nil {
		panic("session: used before initialization, construct with session.New")
	}
}

// BindTable attaches the scanned table reference. A session holds at most one
// table; rebinding to a different table fails.
func (s *Session) BindTable(t models.Table) error {
	s.mustInit()
	if s.table != nil && s.table.ID != t.ID {
		return core.Statef("table %q already bound to this session", s.table.ID)
	}
	s.table = &t
	return nil
}

func (s *Session) Table() (models.Table, bool) {
	s.mustInit()
	if s.table == nil {
		return models.Table{}, false
	}
	return *s.table, true
}

// Cart exposes the cart for delegated mutation. Binding a table never clears
// an in-progress cart or order; those follow their own lifecycle events.
func (s *Session) Cart() *cart.Cart {
	s.mustInit()
	return s.cart
}

// SetActiveOrder replaces the held snapshot wholesale, never merges.
func (s *Session) SetActiveOrder(o models.Order) {
	s.mustInit()
	s.order = &o
}

func (s *Session) ActiveOrder() (models.Order, bool) {
	s.mustInit()
	if s.order == nil {
		return models.Order{}, false
	}
	return *s.order, true
}

func (s *Session) ClearActiveOrder() {
	s.mustInit()
	s.order = nil
}

// SetPaymentMethods stores the offerable list. Only active descriptors are
// kept; inactive ones are never offered for selection.
func (s *Session) SetPaymentMethods(methods []models.PaymentMethod) {
	s.mustInit()
	active := make([]models.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.Active {
			active = append(active, m)
		}
	}
	s.methods = active
	if s.selected != nil {
		// drop a selection that is no longer offered
		if _, err := s.lookup(s.selected.ID); err != nil {
			s.selected = nil
		}
	}
}

func (s *Session) PaymentMethods() []models.PaymentMethod {
	s.mustInit()
	out := make([]models.PaymentMethod, len(s.methods))
	copy(out, s.methods)
	return out
}

func (s *Session) lookup(methodID string) (models.PaymentMethod, error) {
	for _, m := range s.methods {
		if m.ID == methodID {
			return m, nil
		}
	}
	return models.PaymentMethod{}, core.Validationf("payment method %q is not offered", methodID)
}

// SelectMethod picks one descriptor from the loaded list by id.
func (s *Session) SelectMethod(methodID string) error {
	s.mustInit()
	m, err := s.lookup(methodID)
	if err != nil {
		return err
	}
	s.selected = &m
	return nil
}

func (s *Session) SelectedMethod() (models.PaymentMethod, bool) {
	s.mustInit()
	if s.selected == nil {
		return models.PaymentMethod{}, false
	}
	return *s.selected, true
}

func (s *Session) ClearSelectedMethod() {
	s.mustInit()
	s.selected = nil
}
