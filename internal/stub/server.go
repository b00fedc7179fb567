// Package stub is an in-memory development stand-in for the upstream service
// that owns menu, order, and payment records. It exists so the client flow
// can be exercised end to end without the real backend; state does not
// survive a restart.
package stub

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableside/internal/domain/dto"
	"tableside/internal/domain/models"
)

type Server struct {
	mylog  *zap.Logger
	router *gin.Engine

	mu       sync.Mutex
	menu     []models.MenuCategory
	items    map[string]models.MenuItem
	tables   map[string]models.Table
	methods  []models.PaymentMethod
	orders   map[string]*models.Order
	payments map[string]*models.Payment
	orderSeq int
}

func NewServer(mylog *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(mylog))

	s := &Server{
		mylog:    mylog,
		router:   router,
		items:    map[string]models.MenuItem{},
		tables:   map[string]models.Table{},
		orders:   map[string]*models.Order{},
		payments: map[string]*models.Payment{},
	}
	s.seed()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/menu", s.getMenu)
		v1.GET("/tables/:id", s.getTable)
		v1.POST("/orders", s.createOrder)
		v1.GET("/orders/:id", s.getOrder)
		v1.GET("/payment-methods", s.getPaymentMethods)
		v1.POST("/payments", s.initiatePayment)
		v1.POST("/payments/:id/receipt", s.uploadReceipt)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	s.mylog.Info("stub collaborator starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// StartAdvancer walks every non-terminal order one status forward per tick so
// a polling client sees the kitchen progress. Stops when the channel closes.
func (s *Server) StartAdvancer(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.advanceOrders()
			}
		}
	}()
}

func (s *Server) advanceOrders() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		rank := order.Status.Rank()
		if order.Status.Terminal() && order.Status != models.StatusReady {
			continue
		}
		if rank >= 0 && rank < len(models.StatusSequence)-1 {
			order.Status = models.StatusSequence[rank+1]
			s.mylog.Info("order advanced",
				zap.String("order_id", order.ID),
				zap.String("status", string(order.Status)))
		}
	}
}

func fail(c *gin.Context, status int, kind, format string, args ...any) {
	c.JSON(status, dto.ErrorResponse{Code: status, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (s *Server) getMenu(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.menu)
}

func (s *Server) getTable(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "not_found", "table %q does not exist", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) getPaymentMethods(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.methods)
}

func (s *Server) createOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "validation", "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[req.TableID]; !ok {
		fail(c, http.StatusNotFound, "not_found", "table %q does not exist", req.TableID)
		return
	}
	if len(req.Items) == 0 {
		fail(c, http.StatusUnprocessableEntity, "validation", "items must not be empty")
		return
	}

	// Totals are recomputed from the server's own menu prices; the client's
	// cart math is never trusted.
	var total int64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		item, ok := s.items[line.MenuItemID]
		if !ok {
			fail(c, http.StatusUnprocessableEntity, "validation", "unknown menu item %q", line.MenuItemID)
			return
		}
		if line.Quantity < 1 {
			fail(c, http.StatusUnprocessableEntity, "validation", "quantity for %q must be positive", item.Name)
			return
		}
		subtotal := item.Price * int64(line.Quantity)
		total += subtotal
		items = append(items, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
			Subtotal:   subtotal,
			Note:       line.Note,
		})
	}

	s.orderSeq++
	order := &models.Order{
		ID:            uuid.NewString(),
		Number:        fmt.Sprintf("ORD-%03d", s.orderSeq),
		TableID:       req.TableID,
		Status:        models.StatusPending,
		TotalAmount:   total,
		PaymentMethod: models.PaymentMethodType(req.PaymentMethod),
		PaymentStatus: models.PaymentPending,
		Items:         items,
		Note:          req.Note,
		CreatedAt:     time.Now().UTC(),
	}
	s.orders[order.ID] = order
	c.JSON(http.StatusCreated, order)
}

func (s *Server) getOrder(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "not_found", "order %q does not exist", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) initiatePayment(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "validation", "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[req.OrderID]
	if !ok {
		fail(c, http.StatusNotFound, "not_found", "order %q does not exist", req.OrderID)
		return
	}
	method := models.PaymentMethodType(req.Method)
	switch method {
	case models.MethodCash, models.MethodPOS, models.MethodTransfer:
	default:
		fail(c, http.StatusUnprocessableEntity, "validation", "unknown payment method %q", req.Method)
		return
	}

	status := models.PaymentCompleted
	if method == models.MethodTransfer {
		status = models.PaymentPending
	}
	payment := &models.Payment{
		ID:      uuid.NewString(),
		OrderID: order.ID,
		Method:  method,
		Status:  status,
		Amount:  order.TotalAmount,
	}
	s.payments[payment.ID] = payment
	order.PaymentMethod = method
	if status == models.PaymentCompleted {
		order.PaymentStatus = models.PaymentCompleted
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) uploadReceipt(c *gin.Context) {
	var req dto.UploadReceiptRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "validation", "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "not_found", "payment %q does not exist", c.Param("id"))
		return
	}
	if payment.Method != models.MethodTransfer {
		fail(c, http.StatusUnprocessableEntity, "validation", "receipts apply only to transfer payments")
		return
	}
	if strings.TrimSpace(req.ReceiptRef) == "" {
		fail(c, http.StatusUnprocessableEntity, "validation", "receipt reference is empty")
		return
	}

	payment.ReceiptRef = req.ReceiptRef
	payment.Status = models.PaymentCompleted
	if order, ok := s.orders[payment.OrderID]; ok {
		order.PaymentStatus = models.PaymentCompleted
	}
	c.JSON(http.StatusOK, payment)
}

func loggerMiddleware(mylog *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		mylog.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
