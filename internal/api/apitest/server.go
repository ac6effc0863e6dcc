// Package apitest provides an in-process fake of the shop backend for tests.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autoshop/internal/model"
)

// Batch is one accepted POST /transactions/batch.
type Batch struct {
	CustomerID string
	Items      int
}

// Server is a fake backend. Its zero configuration accepts any bearer
// token and answers every endpoint from memory.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	token        string
	nextID       int
	customers    []model.Customer
	transactions []model.RemoteTransaction
	batches      []Batch
	calls        map[string]int
	requestIDs   []string

	envelope         string
	failSearch       bool
	failList         bool
	failTxList       bool
	failBatchFor     map[string]bool
	conflictOnCreate *model.Customer
}

// New starts a fake backend. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		calls:        map[string]int{},
		failBatchFor: map[string]bool{},
		envelope:     "transactions",
	}

	r := gin.New()
	r.Use(s.count, s.authenticate)
	r.GET("/customers", s.getCustomers)
	r.POST("/customers", s.createCustomer)
	r.GET("/transactions", s.getTransactions)
	r.POST("/transactions/batch", s.postBatch)

	s.Server = httptest.NewServer(r)
	return s
}

// RequireToken makes every request without "Bearer token" fail with 401.
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// AddCustomer stores a customer and returns it with its assigned ID.
func (s *Server) AddCustomer(c model.Customer) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCustomerLocked(c)
}

// AddTransaction stores a transaction as if it had been imported earlier.
func (s *Server) AddTransaction(tx model.RemoteTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = s.newIDLocked("tx")
	}
	s.transactions = append(s.transactions, tx)
}

// Customers returns a copy of the stored customers.
func (s *Server) Customers() []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Customer(nil), s.customers...)
}

// Transactions returns a copy of the stored transactions.
func (s *Server) Transactions() []model.RemoteTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.RemoteTransaction(nil), s.transactions...)
}

// Batches returns the accepted batch submissions in order.
func (s *Server) Batches() []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Batch(nil), s.batches...)
}

// Calls returns how many requests hit "METHOD /path", including failed ones.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// RequestIDs returns the X-Request-Id header of every request in order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// TotalCalls returns the number of requests of any kind.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

// SetTransactionsEnvelope chooses how GET /transactions wraps its list:
// "" for a bare array, otherwise an object with that key.
func (s *Server) SetTransactionsEnvelope(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = key
}

// FailSearch makes GET /customers?name= return 500.
func (s *Server) FailSearch(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSearch = fail
}

// FailCustomerList makes GET /customers without a name return 500.
func (s *Server) FailCustomerList(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = fail
}

// FailTransactionList makes GET /transactions return 503.
func (s *Server) FailTransactionList(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTxList = fail
}

// FailBatchFor makes batch submissions for customerID return 500.
func (s *Server) FailBatchFor(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failBatchFor[customerID] = true
}

// ConflictOnCreate simulates another device creating c between our search
// and our create: the next POST /customers stores c and answers 409.
func (s *Server) ConflictOnCreate(c model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflictOnCreate = &c
}

func (s *Server) newIDLocked(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

func (s *Server) addCustomerLocked(c model.Customer) model.Customer {
	if c.ID == "" {
		c.ID = s.newIDLocked("cust")
	}
	s.customers = append(s.customers, c)
	return c
}

func (s *Server) count(c *gin.Context) {
	s.mu.Lock()
	s.calls[c.Request.Method+" "+c.Request.URL.Path]++
	s.requestIDs = append(s.requestIDs, c.GetHeader("X-Request-Id"))
	s.mu.Unlock()
	c.Next()
}

func (s *Server) authenticate(c *gin.Context) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token != "" && c.GetHeader("Authorization") != "Bearer "+token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

type customerJSON struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	VehicleDetails string `json:"vehicleDetails"`
}

func toCustomerJSON(c model.Customer) customerJSON {
	return customerJSON{ID: c.ID, Name: c.Name, Email: c.Email, VehicleDetails: c.VehicleDetails}
}

func (s *Server) getCustomers(c *gin.Context) {
	name, searching := c.GetQuery("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	if searching && s.failSearch || !searching && s.failList {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "customer lookup failed"})
		return
	}

	out := []customerJSON{}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, cust := range s.customers {
		if searching && !strings.Contains(strings.ToLower(cust.Name), needle) {
			continue
		}
		out = append(out, toCustomerJSON(cust))
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

func (s *Server) createCustomer(c *gin.Context) {
	var req customerJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictOnCreate != nil {
		s.addCustomerLocked(*s.conflictOnCreate)
		s.conflictOnCreate = nil
		c.JSON(http.StatusConflict, gin.H{"error": "E11000 duplicate key error: customer already exists"})
		return
	}
	for _, cust := range s.customers {
		if model.SameText(cust.Name, req.Name) && model.SameText(cust.VehicleDetails, req.VehicleDetails) {
			c.JSON(http.StatusConflict, gin.H{"error": "customer already exists"})
			return
		}
	}

	created := s.addCustomerLocked(model.Customer{
		Name:           req.Name,
		Email:          req.Email,
		VehicleDetails: req.VehicleDetails,
	})
	c.JSON(http.StatusCreated, toCustomerJSON(created))
}

type transactionJSON struct {
	ID              string          `json:"_id"`
	CustomerID      string          `json:"customerId,omitempty"`
	CustomerName    string          `json:"customerName"`
	VehicleDetails  string          `json:"vehicleDetails"`
	ServiceName     string          `json:"serviceName"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	ServiceDate     string          `json:"serviceDate,omitempty"`
}

func (s *Server) getTransactions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTxList {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transactions unavailable"})
		return
	}

	out := []transactionJSON{}
	for _, tx := range s.transactions {
		out = append(out, transactionJSON{
			ID:              tx.ID,
			CustomerID:      tx.CustomerID,
			CustomerName:    tx.CustomerName,
			VehicleDetails:  tx.VehicleDetails,
			ServiceName:     tx.ServiceName,
			OriginalPrice:   tx.OriginalPrice,
			FinalPrice:      tx.FinalPrice,
			DiscountPercent: tx.DiscountPercent,
			DiscountAmount:  tx.DiscountAmount,
			PaymentMethod:   tx.PaymentMethod,
			ServiceDate:     tx.ServiceDate,
		})
	}
	if s.envelope == "" {
		c.JSON(http.StatusOK, out)
		return
	}
	c.JSON(http.StatusOK, gin.H{s.envelope: out})
}

type batchItemJSON struct {
	CustomerName    string          `json:"customerName"`
	VehicleDetails  string          `json:"vehicleDetails"`
	ServiceName     string          `json:"serviceName"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	ServiceDate     string          `json:"serviceDate"`
}

func (s *Server) postBatch(c *gin.Context) {
	var req struct {
		CustomerID string          `json:"customerId"`
		Items      []batchItemJSON `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId is required"})
		return
	}
	if s.failBatchFor[req.CustomerID] {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("batch for %s failed", req.CustomerID)})
		return
	}

	for _, it := range req.Items {
		s.transactions = append(s.transactions, model.RemoteTransaction{
			ID:              s.newIDLocked("tx"),
			CustomerID:      req.CustomerID,
			CustomerName:    it.CustomerName,
			VehicleDetails:  it.VehicleDetails,
			ServiceName:     it.ServiceName,
			OriginalPrice:   it.OriginalPrice,
			FinalPrice:      it.FinalPrice,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			PaymentMethod:   it.PaymentMethod,
			ServiceDate:     it.ServiceDate,
		})
	}
	s.batches = append(s.batches, Batch{CustomerID: req.CustomerID, Items: len(req.Items)})
	c.JSON(http.StatusCreated, gin.H{"saved": len(req.Items)})
}
