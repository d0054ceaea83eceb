package web

import (
	"context"
	"sync"
	"time"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/repository"
	"cambliss-news-backend/internal/infra/payment"
)

// --- In-memory ports backing the handler tests ---

type mockSubRepo struct {
	mu     sync.RWMutex
	byUser map[string]*model.Subscription
}

func newMockSubRepo() *mockSubRepo {
	return &mockSubRepo{byUser: make(map[string]*model.Subscription)}
}

func (m *mockSubRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byUser[s.UserID] = &cp
	return nil
}

func (m *mockSubRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSubRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byUser {
		if s.ID == id {
			s.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockSubRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.byUser {
		if s.Status == model.SubscriptionStatusActive && now.After(s.EndDate) {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *mockSubRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.SubscriptionStatus]int)
	for _, s := range m.byUser {
		counts[s.Status]++
	}
	return counts, nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	points map[string]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{points: make(map[string]int64)}
}

func (m *mockUserRepo) AddPoints(ctx context.Context, tx repository.Tx, userID string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[userID] += delta
	return m.points[userID], nil
}

func (m *mockUserRepo) Points(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points[userID], nil
}

type mockOrderStore struct {
	mu     sync.Mutex
	orders map[string]*model.Order
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[string]*model.Order)}
}

func (m *mockOrderStore) Put(ctx context.Context, order *model.Order, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderStore) Consume(ctx context.Context, orderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotOutstanding
	}
	delete(m.orders, orderID)
	return o, nil
}

// mockGateway verifies with a real HMAC under a fixed test secret.
type mockGateway struct {
	mu       sync.Mutex
	secret   string
	seq      int
	payments map[string]*model.VerifiedPayment
}

func newMockGateway() *mockGateway {
	return &mockGateway{secret: "web_test_secret", payments: make(map[string]*model.VerifiedPayment)}
}

func (g *mockGateway) Name() string     { return "razorpay" }
func (g *mockGateway) KeyID() string    { return "rzp_test_key" }
func (g *mockGateway) Configured() bool { return true }

func (g *mockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*model.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := "order_" + receipt
	// Gateway settles the payment immediately in tests.
	payID := "pay_" + id
	g.payments[payID] = &model.VerifiedPayment{
		ID: payID, OrderID: id, Amount: amountMinor, Currency: currency,
		Status: "captured", Method: "upi", Email: "reader@example.com", Contact: "+911234567890",
	}
	return &model.Order{ID: id, Amount: amountMinor, Currency: currency, Receipt: receipt, CreatedAt: time.Now()}, nil
}

func (g *mockGateway) VerifySignature(orderID, paymentID, signature string) error {
	return payment.VerifySignature(g.secret, orderID, paymentID, signature)
}

func (g *mockGateway) FetchPayment(ctx context.Context, paymentID string) (*model.VerifiedPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, domain.ErrGatewayFailure
	}
	cp := *p
	return &cp, nil
}

func (g *mockGateway) sign(orderID, paymentID string) string {
	return payment.Signature(g.secret, orderID, paymentID)
}
