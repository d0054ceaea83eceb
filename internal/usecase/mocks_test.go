package usecase

import (
	"context"
	"sync"
	"time"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/repository"
	"cambliss-news-backend/internal/infra/payment"
)

// memSubRepo is a small in-memory implementation used by unit tests.
type memSubRepo struct {
	mu      sync.RWMutex
	byUser  map[string]*model.Subscription
	saveErr error // used by tests to simulate save failures
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{byUser: make(map[string]*model.Subscription)}
}

func (m *memSubRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byUser[s.UserID] = &cp
	return nil
}

func (m *memSubRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
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

func (m *memSubRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
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

func (m *memSubRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.SubscriptionStatus]int)
	for _, s := range m.byUser {
		counts[s.Status]++
	}
	return counts, nil
}

// memUserRepo keeps point balances in a map.
type memUserRepo struct {
	mu     sync.Mutex
	points map[string]int64
	addErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{points: make(map[string]int64)}
}

func (m *memUserRepo) AddPoints(ctx context.Context, tx repository.Tx, userID string, delta int64) (int64, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[userID] += delta
	return m.points[userID], nil
}

func (m *memUserRepo) Points(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points[userID], nil
}

// memOrderStore mimics the Redis store's consume-once semantics.
type memOrderStore struct {
	mu     sync.Mutex
	orders map[string]*model.Order
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[string]*model.Order)}
}

func (m *memOrderStore) Put(ctx context.Context, order *model.Order, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderStore) Consume(ctx context.Context, orderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotOutstanding
	}
	delete(m.orders, orderID)
	return o, nil
}

func (m *memOrderStore) outstanding(orderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[orderID]
	return ok
}

// mockGateway signs and verifies with a real HMAC under a test secret, so
// tests exercise the production verification path.
type mockGateway struct {
	mu        sync.Mutex
	secret    string
	nextOrder string
	payments  map[string]*model.VerifiedPayment
	createErr error
	fetchErr  error
	created   int
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		secret:    "test_secret",
		nextOrder: "order_test_1",
		payments:  make(map[string]*model.VerifiedPayment),
	}
}

func (g *mockGateway) Name() string     { return "razorpay" }
func (g *mockGateway) KeyID() string    { return "rzp_test_key" }
func (g *mockGateway) Configured() bool { return true }

func (g *mockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*model.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created++
	return &model.Order{
		ID:        g.nextOrder,
		Amount:    amountMinor,
		Currency:  currency,
		Receipt:   receipt,
		CreatedAt: time.Now(),
	}, nil
}

func (g *mockGateway) VerifySignature(orderID, paymentID, signature string) error {
	return payment.VerifySignature(g.secret, orderID, paymentID, signature)
}

func (g *mockGateway) FetchPayment(ctx context.Context, paymentID string) (*model.VerifiedPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, domain.ErrGatewayFailure
	}
	cp := *p
	return &cp, nil
}

// sign produces a valid callback signature for this gateway's secret.
func (g *mockGateway) sign(orderID, paymentID string) string {
	return payment.Signature(g.secret, orderID, paymentID)
}
