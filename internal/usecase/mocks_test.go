//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/adapter"
	"seriespay/internal/domain/ports/repository"
	"seriespay/internal/infra/redis"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// ---- Mock PurchaseRepository ----

// MockPurchaseRepo keeps purchases in memory keyed by checkout key, so the
// unique-constraint behavior of the real repo is reproduced: saving the same
// key twice returns domain.ErrAlreadyExists.
type MockPurchaseRepo struct {
	mu    sync.Mutex
	byKey map[string]*model.Purchase

	SaveFunc                   func(ctx context.Context, p *model.Purchase) error
	ExistsByAnyCheckoutKeyFunc func(ctx context.Context, keys []string) (bool, error)
	ListUntransferredFunc      func(ctx context.Context, creatorID string) ([]*model.Purchase, error)
	MarkTransferredFunc        func(ctx context.Context, purchaseID, transferID string) (bool, error)
	HasPurchasedFunc           func(ctx context.Context, userID, seasonID string) (bool, error)
}

var _ repository.PurchaseRepository = (*MockPurchaseRepo)(nil)

func NewMockPurchaseRepo() *MockPurchaseRepo {
	return &MockPurchaseRepo{byKey: make(map[string]*model.Purchase)}
}

func (m *MockPurchaseRepo) Save(ctx context.Context, p *model.Purchase) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[p.CheckoutKey]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *p
	m.byKey[p.CheckoutKey] = &cp
	return nil
}

func (m *MockPurchaseRepo) ExistsByAnyCheckoutKey(ctx context.Context, keys []string) (bool, error) {
	if m.ExistsByAnyCheckoutKeyFunc != nil {
		return m.ExistsByAnyCheckoutKeyFunc(ctx, keys)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if _, ok := m.byKey[k]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPurchaseRepo) ListUntransferredByCreator(ctx context.Context, creatorID string) ([]*model.Purchase, error) {
	if m.ListUntransferredFunc != nil {
		return m.ListUntransferredFunc(ctx, creatorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Purchase
	for _, p := range m.byKey {
		if p.CreatorID == creatorID && p.Status == model.PurchaseStatusCompleted && !p.Transferred && p.ChargeID != nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPurchaseRepo) MarkTransferred(ctx context.Context, purchaseID, transferID string) (bool, error) {
	if m.MarkTransferredFunc != nil {
		return m.MarkTransferredFunc(ctx, purchaseID, transferID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byKey {
		if p.ID == purchaseID {
			if p.Transferred {
				return false, nil
			}
			p.Transferred = true
			p.TransferID = &transferID
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPurchaseRepo) ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Purchase
	for _, p := range m.byKey {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPurchaseRepo) HasPurchased(ctx context.Context, userID, seasonID string) (bool, error) {
	if m.HasPurchasedFunc != nil {
		return m.HasPurchasedFunc(ctx, userID, seasonID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byKey {
		if p.UserID == userID && p.SeasonID == seasonID && p.Status == model.PurchaseStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPurchaseRepo) SumByPeriod(ctx context.Context, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.byKey {
		if p.Status == model.PurchaseStatusCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *MockPurchaseRepo) SumFeesByPeriod(ctx context.Context, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.byKey {
		if p.Status == model.PurchaseStatusCompleted {
			sum += p.PlatformFee
		}
	}
	return sum, nil
}

// All returns every stored purchase, for assertions.
func (m *MockPurchaseRepo) All() []*model.Purchase {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Purchase, 0, len(m.byKey))
	for _, p := range m.byKey {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

// ---- Mock PayoutRecordRepository ----

type MockPayoutRecordRepo struct {
	mu   sync.Mutex
	recs []*model.PayoutRecord

	SaveFunc func(ctx context.Context, rec *model.PayoutRecord) error
}

var _ repository.PayoutRecordRepository = (*MockPayoutRecordRepo)(nil)

func NewMockPayoutRecordRepo() *MockPayoutRecordRepo {
	return &MockPayoutRecordRepo{}
}

func (m *MockPayoutRecordRepo) Save(ctx context.Context, rec *model.PayoutRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs = append(m.recs, &cp)
	return nil
}

func (m *MockPayoutRecordRepo) ListByCreator(ctx context.Context, creatorID string) ([]*model.PayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PayoutRecord
	for _, r := range m.recs {
		if r.CreatorID == creatorID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPayoutRecordRepo) SumCompleted(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, r := range m.recs {
		if r.Status == model.PayoutStatusCompleted {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (m *MockPayoutRecordRepo) All() []*model.PayoutRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.PayoutRecord, 0, len(m.recs))
	for _, r := range m.recs {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

// ---- Mock SeasonRepository ----

type MockSeasonRepo struct {
	mu    sync.Mutex
	store map[string]*model.Season

	FindPricesFunc func(ctx context.Context, ids []string) ([]int64, error)
}

var _ repository.SeasonRepository = (*MockSeasonRepo)(nil)

func NewMockSeasonRepo() *MockSeasonRepo {
	return &MockSeasonRepo{store: make(map[string]*model.Season)}
}

func (m *MockSeasonRepo) Put(s *model.Season) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
}

func (m *MockSeasonRepo) FindByID(ctx context.Context, id string) (*model.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSeasonRepo) FindPrices(ctx context.Context, ids []string) ([]int64, error) {
	if m.FindPricesFunc != nil {
		return m.FindPricesFunc(ctx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(ids))
	for i, id := range ids {
		if s, ok := m.store[id]; ok && s.Price != nil {
			out[i] = *s.Price
		}
	}
	return out, nil
}

func (m *MockSeasonRepo) ListBySeries(ctx context.Context, seriesID string) ([]*model.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Season
	for _, s := range m.store {
		if s.SeriesID == seriesID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock SeriesRepository ----

type MockSeriesRepo struct {
	mu    sync.Mutex
	store map[string]*model.Series
}

var _ repository.SeriesRepository = (*MockSeriesRepo)(nil)

func NewMockSeriesRepo() *MockSeriesRepo {
	return &MockSeriesRepo{store: make(map[string]*model.Series)}
}

func (m *MockSeriesRepo) Put(s *model.Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
}

func (m *MockSeriesRepo) FindByID(ctx context.Context, id string) (*model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// ---- Mock CreatorRepository ----

type MockCreatorRepo struct {
	mu    sync.Mutex
	store map[string]*model.Creator

	MarkOnboardingCompleteFunc func(ctx context.Context, creatorID string) (bool, error)
	ListPayoutBacklogFunc      func(ctx context.Context, limit int) ([]*model.Creator, error)
}

var _ repository.CreatorRepository = (*MockCreatorRepo)(nil)

func NewMockCreatorRepo() *MockCreatorRepo {
	return &MockCreatorRepo{store: make(map[string]*model.Creator)}
}

func (m *MockCreatorRepo) Put(c *model.Creator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
}

func (m *MockCreatorRepo) FindByID(ctx context.Context, id string) (*model.Creator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCreatorRepo) FindByPayoutAccount(ctx context.Context, accountID string) (*model.Creator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.PayoutAccountID != nil && *c.PayoutAccountID == accountID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCreatorRepo) SetPayoutAccount(ctx context.Context, creatorID, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[creatorID]
	if !ok {
		return domain.ErrNotFound
	}
	c.PayoutAccountID = &accountID
	return nil
}

func (m *MockCreatorRepo) MarkOnboardingComplete(ctx context.Context, creatorID string) (bool, error) {
	if m.MarkOnboardingCompleteFunc != nil {
		return m.MarkOnboardingCompleteFunc(ctx, creatorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[creatorID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if c.OnboardingComplete {
		return false, nil
	}
	c.OnboardingComplete = true
	return true, nil
}

func (m *MockCreatorRepo) ListPayoutBacklog(ctx context.Context, limit int) ([]*model.Creator, error) {
	if m.ListPayoutBacklogFunc != nil {
		return m.ListPayoutBacklogFunc(ctx, limit)
	}
	return nil, nil
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	// Sessions is what RetrieveSession serves by default.
	Sessions map[string]*adapter.CheckoutSession
	// Transfers captures every CreateTransfer input, in call order.
	Transfers []adapter.TransferInput

	CreateCheckoutSessionFunc func(ctx context.Context, in adapter.CreateSessionInput) (string, string, error)
	RetrieveSessionFunc       func(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error)
	ResolveChargeIDFunc       func(ctx context.Context, paymentIntentID string) (string, error)
	CreateTransferFunc        func(ctx context.Context, in adapter.TransferInput) (string, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{Sessions: make(map[string]*adapter.CheckoutSession)}
}

func (m *MockPaymentGateway) Name() string { return "mockpay" }

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, in adapter.CreateSessionInput) (string, string, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, in)
	}
	id := "cs_" + uuid.NewString()
	return id, "https://pay.example/" + id, nil
}

func (m *MockPaymentGateway) RetrieveSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	if m.RetrieveSessionFunc != nil {
		return m.RetrieveSessionFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockPaymentGateway) ResolveChargeID(ctx context.Context, paymentIntentID string) (string, error) {
	if m.ResolveChargeIDFunc != nil {
		return m.ResolveChargeIDFunc(ctx, paymentIntentID)
	}
	return "ch_" + paymentIntentID, nil
}

func (m *MockPaymentGateway) CreateTransfer(ctx context.Context, in adapter.TransferInput) (string, error) {
	if m.CreateTransferFunc != nil {
		m.mu.Lock()
		m.Transfers = append(m.Transfers, in)
		m.mu.Unlock()
		return m.CreateTransferFunc(ctx, in)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transfers = append(m.Transfers, in)
	return "tr_" + uuid.NewString(), nil
}

// ---- Mock ConnectGateway ----

type MockConnectGateway struct {
	CreateAccountFunc     func(ctx context.Context, email string) (string, error)
	CreateAccountLinkFunc func(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	AccountStatusFunc     func(ctx context.Context, accountID string) (bool, bool, bool, error)
}

var _ adapter.ConnectGateway = (*MockConnectGateway)(nil)

func (m *MockConnectGateway) CreateAccount(ctx context.Context, email string) (string, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, email)
	}
	return "acct_" + uuid.NewString(), nil
}

func (m *MockConnectGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	if m.CreateAccountLinkFunc != nil {
		return m.CreateAccountLinkFunc(ctx, accountID, refreshURL, returnURL)
	}
	return "https://connect.example/onboard/" + accountID, nil
}

func (m *MockConnectGateway) AccountStatus(ctx context.Context, accountID string) (bool, bool, bool, error) {
	if m.AccountStatusFunc != nil {
		return m.AccountStatusFunc(ctx, accountID)
	}
	return true, true, true, nil
}

// ---- Mock Locker ----

type MockLocker struct {
	mu   sync.Mutex
	held map[string]string

	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

var _ redis.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]string)}
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return "", domain.ErrBatchLockHeld
	}
	token := uuid.NewString()
	m.held[key] = token
	return token, nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
	}
	return nil
}
