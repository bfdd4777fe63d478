package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// fakeTxManager runs fn directly against the same in-memory fakes — no
// real isolation, since these tests exercise the engines' orchestration
// logic, not Postgres's concurrency control (no test in this repository
// runs against Postgres).
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) Run(ctx context.Context, _ gateway.Isolation, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txCtx := context.WithValue(ctx, gateway.TransactionKey, struct{}{})
	return fn(txCtx)
}

type fakeWalletRepository struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet
}

func newFakeWalletRepository(wallets ...*domain.Wallet) *fakeWalletRepository {
	r := &fakeWalletRepository{wallets: make(map[string]*domain.Wallet)}
	for _, w := range wallets {
		r.wallets[w.ID] = w
	}
	return r
}

func (r *fakeWalletRepository) Create(ctx context.Context, initialBalance money.Decimal) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	w := &domain.Wallet{ID: uuid.NewString(), Balance: initialBalance, CreatedAt: now, UpdatedAt: now}
	r.wallets[w.ID] = w
	return w, nil
}

func (r *fakeWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeWalletRepository) Update(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.ID]; !ok {
		return gateway.ErrNotFound
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *fakeWalletRepository) WithTx(gateway.TransactionObject) gateway.WalletRepository { return r }

type fakeTransactionLogRepository struct {
	mu       sync.Mutex
	byID     map[string]*domain.TransactionLog
	byKey    map[string]string
	byWallet map[string][]string
}

func newFakeTransactionLogRepository() *fakeTransactionLogRepository {
	return &fakeTransactionLogRepository{
		byID:     make(map[string]*domain.TransactionLog),
		byKey:    make(map[string]string),
		byWallet: make(map[string][]string),
	}
}

func (r *fakeTransactionLogRepository) Insert(ctx context.Context, log *domain.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[log.IdempotencyKey]; exists {
		return gateway.ErrUniqueViolation
	}
	cp := *log
	r.byID[log.ID] = &cp
	r.byKey[log.IdempotencyKey] = log.ID
	r.byWallet[log.FromWalletID] = append(r.byWallet[log.FromWalletID], log.ID)
	r.byWallet[log.ToWalletID] = append(r.byWallet[log.ToWalletID], log.ID)
	return nil
}

func (r *fakeTransactionLogRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[key]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeTransactionLogRepository) UpdateStatus(ctx context.Context, log *domain.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[log.ID]; !ok {
		return gateway.ErrNotFound
	}
	cp := *log
	r.byID[log.ID] = &cp
	return nil
}

func (r *fakeTransactionLogRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.TransactionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byWallet[walletID]
	var out []*domain.TransactionLog
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.byID[ids[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTransactionLogRepository) WithTx(gateway.TransactionObject) gateway.TransactionLogRepository {
	return r
}

type fakeLedgerRepository struct {
	mu      sync.Mutex
	entries []*domain.Ledger
}

func newFakeLedgerRepository() *fakeLedgerRepository {
	return &fakeLedgerRepository{}
}

func (r *fakeLedgerRepository) InsertPair(ctx context.Context, debit, credit *domain.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, debit, credit)
	return nil
}

func (r *fakeLedgerRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Ledger
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].WalletID == walletID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeLedgerRepository) WithTx(gateway.TransactionObject) gateway.LedgerRepository { return r }

type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newFakeAccountRepository(accounts ...*domain.Account) *fakeAccountRepository {
	r := &fakeAccountRepository{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepository) Create(ctx context.Context, initialBalance money.Decimal) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	a := &domain.Account{ID: uuid.NewString(), Balance: initialBalance, CreatedAt: now, UpdatedAt: now}
	r.accounts[a.ID] = a
	return a, nil
}

func (r *fakeAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepository) Update(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return gateway.ErrNotFound
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepository) WithTx(gateway.TransactionObject) gateway.AccountRepository { return r }

type fakeInterestLogRepository struct {
	mu       sync.Mutex
	byKey    map[string]*domain.InterestLog
	byAccount map[string][]*domain.InterestLog
}

func interestLogKey(accountID string, date time.Time) string {
	return accountID + "|" + date.Format("2006-01-02")
}

func newFakeInterestLogRepository() *fakeInterestLogRepository {
	return &fakeInterestLogRepository{
		byKey:     make(map[string]*domain.InterestLog),
		byAccount: make(map[string][]*domain.InterestLog),
	}
}

func (r *fakeInterestLogRepository) Insert(ctx context.Context, log *domain.InterestLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := interestLogKey(log.AccountID, log.CalculationDate)
	if _, exists := r.byKey[key]; exists {
		return gateway.ErrUniqueViolation
	}
	cp := *log
	r.byKey[key] = &cp
	r.byAccount[log.AccountID] = append(r.byAccount[log.AccountID], &cp)
	return nil
}

func (r *fakeInterestLogRepository) FindByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*domain.InterestLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.byKey[interestLogKey(accountID, date)]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	cp := *log
	return &cp, nil
}

func (r *fakeInterestLogRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.InterestLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := r.byAccount[accountID]
	var out []*domain.InterestLog
	for i := len(logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, logs[i])
	}
	return out, nil
}

func (r *fakeInterestLogRepository) WithTx(gateway.TransactionObject) gateway.InterestLogRepository {
	return r
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Exchange   string
	RoutingKey string
	Body       interface{}
}

func (p *fakeEventPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Exchange: exchange, RoutingKey: routingKey, Body: body})
	return nil
}
