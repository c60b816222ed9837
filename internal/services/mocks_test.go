package services

import (
	"context"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
)

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Fatal(string, ...interface{}) {}

// Mock ItemRepository
type mockItemRepo struct {
	mu       sync.Mutex
	items    map[string]*domain.Item
	getCalls int
	deleted  []string
}

func newMockItemRepo(items ...*domain.Item) *mockItemRepo {
	m := &mockItemRepo{items: make(map[string]*domain.Item)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *mockItemRepo) InsertItem(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *mockItemRepo) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	item, ok := m.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (m *mockItemRepo) GetItems(ctx context.Context, itemIDs []string) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*domain.Item
	for _, id := range itemIDs {
		if item, ok := m.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockItemRepo) UpdateItemStatus(ctx context.Context, itemID string, status domain.ItemStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[itemID]; ok {
		item.Status = status
	}
	return nil
}

func (m *mockItemRepo) DeleteItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
	m.deleted = append(m.deleted, itemID)
	return nil
}

// Mock BidRepository
type mockBidRepo struct {
	mu        sync.Mutex
	bids      []*domain.Bid
	insertErr error
}

func (m *mockBidRepo) InsertBid(ctx context.Context, bid *domain.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.bids = append(m.bids, bid)
	return nil
}

func (m *mockBidRepo) HasBids(ctx context.Context, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, bid := range m.bids {
		if bid.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBidRepo) GetLatestBids(ctx context.Context, itemID string, limit int) ([]*domain.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest []*domain.Bid
	for i := len(m.bids) - 1; i >= 0 && len(latest) < limit; i-- {
		if m.bids[i].ItemID == itemID {
			latest = append(latest, m.bids[i])
		}
	}
	return latest, nil
}

func (m *mockBidRepo) prices(itemID string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var prices []float64
	for _, bid := range m.bids {
		if bid.ItemID == itemID {
			prices = append(prices, bid.BidPrice)
		}
	}
	return prices
}

// Mock ItemCache
type mockItemCache struct {
	mu       sync.Mutex
	items    map[string]*domain.Item
	getErr   error
	setErr   error
	setCalls int
	deleted  []string
}

func newMockItemCache() *mockItemCache {
	return &mockItemCache{items: make(map[string]*domain.Item)}
}

func (m *mockItemCache) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.items[itemID], nil
}

func (m *mockItemCache) GetItems(ctx context.Context, itemIDs []string) (map[string]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	found := make(map[string]*domain.Item)
	for _, id := range itemIDs {
		if item, ok := m.items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

func (m *mockItemCache) SetItem(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls++
	m.items[item.ID] = item
	return nil
}

func (m *mockItemCache) DeleteItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
	m.deleted = append(m.deleted, itemID)
	return nil
}

// Mock PriceCache
type mockPriceCache struct {
	mu     sync.Mutex
	bids   map[string]*domain.CurrentBid
	getErr error
	setErr error
}

func newMockPriceCache() *mockPriceCache {
	return &mockPriceCache{bids: make(map[string]*domain.CurrentBid)}
}

func (m *mockPriceCache) GetCurrentBid(ctx context.Context, itemID string) (*domain.CurrentBid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.bids[itemID], nil
}

func (m *mockPriceCache) SetCurrentBid(ctx context.Context, itemID string, bid *domain.CurrentBid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.bids[itemID] = bid
	return nil
}

// Mock SimilarityCache. Per-key read failures let tests exercise the
// partial fan-out path.
type mockSimilarityCache struct {
	mu      sync.Mutex
	sets    map[string][]string
	readErr map[string]error
}

func newMockSimilarityCache() *mockSimilarityCache {
	return &mockSimilarityCache{
		sets:    make(map[string][]string),
		readErr: make(map[string]error),
	}
}

func (m *mockSimilarityCache) GetSimilarItems(ctx context.Context, itemID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[itemID]; err != nil {
		return nil, err
	}
	return m.sets[itemID], nil
}

func (m *mockSimilarityCache) SetSimilarItems(ctx context.Context, itemID string, similarIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(similarIDs) == 0 {
		delete(m.sets, itemID)
		return nil
	}
	m.sets[itemID] = similarIDs
	return nil
}

func (m *mockSimilarityCache) DeleteSimilarItems(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, itemID)
	return nil
}

// Mock TransferListCache
type mockTransferListCache struct {
	mu        sync.Mutex
	lists     map[string][]*domain.TransferRecord
	removeErr error
}

func newMockTransferListCache() *mockTransferListCache {
	return &mockTransferListCache{lists: make(map[string][]*domain.TransferRecord)}
}

func (m *mockTransferListCache) GetTransferringItems(ctx context.Context, userID string) ([]*domain.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists[userID], nil
}

func (m *mockTransferListCache) AddTransferringItem(ctx context.Context, userID string, record *domain.TransferRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[userID] = append(m.lists[userID], record)
	return nil
}

func (m *mockTransferListCache) RemoveTransferringItem(ctx context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	var remaining []*domain.TransferRecord
	for _, record := range m.lists[userID] {
		if record.ItemID != itemID {
			remaining = append(remaining, record)
		}
	}
	m.lists[userID] = remaining
	return nil
}

// Mock EventPublisher
type priceEvent struct {
	itemID string
	price  float64
}

type mockEventPublisher struct {
	mu         sync.Mutex
	prices     []priceEvent
	transfers  []*domain.TransferRecord
	rateJobs   []string
	publishErr error
}

func (m *mockEventPublisher) PublishPriceUpdate(ctx context.Context, itemID string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.prices = append(m.prices, priceEvent{itemID: itemID, price: price})
	return nil
}

func (m *mockEventPublisher) PublishTransfer(ctx context.Context, record *domain.TransferRecord, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, record)
	return nil
}

func (m *mockEventPublisher) EnqueueRatingJob(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateJobs = append(m.rateJobs, itemID)
	return nil
}

// Mock LedgerClient
type mockLedgerClient struct {
	operationID string
	err         error
	calls       []string
}

func (m *mockLedgerClient) CreateItem(ctx context.Context, itemID, seller string) (string, error) {
	m.calls = append(m.calls, "create:"+itemID)
	return m.operationID, m.err
}

func (m *mockLedgerClient) DeleteItem(ctx context.Context, itemID, seller string) (string, error) {
	m.calls = append(m.calls, "delete:"+itemID)
	return m.operationID, m.err
}

func (m *mockLedgerClient) TransferItem(ctx context.Context, itemID, buyer string) (string, error) {
	m.calls = append(m.calls, "transfer:"+itemID)
	return m.operationID, m.err
}

// Mock OperationRepository
type mockOperationRepo struct {
	mu  sync.Mutex
	ops map[string]*domain.Operation
}

func newMockOperationRepo() *mockOperationRepo {
	return &mockOperationRepo{ops: make(map[string]*domain.Operation)}
}

func (m *mockOperationRepo) CreatePending(ctx context.Context, operationID string, opType domain.OperationType, params domain.OperationParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.ops[operationID] = &domain.Operation{
		OperationID: operationID,
		Type:        opType,
		Status:      domain.OperationPending,
		Params:      params,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (m *mockOperationRepo) GetOperation(ctx context.Context, operationID string) (*domain.Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.ops[operationID]
	if !ok {
		return nil, domain.ErrOperationNotFound
	}
	return op, nil
}

func (m *mockOperationRepo) MarkCompleted(ctx context.Context, operationID, transactionHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op, ok := m.ops[operationID]; ok {
		op.Status = domain.OperationCompleted
		op.TransactionHash = transactionHash
		op.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockOperationRepo) MarkFailed(ctx context.Context, operationID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op, ok := m.ops[operationID]; ok {
		op.Status = domain.OperationFailed
		op.Error = reason
		op.UpdatedAt = time.Now()
	}
	return nil
}

// Mock TransferJobRepository
type mockTransferJobRepo struct {
	mu       sync.Mutex
	jobs     []*domain.TransferJob
	executed []string
}

func (m *mockTransferJobRepo) CreateJob(ctx context.Context, job *domain.TransferJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockTransferJobRepo) GetDueJobs(ctx context.Context, before time.Time) ([]*domain.TransferJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []*domain.TransferJob
	for _, job := range m.jobs {
		if job.Status == domain.JobPending && !job.RunAt.After(before) {
			due = append(due, job)
		}
	}
	return due, nil
}

func (m *mockTransferJobRepo) MarkExecuted(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.ID == jobID {
			job.Status = domain.JobExecuted
		}
	}
	m.executed = append(m.executed, jobID)
	return nil
}

// Mock LeaderElection
type mockLeaderElection struct {
	leader bool
}

func (m *mockLeaderElection) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	return m.leader, nil
}

func (m *mockLeaderElection) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	return m.leader, nil
}

func (m *mockLeaderElection) ReleaseLeadership(ctx context.Context, instanceID string) error {
	m.leader = false
	return nil
}
