package services

import (
	"context"
	"errors"
	"testing"

	"auction-marketplace/internal/domain"
)

type lifecycleFixture struct {
	svc          *LifecycleService
	items        *mockItemRepo
	operations   *mockOperationRepo
	transferJobs *mockTransferJobRepo
	itemCache    *mockItemCache
	transferList *mockTransferListCache
	similarity   *mockSimilarityCache
	ledger       *mockLedgerClient
	pub          *mockEventPublisher
}

func newLifecycleFixture(items ...*domain.Item) *lifecycleFixture {
	f := &lifecycleFixture{
		items:        newMockItemRepo(items...),
		operations:   newMockOperationRepo(),
		transferJobs: &mockTransferJobRepo{},
		itemCache:    newMockItemCache(),
		transferList: newMockTransferListCache(),
		similarity:   newMockSimilarityCache(),
		ledger:       &mockLedgerClient{operationID: "op-1"},
		pub:          &mockEventPublisher{},
	}
	similarityService := NewSimilarityService(f.similarity, f.itemCache, nopLogger{})
	f.svc = NewLifecycleService(
		f.items, f.operations, f.transferJobs,
		f.itemCache, f.transferList, similarityService,
		f.ledger, f.pub, nopLogger{},
	)
	return f
}

func TestCreateItem_RecordsPendingItemAndOperation(t *testing.T) {
	f := newLifecycleFixture()

	result, err := f.svc.CreateItem(context.Background(), CreateItemInput{
		Title:             "Vintage Watch",
		Description:       "1960s chronograph",
		Images:            []string{"img1.jpg"},
		Category:          "Watches",
		BasePrice:         100,
		Seller:            "alice",
		AuctionEndSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if result.OperationID != "op-1" {
		t.Errorf("expected operation id op-1, got %s", result.OperationID)
	}

	item := f.items.items[result.ItemID]
	if item == nil {
		t.Fatal("expected item row to be inserted")
	}
	if item.Status != domain.ItemPending {
		t.Errorf("expected new item to be PENDING, got %s", item.Status)
	}
	if item.Category != "watches" {
		t.Errorf("expected lowercased category, got %s", item.Category)
	}
	if item.Rating != -1 {
		t.Errorf("expected unrated sentinel -1, got %v", item.Rating)
	}

	op := f.operations.ops["op-1"]
	if op == nil {
		t.Fatal("expected a pending operation row")
	}
	if op.Type != domain.OperationAdd || op.Status != domain.OperationPending {
		t.Errorf("expected PENDING ADD, got %s %s", op.Status, op.Type)
	}
	if op.Params.ItemID != result.ItemID || op.Params.Owner != "alice" {
		t.Errorf("unexpected operation params: %+v", op.Params)
	}

	if len(f.transferJobs.jobs) != 1 {
		t.Fatalf("expected one settlement job, got %d", len(f.transferJobs.jobs))
	}
	if f.transferJobs.jobs[0].ItemID != result.ItemID {
		t.Errorf("expected job for %s, got %s", result.ItemID, f.transferJobs.jobs[0].ItemID)
	}

	if len(f.pub.rateJobs) != 1 || f.pub.rateJobs[0] != result.ItemID {
		t.Errorf("expected one rating job for the new item, got %v", f.pub.rateJobs)
	}
}

func TestCreateItem_LedgerRejection(t *testing.T) {
	f := newLifecycleFixture()
	f.ledger.err = &domain.LedgerRejection{Message: "seller not registered"}

	_, err := f.svc.CreateItem(context.Background(), CreateItemInput{
		Title:  "Vintage Watch",
		Seller: "alice",
	})
	var rejection *domain.LedgerRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected LedgerRejection, got %v", err)
	}
	if len(f.items.items) != 0 {
		t.Error("expected no item row when the ledger rejects")
	}
	if len(f.operations.ops) != 0 {
		t.Error("expected no operation row when the ledger rejects")
	}
}

func TestDeleteItem_CleansUpLocalState(t *testing.T) {
	f := newLifecycleFixture(activeItem("item-1", 100))
	f.similarity.sets["item-1"] = []string{"item-2"}
	f.similarity.sets["item-2"] = []string{"item-1", "item-3"}
	f.itemCache.items["item-1"] = activeItem("item-1", 100)

	operationID, err := f.svc.DeleteItem(context.Background(), "item-1", "alice")
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if operationID != "op-1" {
		t.Errorf("expected op-1, got %s", operationID)
	}

	op := f.operations.ops["op-1"]
	if op == nil || op.Type != domain.OperationDelete {
		t.Fatalf("expected pending DELETE operation, got %+v", op)
	}
	if _, ok := f.items.items["item-1"]; ok {
		t.Error("expected item row deleted")
	}
	if _, ok := f.similarity.sets["item-1"]; ok {
		t.Error("expected the item's reference list deleted")
	}
	if got := f.similarity.sets["item-2"]; len(got) != 1 || got[0] != "item-3" {
		t.Errorf("expected inbound reference dropped from item-2, got %v", got)
	}
	if f.itemCache.items["item-1"] != nil {
		t.Error("expected cached details dropped")
	}
}

func TestTransferItem_RequiresTransferringListEntry(t *testing.T) {
	f := newLifecycleFixture(activeItem("item-1", 100))

	if _, err := f.svc.TransferItem(context.Background(), "item-1", "bob"); !errors.Is(err, domain.ErrItemNotTransferable) {
		t.Errorf("expected ErrItemNotTransferable, got %v", err)
	}
	if len(f.ledger.calls) != 0 {
		t.Errorf("expected no ledger call for an ineligible transfer, got %v", f.ledger.calls)
	}
}

func TestTransferItem_SettlesEligibleTransfer(t *testing.T) {
	item := activeItem("item-1", 100)
	item.Status = domain.ItemTransferring
	f := newLifecycleFixture(item)
	f.transferList.lists["bob"] = []*domain.TransferRecord{
		{ItemID: "item-1", ItemName: "Vintage Watch", Price: 150},
	}

	operationID, err := f.svc.TransferItem(context.Background(), "item-1", "bob")
	if err != nil {
		t.Fatalf("TransferItem failed: %v", err)
	}
	if operationID != "op-1" {
		t.Errorf("expected op-1, got %s", operationID)
	}

	op := f.operations.ops["op-1"]
	if op == nil || op.Type != domain.OperationTransfer {
		t.Fatalf("expected pending TRANSFER operation, got %+v", op)
	}
	if op.Params.Buyer != "bob" {
		t.Errorf("expected buyer bob in params, got %+v", op.Params)
	}
	if f.items.items["item-1"].Status != domain.ItemSold {
		t.Errorf("expected item marked SOLD, got %s", f.items.items["item-1"].Status)
	}
	if len(f.transferList.lists["bob"]) != 0 {
		t.Errorf("expected transferring list entry removed, got %v", f.transferList.lists["bob"])
	}
}
