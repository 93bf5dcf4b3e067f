package store

import (
	"context"
	"maps"
	"sync"

	"rigcheck/internal/equipment/models"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	items  map[id.EquipmentItemID]models.Item
	stocks map[id.ConsumableStockID]models.Stock
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		items:  make(map[id.EquipmentItemID]models.Item),
		stocks: make(map[id.ConsumableStockID]models.Stock),
	}
}

// PutItem seeds or replaces an item.
func (s *InMemoryStore) PutItem(item models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// PutStock seeds or replaces a stock record.
func (s *InMemoryStore) PutStock(stock models.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[stock.ID] = stock
}

func (s *InMemoryStore) GetStatus(_ context.Context, itemID id.EquipmentItemID) (models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return item.Status, nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, itemID id.EquipmentItemID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return sentinel.ErrNotFound
	}
	item.Status = status
	s.items[itemID] = item
	return nil
}

func (s *InMemoryStore) GetOwnership(_ context.Context, itemID id.EquipmentItemID) (models.Ownership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return item.Ownership, nil
}

func (s *InMemoryStore) ItemPlacement(_ context.Context, itemID id.EquipmentItemID) (models.Placement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return models.Placement{}, sentinel.ErrNotFound
	}
	return models.Placement{ApparatusID: item.ApparatusID, EquipmentTypeID: item.EquipmentTypeID}, nil
}

func (s *InMemoryStore) StockPlacement(_ context.Context, stockID id.ConsumableStockID) (models.Placement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stock, ok := s.stocks[stockID]
	if !ok {
		return models.Placement{}, sentinel.ErrNotFound
	}
	return models.Placement{ApparatusID: stock.ApparatusID, EquipmentTypeID: stock.EquipmentTypeID}, nil
}

func (s *InMemoryStore) GetQuantity(_ context.Context, stockID id.ConsumableStockID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stock, ok := s.stocks[stockID]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return stock.Quantity, nil
}

func (s *InMemoryStore) SetQuantity(_ context.Context, stockID id.ConsumableStockID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[stockID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stock.Quantity = quantity
	s.stocks[stockID] = stock
	return nil
}

func (s *InMemoryStore) Snapshot() func() {
	s.mu.RLock()
	items := maps.Clone(s.items)
	stocks := maps.Clone(s.stocks)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items = items
		s.stocks = stocks
	}
}
