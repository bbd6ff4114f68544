// Package records persists the sales and purchases collections as whole JSON blobs
// in a key-value slot.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/repository/storage"
)

// Keys names the storage slots of the two collections.
type Keys struct {
	Sales     string
	Purchases string
}

// Store is the record store. Every mutation rewrites the full collection.
type Store struct {
	kv     storage.KV
	keys   Keys
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	// serialises read-modify-write cycles
	mu sync.Mutex
}

// Option customises a Store.
type Option func(*Store)

// WithNow overrides the creation timestamp source.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id assignment.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore builds a record store over kv.
func NewStore(kv storage.KV, keys Keys, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:     kv,
		keys:   keys,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InsertSale assigns id and createdAt and stores the sale first in the collection.
func (s *Store) InsertSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	sale.ID = s.newID()
	sale.CreatedAt = s.now().UTC()
	if err := insert(ctx, s, s.keys.Sales, sale); err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// ListSales returns every stored sale in no particular order.
func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	return load[models.Sale](ctx, s, s.keys.Sales, false)
}

// DeleteSale removes the sale with id. It reports false when no such sale exists.
func (s *Store) DeleteSale(ctx context.Context, id string) (bool, error) {
	return remove[models.Sale](ctx, s, s.keys.Sales, id)
}

// InsertPurchase assigns id and createdAt and stores the purchase first in the collection.
func (s *Store) InsertPurchase(ctx context.Context, purchase models.Purchase) (models.Purchase, error) {
	purchase.ID = s.newID()
	purchase.CreatedAt = s.now().UTC()
	if err := insert(ctx, s, s.keys.Purchases, purchase); err != nil {
		return models.Purchase{}, err
	}
	return purchase, nil
}

// ListPurchases returns every stored purchase in no particular order.
func (s *Store) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return load[models.Purchase](ctx, s, s.keys.Purchases, false)
}

// DeletePurchase removes the purchase with id. It reports false when no such purchase exists.
func (s *Store) DeletePurchase(ctx context.Context, id string) (bool, error) {
	return remove[models.Purchase](ctx, s, s.keys.Purchases, id)
}

// load reads a collection. A corrupt blob always reads as empty. An unreachable
// backend reads as empty too unless strict is set, which mutations use so that a
// transient outage never overwrites stored data.
func load[T any](ctx context.Context, s *Store, key string, strict bool) ([]T, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		if strict || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("read collection %s: %w", key, err)
		}
		s.logger.Warn("storage read failed, serving empty collection", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if !found || strings.TrimSpace(raw) == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corrupt collection blob, serving empty collection", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, s *Store, key string, items []T) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("write collection %s: %w", key, err)
	}
	return nil
}

func insert[T models.Record](ctx context.Context, s *Store, key string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := load[T](ctx, s, key, true)
	if err != nil {
		return err
	}
	items = append([]T{item}, items...)
	if err := save(ctx, s, key, items); err != nil {
		return err
	}

	s.logger.Debug("record inserted", zap.String("key", key), zap.String("id", item.RecordID()))
	return nil
}

func remove[T models.Record](ctx context.Context, s *Store, key, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := load[T](ctx, s, key, true)
	if err != nil {
		return false, err
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}

	if err := save(ctx, s, key, kept); err != nil {
		return false, err
	}

	s.logger.Debug("record deleted", zap.String("key", key), zap.String("id", id))
	return true, nil
}
