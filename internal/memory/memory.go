// Package memory is a mutex-guarded in-memory Store, used by the memory
// backend and by service tests. Semantics mirror the SQLite repository.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cardledger/internal/core"
	"cardledger/internal/store"
)

type Store struct {
	mu           sync.Mutex
	cards        map[string]core.Card
	transactions map[string]core.CardTransaction
	categories   map[string]core.TransactionCategory
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		cards:        make(map[string]core.Card),
		transactions: make(map[string]core.CardTransaction),
		categories:   make(map[string]core.TransactionCategory),
	}
}

func (s *Store) Close() error { return nil }

// CreateCard implements store.CardStore.
func (s *Store) CreateCard(_ context.Context, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	card.ID = core.NewID()
	card.Timestamp = time.Now().UTC()
	s.cards[card.ID] = card
	return card, nil
}

// UpdateCard implements store.CardStore.
func (s *Store) UpdateCard(_ context.Context, id string, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, fmt.Errorf("update card: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return core.Card{}, fmt.Errorf("update card %s: %w", id, core.ErrNotFound)
	}
	card.ID = id
	card.Timestamp = time.Now().UTC()
	s.cards[id] = card
	return card, nil
}

// DeleteCard implements store.CardStore, cascading to the card's
// transactions.
func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return fmt.Errorf("delete card %s: %w", id, core.ErrNotFound)
	}
	delete(s.cards, id)
	for txID, tx := range s.transactions {
		if tx.CardID == id {
			delete(s.transactions, txID)
		}
	}
	return nil
}

// GetCard implements store.CardStore.
func (s *Store) GetCard(_ context.Context, id string) (core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return core.Card{}, fmt.Errorf("get card %s: %w", id, core.ErrNotFound)
	}
	return card, nil
}

// ListCards implements store.CardStore.
func (s *Store) ListCards(_ context.Context) ([]core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateTransaction implements store.TransactionStore.
func (s *Store) CreateTransaction(_ context.Context, t core.CardTransaction) (core.CardTransaction, error) {
	if err := t.Validate(); err != nil {
		return core.CardTransaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[t.CardID]; !ok {
		return core.CardTransaction{}, fmt.Errorf("create transaction: card %s: %w", t.CardID, core.ErrNotFound)
	}
	for _, catID := range t.CategoryIDs {
		if _, ok := s.categories[catID]; !ok {
			return core.CardTransaction{}, fmt.Errorf("create transaction: category %s: %w", catID, core.ErrNotFound)
		}
	}

	t.ID = core.NewID()
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	s.transactions[t.ID] = t
	return t, nil
}

// DeleteTransaction implements store.TransactionStore. No-op for ids that
// are already gone.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transactions, id)
	return nil
}

// ListTransactions implements store.TransactionStore.
func (s *Store) ListTransactions(_ context.Context, cardID string) ([]core.CardTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.CardTransaction, 0)
	for _, t := range s.transactions {
		if t.CardID == cardID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateCategory implements store.CategoryStore.
func (s *Store) CreateCategory(_ context.Context, cat core.TransactionCategory) (core.TransactionCategory, error) {
	if err := cat.Validate(); err != nil {
		return core.TransactionCategory{}, fmt.Errorf("create category: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cat.ID = core.NewID()
	cat.Timestamp = time.Now().UTC()
	s.categories[cat.ID] = cat
	return cat, nil
}

// DeleteCategory implements store.CategoryStore, detaching the category
// from any transactions that carried it.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
	for txID, tx := range s.transactions {
		kept := tx.CategoryIDs[:0:0]
		for _, catID := range tx.CategoryIDs {
			if catID != id {
				kept = append(kept, catID)
			}
		}
		tx.CategoryIDs = kept
		s.transactions[txID] = tx
	}
	return nil
}

// ListCategories implements store.CategoryStore.
func (s *Store) ListCategories(_ context.Context) ([]core.TransactionCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.TransactionCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return core.SortCategoriesByRecency(out), nil
}
