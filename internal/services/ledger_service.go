// Package services orchestrates card and transaction lifecycles over a
// store, tracking which card the UI currently has selected.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cardledger/internal/cache"
	"cardledger/internal/core"
	"cardledger/internal/photo"
	"cardledger/internal/store"
)

const (
	balanceCacheSize = 128
	balanceCacheTTL  = 5 * time.Minute
)

// CardForm is the typed submit-time state of the add/edit card form.
// Numeric text fields coerce to 0 when they do not parse; the network type
// is validated strictly by the store.
type CardForm struct {
	Name      string
	Number    string
	LimitText string
	ExpMonth  int
	ExpYear   int
	Type      core.CardType
	Color     core.Color
}

// TransactionForm is the typed submit-time state of the add-transaction
// form. Photo holds the raw picked image; it goes through the
// resize-before-store pipeline on save.
type TransactionForm struct {
	CardID      string
	Name        string
	AmountText  string
	Date        time.Time
	Photo       []byte
	CategoryIDs []string
}

// CardCreatedFunc is notified after a card is durably created, so the
// caller can update its own presentation state.
type CardCreatedFunc func(core.Card)

// LedgerService coordinates create/edit/delete flows and owns the
// "currently selected card" state. Selection is tracked by entity id.
type LedgerService struct {
	store    store.Store
	photos   *photo.Processor
	balances *cache.LRU[float64]

	mu             sync.Mutex
	selectedCardID string
}

func NewLedgerService(st store.Store, photos *photo.Processor) *LedgerService {
	return &LedgerService{
		store:    st,
		photos:   photos,
		balances: cache.NewLRU[float64](balanceCacheSize, balanceCacheTTL),
	}
}

func (s *LedgerService) card(form CardForm) core.Card {
	return core.Card{
		Name:     form.Name,
		Number:   form.Number,
		Limit:    core.ParseLimit(form.LimitText),
		ExpMonth: form.ExpMonth,
		ExpYear:  form.ExpYear,
		Type:     form.Type,
		Color:    core.EncodeColor(form.Color),
	}
}

// CreateCard persists a new card and makes it the current selection. The
// optional onCreated callback fires after the card is durable.
func (s *LedgerService) CreateCard(ctx context.Context, form CardForm, onCreated CardCreatedFunc) (core.Card, error) {
	created, err := s.store.CreateCard(ctx, s.card(form))
	if err != nil {
		return core.Card{}, err
	}

	s.mu.Lock()
	s.selectedCardID = created.ID
	s.mu.Unlock()

	if onCreated != nil {
		onCreated(created)
	}
	return created, nil
}

// UpdateCard overwrites a card's mutable fields. The id never changes.
func (s *LedgerService) UpdateCard(ctx context.Context, id string, form CardForm) (core.Card, error) {
	return s.store.UpdateCard(ctx, id, s.card(form))
}

// DeleteCard removes a card and its transactions. If the deleted card was
// selected, selection moves to the first remaining card in default order,
// or clears when none remain.
func (s *LedgerService) DeleteCard(ctx context.Context, id string) error {
	if err := s.store.DeleteCard(ctx, id); err != nil {
		return err
	}
	s.balances.Delete(id)

	s.mu.Lock()
	wasSelected := s.selectedCardID == id
	s.mu.Unlock()
	if !wasSelected {
		return nil
	}

	next := ""
	cards, err := s.store.ListCards(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not reselect after card delete", "error", err)
	} else if len(cards) > 0 {
		next = cards[0].ID
	}

	s.mu.Lock()
	// Only move selection if nothing else claimed it meanwhile.
	if s.selectedCardID == id {
		s.selectedCardID = next
	}
	s.mu.Unlock()
	return nil
}

// SelectCard makes the given card the current selection.
func (s *LedgerService) SelectCard(ctx context.Context, id string) error {
	if _, err := s.store.GetCard(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.selectedCardID = id
	s.mu.Unlock()
	return nil
}

// SelectedCardID returns the id of the selected card, or "" when the
// ledger holds no selection.
func (s *LedgerService) SelectedCardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCardID
}

// Cards lists all cards, most recently touched first.
func (s *LedgerService) Cards(ctx context.Context) ([]core.Card, error) {
	return s.store.ListCards(ctx)
}

// AddTransaction records a transaction against a card. The amount field
// coerces to 0 when it does not parse; a photo that does not decode blocks
// the save with a validation error rather than storing an unbounded blob.
func (s *LedgerService) AddTransaction(ctx context.Context, form TransactionForm) (core.CardTransaction, error) {
	tx := core.CardTransaction{
		CardID:      form.CardID,
		Name:        form.Name,
		Amount:      core.ParseAmount(form.AmountText),
		Timestamp:   form.Date,
		CategoryIDs: form.CategoryIDs,
	}

	if len(form.Photo) > 0 {
		resized, err := s.photos.Process(ctx, form.Photo)
		if err != nil {
			return core.CardTransaction{}, fmt.Errorf("%w: photo does not decode: %v", core.ErrValidation, err)
		}
		tx.Photo = resized
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.CardTransaction{}, err
	}

	s.balances.Delete(form.CardID)
	return created, nil
}

// DeleteTransaction removes a transaction from a card.
func (s *LedgerService) DeleteTransaction(ctx context.Context, cardID, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.balances.Delete(cardID)
	return nil
}

// Transactions lists a card's transactions newest-first, filtered to those
// carrying at least one selected category. An empty selection returns the
// full list.
func (s *LedgerService) Transactions(ctx context.Context, cardID string, selectedCategories []string) ([]core.CardTransaction, error) {
	txs, err := s.store.ListTransactions(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return core.FilterByCategories(txs, selectedCategories), nil
}

// Balance returns the sum of a card's transaction amounts, served through
// a cache that mutations on the card invalidate.
func (s *LedgerService) Balance(ctx context.Context, cardID string) (float64, error) {
	if balance, ok := s.balances.Get(cardID); ok {
		return balance, nil
	}

	txs, err := s.store.ListTransactions(ctx, cardID)
	if err != nil {
		return 0, err
	}
	balance := core.ComputeBalance(txs)
	s.balances.Set(cardID, balance)
	return balance, nil
}

// CreateCategory adds a category to the shared pool.
func (s *LedgerService) CreateCategory(ctx context.Context, name string, color core.Color) (core.TransactionCategory, error) {
	return s.store.CreateCategory(ctx, core.TransactionCategory{
		Name:  name,
		Color: core.EncodeColor(color),
	})
}

// DeleteCategory removes a category, detaching it from its transactions.
func (s *LedgerService) DeleteCategory(ctx context.Context, id string) error {
	return s.store.DeleteCategory(ctx, id)
}

// Categories lists categories newest-first.
func (s *LedgerService) Categories(ctx context.Context) ([]core.TransactionCategory, error) {
	return s.store.ListCategories(ctx)
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close ledger service: %w", err)
		}
	}
	return nil
}
