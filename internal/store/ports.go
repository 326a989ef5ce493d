package store

import (
	"context"

	"cardledger/internal/core"
)

// Ports implemented by the persistence backends.
type (
	CardStore interface {
		// CreateCard assigns an id and creation timestamp and persists the
		// card. Validation failures wrap core.ErrValidation.
		CreateCard(ctx context.Context, card core.Card) (core.Card, error)

		// UpdateCard overwrites all mutable fields of an existing card and
		// refreshes its timestamp, which acts as a last-modified marker once
		// a card has been edited. Unknown ids wrap core.ErrNotFound.
		UpdateCard(ctx context.Context, id string, card core.Card) (core.Card, error)

		// DeleteCard removes a card and cascades to its transactions.
		DeleteCard(ctx context.Context, id string) error

		GetCard(ctx context.Context, id string) (core.Card, error)

		// ListCards returns all cards newest-first by timestamp.
		ListCards(ctx context.Context) ([]core.Card, error)
	}

	TransactionStore interface {
		// CreateTransaction persists a transaction against an existing card,
		// linking the given categories. A missing card or category wraps
		// core.ErrNotFound.
		CreateTransaction(ctx context.Context, tx core.CardTransaction) (core.CardTransaction, error)

		// DeleteTransaction removes a transaction. Deleting an id that is
		// already gone is a no-op.
		DeleteTransaction(ctx context.Context, id string) error

		// ListTransactions returns the card's transactions newest-first.
		ListTransactions(ctx context.Context, cardID string) ([]core.CardTransaction, error)
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, cat core.TransactionCategory) (core.TransactionCategory, error)

		// DeleteCategory removes a category and detaches it from any
		// transactions that selected it; the transactions themselves stay.
		DeleteCategory(ctx context.Context, id string) error

		ListCategories(ctx context.Context) ([]core.TransactionCategory, error)
	}

	// Store is the full persistence surface the ledger service depends on.
	Store interface {
		CardStore
		TransactionStore
		CategoryStore
		Close() error
	}
)
