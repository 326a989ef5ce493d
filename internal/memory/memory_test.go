package memory

import (
	"context"
	"errors"
	"testing"

	"cardledger/internal/core"
)

func TestCardLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateCard(ctx, core.Card{Name: "Chase", Type: core.Visa, ExpMonth: 4, ExpYear: 2028})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if created.ID == "" || created.Timestamp.IsZero() {
		t.Fatalf("id/timestamp not assigned")
	}

	if _, err := s.CreateCard(ctx, core.Card{Name: "bad", ExpMonth: 1}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := s.UpdateCard(ctx, "missing", created); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteCard(ctx, created.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	if err := s.DeleteCard(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestDeleteCardCascades(t *testing.T) {
	s := New()
	ctx := context.Background()

	card, _ := s.CreateCard(ctx, core.Card{Type: core.Mastercard, ExpMonth: 1, ExpYear: 2027})
	other, _ := s.CreateCard(ctx, core.Card{Type: core.Visa, ExpMonth: 2, ExpYear: 2027})

	if _, err := s.CreateTransaction(ctx, core.CardTransaction{CardID: card.ID, Amount: 5}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, core.CardTransaction{CardID: other.ID, Amount: 7}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := s.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}

	gone, _ := s.ListTransactions(ctx, card.ID)
	if len(gone) != 0 {
		t.Fatalf("dangling transactions after cascade")
	}
	kept, _ := s.ListTransactions(ctx, other.ID)
	if len(kept) != 1 {
		t.Fatalf("unrelated transactions affected")
	}
}

func TestCategoryDetachOnDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	card, _ := s.CreateCard(ctx, core.Card{Type: core.Visa, ExpMonth: 1, ExpYear: 2027})
	a, _ := s.CreateCategory(ctx, core.TransactionCategory{Name: "A"})
	b, _ := s.CreateCategory(ctx, core.TransactionCategory{Name: "B"})

	tx, err := s.CreateTransaction(ctx, core.CardTransaction{
		CardID:      card.ID,
		CategoryIDs: []string{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := s.DeleteCategory(ctx, a.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	list, _ := s.ListTransactions(ctx, card.ID)
	if len(list) != 1 || list[0].ID != tx.ID {
		t.Fatalf("transaction lost on category delete")
	}
	if len(list[0].CategoryIDs) != 1 || list[0].CategoryIDs[0] != b.ID {
		t.Fatalf("category not detached: %v", list[0].CategoryIDs)
	}
}

func TestUnknownReferencesRejected(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateTransaction(ctx, core.CardTransaction{CardID: "nope"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown card, got %v", err)
	}

	card, _ := s.CreateCard(ctx, core.Card{Type: core.Visa, ExpMonth: 1, ExpYear: 2027})
	_, err := s.CreateTransaction(ctx, core.CardTransaction{CardID: card.ID, CategoryIDs: []string{"nope"}})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
}
