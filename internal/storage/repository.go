// Package storage is the SQLite-backed entity store for cards,
// transactions and categories.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cardledger/internal/core"
	"cardledger/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The pragma rides on the DSN so every pooled connection enforces the
	// schema's reference constraints.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// persistErr tags a store write/read failure with core.ErrPersistence so
// callers can classify it without inspecting driver error types.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrPersistence, err)
}

// CreateCard implements store.CardStore.
func (r *SQLiteRepository) CreateCard(ctx context.Context, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}

	card.ID = core.NewID()
	card.Timestamp = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
	INSERT INTO cards(id, name, number, credit_limit, exp_month, exp_year, type, color, timestamp)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.Name, card.Number, card.Limit, card.ExpMonth, card.ExpYear,
		string(card.Type), card.Color, card.Timestamp)
	if err != nil {
		return core.Card{}, persistErr("insert card", err)
	}

	slog.InfoContext(ctx, "Card saved",
		"card_id", card.ID,
		"name", card.Name,
		"type", card.Type.String())

	return card, nil
}

// UpdateCard implements store.CardStore. All mutable fields are overwritten
// and the timestamp is refreshed, so after the first edit it behaves as a
// last-modified marker rather than a creation time.
func (r *SQLiteRepository) UpdateCard(ctx context.Context, id string, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, fmt.Errorf("update card: %w", err)
	}

	card.ID = id
	card.Timestamp = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
	UPDATE cards
	SET name = ?, number = ?, credit_limit = ?, exp_month = ?, exp_year = ?,
	    type = ?, color = ?, timestamp = ?
	WHERE id = ?`,
		card.Name, card.Number, card.Limit, card.ExpMonth, card.ExpYear,
		string(card.Type), card.Color, card.Timestamp, id)
	if err != nil {
		return core.Card{}, persistErr("update card", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Card{}, persistErr("update card rows affected", err)
	}
	if affected == 0 {
		return core.Card{}, fmt.Errorf("update card %s: %w", id, core.ErrNotFound)
	}

	return card, nil
}

// DeleteCard implements store.CardStore. The card's transactions and their
// category links go with it, inside one SQL transaction.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin delete card", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM transaction_category_links
	WHERE transaction_id IN (SELECT id FROM card_transactions WHERE card_id = ?)`, id); err != nil {
		return persistErr("delete card transaction links", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM card_transactions WHERE card_id = ?`, id); err != nil {
		return persistErr("delete card transactions", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return persistErr("delete card", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistErr("delete card rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete card %s: %w", id, core.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit delete card", err)
	}

	slog.InfoContext(ctx, "Card deleted with its transactions", "card_id", id)
	return nil
}

// GetCard implements store.CardStore.
func (r *SQLiteRepository) GetCard(ctx context.Context, id string) (core.Card, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, number, credit_limit, exp_month, exp_year, type, color, timestamp
	FROM cards WHERE id = ?`, id)

	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return core.Card{}, fmt.Errorf("get card %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Card{}, persistErr("get card", err)
	}
	return card, nil
}

// ListCards implements store.CardStore. Newest first; equal timestamps are
// ordered by id so results stay deterministic.
func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, number, credit_limit, exp_month, exp_year, type, color, timestamp
	FROM cards ORDER BY timestamp DESC, id`)
	if err != nil {
		return nil, persistErr("list cards", err)
	}
	defer rows.Close()

	var out []core.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, persistErr("scan card", err)
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate cards", err)
	}
	return out, nil
}

// CreateTransaction implements store.TransactionStore. The owning card and
// every referenced category must exist.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.CardTransaction) (core.CardTransaction, error) {
	if err := t.Validate(); err != nil {
		return core.CardTransaction{}, fmt.Errorf("create transaction: %w", err)
	}

	t.ID = core.NewID()
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.CardTransaction{}, persistErr("begin create transaction", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE id = ?`, t.CardID).Scan(&one)
	if err == sql.ErrNoRows {
		return core.CardTransaction{}, fmt.Errorf("create transaction: card %s: %w", t.CardID, core.ErrNotFound)
	}
	if err != nil {
		return core.CardTransaction{}, persistErr("check card exists", err)
	}

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO card_transactions(id, card_id, name, amount, timestamp, photo)
	VALUES(?, ?, ?, ?, ?, ?)`,
		t.ID, t.CardID, t.Name, t.Amount, t.Timestamp, t.Photo); err != nil {
		return core.CardTransaction{}, persistErr("insert transaction", err)
	}

	for _, catID := range t.CategoryIDs {
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM transaction_categories WHERE id = ?`, catID).Scan(&one)
		if err == sql.ErrNoRows {
			return core.CardTransaction{}, fmt.Errorf("create transaction: category %s: %w", catID, core.ErrNotFound)
		}
		if err != nil {
			return core.CardTransaction{}, persistErr("check category exists", err)
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO transaction_category_links(transaction_id, category_id)
		VALUES(?, ?)`, t.ID, catID); err != nil {
			return core.CardTransaction{}, persistErr("insert category link", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.CardTransaction{}, persistErr("commit create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"card_id", t.CardID,
		"amount", t.Amount,
		"categories", len(t.CategoryIDs))

	return t, nil
}

// DeleteTransaction implements store.TransactionStore. A second delete of
// the same id is a no-op, not an error.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin delete transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transaction_category_links WHERE transaction_id = ?`, id); err != nil {
		return persistErr("delete transaction links", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM card_transactions WHERE id = ?`, id); err != nil {
		return persistErr("delete transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit delete transaction", err)
	}
	return nil
}

// ListTransactions implements store.TransactionStore.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, cardID string) ([]core.CardTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, card_id, name, amount, timestamp, photo
	FROM card_transactions
	WHERE card_id = ?
	ORDER BY timestamp DESC, id`, cardID)
	if err != nil {
		return nil, persistErr("list transactions", err)
	}
	defer rows.Close()

	var out []core.CardTransaction
	for rows.Next() {
		var t core.CardTransaction
		if err := rows.Scan(&t.ID, &t.CardID, &t.Name, &t.Amount, &t.Timestamp, &t.Photo); err != nil {
			return nil, persistErr("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate transactions", err)
	}

	for i := range out {
		cats, err := r.fetchCategoryIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].CategoryIDs = cats
	}
	return out, nil
}

func (r *SQLiteRepository) fetchCategoryIDs(ctx context.Context, transactionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT category_id FROM transaction_category_links
	WHERE transaction_id = ? ORDER BY category_id`, transactionID)
	if err != nil {
		return nil, persistErr("fetch category links", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, persistErr("scan category link", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateCategory implements store.CategoryStore.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, cat core.TransactionCategory) (core.TransactionCategory, error) {
	if err := cat.Validate(); err != nil {
		return core.TransactionCategory{}, fmt.Errorf("create category: %w", err)
	}

	cat.ID = core.NewID()
	cat.Timestamp = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transaction_categories(id, name, color, timestamp)
	VALUES(?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Color, cat.Timestamp)
	if err != nil {
		return core.TransactionCategory{}, persistErr("insert category", err)
	}
	return cat, nil
}

// DeleteCategory implements store.CategoryStore. Categories are shared and
// unowned: deleting one detaches it from its transactions and nothing else.
// Idempotent, like DeleteTransaction.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin delete category", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transaction_category_links WHERE category_id = ?`, id); err != nil {
		return persistErr("delete category links", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transaction_categories WHERE id = ?`, id); err != nil {
		return persistErr("delete category", err)
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit delete category", err)
	}
	return nil
}

// ListCategories implements store.CategoryStore. Same recency order as
// core.SortCategoriesByRecency.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.TransactionCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, color, timestamp
	FROM transaction_categories ORDER BY timestamp DESC, id`)
	if err != nil {
		return nil, persistErr("list categories", err)
	}
	defer rows.Close()

	var out []core.TransactionCategory
	for rows.Next() {
		var c core.TransactionCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Timestamp); err != nil {
			return nil, persistErr("scan category", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (core.Card, error) {
	var (
		c        core.Card
		cardType string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Number, &c.Limit, &c.ExpMonth, &c.ExpYear,
		&cardType, &c.Color, &c.Timestamp)
	if err != nil {
		return core.Card{}, err
	}
	c.Type = core.CardType(cardType)
	return c, nil
}
