package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresLedger struct{ db *sql.DB }

func NewPostgresLedger(db *sql.DB) Ledger { return &postgresLedger{db: db} }

func (l *postgresLedger) Decrement(ctx context.Context, tx *sql.Tx, productID uuid.UUID, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1`, qty, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return fmt.Errorf("%w: %s", ErrInsufficientStock, productID)
}

func (l *postgresLedger) Increment(ctx context.Context, tx *sql.Tx, productID uuid.UUID, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2`, qty, productID)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return nil
}

func (l *postgresLedger) Set(ctx context.Context, productID string, qty int) (*StockLevel, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	s := &StockLevel{}
	err = l.db.QueryRowContext(ctx, `
		UPDATE products SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, category, quantity, updated_at`, qty, uid).
		Scan(&s.ProductID, &s.Name, &s.Category, &s.Quantity, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set stock: %w", err)
	}
	return s, nil
}

func (l *postgresLedger) LowStock(ctx context.Context, threshold int) ([]*StockLevel, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, category, quantity, updated_at
		FROM products WHERE is_active = true AND quantity <= $1
		ORDER BY quantity ASC, name ASC`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := []*StockLevel{}
	for rows.Next() {
		s := &StockLevel{}
		if err := rows.Scan(&s.ProductID, &s.Name, &s.Category, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

func (l *postgresLedger) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE is_active = true AND quantity <= $1`, threshold).Scan(&n)
	return n, err
}
