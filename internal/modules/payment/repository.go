package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository persists payment reviews. Create runs inside the caller's transaction.
type Repository interface {
	Create(ctx context.Context, tx *sql.Tx, r *Review) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Review, error)
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (p *postgresRepo) Create(ctx context.Context, tx *sql.Tx, r *Review) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	err := tx.QueryRowContext(ctx, `
		INSERT INTO payment_reviews (id, order_id, utr_number, decision, note, reviewed_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		r.ID, r.OrderID, r.UTRNumber, r.Decision, r.Note, r.ReviewedBy,
	).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment review: %w", err)
	}
	return nil
}

func (p *postgresRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Review, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, order_id, utr_number, decision, note, reviewed_by, created_at
		FROM payment_reviews WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*Review{}
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(&r.ID, &r.OrderID, &r.UTRNumber, &r.Decision, &r.Note, &r.ReviewedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
