package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const orderColumns = `id, order_code, user_email, user_name, shipping_address,
	subtotal, discount, shipping_fee, total_amount, coupon_code, payment_method,
	utr_number, status, payment_status, payment_verified_at, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, tx *sql.Tx, o *Order) error {
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		  (id, order_code, user_email, user_name, shipping_address,
		   subtotal, discount, shipping_fee, total_amount, coupon_code,
		   payment_method, utr_number, status, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderCode, o.UserEmail, o.UserName, addr,
		o.Subtotal, o.Discount, o.ShippingFee, o.TotalAmount, o.CouponCode,
		o.PaymentMethod, o.UTRNumber, o.Status, o.PaymentStatus,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, position, product_id, name, quantity, size, price, image)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			uuid.New(), o.ID, i, item.ProductID, item.Name,
			item.Quantity, item.Size, item.Price, item.Image)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.getOne(ctx, r.db, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*Order, error) {
	return r.getOne(ctx, r.db, `SELECT `+orderColumns+` FROM orders WHERE order_code=$1`, code)
}

func (r *postgresRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Order, error) {
	return r.getOne(ctx, tx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id)
}

func (r *postgresRepo) Update(ctx context.Context, tx *sql.Tx, o *Order) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status=$1, payment_status=$2, payment_verified_at=$3, updated_at=$4
		WHERE id=$5`,
		o.Status, o.PaymentStatus, o.PaymentVerifiedAt, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.PaymentStatus != "" {
		args = append(args, f.PaymentStatus)
		where = append(where, fmt.Sprintf("payment_status=$%d", len(args)))
	}
	if f.Email != "" {
		args = append(args, f.Email)
		where = append(where, fmt.Sprintf("LOWER(user_email)=LOWER($%d)", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, r.db, orders...); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{ByStatus: map[Status]int{}}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='payment_pending' AND payment_status='pending'),
		       COALESCE(SUM(total_amount) FILTER (
		           WHERE payment_status='verified' AND status NOT IN ('cancelled','failed')), 0)
		FROM orders`).Scan(&s.TotalOrders, &s.PendingVerification, &s.Revenue)
	if err != nil {
		return nil, fmt.Errorf("order summary: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var st Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		s.ByStatus[st] = n
	}
	return s, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) getOne(ctx context.Context, q queryer, query string, arg interface{}) (*Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, query, arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, q, o); err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(scan func(dest ...interface{}) error) (*Order, error) {
	o := &Order{}
	var addr []byte
	var verifiedAt sql.NullTime
	err := scan(
		&o.ID, &o.OrderCode, &o.UserEmail, &o.UserName, &addr,
		&o.Subtotal, &o.Discount, &o.ShippingFee, &o.TotalAmount, &o.CouponCode, &o.PaymentMethod,
		&o.UTRNumber, &o.Status, &o.PaymentStatus, &verifiedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		o.PaymentVerifiedAt = &t
	}
	return o, nil
}

// loadItems fills Items for every order with a single query.
func (r *postgresRepo) loadItems(ctx context.Context, q queryer, orders ...*Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[uuid.UUID]*Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID.String()
		o.Items = []*OrderItem{}
		byID[o.ID] = o
	}

	rows, err := q.QueryContext(ctx, `
		SELECT order_id, product_id, name, quantity, size, price, image
		FROM order_items WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uuid.UUID
		item := &OrderItem{}
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.Size, &item.Price, &item.Image); err != nil {
			return err
		}
		if o := byID[orderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
