package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const productColumns = `id,name,description,category,sub_category,price,mrp,quantity,
	sizes,colors,images,tags,featured,is_active,created_at,updated_at`

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (id, name, description, category, sub_category, price, mrp, quantity,
		   sizes, colors, images, tags, featured, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Category, p.SubCategory, p.Price, p.MRP, p.Quantity,
		pq.Array(p.Sizes), pq.Array(p.Colors), pq.Array(p.Images), pq.Array(p.Tags),
		p.Featured, p.IsActive).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.SubCategory,
		&p.Price, &p.MRP, &p.Quantity,
		pq.Array(&p.Sizes), pq.Array(&p.Colors), pq.Array(&p.Images), pq.Array(&p.Tags),
		&p.Featured, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, uid)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Category != "" {
		query += fmt.Sprintf(` AND LOWER(category)=LOWER($%d)`, n)
		args = append(args, f.Category)
		n++
	}
	if f.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d OR $%d = ANY(tags))`, n, n, n+1)
		args = append(args, "%"+f.Search+"%", f.Search)
		n += 2
	}
	if f.Featured {
		query += ` AND featured=true`
	}
	if f.ActiveOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, n)
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, category=$3, sub_category=$4, price=$5, mrp=$6,
		    quantity=$7, sizes=$8, colors=$9, images=$10, tags=$11, featured=$12,
		    is_active=$13, updated_at=NOW()
		WHERE id=$14`,
		p.Name, p.Description, p.Category, p.SubCategory, p.Price, p.MRP,
		p.Quantity, pq.Array(p.Sizes), pq.Array(p.Colors), pq.Array(p.Images), pq.Array(p.Tags),
		p.Featured, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectRow(res)
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrProductNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, uid)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectRow(res)
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE is_active=true`).Scan(&n)
	return n, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
