package database

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []struct {
	name string
	sql  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(32) NOT NULL DEFAULT 'customer',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(64) NOT NULL,
			sub_category VARCHAR(64) NOT NULL DEFAULT '',
			price BIGINT NOT NULL CHECK (price > 0),
			mrp BIGINT NOT NULL CHECK (mrp >= 0),
			quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			sizes TEXT[] NOT NULL DEFAULT '{}',
			colors TEXT[] NOT NULL DEFAULT '{}',
			images TEXT[] NOT NULL DEFAULT '{}',
			tags TEXT[] NOT NULL DEFAULT '{}',
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"idx_products_category", `CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_code VARCHAR(32) UNIQUE NOT NULL,
			user_email VARCHAR(255) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			shipping_address JSONB NOT NULL,
			subtotal BIGINT NOT NULL,
			discount BIGINT NOT NULL DEFAULT 0,
			shipping_fee BIGINT NOT NULL DEFAULT 0,
			total_amount BIGINT NOT NULL,
			coupon_code VARCHAR(64) NOT NULL DEFAULT '',
			payment_method VARCHAR(16) NOT NULL,
			utr_number CHAR(12) NOT NULL,
			status VARCHAR(32) NOT NULL,
			payment_status VARCHAR(16) NOT NULL,
			payment_verified_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"idx_orders_user_email", `CREATE INDEX IF NOT EXISTS idx_orders_user_email ON orders(LOWER(user_email))`},
	{"idx_orders_status", `CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, payment_status)`},
	{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			product_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL CHECK (quantity >= 1),
			size VARCHAR(16) NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			image TEXT NOT NULL DEFAULT ''
		)`},
	{"idx_order_items_order_id", `CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`},
	{"payment_reviews", `
		CREATE TABLE IF NOT EXISTS payment_reviews (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			utr_number CHAR(12) NOT NULL,
			decision VARCHAR(16) NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			reviewed_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"idx_payment_reviews_order_id", `CREATE INDEX IF NOT EXISTS idx_payment_reviews_order_id ON payment_reviews(order_id)`},
}

// Migrate creates the relational schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.name, err)
		}
	}
	return nil
}
