package postgres

import (
	"context"

	"github.com/pkg/errors"
)

// schema mirrors one flat table per entity. Items and customer are stored as
// JSON text so rows written by older clients stay readable.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		quantity INTEGER DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 1,
		barcode TEXT NOT NULL DEFAULT '',
		img TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS inventory_barcode_idx ON inventory (barcode)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id BIGINT PRIMARY KEY,
		app TEXT NOT NULL DEFAULT '',
		store TEXT NOT NULL DEFAULT '',
		address_one TEXT NOT NULL DEFAULT '',
		address_two TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		tax TEXT NOT NULL DEFAULT '',
		symbol TEXT NOT NULL DEFAULT '',
		percentage TEXT NOT NULL DEFAULT '',
		charge_tax TEXT NOT NULL DEFAULT '',
		footer TEXT NOT NULL DEFAULT '',
		img TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS statistics (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL DEFAULT '',
		value NUMERIC NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS statistics_date_idx ON statistics (date)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL DEFAULT '',
		ref_number TEXT NOT NULL DEFAULT '',
		discount NUMERIC NOT NULL DEFAULT 0,
		customer TEXT NOT NULL DEFAULT '0',
		status INTEGER NOT NULL DEFAULT 0,
		subtotal NUMERIC NOT NULL DEFAULT 0,
		tax NUMERIC NOT NULL DEFAULT 0,
		order_type INTEGER NOT NULL DEFAULT 0,
		items TEXT NOT NULL DEFAULT '[]',
		date TEXT NOT NULL DEFAULT '',
		payment_type TEXT NOT NULL DEFAULT '',
		payment_info TEXT NOT NULL DEFAULT '',
		total NUMERIC NOT NULL DEFAULT 0,
		paid NUMERIC NOT NULL DEFAULT 0,
		change NUMERIC NOT NULL DEFAULT 0,
		till BIGINT NOT NULL DEFAULT 0,
		mac TEXT NOT NULL DEFAULT '',
		user_name TEXT NOT NULL DEFAULT '',
		user_id BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_date_idx ON transactions (date)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		fullname TEXT NOT NULL DEFAULT '',
		perm_products INTEGER NOT NULL DEFAULT 0,
		perm_categories INTEGER NOT NULL DEFAULT 0,
		perm_transactions INTEGER NOT NULL DEFAULT 0,
		perm_users INTEGER NOT NULL DEFAULT 0,
		perm_settings INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + usernameIndex + ` ON users (username)`,
}

const usernameIndex = "users_username_key"

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create schema")
		}
	}
	return nil
}
