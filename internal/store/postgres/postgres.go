package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.Repository = (*Store)(nil)

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

const productColumns = `id, name, price, category, quantity, stock, barcode, img`

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var qty sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &qty, &p.Stock, &p.Barcode, &p.Img); err != nil {
		return domain.Product{}, err
	}
	if qty.Valid {
		q := int(qty.Int64)
		p.Quantity = &q
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM inventory ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.findProduct(ctx, "id", id)
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return s.findProduct(ctx, "barcode", barcode)
}

func (s *Store) findProduct(ctx context.Context, column string, value any) (*domain.Product, error) {
	if column != "id" && column != "barcode" {
		return nil, fmt.Errorf("unsupported lookup column")
	}

	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM inventory WHERE %s = $1 LIMIT 1`, productColumns, column), value)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	return &p, nil
}

func (s *Store) UpsertProduct(ctx context.Context, product domain.Product) (bool, error) {
	if product.ID == 0 {
		return false, store.ErrInvalidInput
	}

	var created bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO inventory (id, name, price, category, quantity, stock, barcode, img)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			quantity = EXCLUDED.quantity,
			stock = EXCLUDED.stock,
			barcode = EXCLUDED.barcode,
			img = EXCLUDED.img
		RETURNING (xmax = 0)
	`, product.ID, product.Name, product.Price, product.Category, nullInt(product.Quantity), product.Stock, product.Barcode, product.Img).Scan(&created)
	if err != nil {
		return false, errors.Wrap(err, "upsert product")
	}
	return created, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == 0 {
		return store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (id, name, price, category, quantity, stock, barcode, img)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, product.ID, product.Name, product.Price, product.Category, nullInt(product.Quantity), product.Stock, product.Barcode, product.Img)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	return errors.Wrap(err, "delete product")
}

func (s *Store) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = quantity - $2
		WHERE id = $1 AND quantity IS NOT NULL
	`, id, qty)
	if err != nil {
		return false, errors.Wrap(err, "decrement stock")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "decrement stock")
	}
	return affected > 0, nil
}

const transactionColumns = `id, order_id, ref_number, discount, customer, status, subtotal, tax, order_type,
	items, date, payment_type, payment_info, total, paid, change, till, mac, user_name, user_id`

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var tx domain.Transaction
	var customer, items string
	if err := row.Scan(
		&tx.ID, &tx.OrderID, &tx.RefNumber, &tx.Discount, &customer, &tx.Status, &tx.Subtotal, &tx.Tax, &tx.OrderType,
		&items, &tx.Date, &tx.PaymentType, &tx.PaymentInfo, &tx.Total, &tx.Paid, &tx.Change, &tx.Till, &tx.Mac, &tx.User, &tx.UserID,
	); err != nil {
		return domain.Transaction{}, err
	}

	var err error
	if tx.Customer, err = domain.DecodeCustomer(customer); err != nil {
		return domain.Transaction{}, errors.Wrapf(err, "decode customer of transaction %s", tx.ID)
	}
	if tx.Items, err = domain.DecodeItems(items); err != nil {
		return domain.Transaction{}, errors.Wrapf(err, "decode items of transaction %s", tx.ID)
	}
	return tx, nil
}

func (s *Store) queryTransactions(ctx context.Context, where string, args ...any) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0, 64)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return out, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, "")
}

func (s *Store) ListOnHold(ctx context.Context) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `ref_number <> '' AND status = 0`)
}

func (s *Store) ListCustomerOrders(ctx context.Context) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `customer <> '0' AND status = 0 AND ref_number = ''`)
}

func (s *Store) ListTransactionsByDate(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filters := []string{"date >= $1", "date <= $2"}
	args := []any{filter.Start, filter.End}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		filters = append(filters, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		filters = append(filters, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Till != 0 {
		args = append(args, filter.Till)
		filters = append(filters, fmt.Sprintf("till = $%d", len(args)))
	}

	return s.queryTransactions(ctx, strings.Join(filters, " AND "), args...)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get transaction")
	}
	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx domain.Transaction) error {
	if tx.ID == "" {
		return store.ErrInvalidInput
	}
	customer, items, err := encodeTransactionBlobs(tx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`, tx.ID, tx.OrderID, tx.RefNumber, tx.Discount, customer, tx.Status, tx.Subtotal, tx.Tax, tx.OrderType,
		items, tx.Date, tx.PaymentType, tx.PaymentInfo, tx.Total, tx.Paid, tx.Change, tx.Till, tx.Mac, tx.User, tx.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return errors.Wrap(err, "insert transaction")
	}
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	customer, items, err := encodeTransactionBlobs(tx)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET
			ref_number = $2, discount = $3, customer = $4, status = $5, subtotal = $6,
			tax = $7, order_type = $8, items = $9, date = $10, payment_type = $11, payment_info = $12,
			total = $13, paid = $14, change = $15, till = $16, mac = $17, user_name = $18, user_id = $19
		WHERE id = $1
	`, tx.ID, tx.RefNumber, tx.Discount, customer, tx.Status, tx.Subtotal,
		tx.Tax, tx.OrderType, items, tx.Date, tx.PaymentType, tx.PaymentInfo,
		tx.Total, tx.Paid, tx.Change, tx.Till, tx.Mac, tx.User, tx.UserID)
	if err != nil {
		return errors.Wrap(err, "update transaction")
	}
	return expectAffected(res, "update transaction")
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return errors.Wrap(err, "delete transaction")
}

func encodeTransactionBlobs(tx domain.Transaction) (string, string, error) {
	customer, err := domain.EncodeCustomer(tx.Customer)
	if err != nil {
		return "", "", errors.Wrap(err, "encode customer")
	}
	items, err := domain.EncodeItems(tx.Items)
	if err != nil {
		return "", "", errors.Wrap(err, "encode items")
	}
	return customer, items, nil
}

func (s *Store) queryStatistics(ctx context.Context, where string, args ...any) ([]domain.Statistic, error) {
	query := `SELECT id, date, value, description FROM statistics`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list statistics")
	}
	defer rows.Close()

	out := make([]domain.Statistic, 0, 64)
	for rows.Next() {
		var stat domain.Statistic
		if err := rows.Scan(&stat.ID, &stat.Date, &stat.Value, &stat.Description); err != nil {
			return nil, errors.Wrap(err, "scan statistic")
		}
		out = append(out, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list statistics")
	}
	return out, nil
}

func (s *Store) ListStatistics(ctx context.Context) ([]domain.Statistic, error) {
	return s.queryStatistics(ctx, "")
}

func (s *Store) ListStatisticsByDate(ctx context.Context, start string, end string) ([]domain.Statistic, error) {
	return s.queryStatistics(ctx, `date >= $1 AND date <= $2`, start, end)
}

func (s *Store) GetStatistic(ctx context.Context, id string) (*domain.Statistic, error) {
	var stat domain.Statistic
	err := s.db.QueryRowContext(ctx, `SELECT id, date, value, description FROM statistics WHERE id = $1`, id).
		Scan(&stat.ID, &stat.Date, &stat.Value, &stat.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get statistic")
	}
	return &stat, nil
}

func (s *Store) CreateStatistic(ctx context.Context, stat domain.Statistic) error {
	if stat.ID == "" {
		return store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statistics (id, date, value, description) VALUES ($1,$2,$3,$4)
	`, stat.ID, stat.Date, stat.Value, stat.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return errors.Wrap(err, "insert statistic")
	}
	return nil
}

func (s *Store) UpdateStatistic(ctx context.Context, stat domain.Statistic) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE statistics SET date = $2, value = $3, description = $4 WHERE id = $1
	`, stat.ID, stat.Date, stat.Value, stat.Description)
	if err != nil {
		return errors.Wrap(err, "update statistic")
	}
	return expectAffected(res, "update statistic")
}

func (s *Store) DeleteStatistic(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM statistics WHERE id = $1`, id)
	return errors.Wrap(err, "delete statistic")
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	out := make([]domain.Category, 0, 32)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "list categories")
}

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1,$2)`, category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return errors.Wrap(err, "insert category")
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) error {
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, category.ID, category.Name)
	if err != nil {
		return errors.Wrap(err, "update category")
	}
	return expectAffected(res, "update category")
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return errors.Wrap(err, "delete category")
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, phone, email, address FROM customers ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	out := make([]domain.Customer, 0, 64)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address); err != nil {
			return nil, errors.Wrap(err, "scan customer")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "list customers")
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `SELECT id, name, phone, email, address FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get customer")
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, address) VALUES ($1,$2,$3,$4,$5)
	`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return errors.Wrap(err, "insert customer")
	}
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers SET name = $2, phone = $3, email = $4, address = $5 WHERE id = $1
	`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address)
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	return expectAffected(res, "update customer")
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return errors.Wrap(err, "delete customer")
}

func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var st domain.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT id, app, store, address_one, address_two, contact, tax, symbol, percentage, charge_tax, footer, img
		FROM settings WHERE id = $1
	`, domain.SettingsID).Scan(&st.ID, &st.App, &st.Store, &st.AddressOne, &st.AddressTwo, &st.Contact, &st.Tax,
		&st.Symbol, &st.Percentage, &st.ChargeTax, &st.Footer, &st.Img)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get settings")
	}
	return &st, nil
}

func (s *Store) UpsertSettings(ctx context.Context, st domain.Settings) (bool, error) {
	var created bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO settings (id, app, store, address_one, address_two, contact, tax, symbol, percentage, charge_tax, footer, img)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			app = EXCLUDED.app, store = EXCLUDED.store, address_one = EXCLUDED.address_one,
			address_two = EXCLUDED.address_two, contact = EXCLUDED.contact, tax = EXCLUDED.tax,
			symbol = EXCLUDED.symbol, percentage = EXCLUDED.percentage, charge_tax = EXCLUDED.charge_tax,
			footer = EXCLUDED.footer, img = EXCLUDED.img
		RETURNING (xmax = 0)
	`, domain.SettingsID, st.App, st.Store, st.AddressOne, st.AddressTwo, st.Contact, st.Tax,
		st.Symbol, st.Percentage, st.ChargeTax, st.Footer, st.Img).Scan(&created)
	if err != nil {
		return false, errors.Wrap(err, "upsert settings")
	}
	return created, nil
}

const userColumns = `id, username, fullname, perm_products, perm_categories, perm_transactions, perm_users, perm_settings, status`

func scanUser(row rowScanner, extra ...any) (domain.User, error) {
	var u domain.User
	dest := []any{&u.ID, &u.Username, &u.Fullname, &u.Products, &u.Categories, &u.Transactions, &u.Users, &u.Settings, &u.Status}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	out := make([]domain.User, 0, 8)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		out = append(out, u)
	}
	return out, errors.Wrap(rows.Err(), "list users")
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUserAccountByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	var hash string
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password FROM users WHERE username = $1 ORDER BY id LIMIT 1
	`, username), &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "get user account")
	}
	return &domain.UserAccount{User: u, PasswordHash: hash}, nil
}

// UpsertUser keeps the stored password hash and login status when updating.
// Without a hash only an existing row can be updated.
func (s *Store) UpsertUser(ctx context.Context, account domain.UserAccount) (bool, error) {
	if account.ID == 0 {
		return false, store.ErrInvalidInput
	}

	if account.PasswordHash == "" {
		res, err := s.db.ExecContext(ctx, `
			UPDATE users SET
				username = $2, fullname = $3, perm_products = $4, perm_categories = $5,
				perm_transactions = $6, perm_users = $7, perm_settings = $8
			WHERE id = $1
		`, account.ID, account.Username, account.Fullname, account.Products, account.Categories,
			account.Transactions, account.Users, account.Settings)
		if err != nil {
			if isUsernameViolation(err) {
				return false, store.ErrUsernameTaken
			}
			return false, errors.Wrap(err, "update user")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, errors.Wrap(err, "update user")
		}
		if affected == 0 {
			return false, store.ErrInvalidInput
		}
		return false, nil
	}

	var created bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password, fullname, perm_products, perm_categories, perm_transactions, perm_users, perm_settings, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'')
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			password = EXCLUDED.password,
			fullname = EXCLUDED.fullname,
			perm_products = EXCLUDED.perm_products,
			perm_categories = EXCLUDED.perm_categories,
			perm_transactions = EXCLUDED.perm_transactions,
			perm_users = EXCLUDED.perm_users,
			perm_settings = EXCLUDED.perm_settings
		RETURNING (xmax = 0)
	`, account.ID, account.Username, account.PasswordHash, account.Fullname, account.Products, account.Categories,
		account.Transactions, account.Users, account.Settings).Scan(&created)
	if err != nil {
		if isUsernameViolation(err) {
			return false, store.ErrUsernameTaken
		}
		return false, errors.Wrap(err, "upsert user")
	}
	return created, nil
}

func (s *Store) CreateUser(ctx context.Context, account domain.UserAccount) error {
	if account.ID == 0 || account.PasswordHash == "" {
		return store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, fullname, perm_products, perm_categories, perm_transactions, perm_users, perm_settings, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'')
	`, account.ID, account.Username, account.PasswordHash, account.Fullname, account.Products, account.Categories,
		account.Transactions, account.Users, account.Settings)
	if err != nil {
		switch {
		case isUsernameViolation(err):
			return store.ErrUsernameTaken
		case isUniqueViolation(err):
			return store.ErrDuplicate
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (s *Store) CreateUserIfAbsent(ctx context.Context, account domain.UserAccount) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, fullname, perm_products, perm_categories, perm_transactions, perm_users, perm_settings, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT DO NOTHING
	`, account.ID, account.Username, account.PasswordHash, account.Fullname, account.Products, account.Categories,
		account.Transactions, account.Users, account.Settings, account.Status)
	if err != nil {
		return false, errors.Wrap(err, "create user")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "create user")
	}
	return affected > 0, nil
}

func (s *Store) SetUserStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrap(err, "set user status")
	}
	return expectAffected(res, "set user status")
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return errors.Wrap(err, "delete user")
}

// intTables guards MaxID, whose table name cannot be a bind parameter.
var intTables = map[string]bool{
	store.TableProducts:   true,
	store.TableCustomers:  true,
	store.TableCategories: true,
	store.TableUsers:      true,
}

func (s *Store) MaxID(ctx context.Context, table string) (int64, error) {
	if !intTables[table] {
		return 0, store.ErrInvalidInput
	}

	var maxID int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM `+table).Scan(&maxID); err != nil {
		return 0, errors.Wrapf(err, "max id of %s", table)
	}
	return maxID, nil
}

func expectAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isUsernameViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == usernameIndex
	}
	return false
}

func nullInt(val *int) any {
	if val == nil {
		return nil
	}
	return *val
}
