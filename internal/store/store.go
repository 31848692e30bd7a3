package store

import (
	"context"
	"errors"
	"fmt"

	"storepos/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate is returned by inserts whose id is already taken.
	ErrDuplicate = fmt.Errorf("%w: id already exists", ErrInvalidInput)
	// ErrUsernameTaken is returned when another operator already has the username.
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrInvalidInput)
)

// Tables with integer keys. The names double as id sequence names.
const (
	TableProducts   = "inventory"
	TableCustomers  = "customers"
	TableCategories = "categories"
	TableUsers      = "users"
)

// Repository is the relational collaborator. Every method is a single
// statement from the caller's point of view; there is no cross-call
// transaction.
type Repository interface {
	ProductStore
	TransactionStore
	StatisticStore
	CatalogStore
	SettingsStore
	UserStore

	// MaxID returns the largest id in one of the integer-keyed tables, 0 when
	// it is empty.
	MaxID(ctx context.Context, table string) (int64, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	// CreateProduct inserts only; a taken id is ErrDuplicate.
	CreateProduct(ctx context.Context, product domain.Product) error
	// UpsertProduct inserts the product when its id is unseen and otherwise
	// replaces every column. created reports which branch ran.
	UpsertProduct(ctx context.Context, product domain.Product) (created bool, err error)
	DeleteProduct(ctx context.Context, id int64) error
	// DecrementStock subtracts qty from the product quantity in one atomic
	// step. applied is false when the product is missing or not stock-tracked.
	DecrementStock(ctx context.Context, id int64, qty int) (applied bool, err error)
}

type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListOnHold(ctx context.Context) ([]domain.Transaction, error)
	ListCustomerOrders(ctx context.Context) ([]domain.Transaction, error)
	ListTransactionsByDate(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, tx domain.Transaction) error
	UpdateTransaction(ctx context.Context, tx domain.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

type StatisticStore interface {
	ListStatistics(ctx context.Context) ([]domain.Statistic, error)
	ListStatisticsByDate(ctx context.Context, start string, end string) ([]domain.Statistic, error)
	GetStatistic(ctx context.Context, id string) (*domain.Statistic, error)
	CreateStatistic(ctx context.Context, stat domain.Statistic) error
	UpdateStatistic(ctx context.Context, stat domain.Statistic) error
	DeleteStatistic(ctx context.Context, id string) error
}

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) error
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpsertSettings(ctx context.Context, settings domain.Settings) (created bool, err error)
}

type UserStore interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserAccountByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	// CreateUser inserts only; a taken id is ErrDuplicate and a taken
	// username is ErrUsernameTaken.
	CreateUser(ctx context.Context, account domain.UserAccount) error
	UpsertUser(ctx context.Context, account domain.UserAccount) (created bool, err error)
	// CreateUserIfAbsent inserts the account only when no row has its id.
	CreateUserIfAbsent(ctx context.Context, account domain.UserAccount) (created bool, err error)
	SetUserStatus(ctx context.Context, id int64, status string) error
	DeleteUser(ctx context.Context, id int64) error
}
