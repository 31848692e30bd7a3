package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The desktop client reads money fields as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	TxStatusOpen      = 0
	TxStatusFinalized = 1
)

const (
	StockTracked  = 1
	StockDisabled = 0
)

const SettingsID int64 = 1

const DefaultAdminID int64 = 1

type Product struct {
	ID       int64           `json:"_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	// Quantity is nil when the stored value is not numeric; such products are
	// not stock-tracked and reconciliation skips them.
	Quantity *int   `json:"quantity"`
	Stock    int    `json:"stock"`
	Barcode  string `json:"barcode"`
	Img      string `json:"img"`
}

type ProductUpsertRequest struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Category    string
	Quantity    *int
	Stock       int
	Barcode     string
	Img         string
	RemoveImage bool
}

type BarcodeLookupRequest struct {
	SKUCode string `json:"skuCode"`
}

type Transaction struct {
	ID          string          `json:"_id"`
	OrderID     string          `json:"order_id"`
	RefNumber   string          `json:"ref_number"`
	Discount    decimal.Decimal `json:"discount"`
	Customer    CustomerRef     `json:"customer"`
	Status      int             `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	OrderType   int             `json:"order_type"`
	Items       []LineItem      `json:"items"`
	Date        string          `json:"date"`
	PaymentType string          `json:"payment_type"`
	PaymentInfo string          `json:"payment_info"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Change      decimal.Decimal `json:"change"`
	Till        int64           `json:"till"`
	Mac         string          `json:"mac"`
	User        string          `json:"user"`
	UserID      int64           `json:"user_id"`
}

func (t Transaction) Finalized() bool {
	return t.Status != TxStatusOpen
}

// OnHold reports whether the transaction is a held order awaiting payment.
func (t Transaction) OnHold() bool {
	return t.RefNumber != "" && t.Status == TxStatusOpen
}

// CustomerOrder reports whether the transaction is a standing customer order.
// It is never true together with OnHold.
func (t Transaction) CustomerOrder() bool {
	return !t.Customer.IsZero() && t.Status == TxStatusOpen && t.RefNumber == ""
}

type TransactionDeleteRequest struct {
	OrderID string `json:"orderId"`
}

type TransactionFilter struct {
	Start  string
	End    string
	Status *int
	UserID int64
	Till   int64
}

type TransactionCreateResponse struct {
	Transaction Transaction     `json:"transaction"`
	Reconcile   *ReconcileResult `json:"reconcile,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

type StockDecrement struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

const (
	SkipMissingProductID = "missing_product_id"
	SkipNotTracked       = "product_missing_or_untracked"
	SkipStoreFailure     = "store_failure"
)

type SkippedItem struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

type ReconcileResult struct {
	Applied []int64       `json:"applied"`
	Skipped []SkippedItem `json:"skipped"`
}

type Statistic struct {
	ID          string          `json:"_id"`
	Date        string          `json:"date"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

type StatisticDeleteRequest struct {
	ID string `json:"_id"`
}

type Category struct {
	ID   int64  `json:"_id"`
	Name string `json:"name"`
}

type Customer struct {
	ID      int64  `json:"_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Settings struct {
	ID         int64  `json:"_id"`
	App        string `json:"app"`
	Store      string `json:"store"`
	AddressOne string `json:"address_one"`
	AddressTwo string `json:"address_two"`
	Contact    string `json:"contact"`
	Tax        string `json:"tax"`
	Symbol     string `json:"symbol"`
	Percentage string `json:"percentage"`
	ChargeTax  string `json:"charge_tax"`
	Footer     string `json:"footer"`
	Img        string `json:"img"`
}

type SettingsUpsertRequest struct {
	Settings
	RemoveImage bool `json:"-"`
}

type SettingsResponse struct {
	ID       int64     `json:"_id"`
	Settings *Settings `json:"settings"`
}

type Permissions struct {
	Products     int `json:"perm_products"`
	Categories   int `json:"perm_categories"`
	Transactions int `json:"perm_transactions"`
	Users        int `json:"perm_users"`
	Settings     int `json:"perm_settings"`
}

// User is the public view of an operator; the password hash never leaves the store layer.
type User struct {
	ID       int64  `json:"_id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Permissions
	Status string `json:"status"`
}

// UserAccount is an internal persistence model for operator credentials.
type UserAccount struct {
	User
	PasswordHash string
}

type UserUpsertRequest struct {
	ID       int64
	Username string
	Password string
	Fullname string
	Permissions
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User
	AccessToken string `json:"access_token,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

const (
	PermProducts     = "products"
	PermCategories   = "categories"
	PermTransactions = "transactions"
	PermUsers        = "users"
	PermSettings     = "settings"
)

func (p Permissions) Has(perm string) bool {
	switch perm {
	case PermProducts:
		return p.Products == 1
	case PermCategories:
		return p.Categories == 1
	case PermTransactions:
		return p.Transactions == 1
	case PermUsers:
		return p.Users == 1
	case PermSettings:
		return p.Settings == 1
	default:
		return false
	}
}

type Actor struct {
	UserID   int64
	Username string
	Permissions
}
