package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

// Store keeps every table in process memory. Each method holds the lock for
// its whole body, which gives the same single-statement atomicity the SQL
// adapter relies on.
type Store struct {
	mu           sync.RWMutex
	products     map[int64]domain.Product
	transactions map[string]domain.Transaction
	statistics   map[string]domain.Statistic
	categories   map[int64]domain.Category
	customers    map[int64]domain.Customer
	settings     *domain.Settings
	users        map[int64]domain.UserAccount
}

var _ store.Repository = (*Store)(nil)

func New() *Store {
	return &Store{
		products:     make(map[int64]domain.Product),
		transactions: make(map[string]domain.Transaction),
		statistics:   make(map[string]domain.Statistic),
		categories:   make(map[int64]domain.Category),
		customers:    make(map[int64]domain.Customer),
		users:        make(map[int64]domain.UserAccount),
	}
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, cloneProduct(p))
	}
	slices.SortFunc(products, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

func (s *Store) GetProductByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Barcode == barcode {
			out := cloneProduct(p)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpsertProduct(_ context.Context, product domain.Product) (bool, error) {
	if product.ID == 0 {
		return false, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.products[product.ID]
	s.products[product.ID] = cloneProduct(product)
	return !exists, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) error {
	if product.ID == 0 {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return store.ErrDuplicate
	}
	s.products[product.ID] = cloneProduct(product)
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

func (s *Store) DecrementStock(_ context.Context, id int64, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.Quantity == nil {
		return false, nil
	}
	next := *p.Quantity - qty
	p.Quantity = &next
	s.products[id] = p
	return true, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	return s.filterTransactions(func(domain.Transaction) bool { return true }), nil
}

func (s *Store) ListOnHold(_ context.Context) ([]domain.Transaction, error) {
	return s.filterTransactions(domain.Transaction.OnHold), nil
}

func (s *Store) ListCustomerOrders(_ context.Context) ([]domain.Transaction, error) {
	return s.filterTransactions(domain.Transaction.CustomerOrder), nil
}

func (s *Store) ListTransactionsByDate(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return s.filterTransactions(func(tx domain.Transaction) bool {
		if tx.Date < filter.Start || tx.Date > filter.End {
			return false
		}
		if filter.Status != nil && tx.Status != *filter.Status {
			return false
		}
		if filter.UserID != 0 && tx.UserID != filter.UserID {
			return false
		}
		if filter.Till != 0 && tx.Till != filter.Till {
			return false
		}
		return true
	}), nil
}

func (s *Store) filterTransactions(keep func(domain.Transaction) bool) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if keep(tx) {
			out = append(out, cloneTransaction(tx))
		}
	}
	slices.SortFunc(out, func(a, b domain.Transaction) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Store) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneTransaction(tx)
	return &out, nil
}

func (s *Store) CreateTransaction(_ context.Context, tx domain.Transaction) error {
	if tx.ID == "" {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; exists {
		return store.ErrInvalidInput
	}
	s.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[tx.ID]
	if !ok {
		return store.ErrNotFound
	}
	// order_id is fixed at creation.
	tx.OrderID = existing.OrderID
	s.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transactions, id)
	return nil
}

func (s *Store) ListStatistics(_ context.Context) ([]domain.Statistic, error) {
	return s.filterStatistics(func(domain.Statistic) bool { return true }), nil
}

func (s *Store) ListStatisticsByDate(_ context.Context, start string, end string) ([]domain.Statistic, error) {
	return s.filterStatistics(func(stat domain.Statistic) bool {
		return stat.Date >= start && stat.Date <= end
	}), nil
}

func (s *Store) filterStatistics(keep func(domain.Statistic) bool) []domain.Statistic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Statistic, 0, len(s.statistics))
	for _, stat := range s.statistics {
		if keep(stat) {
			out = append(out, stat)
		}
	}
	slices.SortFunc(out, func(a, b domain.Statistic) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Store) GetStatistic(_ context.Context, id string) (*domain.Statistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stat, ok := s.statistics[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &stat, nil
}

func (s *Store) CreateStatistic(_ context.Context, stat domain.Statistic) error {
	if stat.ID == "" {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.statistics[stat.ID]; exists {
		return store.ErrInvalidInput
	}
	s.statistics[stat.ID] = stat
	return nil
}

func (s *Store) UpdateStatistic(_ context.Context, stat domain.Statistic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.statistics[stat.ID]; !exists {
		return store.ErrNotFound
	}
	s.statistics[stat.ID] = stat
	return nil
}

func (s *Store) DeleteStatistic(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.statistics, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == 0 {
		return store.ErrInvalidInput
	}
	if _, exists := s.categories[category.ID]; exists {
		return store.ErrDuplicate
	}
	s.categories[category.ID] = category
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[category.ID]; !exists {
		return store.ErrNotFound
	}
	s.categories[category.ID] = category
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
	return nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.Customer) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == 0 {
		return store.ErrInvalidInput
	}
	if _, exists := s.customers[customer.ID]; exists {
		return store.ErrDuplicate
	}
	s.customers[customer.ID] = customer
	return nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.ID]; !exists {
		return store.ErrNotFound
	}
	s.customers[customer.ID] = customer
	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.customers, id)
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	out := *s.settings
	return &out, nil
}

func (s *Store) UpsertSettings(_ context.Context, settings domain.Settings) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.settings == nil
	settings.ID = domain.SettingsID
	s.settings = &settings
	return created, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	slices.SortFunc(out, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := u.User
	return &out, nil
}

func (s *Store) GetUserAccountByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpsertUser keeps the stored password hash when the incoming one is empty.
func (s *Store) UpsertUser(_ context.Context, account domain.UserAccount) (bool, error) {
	if account.ID == 0 {
		return false, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTakenLocked(account.ID, account.Username) {
		return false, store.ErrUsernameTaken
	}

	existing, exists := s.users[account.ID]
	if exists {
		if account.PasswordHash == "" {
			account.PasswordHash = existing.PasswordHash
		}
		account.Status = existing.Status
	} else if account.PasswordHash == "" {
		return false, store.ErrInvalidInput
	}
	s.users[account.ID] = account
	return !exists, nil
}

func (s *Store) CreateUser(_ context.Context, account domain.UserAccount) error {
	if account.ID == 0 || account.PasswordHash == "" {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[account.ID]; exists {
		return store.ErrDuplicate
	}
	if s.usernameTakenLocked(account.ID, account.Username) {
		return store.ErrUsernameTaken
	}
	s.users[account.ID] = account
	return nil
}

// CreateUserIfAbsent leaves the store alone when the id or the username is
// already in use.
func (s *Store) CreateUserIfAbsent(_ context.Context, account domain.UserAccount) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[account.ID]; exists || s.usernameTakenLocked(account.ID, account.Username) {
		return false, nil
	}
	s.users[account.ID] = account
	return true, nil
}

func (s *Store) SetUserStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Status = status
	s.users[id] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

func (s *Store) usernameTakenLocked(id int64, username string) bool {
	for _, u := range s.users {
		if u.ID != id && u.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) MaxID(_ context.Context, table string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var maxID int64
	switch table {
	case store.TableProducts:
		for id := range s.products {
			maxID = max(maxID, id)
		}
	case store.TableCustomers:
		for id := range s.customers {
			maxID = max(maxID, id)
		}
	case store.TableCategories:
		for id := range s.categories {
			maxID = max(maxID, id)
		}
	case store.TableUsers:
		for id := range s.users {
			maxID = max(maxID, id)
		}
	default:
		return 0, store.ErrInvalidInput
	}
	return maxID, nil
}

func cloneProduct(p domain.Product) domain.Product {
	if p.Quantity != nil {
		qty := *p.Quantity
		p.Quantity = &qty
	}
	return p
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	tx.Items = slices.Clone(tx.Items)
	if tx.Items == nil {
		tx.Items = []domain.LineItem{}
	}
	return tx
}
