package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("STOREPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set STOREPOS_TEST_DATABASE_URL to run postgres integration test")
	}

	s, err := New(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestDecrementIsAtomicAndVoidKeepsStock(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	stamp := time.Now().UnixNano()
	productID := stamp % 1_000_000_000
	txID := fmt.Sprintf("tx-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, txID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, productID)
	})

	qty := 100
	created, err := s.UpsertProduct(ctx, domain.Product{
		ID:       productID,
		Name:     "Produk IT",
		Price:    decimal.RequireFromString("12.50"),
		Quantity: &qty,
		Stock:    domain.StockTracked,
		Barcode:  fmt.Sprint(productID),
	})
	if err != nil {
		t.Fatalf("upsert product: %v", err)
	}
	if !created {
		t.Fatalf("expected first upsert to insert")
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.DecrementStock(ctx, productID, 2); err != nil {
				t.Errorf("decrement: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetProduct(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Quantity == nil || *got.Quantity != 60 {
		t.Fatalf("expected quantity 60 after concurrent decrements, got %v", got.Quantity)
	}

	tx := domain.Transaction{
		ID:       txID,
		OrderID:  txID,
		Status:   domain.TxStatusFinalized,
		Customer: domain.CustomerRef{ID: 9, Name: "Budi"},
		Items:    []domain.LineItem{{ID: productID, Quantity: 2, Price: decimal.RequireFromString("12.50")}},
		Date:     "2024-03-01T10:00:00.000Z",
		Total:    decimal.RequireFromString("25"),
	}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if err := s.CreateTransaction(ctx, tx); err != store.ErrInvalidInput {
		t.Fatalf("expected duplicate id to be rejected, got %v", err)
	}

	stored, err := s.GetTransaction(ctx, txID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].ID != productID || stored.Customer.Name != "Budi" {
		t.Fatalf("unexpected decoded transaction: %+v", stored)
	}

	if err := s.DeleteTransaction(ctx, txID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	after, err := s.GetProduct(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if *after.Quantity != 60 {
		t.Fatalf("expected void to leave stock at 60, got %d", *after.Quantity)
	}
}

func TestDecrementSkipsUntrackedProduct(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	productID := time.Now().UnixNano()%1_000_000_000 + 7
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, productID)
	})

	if _, err := s.UpsertProduct(ctx, domain.Product{ID: productID, Name: "Untracked"}); err != nil {
		t.Fatalf("upsert product: %v", err)
	}

	applied, err := s.DecrementStock(ctx, productID, 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if applied {
		t.Fatalf("expected untracked product to be skipped")
	}

	applied, err = s.DecrementStock(ctx, -1, 1)
	if err != nil || applied {
		t.Fatalf("expected missing product to be skipped, got applied=%v err=%v", applied, err)
	}
}

func TestInsertOnlyCreatesAndUsernameIndex(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	stamp := time.Now().UnixNano()
	productID := stamp%1_000_000_000 + 1
	userID := stamp%1_000_000_000 + 2
	username := fmt.Sprintf("it-user-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, productID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM users WHERE id IN ($1, $2)`, userID, userID+1)
	})

	if err := s.CreateProduct(ctx, domain.Product{ID: productID, Name: "Kopi"}); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := s.CreateProduct(ctx, domain.Product{ID: productID, Name: "Gula"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for taken product id, got %v", err)
	}
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if p.Name != "Kopi" {
		t.Fatalf("existing product was overwritten: %+v", p)
	}

	maxID, err := s.MaxID(ctx, store.TableProducts)
	if err != nil {
		t.Fatalf("max id: %v", err)
	}
	if maxID < productID {
		t.Fatalf("expected max id >= %d, got %d", productID, maxID)
	}
	if _, err := s.MaxID(ctx, "transactions"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for string-keyed table, got %v", err)
	}

	account := domain.UserAccount{User: domain.User{ID: userID, Username: username}, PasswordHash: "$2a$10$hash"}
	if err := s.CreateUser(ctx, account); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := s.CreateUser(ctx, account); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for taken user id, got %v", err)
	}
	clash := domain.UserAccount{User: domain.User{ID: userID + 1, Username: username}, PasswordHash: "$2a$10$other"}
	if err := s.CreateUser(ctx, clash); !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken from CreateUser, got %v", err)
	}
	if _, err := s.UpsertUser(ctx, clash); !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken from UpsertUser, got %v", err)
	}
	created, err := s.CreateUserIfAbsent(ctx, clash)
	if err != nil || created {
		t.Fatalf("expected CreateUserIfAbsent to skip a taken username, created=%v err=%v", created, err)
	}
}
