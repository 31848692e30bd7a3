package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

func TestCreateProductRefusesTakenID(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateProduct(ctx, domain.Product{ID: 1, Name: "Coffee"}))
	err := s.CreateProduct(ctx, domain.Product{ID: 1, Name: "Sugar"})
	assert.True(t, errors.Is(err, store.ErrDuplicate))
	assert.True(t, errors.Is(err, store.ErrInvalidInput))

	p, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", p.Name)
}

func TestMaxIDPerTable(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.MaxID(ctx, store.TableProducts)
	require.NoError(t, err)
	assert.Zero(t, got)

	require.NoError(t, s.CreateProduct(ctx, domain.Product{ID: 40, Name: "A"}))
	require.NoError(t, s.CreateProduct(ctx, domain.Product{ID: 7, Name: "B"}))
	require.NoError(t, s.CreateCustomer(ctx, domain.Customer{ID: 3, Name: "Budi"}))

	got, err = s.MaxID(ctx, store.TableProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(40), got)
	got, err = s.MaxID(ctx, store.TableCustomers)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	_, err = s.MaxID(ctx, "transactions")
	assert.True(t, errors.Is(err, store.ErrInvalidInput))
}

func TestUsernameUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	admin := domain.UserAccount{User: domain.User{ID: 1, Username: "admin"}, PasswordHash: "$2a$hash"}
	require.NoError(t, s.CreateUser(ctx, admin))

	err := s.CreateUser(ctx, domain.UserAccount{User: domain.User{ID: 2, Username: "admin"}, PasswordHash: "$2a$other"})
	assert.True(t, errors.Is(err, store.ErrUsernameTaken))

	err = s.CreateUser(ctx, domain.UserAccount{User: domain.User{ID: 1, Username: "kasir"}, PasswordHash: "$2a$other"})
	assert.True(t, errors.Is(err, store.ErrDuplicate))

	created, err := s.CreateUserIfAbsent(ctx, domain.UserAccount{User: domain.User{ID: 9, Username: "admin"}, PasswordHash: "$2a$x"})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = s.UpsertUser(ctx, domain.UserAccount{User: domain.User{ID: 3, Username: "admin"}, PasswordHash: "$2a$y"})
	assert.True(t, errors.Is(err, store.ErrUsernameTaken))

	// Saving the same operator again is not a conflict.
	created, err = s.UpsertUser(ctx, domain.UserAccount{User: domain.User{ID: 1, Username: "admin"}})
	require.NoError(t, err)
	assert.False(t, created)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
