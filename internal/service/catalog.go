package service

import (
	"context"
	"strings"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return domain.Category{}, store.ErrInvalidInput
	}
	if category.ID != 0 {
		if err := s.repo.CreateCategory(ctx, category); err != nil {
			return domain.Category{}, err
		}
		return category, nil
	}

	_, err := s.insertWithNextID(ctx, store.TableCategories, func(id int64) error {
		category.ID = id
		return s.repo.CreateCategory(ctx, category)
	})
	if err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, category domain.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.ID == 0 || category.Name == "" {
		return store.ErrInvalidInput
	}
	return s.repo.UpdateCategory(ctx, category)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if id == 0 {
		return store.ErrInvalidInput
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	if id == 0 {
		return nil, store.ErrInvalidInput
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	customer = trimCustomer(customer)
	if customer.Name == "" {
		return domain.Customer{}, store.ErrInvalidInput
	}
	if customer.ID != 0 {
		if err := s.repo.CreateCustomer(ctx, customer); err != nil {
			return domain.Customer{}, err
		}
		return customer, nil
	}

	_, err := s.insertWithNextID(ctx, store.TableCustomers, func(id int64) error {
		customer.ID = id
		return s.repo.CreateCustomer(ctx, customer)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	customer = trimCustomer(customer)
	if customer.ID == 0 || customer.Name == "" {
		return store.ErrInvalidInput
	}
	return s.repo.UpdateCustomer(ctx, customer)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if id == 0 {
		return store.ErrInvalidInput
	}
	return s.repo.DeleteCustomer(ctx, id)
}

func trimCustomer(c domain.Customer) domain.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	return c
}
