package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
	"storepos/backend/internal/xid"
)

func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) ListOnHold(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListOnHold(ctx)
}

func (s *Service) ListCustomerOrders(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListCustomerOrders(ctx)
}

// ListTransactionsByDate returns transactions whose date lies in the
// inclusive range. Status, operator and till filters apply only when set.
func (s *Service) ListTransactionsByDate(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filter.Start = strings.TrimSpace(filter.Start)
	filter.End = strings.TrimSpace(filter.End)
	if filter.Start == "" || filter.End == "" {
		return nil, store.ErrInvalidInput
	}
	return s.repo.ListTransactionsByDate(ctx, filter)
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, store.ErrInvalidInput
	}
	return s.repo.GetTransaction(ctx, id)
}

// CreateTransaction persists the transaction and, when it is created
// finalized, applies its items to the stock ledger. Per-item problems are
// returned as warnings; the transaction itself stays saved.
func (s *Service) CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.TransactionCreateResponse, error) {
	tx.ID = strings.TrimSpace(tx.ID)
	if tx.ID == "" {
		tx.ID = xid.NewString()
	}
	tx.OrderID = defaultString(strings.TrimSpace(tx.OrderID), tx.ID)
	if tx.Date == "" {
		tx.Date = s.timestamp()
	}
	if tx.Items == nil {
		tx.Items = []domain.LineItem{}
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return domain.TransactionCreateResponse{}, err
	}

	resp := domain.TransactionCreateResponse{Transaction: tx}
	if !tx.Finalized() {
		return resp, nil
	}

	result, err := s.Reconcile(ctx, decrementsFor(tx.Items))
	if err != nil {
		s.logger.Error("reconciliation incomplete", zap.String("transaction_id", tx.ID), zap.Error(err))
	}
	resp.Reconcile = &result
	resp.Warnings = reconcileWarnings(result)
	return resp, nil
}

// UpdateTransaction replaces the stored transaction in place. It never
// touches stock, even when the status moves to finalized.
func (s *Service) UpdateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	tx.ID = strings.TrimSpace(tx.ID)
	if tx.ID == "" {
		return domain.Transaction{}, store.ErrInvalidInput
	}
	if tx.Items == nil {
		tx.Items = []domain.LineItem{}
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}

	updated, err := s.repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *updated, nil
}

// DeleteTransaction removes the row. Stock sold by the transaction is not
// credited back.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidInput
	}
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.logger.Info("transaction voided", zap.String("transaction_id", id))
	return nil
}
