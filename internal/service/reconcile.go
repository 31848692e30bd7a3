package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storepos/backend/internal/domain"
)

// Reconcile applies one stock decrement per item, in order. A missing or
// untracked product is a per-item skip. A store failure is recorded for the
// item and the loop goes on; the returned error then reports the first one.
func (s *Service) Reconcile(ctx context.Context, items []domain.StockDecrement) (domain.ReconcileResult, error) {
	result := domain.ReconcileResult{
		Applied: make([]int64, 0, len(items)),
		Skipped: []domain.SkippedItem{},
	}

	var firstErr error
	for _, item := range items {
		if item.ID == 0 {
			result.Skipped = append(result.Skipped, domain.SkippedItem{ID: item.ID, Reason: domain.SkipMissingProductID})
			continue
		}

		applied, err := s.ApplyStockDelta(ctx, item.ID, item.Quantity)
		if err != nil {
			s.logger.Error("stock decrement failed", zap.Int64("product_id", item.ID), zap.Error(err))
			result.Skipped = append(result.Skipped, domain.SkippedItem{ID: item.ID, Reason: domain.SkipStoreFailure})
			if firstErr == nil {
				firstErr = fmt.Errorf("decrement product %d: %w", item.ID, err)
			}
			continue
		}
		if !applied {
			s.logger.Warn("stock decrement skipped", zap.Int64("product_id", item.ID), zap.String("reason", domain.SkipNotTracked))
			result.Skipped = append(result.Skipped, domain.SkippedItem{ID: item.ID, Reason: domain.SkipNotTracked})
			continue
		}
		result.Applied = append(result.Applied, item.ID)
	}

	return result, firstErr
}

func decrementsFor(items []domain.LineItem) []domain.StockDecrement {
	out := make([]domain.StockDecrement, 0, len(items))
	for _, item := range items {
		out = append(out, domain.StockDecrement{ID: item.ID, Quantity: item.Quantity})
	}
	return out
}

func reconcileWarnings(result domain.ReconcileResult) []string {
	if len(result.Skipped) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(result.Skipped))
	for _, skip := range result.Skipped {
		warnings = append(warnings, fmt.Sprintf("product %d: %s", skip.ID, skip.Reason))
	}
	return warnings
}
