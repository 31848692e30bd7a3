package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id == 0 {
		return nil, store.ErrInvalidInput
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, store.ErrInvalidInput
	}
	return s.repo.GetProductByBarcode(ctx, barcode)
}

// UpsertProduct inserts the product when its id is new and replaces every
// column otherwise. Without an id the product is always inserted under one
// drawn from the product sequence.
func (s *Service) UpsertProduct(ctx context.Context, req domain.ProductUpsertRequest) (domain.Product, bool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price.IsNegative() {
		return domain.Product{}, false, store.ErrInvalidInput
	}

	img := req.Img
	if req.RemoveImage {
		img = ""
	}

	product := domain.Product{
		ID:       req.ID,
		Name:     name,
		Price:    req.Price,
		Category: strings.TrimSpace(req.Category),
		Quantity: req.Quantity,
		Stock:    req.Stock,
		Barcode:  strings.TrimSpace(req.Barcode),
		Img:      img,
	}

	var created bool
	if product.ID == 0 {
		barcode := product.Barcode
		_, err := s.insertWithNextID(ctx, store.TableProducts, func(id int64) error {
			product.ID = id
			product.Barcode = defaultString(barcode, strconv.FormatInt(id, 10))
			return s.repo.CreateProduct(ctx, product)
		})
		if err != nil {
			return domain.Product{}, false, err
		}
		created = true
	} else {
		product.Barcode = defaultString(product.Barcode, strconv.FormatInt(product.ID, 10))
		var err error
		if created, err = s.repo.UpsertProduct(ctx, product); err != nil {
			return domain.Product{}, false, err
		}
	}

	s.logger.Info("product saved", zap.Int64("product_id", product.ID), zap.Bool("created", created))
	return product, created, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if id == 0 {
		return store.ErrInvalidInput
	}
	return s.repo.DeleteProduct(ctx, id)
}

// ApplyStockDelta subtracts the sold quantity from the product in one store
// round-trip. applied is false when the product is missing or untracked.
func (s *Service) ApplyStockDelta(ctx context.Context, id int64, sold int) (bool, error) {
	if id == 0 {
		return false, store.ErrInvalidInput
	}
	return s.repo.DecrementStock(ctx, id, sold)
}
