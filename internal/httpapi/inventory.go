package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
)

func (a *API) handleListProducts(c *gin.Context) {
	products, err := a.service.ListProducts(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, products)
}

func (a *API) handleGetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	product, err := a.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			writeEmpty(c)
			return
		}
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, product)
}

func (a *API) handleProductBySKU(c *gin.Context) {
	var req domain.BarcodeLookupRequest
	raw, err := bindValues(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	req.SKUCode = cast.ToString(raw["skuCode"])

	product, err := a.service.GetProductByBarcode(c.Request.Context(), req.SKUCode)
	if err != nil {
		if service.IsNotFound(err) {
			writeEmpty(c)
			return
		}
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, product)
}

// handleUpsertProduct answers "OK" after an update and the stored product
// after an insert.
func (a *API) handleUpsertProduct(c *gin.Context) {
	raw, err := bindValues(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	req, err := productRequestFrom(raw)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	product, created, err := a.service.UpsertProduct(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !created {
		writeOK(c)
		return
	}
	writeJSON(c, http.StatusOK, product)
}

func (a *API) handleDeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := a.service.DeleteProduct(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleDecrement(c *gin.Context) {
	var items []domain.LineItem
	if err := c.ShouldBindJSON(&items); err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	decrements := make([]domain.StockDecrement, 0, len(items))
	for _, item := range items {
		decrements = append(decrements, domain.StockDecrement{ID: item.ID, Quantity: item.Quantity})
	}

	result, err := a.service.Reconcile(c.Request.Context(), decrements)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// productRequestFrom applies the desktop form conventions: an empty quantity
// means 0, a missing or non-numeric one leaves the product untracked, the
// "stock" checkbox switches stock checks off, and remove=1 drops the image.
func productRequestFrom(raw map[string]any) (domain.ProductUpsertRequest, error) {
	id, err := domain.ToInt64(firstOf(raw, "id", "_id"))
	if err != nil {
		return domain.ProductUpsertRequest{}, fmt.Errorf("invalid id: %w", err)
	}
	price, err := domain.ToDecimal(raw["price"])
	if err != nil {
		return domain.ProductUpsertRequest{}, fmt.Errorf("invalid price: %w", err)
	}

	return domain.ProductUpsertRequest{
		ID:          id,
		Name:        cast.ToString(raw["name"]),
		Price:       price,
		Category:    cast.ToString(raw["category"]),
		Quantity:    quantityFrom(raw),
		Stock:       stockFlagFrom(raw["stock"]),
		Barcode:     cast.ToString(raw["barcode"]),
		Img:         cast.ToString(raw["img"]),
		RemoveImage: cast.ToString(raw["remove"]) == "1",
	}, nil
}

func quantityFrom(raw map[string]any) *int {
	v, ok := raw["quantity"]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		zero := 0
		return &zero
	}
	n, err := domain.ToInt(v)
	if err != nil {
		return nil
	}
	return &n
}

func stockFlagFrom(v any) int {
	s := strings.TrimSpace(cast.ToString(v))
	switch s {
	case "on":
		return domain.StockDisabled
	case "":
		return domain.StockTracked
	}
	n, err := domain.ToInt(s)
	if err != nil {
		return domain.StockTracked
	}
	return n
}
