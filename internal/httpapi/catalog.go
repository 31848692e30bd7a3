package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
)

func (a *API) handleListCategories(c *gin.Context) {
	categories, err := a.service.ListCategories(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, categories)
}

func (a *API) handleCreateCategory(c *gin.Context) {
	category, err := categoryFrom(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	created, err := a.service.CreateCategory(c.Request.Context(), category)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, created)
}

func (a *API) handleUpdateCategory(c *gin.Context) {
	category, err := categoryFrom(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := a.service.UpdateCategory(c.Request.Context(), category); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleDeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := a.service.DeleteCategory(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func categoryFrom(c *gin.Context) (domain.Category, error) {
	raw, err := bindValues(c)
	if err != nil {
		return domain.Category{}, err
	}
	id, err := domain.ToInt64(firstOf(raw, "id", "_id"))
	if err != nil {
		return domain.Category{}, fmt.Errorf("invalid id: %w", err)
	}
	return domain.Category{ID: id, Name: cast.ToString(raw["name"])}, nil
}

func (a *API) handleListCustomers(c *gin.Context) {
	customers, err := a.service.ListCustomers(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, customers)
}

func (a *API) handleGetCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	customer, err := a.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			writeEmpty(c)
			return
		}
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, customer)
}

func (a *API) handleCreateCustomer(c *gin.Context) {
	customer, err := customerFrom(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	created, err := a.service.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, created)
}

func (a *API) handleUpdateCustomer(c *gin.Context) {
	customer, err := customerFrom(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := a.service.UpdateCustomer(c.Request.Context(), customer); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleDeleteCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := a.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func customerFrom(c *gin.Context) (domain.Customer, error) {
	raw, err := bindValues(c)
	if err != nil {
		return domain.Customer{}, err
	}
	id, err := domain.ToInt64(firstOf(raw, "_id", "id"))
	if err != nil {
		return domain.Customer{}, fmt.Errorf("invalid id: %w", err)
	}
	return domain.Customer{
		ID:      id,
		Name:    cast.ToString(raw["name"]),
		Phone:   cast.ToString(raw["phone"]),
		Email:   cast.ToString(raw["email"]),
		Address: cast.ToString(raw["address"]),
	}, nil
}
