package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
)

func (a *API) handleGetSettings(c *gin.Context) {
	settings, err := a.service.GetSettings(c.Request.Context())
	if err != nil && !service.IsNotFound(err) {
		a.fail(c, err)
		return
	}
	if settings == nil {
		writeJSON(c, http.StatusOK, gin.H{"_id": domain.SettingsID, "settings": gin.H{}})
		return
	}
	writeJSON(c, http.StatusOK, domain.SettingsResponse{ID: domain.SettingsID, Settings: settings})
}

func (a *API) handleSaveSettings(c *gin.Context) {
	raw, err := bindValues(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	req := domain.SettingsUpsertRequest{
		Settings: domain.Settings{
			App:        cast.ToString(raw["app"]),
			Store:      cast.ToString(raw["store"]),
			AddressOne: cast.ToString(raw["address_one"]),
			AddressTwo: cast.ToString(raw["address_two"]),
			Contact:    cast.ToString(raw["contact"]),
			Tax:        cast.ToString(raw["tax"]),
			Symbol:     cast.ToString(raw["symbol"]),
			Percentage: cast.ToString(raw["percentage"]),
			ChargeTax:  cast.ToString(raw["charge_tax"]),
			Footer:     cast.ToString(raw["footer"]),
			Img:        cast.ToString(raw["img"]),
		},
		RemoveImage: cast.ToString(raw["remove"]) == "1",
	}

	saved, created, err := a.service.SaveSettings(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !created {
		writeOK(c)
		return
	}
	writeJSON(c, http.StatusOK, domain.SettingsResponse{ID: domain.SettingsID, Settings: &saved})
}
