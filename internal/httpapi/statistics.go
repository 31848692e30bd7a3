package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
)

func (a *API) handleListStatistics(c *gin.Context) {
	stats, err := a.service.ListStatistics(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stats)
}

func (a *API) handleStatisticsByDate(c *gin.Context) {
	stats, err := a.service.ListStatisticsByDate(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stats)
}

func (a *API) handleGetStatistic(c *gin.Context) {
	stat, err := a.service.GetStatistic(c.Request.Context(), c.Param("id"))
	if err != nil {
		if service.IsNotFound(err) {
			writeEmpty(c)
			return
		}
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stat)
}

func (a *API) handleCreateStatistic(c *gin.Context) {
	var stat domain.Statistic
	if err := c.ShouldBindJSON(&stat); err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	created, err := a.service.CreateStatistic(c.Request.Context(), stat)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, created)
}

func (a *API) handleUpdateStatistic(c *gin.Context) {
	var stat domain.Statistic
	if err := c.ShouldBindJSON(&stat); err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := a.service.UpdateStatistic(c.Request.Context(), stat); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleDeleteStatistic(c *gin.Context) {
	raw, err := bindValues(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	req := domain.StatisticDeleteRequest{ID: cast.ToString(firstOf(raw, "_id", "id"))}

	if err := a.service.DeleteStatistic(c.Request.Context(), req.ID); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}
