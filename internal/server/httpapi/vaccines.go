package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

// ListVaccines lists all vaccines, or narrows by ?nome= (exact name, zero or
// one element) or ?doses=.
func (h *Handler) ListVaccines(c *gin.Context) {
	var q vaccineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		unprocessable(c, err)
		return
	}
	ctx := c.Request.Context()

	var (
		list []models.Vaccine
		err  error
	)
	switch {
	case q.Name != "":
		var v *models.Vaccine
		v, err = h.vaccines.FindByName(ctx, q.Name)
		switch {
		case err == nil:
			list = []models.Vaccine{*v}
		case errors.Is(err, common.ErrorNotFound):
			list, err = nil, nil
		}
	case q.Doses != nil:
		list, err = h.vaccines.ListByDoses(ctx, *q.Doses)
	default:
		list, err = h.vaccines.List(ctx)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVaccines(list))
}

func (h *Handler) GetVaccine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.vaccines.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVaccine(v))
}

func (h *Handler) CreateVaccine(c *gin.Context) {
	var req createVaccineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}
	v, err := h.vaccines.Create(c.Request.Context(), req.Name, req.Doses)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVaccine(v))
}

func (h *Handler) UpdateVaccine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateVaccineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}
	v, err := h.vaccines.Update(c.Request.Context(), id, models.VaccinePatch{Name: req.Name, RequiredDoses: req.Doses})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVaccine(v))
}

func (h *Handler) DeleteVaccine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.vaccines.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
