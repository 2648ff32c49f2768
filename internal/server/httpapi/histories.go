package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

func historyIDs(c *gin.Context) (userID, entryID int64, ok bool) {
	if userID, ok = pathID(c, "id"); !ok {
		return 0, 0, false
	}
	if entryID, ok = pathID(c, "hid"); !ok {
		return 0, 0, false
	}
	return userID, entryID, true
}

func (h *Handler) ListHistory(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		unprocessable(c, err)
		return
	}

	list, err := h.histories.ListForUser(c.Request.Context(), userID, q.filter())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistories(list))
}

func (h *Handler) HistoryStats(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	st, err := h.histories.Statistics(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStats(st))
}

func (h *Handler) GetHistory(c *gin.Context) {
	userID, entryID, ok := historyIDs(c)
	if !ok {
		return
	}
	e, err := h.histories.FindForUser(c.Request.Context(), entryID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistory(e))
}

func (h *Handler) CreateHistory(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}

	e, err := h.histories.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHistory(e))
}

func (h *Handler) UpdateHistory(c *gin.Context) {
	userID, entryID, ok := historyIDs(c)
	if !ok {
		return
	}
	var req updateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}

	e, err := h.histories.Update(c.Request.Context(), entryID, userID, req.patch())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistory(e))
}

func (h *Handler) ApplyDose(c *gin.Context) {
	userID, entryID, ok := historyIDs(c)
	if !ok {
		return
	}
	var req applyDoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}

	e, err := h.histories.MarkApplied(c.Request.Context(), entryID, userID, models.AppliedInput{
		AppliedOn:      *req.AppliedOn,
		BatchLot:       req.BatchLot,
		Site:           req.Site,
		AdministeredBy: req.AdministeredBy,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistory(e))
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	userID, entryID, ok := historyIDs(c)
	if !ok {
		return
	}
	if err := h.histories.Delete(c.Request.Context(), entryID, userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
