// Package httpapi exposes the ImuneTrack services as a JSON API over gin.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/services"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether storage is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users     *services.UserService
	vaccines  *services.VaccineService
	histories *services.HistoryService
	storage   Pinger
	log       logging.Logger
}

func NewHandler(us *services.UserService, vs *services.VaccineService, hs *services.HistoryService, storage Pinger, log logging.Logger) *Handler {
	return &Handler{
		users:     us,
		vaccines:  vs,
		histories: hs,
		storage:   storage,
		log:       log.With("module", "http"),
	}
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Message: "Bem-vindo ao ImuneTrack!"})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.storage.PingContext(ctx); err != nil {
		h.log.Warn(ctx, "storage ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathID parses the int64 path parameter name, answering 422 when it is not
// a number.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		unprocessable(c, common.Validation(fmt.Sprintf("Parâmetro '%s' deve ser um número inteiro", name)))
		return 0, false
	}
	return id, true
}
