package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/imunetrack/internal/logging"
)

// NewRouter wires gin routes and middleware.
func NewRouter(h *Handler, m *Metrics, corsOrigins []string, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log.With("module", "http_access")))
	r.Use(CORS(corsOrigins))
	r.Use(m.Middleware())

	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	vaccines := r.Group("/vaccines")
	{
		vaccines.GET("", h.ListVaccines)
		vaccines.POST("", h.CreateVaccine)
		vaccines.GET("/:id", h.GetVaccine)
		vaccines.PUT("/:id", h.UpdateVaccine)
		vaccines.DELETE("/:id", h.DeleteVaccine)
	}

	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.POST("/login", h.Login)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		history := users.Group("/:id/history")
		{
			history.GET("", h.ListHistory)
			history.POST("", h.CreateHistory)
			history.GET("/estatisticas", h.HistoryStats)
			history.GET("/:hid", h.GetHistory)
			history.PUT("/:hid", h.UpdateHistory)
			history.PATCH("/:hid/aplicar", h.ApplyDose)
			history.DELETE("/:hid", h.DeleteHistory)
		}
	}

	return r
}
