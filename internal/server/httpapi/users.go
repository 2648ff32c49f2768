package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/validation"
)

// ListUsers lists all users, or the one matching ?email=.
func (h *Handler) ListUsers(c *gin.Context) {
	var q userQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		unprocessable(c, err)
		return
	}
	ctx := c.Request.Context()

	if q.Email != "" {
		u, err := h.users.FindByEmail(ctx, q.Email)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, []userResponse{toUser(u)})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusOK, []userResponse{})
		default:
			h.writeError(c, err)
		}
		return
	}

	list, err := h.users.List(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUsers(list))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(u))
}

// CreateUser answers 200, not 201, like the API it replaces.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}
	if perr := validation.PasswordPolicy(req.Password); perr != nil {
		unprocessable(c, perr)
		return
	}

	u, err := h.users.Create(c.Request.Context(), req.Name, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}

	u, err := h.users.Update(c.Request.Context(), id, models.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(u))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Login authenticates ?email=&senha= and returns the user with the access
// token in the Authorization header.
func (h *Handler) Login(c *gin.Context) {
	var q loginQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		unprocessable(c, err)
		return
	}

	u, token, err := h.users.Login(c.Request.Context(), q.Email, q.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header(common.AuthorizationHeaderName, "Bearer "+token)
	c.JSON(http.StatusOK, toUser(u))
}
