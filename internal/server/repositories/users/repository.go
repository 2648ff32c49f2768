// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

// Repository returns common.ErrorNotFound for missing users and an error
// matching common.ErrorConflict when the email is already taken.
type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
