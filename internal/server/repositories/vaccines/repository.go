// Package vaccines persists the vaccine catalogue.
package vaccines

import (
	"context"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Vaccine, error)
	ListByDoses(ctx context.Context, doses int) ([]models.Vaccine, error)
	GetByID(ctx context.Context, id int64) (*models.Vaccine, error)
	GetByName(ctx context.Context, name string) (*models.Vaccine, error)
	Create(ctx context.Context, v *models.Vaccine) (*models.Vaccine, error)
	Update(ctx context.Context, v *models.Vaccine) (*models.Vaccine, error)
	Delete(ctx context.Context, id int64) error
	// InUse reports whether any history entry references the vaccine.
	InUse(ctx context.Context, id int64) (bool, error)
}
