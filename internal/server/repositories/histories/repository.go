// Package histories persists dose history entries. Every read joins the
// vaccine row and every lookup is scoped to the owning user.
package histories

import (
	"context"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error)
	// GetForUser returns common.ErrorNotFound for a missing or foreign entry.
	GetForUser(ctx context.Context, id, userID int64) (*models.HistoryEntry, error)
	// ListForUser orders by applied date (newest first, undated last), then
	// creation time and id, both descending.
	ListForUser(ctx context.Context, userID int64, f models.HistoryFilter) ([]models.HistoryEntry, error)
	Update(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error)
	Delete(ctx context.Context, id, userID int64) error
}
