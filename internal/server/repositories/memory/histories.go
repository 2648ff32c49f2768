package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

type HistoriesRepository struct {
	s *Store
}

// joined fills the vaccine columns of e. Callers hold the lock.
func (r *HistoriesRepository) joined(e models.HistoryEntry) models.HistoryEntry {
	if v, ok := r.s.vaccines[e.VaccineID]; ok {
		e.VaccineName = v.Name
		e.VaccineRequiredDoses = v.RequiredDoses
	}
	return e
}

func (r *HistoriesRepository) checkRefs(e *models.HistoryEntry) error {
	if _, ok := r.s.users[e.UserID]; !ok {
		return common.Conflict("dose_history_user_id_fkey")
	}
	if _, ok := r.s.vaccines[e.VaccineID]; !ok {
		return common.Conflict("dose_history_vaccine_id_fkey")
	}
	return nil
}

func (r *HistoriesRepository) Create(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(e); err != nil {
		return nil, err
	}

	r.s.lastHistoryID++
	stored := *e
	stored.ID = r.s.lastHistoryID
	stored.CreatedAt = r.s.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.s.histories[stored.ID] = stored

	out := r.joined(stored)
	return &out, nil
}

func (r *HistoriesRepository) GetForUser(ctx context.Context, id, userID int64) (*models.HistoryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.histories[id]
	if !ok || e.UserID != userID {
		return nil, common.ErrorNotFound
	}
	out := r.joined(e)
	return &out, nil
}

func (r *HistoriesRepository) ListForUser(ctx context.Context, userID int64, f models.HistoryFilter) ([]models.HistoryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]models.HistoryEntry, 0)
	for _, e := range r.s.histories {
		if e.UserID == userID && f.Match(&e) {
			result = append(result, r.joined(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return newerFirst(&result[i], &result[j]) })
	return result, nil
}

// newerFirst mirrors "applied_on DESC NULLS LAST, created_at DESC, id DESC".
func newerFirst(a, b *models.HistoryEntry) bool {
	switch {
	case a.AppliedOn != nil && b.AppliedOn == nil:
		return true
	case a.AppliedOn == nil && b.AppliedOn != nil:
		return false
	case a.AppliedOn != nil && !a.AppliedOn.Equal(*b.AppliedOn):
		return b.AppliedOn.Before(*a.AppliedOn)
	case !a.CreatedAt.Equal(b.CreatedAt):
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (r *HistoriesRepository) Update(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.histories[e.ID]
	if !ok || old.UserID != e.UserID {
		return nil, common.ErrorNotFound
	}
	if err := r.checkRefs(e); err != nil {
		return nil, err
	}

	stored := *e
	stored.CreatedAt = old.CreatedAt
	stored.UpdatedAt = r.s.tick()
	r.s.histories[stored.ID] = stored

	out := r.joined(stored)
	return &out, nil
}

func (r *HistoriesRepository) Delete(ctx context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.histories[id]
	if !ok || e.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.histories, id)
	return nil
}
