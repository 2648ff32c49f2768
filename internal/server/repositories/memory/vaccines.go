package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

type VaccinesRepository struct {
	s *Store
}

func (r *VaccinesRepository) filter(keep func(models.Vaccine) bool) []models.Vaccine {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]models.Vaccine, 0)
	for _, v := range r.s.vaccines {
		if keep(v) {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *VaccinesRepository) List(ctx context.Context) ([]models.Vaccine, error) {
	return r.filter(func(models.Vaccine) bool { return true }), nil
}

func (r *VaccinesRepository) ListByDoses(ctx context.Context, doses int) ([]models.Vaccine, error) {
	return r.filter(func(v models.Vaccine) bool { return v.RequiredDoses == doses }), nil
}

func (r *VaccinesRepository) GetByID(ctx context.Context, id int64) (*models.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vaccines[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &v, nil
}

func (r *VaccinesRepository) GetByName(ctx context.Context, name string) (*models.Vaccine, error) {
	found := r.filter(func(v models.Vaccine) bool { return v.Name == name })
	if len(found) == 0 {
		return nil, common.ErrorNotFound
	}
	return &found[0], nil
}

func (r *VaccinesRepository) nameTaken(name string, except int64) bool {
	for id, v := range r.s.vaccines {
		if id != except && v.Name == name {
			return true
		}
	}
	return false
}

func (r *VaccinesRepository) Create(ctx context.Context, v *models.Vaccine) (*models.Vaccine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(v.Name, 0) {
		return nil, common.Conflict("vaccines_name_key")
	}
	r.s.lastVaccineID++
	v.ID = r.s.lastVaccineID
	r.s.vaccines[v.ID] = *v
	return v, nil
}

func (r *VaccinesRepository) Update(ctx context.Context, v *models.Vaccine) (*models.Vaccine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vaccines[v.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	if r.nameTaken(v.Name, v.ID) {
		return nil, common.Conflict("vaccines_name_key")
	}
	r.s.vaccines[v.ID] = *v
	return v, nil
}

func (r *VaccinesRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vaccines[id]; !ok {
		return common.ErrorNotFound
	}
	if r.referenced(id) {
		return common.Conflict("dose_history_vaccine_id_fkey")
	}
	delete(r.s.vaccines, id)
	return nil
}

func (r *VaccinesRepository) InUse(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.referenced(id), nil
}

func (r *VaccinesRepository) referenced(id int64) bool {
	for _, h := range r.s.histories {
		if h.VaccineID == id {
			return true
		}
	}
	return false
}
