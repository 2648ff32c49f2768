package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

type UsersRepository struct {
	s *Store
}

func (r *UsersRepository) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// emailTaken must be called with the lock held.
func (r *UsersRepository) emailTaken(email string, except int64) bool {
	for id, u := range r.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *UsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return nil, common.Conflict("users_email_key")
	}

	r.s.lastUserID++
	user.ID = r.s.lastUserID
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user

	return user, nil
}

func (r *UsersRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.users[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, common.Conflict("users_email_key")
	}

	user.CreatedAt = old.CreatedAt
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = *user

	return user, nil
}

func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	for hid, h := range r.s.histories {
		if h.UserID == id {
			delete(r.s.histories, hid)
		}
	}
	return nil
}
