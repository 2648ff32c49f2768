// Package memory is a process-local storage backend with the same semantics
// as the PostgreSQL repositories: unique emails and vaccine names, cascading
// user deletion and protected referenced vaccines. It backs DSN "memory"
// and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

// Store holds every table. The repositories it vends share one lock.
type Store struct {
	mu sync.RWMutex

	users     map[int64]models.User
	vaccines  map[int64]models.Vaccine
	histories map[int64]models.HistoryEntry

	lastUserID    int64
	lastVaccineID int64
	lastHistoryID int64

	now  func() time.Time
	last time.Time
}

func NewStore() *Store {
	return &Store{
		users:     make(map[int64]models.User),
		vaccines:  make(map[int64]models.Vaccine),
		histories: make(map[int64]models.HistoryEntry),
		now:       time.Now,
	}
}

func (s *Store) Users() *UsersRepository { return &UsersRepository{s: s} }

func (s *Store) Vaccines() *VaccinesRepository { return &VaccinesRepository{s: s} }

func (s *Store) Histories() *HistoriesRepository { return &HistoriesRepository{s: s} }

// tick returns strictly increasing timestamps so creation order survives
// coarse clocks. Callers hold the write lock.
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}
