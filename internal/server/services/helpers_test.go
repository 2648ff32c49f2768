package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/imunetrack/internal/cryptox"
	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/server/notify"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

func init() {
	cryptox.Cost = bcrypt.MinCost
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []notify.DoseConfirmation
}

func (f *fakeDispatcher) Dispatch(_ context.Context, c notify.DoseConfirmation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
}

type env struct {
	users      *UserService
	vaccines   *VaccineService
	histories  *HistoryService
	dispatcher *fakeDispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWith(t, repomanager.NewInMemoryRepositoryManager())
}

func newEnvWith(t *testing.T, rm repomanager.RepositoryManager) *env {
	t.Helper()
	conn := dbx.NopConn{}
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	d := &fakeDispatcher{}

	return &env{
		users:      NewUserService(conn, rm, cfg, logging.Nop{}),
		vaccines:   NewVaccineService(conn, rm, logging.Nop{}),
		histories:  NewHistoryService(conn, rm, d, logging.Nop{}),
		dispatcher: d,
	}
}

func (e *env) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), "Alice", email, "senha123", false)
	require.NoError(t, err)
	return u
}

func (e *env) vaccine(t *testing.T, name string, doses int) *models.Vaccine {
	t.Helper()
	v, err := e.vaccines.Create(context.Background(), name, doses)
	require.NoError(t, err)
	return v
}

func date(y int, m time.Month, d int) *timex.Date {
	x := timex.NewDate(y, m, d)
	return &x
}

func strp(s string) *string { return &s }
