package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

func fixedStore() *Store {
	s := NewStore()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }
	return s
}

func seed(t *testing.T, s *Store) (models.User, models.Vaccine) {
	t.Helper()
	ctx := context.Background()
	u, err := s.Users().Create(ctx, &models.User{Name: "Alice", Email: "alice@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	v, err := s.Vaccines().Create(ctx, &models.Vaccine{Name: "Hepatite B", RequiredDoses: 3})
	require.NoError(t, err)
	return *u, *v
}

func TestUsers_UniqueEmail(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	seed(t, s)

	_, err := s.Users().Create(ctx, &models.User{Name: "Other", Email: "alice@x.com"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	bob, err := s.Users().Create(ctx, &models.User{Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob.ID)

	bob.Email = "alice@x.com"
	_, err = s.Users().Update(ctx, bob)
	assert.ErrorIs(t, err, common.ErrorConflict)

	bob.Email = "bob@x.com"
	bob.Name = "Robert"
	got, err := s.Users().Update(ctx, bob)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUsers_Lookups(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	u, _ := seed(t, s)

	got, err := s.Users().GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetByID(ctx, 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Users().Update(ctx, &models.User{ID: 99})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Users().Delete(ctx, 99), common.ErrorNotFound)

	list, err := s.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUsers_DeleteCascades(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	u, v := seed(t, s)

	_, err := s.Histories().Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: v.ID, DoseNumber: 1, Status: models.DoseStatusPending})
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, u.ID))

	list, err := s.Histories().ListForUser(ctx, u.ID, models.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	used, err := s.Vaccines().InUse(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, used)
}

func TestVaccines(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	u, v := seed(t, s)

	_, err := s.Vaccines().Create(ctx, &models.Vaccine{Name: "Hepatite B", RequiredDoses: 1})
	assert.ErrorIs(t, err, common.ErrorConflict)

	bcg, err := s.Vaccines().Create(ctx, &models.Vaccine{Name: "BCG", RequiredDoses: 1})
	require.NoError(t, err)

	byDoses, err := s.Vaccines().ListByDoses(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.Vaccine{*bcg}, byDoses)

	got, err := s.Vaccines().GetByName(ctx, "BCG")
	require.NoError(t, err)
	assert.Equal(t, bcg.ID, got.ID)
	_, err = s.Vaccines().GetByName(ctx, "bcg")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	bcg.Name = "Hepatite B"
	_, err = s.Vaccines().Update(ctx, bcg)
	assert.ErrorIs(t, err, common.ErrorConflict)

	_, err = s.Histories().Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: v.ID, DoseNumber: 1, Status: models.DoseStatusPending})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Vaccines().Delete(ctx, v.ID), common.ErrorConflict)
	assert.ErrorIs(t, s.Vaccines().Delete(ctx, 77), common.ErrorNotFound)
	assert.NoError(t, s.Vaccines().Delete(ctx, bcg.ID))
}

func TestHistories_CreateJoinsVaccine(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	u, v := seed(t, s)

	e, err := s.Histories().Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: v.ID, DoseNumber: 2, Status: models.DoseStatusPending})
	require.NoError(t, err)
	assert.Equal(t, "Hepatite B", e.VaccineName)
	assert.Equal(t, 3, e.VaccineRequiredDoses)

	_, err = s.Histories().Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: 42, DoseNumber: 1})
	assert.ErrorIs(t, err, common.ErrorConflict)
	_, err = s.Histories().Create(ctx, &models.HistoryEntry{UserID: 42, VaccineID: v.ID, DoseNumber: 1})
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestHistories_OwnerScoped(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	u, v := seed(t, s)
	other, err := s.Users().Create(ctx, &models.User{Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)

	e, err := s.Histories().Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: v.ID, DoseNumber: 1, Status: models.DoseStatusPending})
	require.NoError(t, err)

	_, err = s.Histories().GetForUser(ctx, e.ID, other.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	foreign := *e
	foreign.UserID = other.ID
	_, err = s.Histories().Update(ctx, &foreign)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Histories().Delete(ctx, e.ID, other.ID), common.ErrorNotFound)
	assert.NoError(t, s.Histories().Delete(ctx, e.ID, u.ID))
}

func TestHistories_Ordering(t *testing.T) {
	s := fixedStore()
	ctx := context.Background()
	u, v := seed(t, s)

	d := func(m time.Month) *timex.Date {
		x := timex.NewDate(2024, m, 1)
		return &x
	}
	create := func(applied *timex.Date) int64 {
		e, err := s.Histories().Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: v.ID, DoseNumber: 1, Status: models.DoseStatusApplied, AppliedOn: applied})
		require.NoError(t, err)
		return e.ID
	}

	undatedOld := create(nil)
	march := create(d(3))
	undatedNew := create(nil)
	june := create(d(6))
	marchLater := create(d(3))

	list, err := s.Histories().ListForUser(ctx, u.ID, models.HistoryFilter{})
	require.NoError(t, err)

	var ids []int64
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{june, marchLater, march, undatedNew, undatedOld}, ids)

	month := 3
	list, err = s.Histories().ListForUser(ctx, u.ID, models.HistoryFilter{Month: &month})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
