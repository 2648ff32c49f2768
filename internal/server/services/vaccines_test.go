package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

func TestVaccineCreate_DuplicateName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	bcg := e.vaccine(t, "BCG", 1)
	assert.Equal(t, 1, bcg.RequiredDoses)

	_, err := e.vaccines.Create(ctx, " BCG ", 1)
	require.ErrorIs(t, err, common.ErrorConflict)
	assert.Contains(t, err.Error(), "BCG")

	list, err := e.vaccines.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVaccineCreate_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, doses := range []int{0, 11, -1} {
		_, err := e.vaccines.Create(ctx, "Gripe", doses)
		require.ErrorIs(t, err, common.ErrorValidation)
		assert.Equal(t, "Número de doses deve ser entre 1 e 10", err.Error())
	}

	_, err := e.vaccines.Create(ctx, " ", 1)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = e.vaccines.Create(ctx, strings.Repeat("x", 101), 1)
	assert.ErrorIs(t, err, common.ErrorValidation)

	v, err := e.vaccines.Create(ctx, "  Gripe  ", 10)
	require.NoError(t, err)
	assert.Equal(t, "Gripe", v.Name)
}

func TestVaccineLookups(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	bcg := e.vaccine(t, "BCG", 1)
	hep := e.vaccine(t, "Hepatite B", 3)

	got, err := e.vaccines.FindByName(ctx, " Hepatite B")
	require.NoError(t, err)
	assert.Equal(t, hep.ID, got.ID)

	_, err = e.vaccines.FindByName(ctx, "Raiva")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err = e.vaccines.FindByID(ctx, bcg.ID)
	require.NoError(t, err)
	assert.Equal(t, "BCG", got.Name)

	_, err = e.vaccines.FindByID(ctx, 404)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "Vacina com ID 404 não encontrada", err.Error())

	three, err := e.vaccines.ListByDoses(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []models.Vaccine{*hep}, three)

	none, err := e.vaccines.ListByDoses(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVaccineUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	bcg := e.vaccine(t, "BCG", 1)
	e.vaccine(t, "Hepatite B", 3)

	_, err := e.vaccines.Update(ctx, bcg.ID, models.VaccinePatch{Name: strp("Hepatite B")})
	assert.ErrorIs(t, err, common.ErrorConflict)

	doses := 2
	got, err := e.vaccines.Update(ctx, bcg.ID, models.VaccinePatch{Name: strp("BCG"), RequiredDoses: &doses})
	require.NoError(t, err)
	assert.Equal(t, 2, got.RequiredDoses)

	bad := 11
	_, err = e.vaccines.Update(ctx, bcg.ID, models.VaccinePatch{RequiredDoses: &bad})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = e.vaccines.Update(ctx, 404, models.VaccinePatch{Name: strp("X")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVaccineDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice@x.com")
	hep := e.vaccine(t, "Hepatite B", 3)
	bcg := e.vaccine(t, "BCG", 1)

	_, err := e.histories.Create(ctx, u.ID, models.HistoryInput{VaccineID: hep.ID, DoseNumber: 1})
	require.NoError(t, err)

	err = e.vaccines.Delete(ctx, hep.ID)
	require.ErrorIs(t, err, common.ErrorConflict)

	require.NoError(t, e.vaccines.Delete(ctx, bcg.ID))
	assert.ErrorIs(t, e.vaccines.Delete(ctx, bcg.ID), common.ErrorNotFound)
}
