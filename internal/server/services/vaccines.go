package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imunetrack/internal/validation"
)

type VaccineService struct {
	conn        dbx.Conn
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewVaccineService(conn dbx.Conn, m repomanager.RepositoryManager, log logging.Logger) *VaccineService {
	return &VaccineService{conn: conn, repomanager: m, log: log.With("module", "vaccines")}
}

func vaccineTaken(name string) func() error {
	return func() error {
		return common.Conflict(fmt.Sprintf("Vacina '%s' já está cadastrada", name))
	}
}

func (s *VaccineService) List(ctx context.Context) ([]models.Vaccine, error) {
	return s.repomanager.Vaccines(s.conn.DB()).List(ctx)
}

// ListByDoses returns the vaccines requiring exactly doses doses.
func (s *VaccineService) ListByDoses(ctx context.Context, doses int) ([]models.Vaccine, error) {
	return s.repomanager.Vaccines(s.conn.DB()).ListByDoses(ctx, doses)
}

func (s *VaccineService) FindByID(ctx context.Context, id int64) (*models.Vaccine, error) {
	v, err := s.repomanager.Vaccines(s.conn.DB()).GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, func() error { return vaccineNotFound(id) }, nil)
	}
	return v, nil
}

func (s *VaccineService) FindByName(ctx context.Context, name string) (*models.Vaccine, error) {
	name = strings.TrimSpace(name)
	v, err := s.repomanager.Vaccines(s.conn.DB()).GetByName(ctx, name)
	if err != nil {
		return nil, translate(err, func() error {
			return common.NotFound(fmt.Sprintf("Vacina '%s' não encontrada", name))
		}, nil)
	}
	return v, nil
}

func (s *VaccineService) Create(ctx context.Context, name string, doses int) (*models.Vaccine, error) {
	name = strings.TrimSpace(name)
	if err := validation.First(validation.VaccineName(name), validation.VaccineDoses(doses)); err != nil {
		return nil, err
	}

	var vaccine *models.Vaccine
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vaccines(tx)

		_, err := repo.GetByName(ctx, name)
		switch {
		case err == nil:
			return vaccineTaken(name)()
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		vaccine, err = repo.Create(ctx, &models.Vaccine{Name: name, RequiredDoses: doses})
		return translate(err, nil, vaccineTaken(name))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "vaccine created", "vaccine_id", vaccine.ID, "name", vaccine.Name)
	return vaccine, nil
}

func (s *VaccineService) Update(ctx context.Context, id int64, patch models.VaccinePatch) (*models.Vaccine, error) {
	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if err := validation.VaccineName(name); err != nil {
			return nil, err
		}
	}
	if patch.RequiredDoses != nil {
		if err := validation.VaccineDoses(*patch.RequiredDoses); err != nil {
			return nil, err
		}
	}

	var vaccine *models.Vaccine
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vaccines(tx)

		v, err := repo.GetByID(ctx, id)
		if err != nil {
			return translate(err, func() error { return vaccineNotFound(id) }, nil)
		}

		if patch.Name != nil && name != v.Name {
			other, err := repo.GetByName(ctx, name)
			switch {
			case err == nil && other.ID != id:
				return vaccineTaken(name)()
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return err
			}
			v.Name = name
		}
		if patch.RequiredDoses != nil {
			v.RequiredDoses = *patch.RequiredDoses
		}

		vaccine, err = repo.Update(ctx, v)
		return translate(err, func() error { return vaccineNotFound(id) }, vaccineTaken(v.Name))
	})
	if err != nil {
		return nil, err
	}
	return vaccine, nil
}

// Delete refuses to remove a vaccine that history entries still reference.
func (s *VaccineService) Delete(ctx context.Context, id int64) error {
	inUse := func() error {
		return common.Conflict("Não é possível remover a vacina: existem registros de histórico associados")
	}

	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vaccines(tx)

		if _, err := repo.GetByID(ctx, id); err != nil {
			return translate(err, func() error { return vaccineNotFound(id) }, nil)
		}

		used, err := repo.InUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return inUse()
		}

		return translate(repo.Delete(ctx, id), func() error { return vaccineNotFound(id) }, inUse)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "vaccine deleted", "vaccine_id", id)
	return nil
}
