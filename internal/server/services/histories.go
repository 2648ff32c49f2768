package services

import (
	"context"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/server/notify"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imunetrack/internal/validation"
)

// ConfirmationDispatcher receives confirmations after the write committed.
type ConfirmationDispatcher interface {
	Dispatch(ctx context.Context, c notify.DoseConfirmation)
}

type HistoryService struct {
	conn        dbx.Conn
	repomanager repomanager.RepositoryManager
	dispatcher  ConfirmationDispatcher
	log         logging.Logger
}

func NewHistoryService(conn dbx.Conn, m repomanager.RepositoryManager, d ConfirmationDispatcher, log logging.Logger) *HistoryService {
	return &HistoryService{conn: conn, repomanager: m, dispatcher: d, log: log.With("module", "histories")}
}

func textRules(batchLot, site, administeredBy, notes *string) error {
	return validation.First(
		validation.MaxLength("Lote", batchLot, validation.MaxBatchLotLength),
		validation.MaxLength("Local de aplicação", site, validation.MaxSiteLength),
		validation.MaxLength("Profissional", administeredBy, validation.MaxAdministeredByLength),
		validation.MaxLength("Observações", notes, validation.MaxNotesLength),
	)
}

// Create records a dose for userID and, once committed, queues a
// confirmation e-mail when the entry carries an applied or scheduled date.
func (s *HistoryService) Create(ctx context.Context, userID int64, in models.HistoryInput) (*models.HistoryEntry, error) {
	if in.Status == "" {
		in.Status = models.DoseStatusPending
	}
	if err := validation.DoseStatus(in.Status); err != nil {
		return nil, err
	}
	if err := textRules(in.BatchLot, in.Site, in.AdministeredBy, in.Notes); err != nil {
		return nil, err
	}

	var (
		user  *models.User
		entry *models.HistoryEntry
	)
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return translate(err, func() error { return userNotFound(userID) }, nil)
		}

		vaccine, err := s.repomanager.Vaccines(tx).GetByID(ctx, in.VaccineID)
		if err != nil {
			return translate(err, func() error { return vaccineNotFound(in.VaccineID) }, nil)
		}

		if err := validation.DoseNumber(in.DoseNumber, vaccine.RequiredDoses); err != nil {
			return err
		}

		entry, err = s.repomanager.Histories(tx).Create(ctx, &models.HistoryEntry{
			UserID:         userID,
			VaccineID:      in.VaccineID,
			DoseNumber:     in.DoseNumber,
			Status:         in.Status,
			AppliedOn:      in.AppliedOn,
			ScheduledOn:    in.ScheduledOn,
			BatchLot:       in.BatchLot,
			Site:           in.Site,
			AdministeredBy: in.AdministeredBy,
			Notes:          in.Notes,
		})
		return translate(err, nil, referenceGone)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "history entry created", "user_id", userID, "entry_id", entry.ID, "vaccine_id", entry.VaccineID)

	if date, ok := entry.NotificationDate(); ok {
		s.dispatcher.Dispatch(ctx, notify.DoseConfirmation{
			Recipient:   user.Email,
			UserName:    user.Name,
			VaccineName: entry.VaccineName,
			DoseNumber:  entry.DoseNumber,
			Date:        date,
		})
	}

	return entry, nil
}

// ListForUser returns an empty list for unknown users.
func (s *HistoryService) ListForUser(ctx context.Context, userID int64, f models.HistoryFilter) ([]models.HistoryEntry, error) {
	return s.repomanager.Histories(s.conn.DB()).ListForUser(ctx, userID, f)
}

func (s *HistoryService) FindForUser(ctx context.Context, id, userID int64) (*models.HistoryEntry, error) {
	e, err := s.repomanager.Histories(s.conn.DB()).GetForUser(ctx, id, userID)
	if err != nil {
		return nil, translate(err, func() error { return entryNotFound(id) }, nil)
	}
	return e, nil
}

// Update applies the non-nil fields of patch. The dose number is checked
// against the (possibly new) vaccine whenever either of them changes.
func (s *HistoryService) Update(ctx context.Context, id, userID int64, patch models.HistoryPatch) (*models.HistoryEntry, error) {
	if patch.Status != nil {
		if err := validation.DoseStatus(*patch.Status); err != nil {
			return nil, err
		}
	}
	if err := textRules(patch.BatchLot, patch.Site, patch.AdministeredBy, patch.Notes); err != nil {
		return nil, err
	}

	var entry *models.HistoryEntry
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Histories(tx)

		e, err := repo.GetForUser(ctx, id, userID)
		if err != nil {
			return translate(err, func() error { return entryNotFound(id) }, nil)
		}

		required := e.VaccineRequiredDoses
		if patch.VaccineID != nil && *patch.VaccineID != e.VaccineID {
			v, err := s.repomanager.Vaccines(tx).GetByID(ctx, *patch.VaccineID)
			if err != nil {
				return translate(err, func() error { return vaccineNotFound(*patch.VaccineID) }, nil)
			}
			e.VaccineID = v.ID
			required = v.RequiredDoses
		}
		if patch.DoseNumber != nil {
			e.DoseNumber = *patch.DoseNumber
		}
		if patch.DoseNumber != nil || patch.VaccineID != nil {
			if err := validation.DoseNumber(e.DoseNumber, required); err != nil {
				return err
			}
		}

		if patch.Status != nil {
			e.Status = *patch.Status
		}
		if patch.AppliedOn != nil {
			e.AppliedOn = patch.AppliedOn
		}
		if patch.ScheduledOn != nil {
			e.ScheduledOn = patch.ScheduledOn
		}
		if patch.BatchLot != nil {
			e.BatchLot = patch.BatchLot
		}
		if patch.Site != nil {
			e.Site = patch.Site
		}
		if patch.AdministeredBy != nil {
			e.AdministeredBy = patch.AdministeredBy
		}
		if patch.Notes != nil {
			e.Notes = patch.Notes
		}

		entry, err = repo.Update(ctx, e)
		return translate(err, func() error { return entryNotFound(id) }, referenceGone)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *HistoryService) Delete(ctx context.Context, id, userID int64) error {
	return s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Histories(tx).Delete(ctx, id, userID)
		return translate(err, func() error { return entryNotFound(id) }, nil)
	})
}

// MarkApplied sets the entry to applied on in.AppliedOn and overwrites its
// batch lot, site and administering professional.
func (s *HistoryService) MarkApplied(ctx context.Context, id, userID int64, in models.AppliedInput) (*models.HistoryEntry, error) {
	if in.AppliedOn.IsZero() {
		return nil, common.Validation("Data de aplicação é obrigatória")
	}
	if err := textRules(in.BatchLot, in.Site, in.AdministeredBy, nil); err != nil {
		return nil, err
	}

	var entry *models.HistoryEntry
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Histories(tx)

		e, err := repo.GetForUser(ctx, id, userID)
		if err != nil {
			return translate(err, func() error { return entryNotFound(id) }, nil)
		}

		applied := in.AppliedOn
		e.Status = models.DoseStatusApplied
		e.AppliedOn = &applied
		e.BatchLot = in.BatchLot
		e.Site = in.Site
		e.AdministeredBy = in.AdministeredBy

		entry, err = repo.Update(ctx, e)
		return translate(err, func() error { return entryNotFound(id) }, referenceGone)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "dose marked as applied", "user_id", userID, "entry_id", id)
	return entry, nil
}

// Statistics summarizes the whole history of userID.
func (s *HistoryService) Statistics(ctx context.Context, userID int64) (*models.Stats, error) {
	entries, err := s.repomanager.Histories(s.conn.DB()).ListForUser(ctx, userID, models.HistoryFilter{})
	if err != nil {
		return nil, err
	}
	return computeStats(entries), nil
}
