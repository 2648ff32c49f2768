package models

import (
	"time"

	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

// DoseStatus is the lifecycle state of a dose history entry.
type DoseStatus string

const (
	DoseStatusPending   DoseStatus = "pendente"
	DoseStatusApplied   DoseStatus = "aplicada"
	DoseStatusOverdue   DoseStatus = "atrasada"
	DoseStatusCancelled DoseStatus = "cancelada"
)

// DoseStatuses lists every known status in display order.
var DoseStatuses = []DoseStatus{DoseStatusPending, DoseStatusApplied, DoseStatusOverdue, DoseStatusCancelled}

func (s DoseStatus) Valid() bool {
	switch s {
	case DoseStatusPending, DoseStatusApplied, DoseStatusOverdue, DoseStatusCancelled:
		return true
	}
	return false
}

// HistoryEntry is one dose of one vaccine for one user. VaccineName and
// VaccineRequiredDoses are read from the joined vaccine row.
type HistoryEntry struct {
	ID                   int64
	UserID               int64
	VaccineID            int64
	VaccineName          string
	VaccineRequiredDoses int
	DoseNumber           int
	Status               DoseStatus
	AppliedOn            *timex.Date
	ScheduledOn          *timex.Date
	BatchLot             *string
	Site                 *string
	AdministeredBy       *string
	Notes                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NotificationDate is the date a confirmation refers to: the application
// date when known, otherwise the scheduled one.
func (e *HistoryEntry) NotificationDate() (timex.Date, bool) {
	switch {
	case e.AppliedOn != nil:
		return *e.AppliedOn, true
	case e.ScheduledOn != nil:
		return *e.ScheduledOn, true
	}
	return timex.Date{}, false
}

// HistoryInput holds the fields of a new entry. An empty Status means
// pending.
type HistoryInput struct {
	VaccineID      int64
	DoseNumber     int
	Status         DoseStatus
	AppliedOn      *timex.Date
	ScheduledOn    *timex.Date
	BatchLot       *string
	Site           *string
	AdministeredBy *string
	Notes          *string
}

type HistoryPatch struct {
	VaccineID      *int64
	DoseNumber     *int
	Status         *DoseStatus
	AppliedOn      *timex.Date
	ScheduledOn    *timex.Date
	BatchLot       *string
	Site           *string
	AdministeredBy *string
	Notes          *string
}

// AppliedInput records the application of a dose. The three optional
// fields overwrite the stored ones, nil included.
type AppliedInput struct {
	AppliedOn      timex.Date
	BatchLot       *string
	Site           *string
	AdministeredBy *string
}

// HistoryFilter narrows a user's history. Year and Month match AppliedOn.
type HistoryFilter struct {
	Year      *int
	Month     *int
	VaccineID *int64
	Status    *DoseStatus
}

// Match reports whether e passes every set criterion.
func (f HistoryFilter) Match(e *HistoryEntry) bool {
	if f.Year != nil || f.Month != nil {
		if e.AppliedOn == nil {
			return false
		}
		if f.Year != nil && e.AppliedOn.Year() != *f.Year {
			return false
		}
		if f.Month != nil && int(e.AppliedOn.Month()) != *f.Month {
			return false
		}
	}
	if f.VaccineID != nil && e.VaccineID != *f.VaccineID {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	return true
}
