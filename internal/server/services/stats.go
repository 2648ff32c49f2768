package services

import (
	"sort"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

// computeStats is order independent: the same entries in any order give the
// same result.
func computeStats(entries []models.HistoryEntry) *models.Stats {
	st := &models.Stats{Total: len(entries), Upcoming: make([]models.UpcomingDose, 0)}

	type progress struct{ required, applied int }
	perVaccine := make(map[int64]*progress)

	var upcoming []models.HistoryEntry

	for _, e := range entries {
		switch e.Status {
		case models.DoseStatusApplied:
			st.Applied++
		case models.DoseStatusPending:
			st.Pending++
		case models.DoseStatusOverdue:
			st.Overdue++
		case models.DoseStatusCancelled:
			st.Cancelled++
		}

		p, ok := perVaccine[e.VaccineID]
		if !ok {
			p = &progress{required: e.VaccineRequiredDoses}
			perVaccine[e.VaccineID] = p
		}
		if e.Status == models.DoseStatusApplied {
			p.applied++
		}

		if e.Status == models.DoseStatusPending && e.ScheduledOn != nil {
			upcoming = append(upcoming, e)
		}
	}

	for _, p := range perVaccine {
		if p.applied >= p.required {
			st.CompleteVaccines++
		} else {
			st.IncompleteVaccines++
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if !a.ScheduledOn.Equal(*b.ScheduledOn) {
			return a.ScheduledOn.Before(*b.ScheduledOn)
		}
		return a.ID < b.ID
	})
	if len(upcoming) > models.MaxUpcomingDoses {
		upcoming = upcoming[:models.MaxUpcomingDoses]
	}
	for _, e := range upcoming {
		st.Upcoming = append(st.Upcoming, models.UpcomingDose{
			VaccineName: e.VaccineName,
			DoseNumber:  e.DoseNumber,
			ScheduledOn: *e.ScheduledOn,
		})
	}

	return st
}
