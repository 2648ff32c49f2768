package models

import "github.com/dmitrijs2005/imunetrack/internal/timex"

// MaxUpcomingDoses bounds Stats.Upcoming.
const MaxUpcomingDoses = 5

type UpcomingDose struct {
	VaccineName string
	DoseNumber  int
	ScheduledOn timex.Date
}

type Stats struct {
	Total              int
	Applied            int
	Pending            int
	Overdue            int
	Cancelled          int
	CompleteVaccines   int
	IncompleteVaccines int
	Upcoming           []UpcomingDose
}
