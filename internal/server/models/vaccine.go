package models

type Vaccine struct {
	ID            int64
	Name          string
	RequiredDoses int
}

type VaccinePatch struct {
	Name          *string
	RequiredDoses *int
}
