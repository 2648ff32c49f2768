package httpapi

import (
	"time"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// users

type createUserRequest struct {
	Name     string `json:"nome" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"senha" binding:"required,min=6,max=72"`
	IsAdmin  bool   `json:"is_admin"`
}

type updateUserRequest struct {
	Name     *string `json:"nome" binding:"omitempty,notblank,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"senha" binding:"omitempty,min=6,max=72"`
	IsAdmin  *bool   `json:"is_admin"`
}

type loginQuery struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"senha" binding:"required"`
}

type userQuery struct {
	Email string `form:"email"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func toUser(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func toUsers(us []models.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for i := range us {
		out = append(out, toUser(&us[i]))
	}
	return out
}

// vaccines

type createVaccineRequest struct {
	Name  string `json:"nome" binding:"required,notblank,max=100"`
	Doses int    `json:"doses" binding:"required,gt=0,lte=10"`
}

type updateVaccineRequest struct {
	Name  *string `json:"nome" binding:"omitempty,notblank,max=100"`
	Doses *int    `json:"doses" binding:"omitempty,gt=0,lte=10"`
}

type vaccineQuery struct {
	Name  string `form:"nome"`
	Doses *int   `form:"doses" binding:"omitempty,gt=0,lte=10"`
}

type vaccineResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Doses int    `json:"doses"`
}

func toVaccine(v *models.Vaccine) vaccineResponse {
	return vaccineResponse{ID: v.ID, Name: v.Name, Doses: v.RequiredDoses}
}

func toVaccines(vs []models.Vaccine) []vaccineResponse {
	out := make([]vaccineResponse, 0, len(vs))
	for i := range vs {
		out = append(out, toVaccine(&vs[i]))
	}
	return out
}

// dose history

type createHistoryRequest struct {
	VaccineID      *int64      `json:"vacina_id" binding:"required"`
	DoseNumber     *int        `json:"numero_dose" binding:"required"`
	Status         string      `json:"status" binding:"omitempty,oneof=pendente aplicada atrasada cancelada"`
	AppliedOn      *timex.Date `json:"data_aplicacao"`
	ScheduledOn    *timex.Date `json:"data_prevista"`
	BatchLot       *string     `json:"lote" binding:"omitempty,max=50"`
	Site           *string     `json:"local_aplicacao" binding:"omitempty,max=200"`
	AdministeredBy *string     `json:"profissional" binding:"omitempty,max=200"`
	Notes          *string     `json:"observacoes" binding:"omitempty,max=500"`
}

func (r *createHistoryRequest) input() models.HistoryInput {
	return models.HistoryInput{
		VaccineID:      *r.VaccineID,
		DoseNumber:     *r.DoseNumber,
		Status:         models.DoseStatus(r.Status),
		AppliedOn:      r.AppliedOn,
		ScheduledOn:    r.ScheduledOn,
		BatchLot:       r.BatchLot,
		Site:           r.Site,
		AdministeredBy: r.AdministeredBy,
		Notes:          r.Notes,
	}
}

type updateHistoryRequest struct {
	VaccineID      *int64      `json:"vacina_id"`
	DoseNumber     *int        `json:"numero_dose"`
	Status         *string     `json:"status" binding:"omitempty,oneof=pendente aplicada atrasada cancelada"`
	AppliedOn      *timex.Date `json:"data_aplicacao"`
	ScheduledOn    *timex.Date `json:"data_prevista"`
	BatchLot       *string     `json:"lote" binding:"omitempty,max=50"`
	Site           *string     `json:"local_aplicacao" binding:"omitempty,max=200"`
	AdministeredBy *string     `json:"profissional" binding:"omitempty,max=200"`
	Notes          *string     `json:"observacoes" binding:"omitempty,max=500"`
}

func (r *updateHistoryRequest) patch() models.HistoryPatch {
	p := models.HistoryPatch{
		VaccineID:      r.VaccineID,
		DoseNumber:     r.DoseNumber,
		AppliedOn:      r.AppliedOn,
		ScheduledOn:    r.ScheduledOn,
		BatchLot:       r.BatchLot,
		Site:           r.Site,
		AdministeredBy: r.AdministeredBy,
		Notes:          r.Notes,
	}
	if r.Status != nil {
		st := models.DoseStatus(*r.Status)
		p.Status = &st
	}
	return p
}

type applyDoseRequest struct {
	AppliedOn      *timex.Date `json:"data_aplicacao" binding:"required"`
	BatchLot       *string     `json:"lote" binding:"omitempty,max=50"`
	Site           *string     `json:"local_aplicacao" binding:"omitempty,max=200"`
	AdministeredBy *string     `json:"profissional" binding:"omitempty,max=200"`
}

type historyQuery struct {
	Year      *int    `form:"ano" binding:"omitempty,min=1900,max=2100"`
	Month     *int    `form:"mes" binding:"omitempty,min=1,max=12"`
	VaccineID *int64  `form:"vacina_id"`
	Status    *string `form:"status_filtro" binding:"omitempty,oneof=pendente aplicada atrasada cancelada"`
}

func (q *historyQuery) filter() models.HistoryFilter {
	f := models.HistoryFilter{Year: q.Year, Month: q.Month, VaccineID: q.VaccineID}
	if q.Status != nil {
		st := models.DoseStatus(*q.Status)
		f.Status = &st
	}
	return f
}

type historyResponse struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"usuario_id"`
	VaccineID      int64             `json:"vacina_id"`
	VaccineName    string            `json:"vacina_nome"`
	VaccineDoses   int               `json:"vacina_doses_totais"`
	DoseNumber     int               `json:"numero_dose"`
	Status         models.DoseStatus `json:"status"`
	AppliedOn      *timex.Date       `json:"data_aplicacao"`
	ScheduledOn    *timex.Date       `json:"data_prevista"`
	BatchLot       *string           `json:"lote"`
	Site           *string           `json:"local_aplicacao"`
	AdministeredBy *string           `json:"profissional"`
	Notes          *string           `json:"observacoes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func toHistory(e *models.HistoryEntry) historyResponse {
	return historyResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		VaccineID:      e.VaccineID,
		VaccineName:    e.VaccineName,
		VaccineDoses:   e.VaccineRequiredDoses,
		DoseNumber:     e.DoseNumber,
		Status:         e.Status,
		AppliedOn:      e.AppliedOn,
		ScheduledOn:    e.ScheduledOn,
		BatchLot:       e.BatchLot,
		Site:           e.Site,
		AdministeredBy: e.AdministeredBy,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toHistories(es []models.HistoryEntry) []historyResponse {
	out := make([]historyResponse, 0, len(es))
	for i := range es {
		out = append(out, toHistory(&es[i]))
	}
	return out
}

type upcomingResponse struct {
	Vaccine     string     `json:"vacina"`
	Dose        int        `json:"dose"`
	ScheduledOn timex.Date `json:"data_prevista"`
}

type statsResponse struct {
	Total              int                `json:"total_doses"`
	Applied            int                `json:"doses_aplicadas"`
	Pending            int                `json:"doses_pendentes"`
	Overdue            int                `json:"doses_atrasadas"`
	Cancelled          int                `json:"doses_canceladas"`
	CompleteVaccines   int                `json:"vacinas_completas"`
	IncompleteVaccines int                `json:"vacinas_incompletas"`
	Upcoming           []upcomingResponse `json:"proximas_doses"`
}

func toStats(s *models.Stats) statsResponse {
	up := make([]upcomingResponse, 0, len(s.Upcoming))
	for _, u := range s.Upcoming {
		up = append(up, upcomingResponse{Vaccine: u.VaccineName, Dose: u.DoseNumber, ScheduledOn: u.ScheduledOn})
	}
	return statsResponse{
		Total:              s.Total,
		Applied:            s.Applied,
		Pending:            s.Pending,
		Overdue:            s.Overdue,
		Cancelled:          s.Cancelled,
		CompleteVaccines:   s.CompleteVaccines,
		IncompleteVaccines: s.IncompleteVaccines,
		Upcoming:           up,
	}
}
