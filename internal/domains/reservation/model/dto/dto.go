package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"biblio/internal/domains/reservation/model"
	"biblio/internal/scheduling"
	"biblio/shared"
	"biblio/shared/constant"
	gDto "biblio/shared/dto"
	"biblio/shared/failure"
	gModel "biblio/shared/model"
	"biblio/shared/timezone"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type CreateReservationRequest struct {
	ResourceID      string                `json:"resource_id"      validate:"required"`
	GuestName       string                `json:"guest_name"       validate:"required,max=100"`
	GuestEmail      string                `json:"guest_email"      validate:"omitempty,email,max=100"`
	GuestPhone      string                `json:"guest_phone"      validate:"omitempty,max=20"`
	Participants    int                   `json:"participants"     validate:"omitempty,min=1"`
	Purpose         string                `json:"purpose"          validate:"omitempty,max=500"`
	Date            string                `json:"date"             validate:"required"`
	StartTime       string                `json:"start_time"       validate:"required"`
	EndTime         string                `json:"end_time"         validate:"omitempty"`
	DurationMinutes int                   `json:"duration_minutes" validate:"omitempty,min=1"`
	Document        *multipart.FileHeader `json:"document"         validate:"omitempty,mimetypes=application/pdf,maxfilesize=5"`
	DocumentFile    multipart.File        `json:"-"`
}

// Interval resolves the requested interval in the application timezone. Rooms
// send an end time; tours send a duration.
func (c *CreateReservationRequest) Interval() (scheduling.Interval, error) {
	return parseInterval(c.Date, c.StartTime, c.EndTime, c.DurationMinutes)
}

func (c *CreateReservationRequest) ToModel(user string, interval scheduling.Interval, documentURL string) model.Reservation {
	participants := c.Participants
	if participants == 0 {
		participants = 1
	}

	return model.Reservation{
		ID:           uuid.NewString(),
		ResourceID:   c.ResourceID,
		GuestName:    c.GuestName,
		GuestEmail:   c.GuestEmail,
		GuestPhone:   c.GuestPhone,
		Participants: participants,
		Purpose:      c.Purpose,
		StartsAt:     interval.Start,
		EndsAt:       interval.End,
		Status:       string(scheduling.StatusPending),
		DocumentURL:  documentURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateReservationRequest edits a pending reservation. Interval fields are
// all-or-nothing: when one is present, date and start time must be too.
type UpdateReservationRequest struct {
	GuestName       string `db:"guest_name"   json:"guest_name"       validate:"omitempty,max=100"`
	GuestEmail      string `db:"guest_email"  json:"guest_email"      validate:"omitempty,email,max=100"`
	GuestPhone      string `db:"guest_phone"  json:"guest_phone"      validate:"omitempty,max=20"`
	Participants    *int   `db:"participants" json:"participants"     validate:"omitempty,min=1"`
	Purpose         string `db:"purpose"      json:"purpose"          validate:"omitempty,max=500"`
	Date            string `json:"date"             validate:"omitempty"`
	StartTime       string `json:"start_time"       validate:"omitempty"`
	EndTime         string `json:"end_time"         validate:"omitempty"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1"`
}

func (u *UpdateReservationRequest) ChangesInterval() bool {
	return u.Date != "" || u.StartTime != "" || u.EndTime != "" || u.DurationMinutes != 0
}

func (u *UpdateReservationRequest) Interval() (scheduling.Interval, error) {
	return parseInterval(u.Date, u.StartTime, u.EndTime, u.DurationMinutes)
}

type UpdateStatusRequest struct {
	Status    string `json:"status"     validate:"required,oneof=approved rejected completed"`
	AdminNote string `json:"admin_note" validate:"omitempty,max=500"`
}

type CheckAvailabilityRequest struct {
	Date            string `json:"date"             validate:"required"`
	StartTime       string `json:"start_time"       validate:"required"`
	EndTime         string `json:"end_time"         validate:"omitempty"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1"`
}

func (c *CheckAvailabilityRequest) Interval() (scheduling.Interval, error) {
	return parseInterval(c.Date, c.StartTime, c.EndTime, c.DurationMinutes)
}

// ConflictSummary identifies the reservation blocking a requested interval so
// the caller can adjust.
type ConflictSummary struct {
	ID        string `json:"id"`
	GuestName string `json:"guest_name"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Requester string `json:"requester"`
}

func (c *ConflictSummary) FromModel(model model.Reservation) {
	c.ID = model.ID
	c.GuestName = model.GuestName
	c.Date = timezone.Format(model.StartsAt, dateLayout)
	c.StartTime = timezone.Format(model.StartsAt, timeLayout)
	c.EndTime = timezone.Format(model.EndsAt, timeLayout)
	c.Requester = model.CreatedBy
}

type CheckAvailabilityResponse struct {
	Available              bool             `json:"available"`
	ConflictingReservation *ConflictSummary `json:"conflicting_reservation,omitempty"`
}

type SlotResponse struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type AvailableSlotsResponse struct {
	ResourceID string         `json:"resource_id"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
}

func (r *AvailableSlotsResponse) FromSlots(resourceID string, date time.Time, slots []scheduling.Slot) {
	r.ResourceID = resourceID
	r.Date = timezone.Format(date, dateLayout)
	r.Slots = make([]SlotResponse, len(slots))

	for i, slot := range slots {
		r.Slots[i] = SlotResponse{
			StartTime:       timezone.Format(slot.Start, timeLayout),
			EndTime:         timezone.Format(slot.End, timeLayout),
			DurationMinutes: int(slot.Duration.Minutes()),
		}
	}
}

type StatusHistoryResponse struct {
	Status    string  `json:"status"`
	ActorID   *string `json:"actor_id"`
	Note      string  `json:"note"`
	CreatedAt string  `json:"created_at"`
}

func (r *StatusHistoryResponse) FromModel(model model.StatusHistory) {
	r.Status = model.Status
	r.ActorID = model.ActorID
	r.Note = model.Note
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type ReservationResponse struct {
	ID           string                  `json:"id"`
	ResourceID   string                  `json:"resource_id"`
	GuestName    string                  `json:"guest_name"`
	GuestEmail   string                  `json:"guest_email"`
	GuestPhone   string                  `json:"guest_phone"`
	Participants int                     `json:"participants"`
	Purpose      string                  `json:"purpose"`
	Date         string                  `json:"date"`
	StartTime    string                  `json:"start_time"`
	EndTime      string                  `json:"end_time"`
	Status       string                  `json:"status"`
	AdminNote    string                  `json:"admin_note"`
	DocumentURL  string                  `json:"document_url"`
	History      []StatusHistoryResponse `json:"history,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ResourceID = model.ResourceID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.Participants = model.Participants
	r.Purpose = model.Purpose
	r.Date = timezone.Format(model.StartsAt, dateLayout)
	r.StartTime = timezone.Format(model.StartsAt, timeLayout)
	r.EndTime = timezone.Format(model.EndsAt, timeLayout)
	r.Status = model.Status
	r.AdminNote = model.AdminNote
	r.DocumentURL = model.DocumentURL
	r.Metadata.FromModel(model.Metadata)
}

func (r *ReservationResponse) WithHistory(entries []model.StatusHistory) {
	r.History = make([]StatusHistoryResponse, len(entries))
	for i, entry := range entries {
		r.History[i].FromModel(entry)
	}
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

func parseInterval(date, startTime, endTime string, durationMinutes int) (scheduling.Interval, error) {
	day, err := timezone.Parse(dateLayout, date)
	if err != nil {
		return scheduling.Interval{}, failure.BadRequestFromString("date must be in YYYY-MM-DD format") //nolint:wrapcheck
	}

	startClock, err := scheduling.ParseTimeOfDay(startTime)
	if err != nil {
		return scheduling.Interval{}, failure.BadRequestFromString("start_time must be in HH:MM format") //nolint:wrapcheck
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour, startClock.Minute, 0, 0, timezone.GetLocation())

	var end time.Time

	switch {
	case endTime != "":
		endClock, err := scheduling.ParseTimeOfDay(endTime)
		if err != nil {
			return scheduling.Interval{}, failure.BadRequestFromString("end_time must be in HH:MM format") //nolint:wrapcheck
		}

		end = time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour, endClock.Minute, 0, 0, timezone.GetLocation())
	case durationMinutes > 0:
		end = start.Add(time.Duration(durationMinutes) * time.Minute)
	default:
		return scheduling.Interval{}, failure.BadRequestFromString("either end_time or duration_minutes is required") //nolint:wrapcheck
	}

	interval, err := scheduling.NewInterval(start, end)
	if err != nil {
		return scheduling.Interval{}, failure.BadRequestFromString("end must be after start") //nolint:wrapcheck
	}

	return interval, nil
}
