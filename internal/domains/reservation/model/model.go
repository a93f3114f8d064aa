package model

import (
	"time"

	"biblio/internal/scheduling"
	"biblio/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID           = "id"
	FieldResourceID   = "resource_id"
	FieldGuestName    = "guest_name"
	FieldGuestEmail   = "guest_email"
	FieldGuestPhone   = "guest_phone"
	FieldParticipants = "participants"
	FieldPurpose      = "purpose"
	FieldStartsAt     = "starts_at"
	FieldEndsAt       = "ends_at"
	FieldStatus       = "status"
	FieldAdminNote    = "admin_note"
	FieldDocumentURL  = "document_url"
	FieldCreatedBy    = "created_by"
)

const (
	HistoryTableName  = "reservation_status_history"
	HistoryEntityName = "status history"

	HistoryFieldID            = "id"
	HistoryFieldReservationID = "reservation_id"
	HistoryFieldStatus        = "status"
	HistoryFieldActorID       = "actor_id"
	HistoryFieldNote          = "note"
	HistoryFieldCreatedAt     = "created_at"
)

type Reservation struct {
	ID           string    `db:"id"`
	ResourceID   string    `db:"resource_id"`
	GuestName    string    `db:"guest_name"`
	GuestEmail   string    `db:"guest_email"`
	GuestPhone   string    `db:"guest_phone"`
	Participants int       `db:"participants"`
	Purpose      string    `db:"purpose"`
	StartsAt     time.Time `db:"starts_at"`
	EndsAt       time.Time `db:"ends_at"`
	Status       string    `db:"status"`
	AdminNote    string    `db:"admin_note"`
	DocumentURL  string    `db:"document_url"`
	model.Metadata
}

func (r *Reservation) Interval() scheduling.Interval {
	return scheduling.Interval{Start: r.StartsAt, End: r.EndsAt}
}

// StatusHistory is one append-only entry of a reservation's lifecycle log.
type StatusHistory struct {
	ID            string    `db:"id"`
	ReservationID string    `db:"reservation_id"`
	Status        string    `db:"status"`
	ActorID       *string   `db:"actor_id"`
	Note          string    `db:"note"`
	CreatedAt     time.Time `db:"created_at"`
}
