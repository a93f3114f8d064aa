package model

import (
	"biblio/internal/scheduling"
	"biblio/shared/model"
)

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID       = "id"
	FieldName     = "name"
	FieldKind     = "kind"
	FieldLocation = "location"
	FieldCapacity = "capacity"
	FieldOpensAt  = "opens_at"
	FieldClosesAt = "closes_at"
	FieldImage    = "image"
	FieldActive   = "active"
)

const (
	KindRoom      = "room"
	KindTourGuide = "tour_guide"
)

type Resource struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Kind     string `db:"kind"`
	Location string `db:"location"`
	Capacity int    `db:"capacity"`
	OpensAt  string `db:"opens_at"`
	ClosesAt string `db:"closes_at"`
	Image    string `db:"image"`
	Active   bool   `db:"active"`
	model.Metadata
}

// Window parses the stored opening hours into a scheduling window.
func (r *Resource) Window() (scheduling.Window, error) {
	opens, err := scheduling.ParseTimeOfDay(r.OpensAt)
	if err != nil {
		return scheduling.Window{}, err
	}

	closes, err := scheduling.ParseTimeOfDay(r.ClosesAt)
	if err != nil {
		return scheduling.Window{}, err
	}

	return scheduling.Window{OpensAt: opens, ClosesAt: closes}, nil
}
