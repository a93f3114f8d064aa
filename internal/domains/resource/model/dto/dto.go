package dto

import (
	"mime/multipart"

	"github.com/google/uuid"

	"biblio/internal/domains/resource/model"
	"biblio/shared"
	gDto "biblio/shared/dto"
	gModel "biblio/shared/model"
	"biblio/shared/timezone"
)

type CreateResourceRequest struct {
	Name      string                `json:"name"      validate:"required,max=100"`
	Kind      string                `json:"kind"      validate:"required,oneof=room tour_guide"`
	Location  string                `json:"location"  validate:"omitempty,max=100"`
	Capacity  int                   `json:"capacity"  validate:"omitempty,min=0"`
	OpensAt   string                `json:"opens_at"  validate:"required,len=5"`
	ClosesAt  string                `json:"closes_at" validate:"required,len=5"`
	Image     *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
	Active    *bool                 `json:"active"    validate:"omitempty"`
}

func (c *CreateResourceRequest) ToModel(user string, imageURL string) model.Resource {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Resource{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Kind:     c.Kind,
		Location: c.Location,
		Capacity: c.Capacity,
		OpensAt:  c.OpensAt,
		ClosesAt: c.ClosesAt,
		Image:    imageURL,
		Active:   active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateResourceRequest struct {
	Name      string                `db:"name"      json:"name"      validate:"omitempty,max=100"`
	Location  string                `db:"location"  json:"location"  validate:"omitempty,max=100"`
	Capacity  *int                  `db:"capacity"  json:"capacity"  validate:"omitempty,min=0"`
	OpensAt   string                `db:"opens_at"  json:"opens_at"  validate:"omitempty,len=5"`
	ClosesAt  string                `db:"closes_at" json:"closes_at" validate:"omitempty,len=5"`
	Image     *multipart.FileHeader `json:"image"   validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
	Active    *bool                 `db:"active"    json:"active"    validate:"omitempty"`
}

type ResourceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	Image    string `json:"image"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *ResourceResponse) FromModel(model model.Resource) {
	r.ID = model.ID
	r.Name = model.Name
	r.Kind = model.Kind
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.OpensAt = model.OpensAt
	r.ClosesAt = model.ClosesAt
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetResourcesResponse) FromModels(models []model.Resource, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Resources = make([]ResourceResponse, len(models))
	for i, mod := range models {
		r.Resources[i].FromModel(mod)
	}
}
