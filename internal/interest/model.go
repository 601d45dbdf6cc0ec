package interest

import (
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/status"

	"github.com/google/uuid"
)

const (
	StatusNew           = "new"
	StatusContacted     = "contacted"
	StatusQualified     = "qualified"
	StatusConverted     = "converted"
	StatusNotInterested = "not_interested"
)

// Timelines a buyer can pick on the financing step.
var Timelines = []string{"immediately", "1-3 months", "3-6 months", "6+ months"}

// DownloadInterest is a lead captured before a floor plan or brochure download.
type DownloadInterest struct {
	common.BaseModel
	PropertyID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	Property         *property.Property `gorm:"foreignKey:PropertyID"`
	DownloadType     string             `gorm:"type:varchar(20);not null"`
	FullName         string             `gorm:"type:varchar(200);not null"`
	Email            string             `gorm:"type:varchar(255);not null;index"`
	Phone            string             `gorm:"type:varchar(40);not null"`
	PreferredContact string             `gorm:"type:varchar(20);not null;default:'email'"`
	Budget           string             `gorm:"type:varchar(64)"`
	FinancingType    string             `gorm:"type:varchar(20)"`
	PreApproved      bool               `gorm:"not null;default:false"`
	Timeline         string             `gorm:"type:varchar(20)"`
	Status           string             `gorm:"type:varchar(20);not null;default:'new';index"`
	ContactedAt      *time.Time
	QualifiedAt      *time.Time
	ConvertedAt      *time.Time
	DownloadToken    string `gorm:"type:varchar(64);not null;uniqueIndex"`
}

func (DownloadInterest) TableName() string {
	return "download_interests"
}

type CreateRequest struct {
	DownloadType     string `json:"download_type" binding:"required,oneof=floor_plan brochure"`
	FullName         string `json:"full_name" binding:"required,min=2,max=200"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required,min=6,max=40"`
	PreferredContact string `json:"preferred_contact" binding:"omitempty,oneof=email phone whatsapp"`
	Budget           string `json:"budget" binding:"max=64"`
	FinancingType    string `json:"financing_type" binding:"omitempty,oneof=cash mortgage undecided"`
	PreApproved      bool   `json:"pre_approved"`
	Timeline         string `json:"timeline"`
}

// StatusUpdate is the body of PUT /admin/download-interests. ID is ignored on
// the /:id route.
type StatusUpdate struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status" binding:"required"`
}

type InterestResponse struct {
	ID               uuid.UUID    `json:"id"`
	PropertyID       uuid.UUID    `json:"property_id"`
	PropertyTitle    string       `json:"property_title,omitempty"`
	DownloadType     string       `json:"download_type"`
	FullName         string       `json:"full_name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	PreferredContact string       `json:"preferred_contact"`
	Budget           string       `json:"budget,omitempty"`
	FinancingType    string       `json:"financing_type,omitempty"`
	PreApproved      bool         `json:"pre_approved"`
	Timeline         string       `json:"timeline,omitempty"`
	Status           string       `json:"status"`
	Badge            status.Badge `json:"status_badge"`
	ContactedAt      *time.Time   `json:"contacted_at,omitempty"`
	QualifiedAt      *time.Time   `json:"qualified_at,omitempty"`
	ConvertedAt      *time.Time   `json:"converted_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (r InterestResponse) GetID() uuid.UUID { return r.ID }

// WithStatus returns a copy moved to s, stamping the first-time timestamp the
// way the server does.
func (r InterestResponse) WithStatus(s string, at time.Time) InterestResponse {
	r.Status = s
	r.Badge = status.DownloadInterest.Badge(s)
	stampFirst(s, at, &r.ContactedAt, &r.QualifiedAt, &r.ConvertedAt)
	return r
}

func ToInterestResponse(d *DownloadInterest) InterestResponse {
	resp := InterestResponse{
		ID:               d.ID,
		PropertyID:       d.PropertyID,
		DownloadType:     d.DownloadType,
		FullName:         d.FullName,
		Email:            d.Email,
		Phone:            d.Phone,
		PreferredContact: d.PreferredContact,
		Budget:           d.Budget,
		FinancingType:    d.FinancingType,
		PreApproved:      d.PreApproved,
		Timeline:         d.Timeline,
		Status:           d.Status,
		Badge:            status.DownloadInterest.Badge(d.Status),
		ContactedAt:      d.ContactedAt,
		QualifiedAt:      d.QualifiedAt,
		ConvertedAt:      d.ConvertedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.Property != nil {
		resp.PropertyTitle = d.Property.Title
	}
	return resp
}

// stampFirst sets the timestamp that belongs to s if it is still unset.
func stampFirst(s string, at time.Time, contacted, qualified, converted **time.Time) {
	var target **time.Time
	switch s {
	case StatusContacted:
		target = contacted
	case StatusQualified:
		target = qualified
	case StatusConverted:
		target = converted
	default:
		return
	}
	if *target == nil {
		t := at
		*target = &t
	}
}
