package valuation

import (
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/status"

	"github.com/google/uuid"
)

// Valuation is a customer's request for a property valuation.
type Valuation struct {
	common.BaseModel
	ProfileID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyType   string    `gorm:"type:varchar(32);not null"`
	Location       string    `gorm:"type:varchar(255);not null"`
	Size           float64   `gorm:"not null"`
	Bedrooms       int
	Bathrooms      int
	YearBuilt      int
	Condition      string   `gorm:"type:varchar(32)"`
	Status         string   `gorm:"type:varchar(20);not null;default:'pending';index"`
	EstimatedValue *float64 `gorm:"type:numeric(14,2)"`
	Currency       string   `gorm:"type:varchar(3)"`
	CompletedAt    *time.Time
	Notes          string `gorm:"type:text"`
}

func (Valuation) TableName() string {
	return "property_valuations"
}

type CreateRequest struct {
	PropertyType string  `json:"property_type" binding:"required,oneof=apartment villa townhouse penthouse office retail land"`
	Location     string  `json:"location" binding:"required,min=2,max=255"`
	Size         float64 `json:"size" binding:"required,gt=0"`
	Bedrooms     int     `json:"bedrooms" binding:"gte=0,lte=50"`
	Bathrooms    int     `json:"bathrooms" binding:"gte=0,lte=50"`
	YearBuilt    int     `json:"year_built" binding:"omitempty,gte=1900,lte=2100"`
	Condition    string  `json:"condition" binding:"omitempty,oneof=excellent good fair needs-renovation"`
	Notes        string  `json:"notes"`
}

// UpdateRequest is the admin-editable part of a valuation.
type UpdateRequest struct {
	Status         string   `json:"status" binding:"required"`
	EstimatedValue *float64 `json:"estimated_value" binding:"omitempty,gte=0"`
	Currency       string   `json:"currency" binding:"omitempty,len=3"`
	Notes          string   `json:"notes"`
}

type ValuationResponse struct {
	ID             uuid.UUID    `json:"id"`
	ProfileID      uuid.UUID    `json:"profile_id"`
	PropertyType   string       `json:"property_type"`
	Location       string       `json:"location"`
	Size           float64      `json:"size"`
	Bedrooms       int          `json:"bedrooms"`
	Bathrooms      int          `json:"bathrooms"`
	YearBuilt      int          `json:"year_built,omitempty"`
	Condition      string       `json:"condition,omitempty"`
	Status         string       `json:"status"`
	Badge          status.Badge `json:"status_badge"`
	EstimatedValue *float64     `json:"estimated_value"`
	Currency       string       `json:"currency,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (r ValuationResponse) GetID() uuid.UUID { return r.ID }

func ToValuationResponse(v *Valuation) ValuationResponse {
	return ValuationResponse{
		ID:             v.ID,
		ProfileID:      v.ProfileID,
		PropertyType:   v.PropertyType,
		Location:       v.Location,
		Size:           v.Size,
		Bedrooms:       v.Bedrooms,
		Bathrooms:      v.Bathrooms,
		YearBuilt:      v.YearBuilt,
		Condition:      v.Condition,
		Status:         v.Status,
		Badge:          status.Valuation.Badge(v.Status),
		EstimatedValue: v.EstimatedValue,
		Currency:       v.Currency,
		CompletedAt:    v.CompletedAt,
		Notes:          v.Notes,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
