package property

import (
	"estate_leads_backend/internal/common"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Category values of a property.
const (
	CategoryResidential = "residential"
	CategoryCommercial  = "commercial"
)

// Property is a listing row. ListingStatus and PropertyStatus hold values of the
// status.ListingIntent and status.PropertyStatus vocabularies.
type Property struct {
	common.BaseModel
	Slug           string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Title          string         `gorm:"type:varchar(255);not null"`
	Description    string         `gorm:"type:text"`
	Price          float64        `gorm:"type:numeric(14,2);not null;default:0"`
	Currency       string         `gorm:"type:varchar(8)"`
	Address        string         `gorm:"type:varchar(255)"`
	Area           string         `gorm:"type:varchar(150);index"`
	City           string         `gorm:"type:varchar(100)"`
	ListingStatus  string         `gorm:"type:varchar(32);not null;default:'sale';index"`
	PropertyStatus string         `gorm:"type:varchar(32);not null;default:'ready'"`
	Category       string         `gorm:"type:varchar(32);not null;default:'residential'"`
	PropertyType   string         `gorm:"type:varchar(64)"`
	Beds           int            `gorm:"not null;default:0"`
	Baths          int            `gorm:"not null;default:0"`
	Sqft           float64        `gorm:"type:numeric(12,2);not null;default:0"`
	Amenities      pq.StringArray `gorm:"type:text[]"`
	Images         pq.StringArray `gorm:"type:text[]"`
	Documents      pq.StringArray `gorm:"type:text[]"`
	Published      bool           `gorm:"not null;default:false;index"`
	Featured       bool           `gorm:"not null;default:false"`
	AgentID        *uuid.UUID     `gorm:"type:uuid;index"`
	SubmittedBy    *uuid.UUID     `gorm:"type:uuid"`
	Reference      *string        `gorm:"type:varchar(32);uniqueIndex"`
	ContactName    string         `gorm:"type:varchar(150)"`
	ContactEmail   string         `gorm:"type:varchar(255)"`
	ContactPhone   string         `gorm:"type:varchar(50)"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Property) TableName() string {
	return "properties"
}

// Bulk actions accepted by the admin bulk endpoint.
const (
	BulkPublish   = "publish"
	BulkUnpublish = "unpublish"
	BulkFeature   = "feature"
	BulkUnfeature = "unfeature"
	BulkDelete    = "delete"
)

type BulkRequest struct {
	Action string      `json:"action" binding:"required,oneof=publish unpublish feature unfeature delete"`
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1,max=200"`
}

type BulkFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BulkResult lists per-id outcomes in request order.
type BulkResult struct {
	Action    string        `json:"action"`
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

type FeatureRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}
