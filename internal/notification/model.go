package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind names the lead that produced a notification.
type Kind string

const (
	KindSellerListing    Kind = "seller_listing"
	KindCustomerQuestion Kind = "customer_question"
	KindValuation        Kind = "valuation_request"
	KindDownloadInterest Kind = "download_interest"
	KindApplication      Kind = "job_application"
)

// Kinds lists every lead kind, for validating the feed filter.
var Kinds = []Kind{KindSellerListing, KindCustomerQuestion, KindValuation, KindDownloadInterest, KindApplication}

// ListFilter narrows the admin feed. The zero value lists everything.
type ListFilter struct {
	UnreadOnly bool
	Kind       Kind
}

// Notification is one entry of the admin lead feed.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      Kind      `gorm:"type:varchar(64);not null;index" json:"kind"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null" json:"entity_id"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notification_read_created" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;index:idx_notification_read_created" json:"created_at"`
	// Notifications are immutable apart from the read flag, so no UpdatedAt.
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
