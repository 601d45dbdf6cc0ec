package intake

import (
	"context"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionRecord audits one successful submit.
type SubmissionRecord struct {
	common.BaseModel
	Form       string         `gorm:"type:varchar(64);not null;index" json:"form"`
	Reference  string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"reference"`
	DraftID    uuid.UUID      `gorm:"type:uuid;not null" json:"draft_id"`
	ProfileID  *uuid.UUID     `gorm:"type:uuid;index" json:"profile_id,omitempty"`
	EntityType string         `gorm:"type:varchar(64);not null" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null" json:"entity_id"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload"`
}

func (SubmissionRecord) TableName() string {
	return "intake_submissions"
}

// AuditRepository writes submission records. Inserts run on the public tier.
type AuditRepository interface {
	Create(ctx context.Context, record *SubmissionRecord) error
}

type gormAuditRepository struct {
	db *database.PublicDB
}

func NewGORMAuditRepository(db *database.PublicDB) AuditRepository {
	return &gormAuditRepository{db: db}
}

func (r *gormAuditRepository) Create(ctx context.Context, record *SubmissionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
