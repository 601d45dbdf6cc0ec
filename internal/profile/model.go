package profile

import (
	"time"

	"estate_leads_backend/internal/common"

	"github.com/google/uuid"
)

// Profile is the application record of a signed-in person.
type Profile struct {
	common.BaseModel
	FirebaseUID *string    `gorm:"type:varchar(128);uniqueIndex" json:"-"`
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName    string     `gorm:"type:varchar(200)" json:"full_name"`
	Phone       *string    `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Role        string     `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) IsAdmin() bool { return p.Role == common.RoleAdmin }

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID          *uuid.UUID
	FirebaseUID string
	Email       string
	FullName    string
}

// ProfileResponse is the public shape of a profile.
type ProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		Phone:       p.Phone,
		Role:        p.Role,
		CreatedAt:   p.CreatedAt,
		LastLoginAt: p.LastLoginAt,
	}
}
