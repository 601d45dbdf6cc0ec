package agent

import (
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/status"

	"github.com/google/uuid"
)

// Agent is a broker profile shown on listings once approved.
type Agent struct {
	common.BaseModel
	Title           string  `gorm:"type:varchar(150);not null"`
	Brokerage       string  `gorm:"type:varchar(150)"`
	Office          string  `gorm:"type:varchar(150)"`
	LicenseNo       string  `gorm:"type:varchar(64);index"`
	Bio             string  `gorm:"type:text"`
	WhatsApp        string  `gorm:"column:whatsapp;type:varchar(32)"`
	ProfileImage    string  `gorm:"type:text"`
	Approved        bool    `gorm:"not null;default:false;index"`
	Verified        bool    `gorm:"not null;default:false"`
	Rating          float64 `gorm:"type:numeric(3,2);not null;default:0"`
	ReviewCount     int     `gorm:"not null;default:0"`
	ExperienceYears int     `gorm:"not null;default:0"`
}

func (Agent) TableName() string {
	return "agents"
}

// AgentRequest is the create body and, merged over the current record, the
// update body.
type AgentRequest struct {
	Title           string  `json:"title" binding:"required,min=2,max=150"`
	Brokerage       string  `json:"brokerage" binding:"max=150"`
	Office          string  `json:"office" binding:"max=150"`
	LicenseNo       string  `json:"license_no" binding:"max=64"`
	Bio             string  `json:"bio"`
	WhatsApp        string  `json:"whatsapp" binding:"max=32"`
	ProfileImage    string  `json:"profile_image" binding:"omitempty,max=2048"`
	Approved        bool    `json:"approved"`
	Verified        bool    `json:"verified"`
	Rating          float64 `json:"rating" binding:"gte=0,lte=5"`
	ReviewCount     int     `json:"review_count" binding:"gte=0"`
	ExperienceYears int     `json:"experience_years" binding:"gte=0,lte=80"`
}

func requestFrom(a *Agent) AgentRequest {
	return AgentRequest{
		Title:           a.Title,
		Brokerage:       a.Brokerage,
		Office:          a.Office,
		LicenseNo:       a.LicenseNo,
		Bio:             a.Bio,
		WhatsApp:        a.WhatsApp,
		ProfileImage:    a.ProfileImage,
		Approved:        a.Approved,
		Verified:        a.Verified,
		Rating:          a.Rating,
		ReviewCount:     a.ReviewCount,
		ExperienceYears: a.ExperienceYears,
	}
}

func (r AgentRequest) apply(a *Agent) {
	a.Title = r.Title
	a.Brokerage = r.Brokerage
	a.Office = r.Office
	a.LicenseNo = r.LicenseNo
	a.Bio = r.Bio
	a.WhatsApp = r.WhatsApp
	a.ProfileImage = r.ProfileImage
	a.Approved = r.Approved
	a.Verified = r.Verified
	a.Rating = r.Rating
	a.ReviewCount = r.ReviewCount
	a.ExperienceYears = r.ExperienceYears
}

// AgentResponse is an agent row with its approval badge.
type AgentResponse struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Brokerage       string       `json:"brokerage"`
	Office          string       `json:"office"`
	LicenseNo       string       `json:"license_no"`
	Bio             string       `json:"bio"`
	WhatsApp        string       `json:"whatsapp"`
	ProfileImage    string       `json:"profile_image"`
	Approved        bool         `json:"approved"`
	Verified        bool         `json:"verified"`
	Rating          float64      `json:"rating"`
	ReviewCount     int          `json:"review_count"`
	ExperienceYears int          `json:"experience_years"`
	Status          status.Badge `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (r AgentResponse) GetID() uuid.UUID { return r.ID }

// Request returns the full record as an update body.
func (r AgentResponse) Request() AgentRequest {
	return AgentRequest{
		Title:           r.Title,
		Brokerage:       r.Brokerage,
		Office:          r.Office,
		LicenseNo:       r.LicenseNo,
		Bio:             r.Bio,
		WhatsApp:        r.WhatsApp,
		ProfileImage:    r.ProfileImage,
		Approved:        r.Approved,
		Verified:        r.Verified,
		Rating:          r.Rating,
		ReviewCount:     r.ReviewCount,
		ExperienceYears: r.ExperienceYears,
	}
}

// WithApproved returns a copy with the approval flag and badge switched.
func (r AgentResponse) WithApproved(approved bool) AgentResponse {
	r.Approved = approved
	r.Status = status.Approval(approved)
	return r
}

func ToAgentResponse(a *Agent) AgentResponse {
	return AgentResponse{
		ID:              a.ID,
		Title:           a.Title,
		Brokerage:       a.Brokerage,
		Office:          a.Office,
		LicenseNo:       a.LicenseNo,
		Bio:             a.Bio,
		WhatsApp:        a.WhatsApp,
		ProfileImage:    a.ProfileImage,
		Approved:        a.Approved,
		Verified:        a.Verified,
		Rating:          a.Rating,
		ReviewCount:     a.ReviewCount,
		ExperienceYears: a.ExperienceYears,
		Status:          status.Approval(a.Approved),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
