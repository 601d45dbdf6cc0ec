package careers

import (
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/status"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	PostingActive   = "active"
	PostingArchived = "archived"
)

// JobPosting is an open (or archived) position on the careers page.
type JobPosting struct {
	common.BaseModel
	Slug         string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Title        string         `gorm:"type:varchar(200);not null"`
	Department   string         `gorm:"type:varchar(100)"`
	Location     string         `gorm:"type:varchar(150)"`
	Type         string         `gorm:"type:varchar(32);not null;default:'full-time'"`
	Description  string         `gorm:"type:text"`
	Requirements pq.StringArray `gorm:"type:text[]"`
	Salary       string         `gorm:"type:varchar(100)"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active';index"`
	PostedAt     time.Time      `gorm:"not null;index"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

// Application is a candidate's application to a posting.
type Application struct {
	common.BaseModel
	JobPostingID uuid.UUID `gorm:"type:uuid;not null;index"`
	JobTitle     string    `gorm:"type:varchar(200);not null"`
	FullName     string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(255);not null;index"`
	Phone        string    `gorm:"type:varchar(40)"`
	Experience   string    `gorm:"type:varchar(32)"`
	ResumeURL    string    `gorm:"type:text;not null"`
	CoverLetter  string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
}

func (Application) TableName() string {
	return "job_applications"
}

// PostingRequest is the admin create body; updates are merged over it.
type PostingRequest struct {
	Slug         string   `json:"slug" binding:"omitempty,max=255"`
	Title        string   `json:"title" binding:"required,min=3,max=200"`
	Department   string   `json:"department" binding:"max=100"`
	Location     string   `json:"location" binding:"max=150"`
	Type         string   `json:"type" binding:"omitempty,oneof=full-time part-time contract internship"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Salary       string   `json:"salary" binding:"max=100"`
	Status       string   `json:"status"`
}

type PostingResponse struct {
	ID           uuid.UUID    `json:"id"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Department   string       `json:"department"`
	Location     string       `json:"location"`
	Type         string       `json:"type"`
	Description  string       `json:"description"`
	Requirements []string     `json:"requirements"`
	Salary       string       `json:"salary,omitempty"`
	Status       string       `json:"status"`
	Badge        status.Badge `json:"status_badge"`
	PostedAt     time.Time    `json:"posted_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (r PostingResponse) GetID() uuid.UUID { return r.ID }

func (r PostingResponse) request() PostingRequest {
	return PostingRequest{
		Slug:         r.Slug,
		Title:        r.Title,
		Department:   r.Department,
		Location:     r.Location,
		Type:         r.Type,
		Description:  r.Description,
		Requirements: r.Requirements,
		Salary:       r.Salary,
		Status:       r.Status,
	}
}

func ToPostingResponse(p *JobPosting) PostingResponse {
	reqs := []string(p.Requirements)
	if reqs == nil {
		reqs = []string{}
	}
	return PostingResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		Department:   p.Department,
		Location:     p.Location,
		Type:         p.Type,
		Description:  p.Description,
		Requirements: reqs,
		Salary:       p.Salary,
		Status:       p.Status,
		Badge:        status.JobPosting.Badge(p.Status),
		PostedAt:     p.PostedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ApplicationStatusUpdate is the body of PUT /admin/applications/:id.
type ApplicationStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationResponse struct {
	ID           uuid.UUID    `json:"id"`
	JobPostingID uuid.UUID    `json:"job_posting_id"`
	JobTitle     string       `json:"job_title"`
	FullName     string       `json:"full_name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Experience   string       `json:"experience,omitempty"`
	ResumeURL    string       `json:"resume_url"`
	CoverLetter  string       `json:"cover_letter,omitempty"`
	Status       string       `json:"status"`
	Badge        status.Badge `json:"status_badge"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (r ApplicationResponse) GetID() uuid.UUID { return r.ID }

func ToApplicationResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           a.ID,
		JobPostingID: a.JobPostingID,
		JobTitle:     a.JobTitle,
		FullName:     a.FullName,
		Email:        a.Email,
		Phone:        a.Phone,
		Experience:   a.Experience,
		ResumeURL:    a.ResumeURL,
		CoverLetter:  a.CoverLetter,
		Status:       a.Status,
		Badge:        status.Application.Badge(a.Status),
		CreatedAt:    a.CreatedAt,
	}
}
