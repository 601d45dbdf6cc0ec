package question

import (
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/profile"
	"estate_leads_backend/internal/status"

	"github.com/google/uuid"
)

// Categories a customer can file a question under.
var Categories = []string{"general", "buying", "selling", "renting", "valuation", "other"}

// Question is a customer question awaiting an admin answer.
type Question struct {
	common.BaseModel
	Subject    string           `gorm:"type:varchar(200);not null"`
	Message    string           `gorm:"type:text;not null"`
	Category   string           `gorm:"type:varchar(32);not null;default:'general';index"`
	Status     string           `gorm:"type:varchar(20);not null;default:'pending';index"`
	ProfileID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Profile    *profile.Profile `gorm:"foreignKey:ProfileID"`
	Answer     string           `gorm:"type:text"`
	AnsweredAt *time.Time
}

func (Question) TableName() string {
	return "customer_questions"
}

// CreateRequest is the customer body of POST /customer/questions.
type CreateRequest struct {
	Subject  string `json:"subject" binding:"required,min=3,max=200"`
	Message  string `json:"message" binding:"required,min=5"`
	Category string `json:"category" binding:"omitempty,oneof=general buying selling renting valuation other"`
}

// UpdateRequest is what an admin may change. PUT bodies are merged over it.
type UpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Answer string `json:"answer"`
}

// Asker is the profile shown next to a question in the admin list.
type Asker struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type QuestionResponse struct {
	ID         uuid.UUID    `json:"id"`
	Subject    string       `json:"subject"`
	Message    string       `json:"message"`
	Category   string       `json:"category"`
	Status     string       `json:"status"`
	Badge      status.Badge `json:"status_badge"`
	Answer     string       `json:"answer,omitempty"`
	AnsweredAt *time.Time   `json:"answered_at,omitempty"`
	ProfileID  uuid.UUID    `json:"profile_id"`
	Profile    *Asker       `json:"profile,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (r QuestionResponse) GetID() uuid.UUID { return r.ID }

func ToQuestionResponse(q *Question) QuestionResponse {
	resp := QuestionResponse{
		ID:         q.ID,
		Subject:    q.Subject,
		Message:    q.Message,
		Category:   q.Category,
		Status:     q.Status,
		Badge:      status.Question.Badge(q.Status),
		Answer:     q.Answer,
		AnsweredAt: q.AnsweredAt,
		ProfileID:  q.ProfileID,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
	if q.Profile != nil {
		resp.Profile = &Asker{ID: q.Profile.ID, Email: q.Profile.Email, FullName: q.Profile.FullName}
	}
	return resp
}
