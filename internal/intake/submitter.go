package intake

import (
	"context"

	"estate_leads_backend/internal/platform/storage"

	"github.com/google/uuid"
)

// Submission is what a form's Submitter receives once the draft validated and
// its files were uploaded.
type Submission struct {
	Form      string
	Reference string
	DraftID   uuid.UUID
	ProfileID *uuid.UUID
	Values    Values
	Files     map[string][]storage.Object
}

// FileURLs lists the uploaded URLs of one file field in selection order.
func (s Submission) FileURLs(field string) []string {
	var urls []string
	for _, obj := range s.Files[field] {
		urls = append(urls, obj.URL)
	}
	return urls
}

// Created identifies the entity a submission produced.
type Created struct {
	Entity   string
	ID       uuid.UUID
	Redirect string
}

// Submitter turns a submission into a domain record through the public tier.
type Submitter interface {
	SubmitIntake(ctx context.Context, sub Submission) (Created, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sub Submission) (Created, error)

func (f SubmitterFunc) SubmitIntake(ctx context.Context, sub Submission) (Created, error) {
	return f(ctx, sub)
}

// Submitters maps form names to their submitter.
type Submitters map[string]Submitter
