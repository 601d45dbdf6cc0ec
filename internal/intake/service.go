package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/crypto"
	"estate_leads_backend/internal/platform/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AttachResult reports per-file outcomes of an upload.
type AttachResult struct {
	Draft    *DraftView   `json:"session"`
	Accepted []Attachment `json:"accepted"`
	Rejected []Rejection  `json:"rejected"`
}

// Service drives drafts of the registered forms. profileID is the caller's
// profile, nil for anonymous callers; drafts started by a customer are only
// visible to that customer.
type Service interface {
	ListForms() []*Form
	GetForm(name string) (*Form, error)
	StartDraft(ctx context.Context, form string, profileID *uuid.UUID) (*DraftView, error)
	GetDraft(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) (*DraftView, error)
	SetValues(ctx context.Context, id uuid.UUID, profileID *uuid.UUID, values map[string]any) (*DraftView, error)
	Next(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) (*DraftView, error)
	Previous(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) (*DraftView, error)
	Attach(ctx context.Context, id uuid.UUID, profileID *uuid.UUID, field string, uploads []Upload) (*AttachResult, error)
	RemoveAttachment(ctx context.Context, id uuid.UUID, profileID *uuid.UUID, field string, index int) (*DraftView, error)
	Submit(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) common.Result[Receipt]
}

type serviceImpl struct {
	forms      *Registry
	drafts     *DraftStore
	guard      Guard
	storage    storage.Storage
	audit      AuditRepository
	submitters Submitters
	logger     *zap.Logger
}

// NewService checks that every registered form has a submitter.
func NewService(forms *Registry, drafts *DraftStore, guard Guard, store storage.Storage, audit AuditRepository, submitters Submitters, logger *zap.Logger) (Service, error) {
	for _, f := range forms.List() {
		if _, ok := submitters[f.Name]; !ok {
			return nil, fmt.Errorf("intake: no submitter registered for form %q", f.Name)
		}
	}
	return &serviceImpl{
		forms:      forms,
		drafts:     drafts,
		guard:      guard,
		storage:    store,
		audit:      audit,
		submitters: submitters,
		logger:     logger.Named("intake"),
	}, nil
}

func (s *serviceImpl) ListForms() []*Form {
	return s.forms.List()
}

func (s *serviceImpl) GetForm(name string) (*Form, error) {
	f, ok := s.forms.Get(name)
	if !ok {
		return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("Form '%s' not found.", name))
	}
	return f, nil
}

func (s *serviceImpl) StartDraft(ctx context.Context, name string, profileID *uuid.UUID) (*DraftView, error) {
	f, err := s.GetForm(name)
	if err != nil {
		return nil, err
	}
	if f.RequiresAuth && profileID == nil {
		return nil, common.ErrUnauthorized.WithDetails("Sign in to use this form.")
	}
	d := NewDraft(f, profileID)
	s.drafts.Put(d)
	s.logger.Debug("Intake draft started", zap.String("form", name), zap.String("draftID", d.ID.String()))
	view := d.View()
	return &view, nil
}

// withDraft runs fn under the draft lock and returns the resulting view.
func (s *serviceImpl) withDraft(id uuid.UUID, profileID *uuid.UUID, fn func(d *Draft) error) (*DraftView, error) {
	var view DraftView
	err := s.drafts.With(id, func(d *Draft) error {
		if !owns(d, profileID) {
			return common.ErrNotFound.WithDetails("Intake session not found or expired.")
		}
		if fn != nil {
			if err := fn(d); err != nil {
				return err
			}
		}
		view = d.View()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func owns(d *Draft, profileID *uuid.UUID) bool {
	if d.ProfileID == nil {
		return true
	}
	return profileID != nil && *profileID == *d.ProfileID
}

func (s *serviceImpl) GetDraft(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) (*DraftView, error) {
	return s.withDraft(id, profileID, nil)
}

func (s *serviceImpl) SetValues(ctx context.Context, id uuid.UUID, profileID *uuid.UUID, values map[string]any) (*DraftView, error) {
	return s.withDraft(id, profileID, func(d *Draft) error {
		if d.Receipt != nil {
			return common.ErrConflict.WithDetails("This form was already submitted.")
		}
		return d.SetValues(values)
	})
}

func (s *serviceImpl) Next(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) (*DraftView, error) {
	return s.withDraft(id, profileID, func(d *Draft) error {
		d.Next()
		return nil
	})
}

func (s *serviceImpl) Previous(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) (*DraftView, error) {
	return s.withDraft(id, profileID, func(d *Draft) error {
		d.Previous()
		return nil
	})
}

func (s *serviceImpl) Attach(ctx context.Context, id uuid.UUID, profileID *uuid.UUID, field string, uploads []Upload) (*AttachResult, error) {
	result := &AttachResult{}
	view, err := s.withDraft(id, profileID, func(d *Draft) error {
		if d.Receipt != nil {
			return common.ErrConflict.WithDetails("This form was already submitted.")
		}
		accepted, rejected, err := d.Attach(field, uploads...)
		if err != nil {
			return err
		}
		result.Accepted, result.Rejected = accepted, rejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, r := range result.Rejected {
		s.logger.Info("Intake file rejected", zap.String("draftID", id.String()), zap.String("field", field),
			zap.String("filename", r.Filename), zap.Int64("size", r.Size))
	}
	result.Draft = view
	return result, nil
}

func (s *serviceImpl) RemoveAttachment(ctx context.Context, id uuid.UUID, profileID *uuid.UUID, field string, index int) (*DraftView, error) {
	return s.withDraft(id, profileID, func(d *Draft) error {
		return d.RemoveAttachment(field, index)
	})
}

// Submit validates, uploads and hands the draft to its form's submitter. A
// second call while one is running fails with SUBMIT_IN_PROGRESS; a call after
// success returns the stored receipt.
func (s *serviceImpl) Submit(ctx context.Context, id uuid.UUID, profileID *uuid.UUID) common.Result[Receipt] {
	release, err := s.guard.Acquire(ctx, "intake:submit:"+id.String())
	if err != nil {
		return common.Failure[Receipt](err)
	}
	defer release()

	var snap *Draft
	if _, err := s.withDraft(id, profileID, func(d *Draft) error {
		snap = d.snapshot()
		return nil
	}); err != nil {
		return common.Failure[Receipt](err)
	}
	if snap.Receipt != nil {
		return common.Success(*snap.Receipt)
	}

	form := snap.Form()
	if problems := snap.Problems(); len(problems) > 0 {
		return common.Failure[Receipt](common.NewValidationAPIError(problems))
	}

	reference, err := crypto.GenerateReference(form.ReferencePrefix)
	if err != nil {
		s.logger.Error("Failed to generate submission reference", zap.Error(err))
		return common.Failure[Receipt](common.ErrInternalServer)
	}

	files, err := s.upload(ctx, form, snap)
	if err != nil {
		return common.Failure[Receipt](err)
	}

	sub := Submission{
		Form:      form.Name,
		Reference: reference,
		DraftID:   snap.ID,
		ProfileID: snap.ProfileID,
		Values:    snap.Values,
		Files:     files,
	}
	created, err := s.submitters[form.Name].SubmitIntake(ctx, sub)
	if err != nil {
		s.logger.Error("Intake submit failed", zap.String("form", form.Name), zap.String("draftID", id.String()), zap.Error(err))
		s.discard(files)
		return common.Failure[Receipt](err)
	}

	s.record(ctx, sub, created)

	receipt := Receipt{
		Reference:   reference,
		Entity:      created.Entity,
		ID:          created.ID,
		Redirect:    created.Redirect,
		SubmittedAt: time.Now().UTC(),
	}
	_, _ = s.withDraft(id, profileID, func(d *Draft) error {
		d.Receipt = &receipt
		d.Attachments = make(map[string][]Attachment)
		return nil
	})

	s.logger.Info("Intake submitted", zap.String("form", form.Name), zap.String("reference", reference),
		zap.String("entity", created.Entity), zap.String("entityID", created.ID.String()))
	return common.Success(receipt)
}

func (s *serviceImpl) upload(ctx context.Context, form *Form, d *Draft) (map[string][]storage.Object, error) {
	files := make(map[string][]storage.Object)
	for _, field := range form.Fields() {
		for _, att := range d.Attachments[field.Name] {
			obj, err := s.storage.Put(ctx, form.Name+"/"+field.Name, att.Filename, att.ContentType, bytes.NewReader(att.data), att.Size)
			if err != nil {
				s.logger.Error("Failed to store intake file", zap.String("field", field.Name), zap.String("filename", att.Filename), zap.Error(err))
				s.discard(files)
				return nil, common.ErrServiceUnavailable.WithDetails("Files could not be uploaded. Please try again.")
			}
			files[field.Name] = append(files[field.Name], obj)
		}
	}
	return files, nil
}

func (s *serviceImpl) discard(files map[string][]storage.Object) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, objs := range files {
		for _, obj := range objs {
			if err := s.storage.Delete(ctx, obj.Key); err != nil {
				s.logger.Warn("Failed to remove orphaned intake file", zap.String("key", obj.Key), zap.Error(err))
			}
		}
	}
}

// record writes the audit row. A failure here is logged only; the entity exists.
func (s *serviceImpl) record(ctx context.Context, sub Submission, created Created) {
	payload, err := json.Marshal(map[string]any{
		"values": sub.Values,
		"files":  sub.Files,
	})
	if err != nil {
		s.logger.Error("Failed to encode intake audit payload", zap.Error(err))
		return
	}
	rec := &SubmissionRecord{
		Form:       sub.Form,
		Reference:  sub.Reference,
		DraftID:    sub.DraftID,
		ProfileID:  sub.ProfileID,
		EntityType: created.Entity,
		EntityID:   created.ID,
		Payload:    datatypes.JSON(payload),
	}
	if err := s.audit.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to audit intake submission", zap.String("reference", sub.Reference), zap.Error(err))
	}
}
