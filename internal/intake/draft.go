package intake

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"estate_leads_backend/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Upload is a file offered to Attach. Open is only called once the declared
// size passed the cap.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Attachment is an accepted file held in memory until submit.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	PreviewKey  string `json:"preview_key"`

	data []byte
}

// Rejection explains why one file was not attached.
type Rejection struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Reason   string `json:"reason"`
}

// Receipt is stored on a draft after a successful submit.
type Receipt struct {
	Reference   string    `json:"reference"`
	Entity      string    `json:"entity"`
	ID          uuid.UUID `json:"id"`
	Redirect    string    `json:"redirect,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Draft is the state of one form fill.
type Draft struct {
	ID          uuid.UUID
	CurrentStep int
	Values      Values
	Attachments map[string][]Attachment
	ProfileID   *uuid.UUID
	Receipt     *Receipt
	CreatedAt   time.Time
	UpdatedAt   time.Time

	form *Form
}

// NewDraft starts a fill of form on step 1, seeded with the form defaults.
func NewDraft(form *Form, profileID *uuid.UUID) *Draft {
	now := time.Now().UTC()
	d := &Draft{
		ID:          uuid.New(),
		CurrentStep: 1,
		Values:      make(Values),
		Attachments: make(map[string][]Attachment),
		ProfileID:   profileID,
		CreatedAt:   now,
		UpdatedAt:   now,
		form:        form,
	}
	for k, v := range form.Defaults {
		d.Values[k] = v
	}
	return d
}

func (d *Draft) Form() *Form { return d.form }

// Next moves one step forward, stopping at the last step. Required fields are
// not checked here.
func (d *Draft) Next() int {
	if d.CurrentStep < d.form.StepCount() {
		d.CurrentStep++
		d.touch()
	}
	return d.CurrentStep
}

// Previous moves one step back, stopping at step 1.
func (d *Draft) Previous() int {
	if d.CurrentStep > 1 {
		d.CurrentStep--
		d.touch()
	}
	return d.CurrentStep
}

// SetValues merges values into the draft. Unknown names and file fields are
// rejected and nothing is applied. A nil value clears the field.
func (d *Draft) SetValues(values map[string]any) error {
	problems := make(map[string]string)
	for name := range values {
		field, ok := d.form.Field(name)
		switch {
		case !ok:
			problems[name] = fmt.Sprintf("The %s field does not exist on this form.", name)
		case field.Kind == KindFile:
			problems[name] = fmt.Sprintf("The %s field takes file uploads.", name)
		}
	}
	if len(problems) > 0 {
		return common.NewValidationAPIError(problems)
	}
	for name, value := range values {
		if value == nil {
			delete(d.Values, name)
			continue
		}
		d.Values[name] = value
	}
	d.touch()
	return nil
}

// Attach checks each upload against the field cap and accepted types. Rejected
// files are reported and not stored; accepted files are appended in the order
// given. A single-file field keeps only the last accepted file.
func (d *Draft) Attach(name string, uploads ...Upload) ([]Attachment, []Rejection, error) {
	field, ok := d.form.Field(name)
	if !ok || field.Kind != KindFile {
		return nil, nil, common.ErrNotFound.WithDetails(fmt.Sprintf("File field '%s' not found.", name))
	}

	var accepted []Attachment
	var rejected []Rejection
	for _, up := range uploads {
		att, reason := readUpload(field, up)
		if reason != "" {
			rejected = append(rejected, Rejection{Filename: up.Filename, Size: up.Size, Reason: reason})
			continue
		}
		accepted = append(accepted, att)
	}

	if len(accepted) > 0 {
		if field.Multiple {
			d.Attachments[name] = append(d.Attachments[name], accepted...)
		} else {
			d.Attachments[name] = []Attachment{accepted[len(accepted)-1]}
		}
		d.touch()
	}
	return accepted, rejected, nil
}

func readUpload(field Field, up Upload) (Attachment, string) {
	if up.Size > field.MaxBytes {
		return Attachment{}, fmt.Sprintf("%s is larger than the %s limit.", up.Filename, humanBytes(field.MaxBytes))
	}
	if !acceptsType(field.Accept, up.ContentType) {
		return Attachment{}, fmt.Sprintf("%s has an unsupported type %q.", up.Filename, up.ContentType)
	}
	if up.Open == nil {
		return Attachment{}, fmt.Sprintf("%s could not be read.", up.Filename)
	}
	rc, err := up.Open()
	if err != nil {
		return Attachment{}, fmt.Sprintf("%s could not be read.", up.Filename)
	}
	defer rc.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(rc, field.MaxBytes+1))
	if err != nil {
		return Attachment{}, fmt.Sprintf("%s could not be read.", up.Filename)
	}
	if n > field.MaxBytes {
		return Attachment{}, fmt.Sprintf("%s is larger than the %s limit.", up.Filename, humanBytes(field.MaxBytes))
	}
	return Attachment{
		Filename:    up.Filename,
		ContentType: up.ContentType,
		Size:        n,
		PreviewKey:  uuid.NewString(),
		data:        buf.Bytes(),
	}, ""
}

func acceptsType(accept []string, contentType string) bool {
	if len(accept) == 0 {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, prefix := range accept {
		if strings.HasPrefix(mediaType, prefix) {
			return true
		}
	}
	return false
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

// RemoveAttachment drops the file at index from a file field.
func (d *Draft) RemoveAttachment(name string, index int) error {
	files := d.Attachments[name]
	if index < 0 || index >= len(files) {
		return common.ErrNotFound.WithDetails(fmt.Sprintf("No attachment %d on field '%s'.", index, name))
	}
	d.Attachments[name] = append(files[:index:index], files[index+1:]...)
	if len(d.Attachments[name]) == 0 {
		delete(d.Attachments, name)
	}
	d.touch()
	return nil
}

var validate = validator.New()

// Problems validates every field of every step and returns field -> message.
func (d *Draft) Problems() map[string]string {
	problems := make(map[string]string)
	for _, field := range d.form.Fields() {
		if msg := d.checkField(field); msg != "" {
			problems[field.Name] = msg
		}
	}
	return problems
}

func (d *Draft) checkField(field Field) string {
	label := strings.ToLower(field.Label)
	if field.Kind == KindFile {
		if field.Required && len(d.Attachments[field.Name]) == 0 {
			return fmt.Sprintf("The %s field is required.", label)
		}
		return ""
	}
	if field.Kind == KindCheckbox {
		if field.Required && !d.Values.Bool(field.Name) {
			return fmt.Sprintf("The %s field must be checked.", label)
		}
		return ""
	}

	raw := d.Values.String(field.Name)
	if raw == "" {
		if field.Required {
			return fmt.Sprintf("The %s field is required.", label)
		}
		return ""
	}

	switch field.Kind {
	case KindNumber:
		n, ok := d.Values.Float(field.Name)
		if !ok {
			return fmt.Sprintf("The %s field must be a number.", label)
		}
		if n < 0 {
			return fmt.Sprintf("The %s field must be greater than or equal to 0.", label)
		}
	case KindEmail:
		if err := validate.Var(raw, "email"); err != nil {
			return fmt.Sprintf("The %s field must be a valid email address.", label)
		}
	case KindPhone:
		if err := validate.Var(raw, "min=6,max=20"); err != nil {
			return fmt.Sprintf("The %s field must be a valid phone number.", label)
		}
	case KindSelect:
		for _, opt := range field.Options {
			if raw == opt {
				return ""
			}
		}
		return fmt.Sprintf("The %s field must be one of the following values: %s.", label, strings.Join(field.Options, " "))
	}
	return ""
}

func (d *Draft) touch() { d.UpdatedAt = time.Now().UTC() }

// AttachmentView is the metadata of an attachment as returned by the API.
type AttachmentView struct {
	Index int `json:"index"`
	Attachment
}

// DraftView is the JSON shape of a draft.
type DraftView struct {
	ID          uuid.UUID                   `json:"id"`
	Form        string                      `json:"form"`
	CurrentStep int                         `json:"current_step"`
	TotalSteps  int                         `json:"total_steps"`
	Step        Step                        `json:"step"`
	Values      Values                      `json:"values"`
	Attachments map[string][]AttachmentView `json:"attachments"`
	Receipt     *Receipt                    `json:"receipt,omitempty"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// View copies the draft for rendering. File bytes are not included.
func (d *Draft) View() DraftView {
	view := DraftView{
		ID:          d.ID,
		Form:        d.form.Name,
		CurrentStep: d.CurrentStep,
		TotalSteps:  d.form.StepCount(),
		Step:        d.form.Steps[d.CurrentStep-1],
		Values:      d.Values.clone(),
		Attachments: make(map[string][]AttachmentView, len(d.Attachments)),
		Receipt:     d.Receipt,
		UpdatedAt:   d.UpdatedAt,
	}
	for name, files := range d.Attachments {
		for i, att := range files {
			att.data = nil
			view.Attachments[name] = append(view.Attachments[name], AttachmentView{Index: i, Attachment: att})
		}
	}
	return view
}

// snapshot copies what submit needs so the draft lock can be released.
func (d *Draft) snapshot() *Draft {
	cp := *d
	cp.Values = d.Values.clone()
	cp.Attachments = make(map[string][]Attachment, len(d.Attachments))
	for name, files := range d.Attachments {
		cp.Attachments[name] = append([]Attachment(nil), files...)
	}
	return &cp
}
