// Package intake is the multi-step lead intake engine: form definitions, draft
// state, file caps and the guarded submit shared by every customer form.
package intake

import (
	"fmt"
	"sort"
	"sync"
)

// FieldKind is the input type of a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindEmail    FieldKind = "email"
	KindPhone    FieldKind = "phone"
	KindSelect   FieldKind = "select"
	KindFile     FieldKind = "file"
	KindCheckbox FieldKind = "checkbox"
)

// Field is one input of a form.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	// MaxBytes caps each file of a file field.
	MaxBytes int64 `json:"max_bytes,omitempty"`
	Multiple bool  `json:"multiple,omitempty"`
	// Accept lists content type prefixes, e.g. "image/".
	Accept []string `json:"accept,omitempty"`
}

// Step groups the fields shown on one page of a form.
type Step struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Form is a named, ordered sequence of steps.
type Form struct {
	Name         string         `json:"name"`
	Title        string         `json:"title"`
	RequiresAuth bool           `json:"requires_auth"`
	Steps        []Step         `json:"steps"`
	Defaults     map[string]any `json:"defaults,omitempty"`

	// ReferencePrefix starts the receipt reference, e.g. "LST".
	ReferencePrefix string `json:"-"`

	fields map[string]Field
}

// Validate checks the definition and indexes its fields. Every field name must
// be unique across steps and file fields must carry a cap.
func (f *Form) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("intake: form without a name")
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("intake: form %q has no steps", f.Name)
	}
	f.fields = make(map[string]Field)
	for i, step := range f.Steps {
		if len(step.Fields) == 0 {
			return fmt.Errorf("intake: form %q step %d has no fields", f.Name, i+1)
		}
		for _, field := range step.Fields {
			if field.Name == "" {
				return fmt.Errorf("intake: form %q step %d has an unnamed field", f.Name, i+1)
			}
			if _, dup := f.fields[field.Name]; dup {
				return fmt.Errorf("intake: form %q defines field %q twice", f.Name, field.Name)
			}
			if field.Kind == KindFile && field.MaxBytes <= 0 {
				return fmt.Errorf("intake: file field %q of form %q needs a size cap", field.Name, f.Name)
			}
			if field.Kind == KindSelect && len(field.Options) == 0 {
				return fmt.Errorf("intake: select field %q of form %q has no options", field.Name, f.Name)
			}
			f.fields[field.Name] = field
		}
	}
	for name := range f.Defaults {
		if _, ok := f.fields[name]; !ok {
			return fmt.Errorf("intake: form %q has a default for unknown field %q", f.Name, name)
		}
	}
	return nil
}

// Field looks up a field by name.
func (f *Form) Field(name string) (Field, bool) {
	field, ok := f.fields[name]
	return field, ok
}

// StepCount is N, the number of steps.
func (f *Form) StepCount() int { return len(f.Steps) }

// Fields returns all fields in step order.
func (f *Form) Fields() []Field {
	var out []Field
	for _, step := range f.Steps {
		out = append(out, step.Fields...)
	}
	return out
}

// Registry holds the forms the API serves.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

func NewRegistry(forms ...*Form) (*Registry, error) {
	r := &Registry{forms: make(map[string]*Form)}
	for _, f := range forms {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(f *Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[f.Name]; exists {
		return fmt.Errorf("intake: form %q already registered", f.Name)
	}
	r.forms[f.Name] = f
	return nil
}

func (r *Registry) Get(name string) (*Form, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.forms[name]
	return f, ok
}

// List returns the forms sorted by name.
func (r *Registry) List() []*Form {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Form, 0, len(r.forms))
	for _, f := range r.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
