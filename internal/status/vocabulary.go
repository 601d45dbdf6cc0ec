// Package status holds the closed status vocabularies shared by intake and triage.
package status

import (
	"fmt"
	"strings"

	"estate_leads_backend/internal/common"
)

// Color is the badge color a screen renders for a state.
type Color string

const (
	Gray   Color = "gray"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Purple Color = "purple"
	Orange Color = "orange"
	Red    Color = "red"
)

// State is one entry of a vocabulary.
type State struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color Color  `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// Badge is what a list row renders for a status value.
type Badge struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color Color  `json:"color"`
	Icon  string `json:"icon,omitempty"`
	Known bool   `json:"known"`
}

// Vocabulary is an ordered, closed set of states. Any member may replace any
// other member; no transition order is enforced.
type Vocabulary struct {
	kind   string
	states []State
	index  map[string]int
}

// New builds a vocabulary. It panics on duplicate values since vocabularies are
// package-level declarations.
func New(kind string, states ...State) *Vocabulary {
	v := &Vocabulary{kind: kind, states: states, index: make(map[string]int, len(states))}
	for i, s := range states {
		if _, dup := v.index[s.Value]; dup {
			panic(fmt.Sprintf("status: duplicate value %q in %s vocabulary", s.Value, kind))
		}
		v.index[s.Value] = i
	}
	return v
}

func (v *Vocabulary) Kind() string { return v.kind }

// Values returns the state values in declaration order.
func (v *Vocabulary) Values() []string {
	out := make([]string, len(v.states))
	for i, s := range v.states {
		out[i] = s.Value
	}
	return out
}

// States returns a copy of the states in declaration order.
func (v *Vocabulary) States() []State {
	out := make([]State, len(v.states))
	copy(out, v.states)
	return out
}

func (v *Vocabulary) Contains(value string) bool {
	_, ok := v.index[value]
	return ok
}

// Badge renders value. Unknown values fall back to the neutral style and keep the
// raw string as their label.
func (v *Vocabulary) Badge(value string) Badge {
	if i, ok := v.index[value]; ok {
		s := v.states[i]
		return Badge{Value: s.Value, Label: s.Label, Color: s.Color, Icon: s.Icon, Known: true}
	}
	return Badge{Value: value, Label: value, Color: Gray}
}

// Validate rejects values outside the vocabulary.
func (v *Vocabulary) Validate(value string) error {
	if v.Contains(value) {
		return nil
	}
	return common.NewValidationAPIError(map[string]interface{}{
		"status":         fmt.Sprintf("%q is not a valid %s status.", value, strings.ReplaceAll(v.kind, "_", " ")),
		"valid_statuses": v.Values(),
	})
}
