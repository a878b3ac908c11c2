package features

import "strings"

// Status is the evaluation outcome of a single feature
type Status int

const (
	// Unresolved marks a feature registered for the current pass but not evaluated yet
	Unresolved Status = iota
	Enabled
	Disabled
)

func (s Status) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unresolved"
	}
}

// Terminal reports whether s is enabled or disabled
func (s Status) Terminal() bool {
	return s == Enabled || s == Disabled
}

// Outcome records how a feature was resolved
type Outcome struct {
	Name   string
	Status Status
	Reason string
	Pass   int
	Libs   []string
}

// State maps feature names to outcomes and remembers declaration order
type State struct {
	order    []string
	outcomes map[string]*Outcome
}

// NewState creates an empty state
func NewState() *State {
	return &State{outcomes: make(map[string]*Outcome)}
}

// Lookup returns the outcome for name
func (s *State) Lookup(name string) (Outcome, bool) {
	o, ok := s.outcomes[name]
	if !ok {
		return Outcome{}, false
	}
	return *o, true
}

// Status returns the status of name, Unresolved when unknown
func (s *State) Status(name string) Status {
	if o, ok := s.outcomes[name]; ok {
		return o.Status
	}
	return Unresolved
}

// Enabled reports whether name resolved enabled
func (s *State) Enabled(name string) bool {
	return s.Status(name) == Enabled
}

// Has reports whether name was declared
func (s *State) Has(name string) bool {
	_, ok := s.outcomes[name]
	return ok
}

// Names returns all declared names in declaration order
func (s *State) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Outcomes returns all outcomes in declaration order
func (s *State) Outcomes() []Outcome {
	out := make([]Outcome, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.outcomes[name])
	}
	return out
}

// EnabledNames returns enabled features in declaration order
func (s *State) EnabledNames() []string {
	return s.namesWith(Enabled)
}

// DisabledNames returns disabled features in declaration order
func (s *State) DisabledNames() []string {
	return s.namesWith(Disabled)
}

func (s *State) namesWith(status Status) []string {
	var names []string
	for _, name := range s.order {
		if s.outcomes[name].Status == status {
			names = append(names, name)
		}
	}
	return names
}

// Defines returns HAVE_<NAME>=1|0 for every terminal feature
func (s *State) Defines() []string {
	var defines []string
	for _, name := range s.order {
		o := s.outcomes[name]
		if !o.Status.Terminal() {
			continue
		}
		value := "0"
		if o.Status == Enabled {
			value = "1"
		}
		defines = append(defines, "HAVE_"+strings.ToUpper(VarName(name))+"="+value)
	}
	return defines
}

func (s *State) register(name string, pass int) {
	s.order = append(s.order, name)
	s.outcomes[name] = &Outcome{Name: name, Status: Unresolved, Pass: pass}
}

func (s *State) resolve(name string, status Status, reason string, libs []string) {
	o := s.outcomes[name]
	o.Status = status
	o.Reason = reason
	if status == Enabled {
		o.Libs = libs
	}
}
