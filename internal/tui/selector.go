package tui

// Selector is a single-choice control cycled with the arrow keys. An empty
// option is shown as "All".
type Selector struct {
	label   string
	options []string
	index   int
}

// NewSelector creates a selector with the first option selected.
func NewSelector(label string, options []string) *Selector {
	return &Selector{label: label, options: options}
}

// SetOptions replaces the options, keeping the current value when it is
// still present and falling back to the first option otherwise.
func (s *Selector) SetOptions(options []string) {
	current := s.Value()
	s.options = options
	s.index = 0
	for i, opt := range options {
		if opt == current {
			s.index = i
			return
		}
	}
}

// Value returns the selected option, "" when there are none.
func (s *Selector) Value() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.index]
}

// Next selects the following option, wrapping around.
func (s *Selector) Next() {
	if len(s.options) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.options)
}

// Prev selects the preceding option, wrapping around.
func (s *Selector) Prev() {
	if len(s.options) == 0 {
		return
	}
	s.index = (s.index - 1 + len(s.options)) % len(s.options)
}

// Label is the control caption.
func (s *Selector) Label() string {
	return s.label
}

// Display is the selected option as shown to the user.
func (s *Selector) Display() string {
	if v := s.Value(); v != "" {
		return v
	}
	return "All"
}
