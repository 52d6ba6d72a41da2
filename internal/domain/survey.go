package domain

// QuestionType tags how a question is rendered and how its answer is shaped.
type QuestionType string

const (
	TypeText                QuestionType = "TEXT"
	TypeTextarea            QuestionType = "TEXTAREA"
	TypeDropdown            QuestionType = "DROPDOWN"
	TypeRadio               QuestionType = "RADIO"
	TypeConditionalRadio    QuestionType = "CONDITIONAL_RADIO"
	TypeCheckbox            QuestionType = "CHECKBOX"
	TypeCheckboxWithText    QuestionType = "CHECKBOX_WITH_TEXT"
	TypeMultiSelectCheckbox QuestionType = "MULTI_SELECT_CHECKBOX"
	TypeGroupedCheckbox     QuestionType = "GROUPED_CHECKBOX"
	TypeSliderPair          QuestionType = "SLIDER_PAIR"
	TypeLikertMatrix        QuestionType = "LIKERT_MATRIX"
)

// QuestionTypes lists every supported type in declaration order.
var QuestionTypes = []QuestionType{
	TypeText,
	TypeTextarea,
	TypeDropdown,
	TypeRadio,
	TypeConditionalRadio,
	TypeCheckbox,
	TypeCheckboxWithText,
	TypeMultiSelectCheckbox,
	TypeGroupedCheckbox,
	TypeSliderPair,
	TypeLikertMatrix,
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsCheckboxFamily reports whether answers of this type are selection lists.
func (t QuestionType) IsCheckboxFamily() bool {
	switch t {
	case TypeCheckbox, TypeCheckboxWithText, TypeMultiSelectCheckbox, TypeGroupedCheckbox:
		return true
	}
	return false
}

// IsSingleChoice reports whether answers of this type are one option value.
func (t QuestionType) IsSingleChoice() bool {
	switch t {
	case TypeRadio, TypeDropdown, TypeConditionalRadio:
		return true
	}
	return false
}

// Option is one selectable choice of a question.
type Option struct {
	Value          string `yaml:"value" json:"value"`
	Label          string `yaml:"label" json:"label"`
	HasTextInput   bool   `yaml:"has_text_input,omitempty" json:"has_text_input,omitempty"`
	TextInputLabel string `yaml:"text_input_label,omitempty" json:"text_input_label,omitempty"`
	Group          string `yaml:"group,omitempty" json:"group,omitempty"`
	// Exclusive options clear every other selection of a checkbox set.
	Exclusive bool `yaml:"exclusive,omitempty" json:"exclusive,omitempty"`
}

// SubQuestion is shown (and required) only while the parent answer is one of TriggerValues.
type SubQuestion struct {
	ID            string       `yaml:"id" json:"id"`
	Text          string       `yaml:"text" json:"text"`
	Type          QuestionType `yaml:"type" json:"type"`
	Options       []Option     `yaml:"options" json:"options"`
	TriggerValues []string     `yaml:"trigger_values" json:"trigger_values"`
}

// Triggered reports whether the parent value opens the sub-question.
func (s *SubQuestion) Triggered(parentValue string) bool {
	for _, v := range s.TriggerValues {
		if v == parentValue {
			return true
		}
	}
	return false
}

// MatrixRow is one statement of a rating matrix.
type MatrixRow struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Question is a single survey prompt.
type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Text        string       `yaml:"text" json:"text"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Type        QuestionType `yaml:"type" json:"type"`
	Required    bool         `yaml:"required" json:"required"`
	Options     []Option     `yaml:"options,omitempty" json:"options,omitempty"`
	Limit       int          `yaml:"limit,omitempty" json:"limit,omitempty"`
	SubQuestion *SubQuestion `yaml:"sub_question,omitempty" json:"sub_question,omitempty"`
	Rows        []MatrixRow  `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// FindOption returns the option with the given value, if any.
func (q *Question) FindOption(value string) (*Option, bool) {
	return findOption(q.Options, value)
}

// OptionLabel resolves a stored value to its label, falling back to the raw value.
func (q *Question) OptionLabel(value string) string {
	return optionLabel(q.Options, value)
}

// OptionLabel resolves a stored value to its label, falling back to the raw value.
func (s *SubQuestion) OptionLabel(value string) string {
	return optionLabel(s.Options, value)
}

func findOption(opts []Option, value string) (*Option, bool) {
	for i := range opts {
		if opts[i].Value == value {
			return &opts[i], true
		}
	}
	return nil, false
}

func optionLabel(opts []Option, value string) string {
	if opt, ok := findOption(opts, value); ok {
		return opt.Label
	}
	return value
}

// Section groups questions under a heading.
type Section struct {
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

// Schema is the whole survey definition. It is immutable once loaded.
type Schema struct {
	Title    string    `yaml:"title" json:"title"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Questions flattens all sections into one document-order list.
func (s *Schema) Questions() []*Question {
	var out []*Question
	for i := range s.Sections {
		for j := range s.Sections[i].Questions {
			out = append(out, &s.Sections[i].Questions[j])
		}
	}
	return out
}

// Question looks a question up by id.
func (s *Schema) Question(id string) (*Question, bool) {
	for _, q := range s.Questions() {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}
