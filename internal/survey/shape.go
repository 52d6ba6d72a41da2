// Package survey implements the survey engine: answer shapes per question
// type, validation, progress, payload flattening and the answer store.
package survey

import (
	"fmt"
	"strings"

	"pulse-survey/internal/domain"
)

// Cell is one column of a flattened payload row.
type Cell struct {
	Header string
	Value  string
}

// AnswerShape is the per-type contract shared by validation, progress and
// flattening. A required question is invalid exactly when Answered is false.
type AnswerShape interface {
	Answered(q *domain.Question, a domain.Answers) bool
	Cells(q *domain.Question, a domain.Answers) []Cell
}

var (
	scalar   AnswerShape = scalarShape{}
	choice   AnswerShape = choiceShape{}
	checkbox AnswerShape = checkboxShape{}
	slider   AnswerShape = sliderShape{}
	matrix   AnswerShape = matrixShape{}
)

// ShapeOf returns the answer shape for a question type.
func ShapeOf(t domain.QuestionType) AnswerShape {
	switch t {
	case domain.TypeText, domain.TypeTextarea:
		return scalar
	case domain.TypeDropdown, domain.TypeRadio, domain.TypeConditionalRadio:
		return choice
	case domain.TypeCheckbox, domain.TypeCheckboxWithText, domain.TypeMultiSelectCheckbox, domain.TypeGroupedCheckbox:
		return checkbox
	case domain.TypeSliderPair:
		return slider
	case domain.TypeLikertMatrix:
		return matrix
	}
	panic(fmt.Sprintf("survey: no answer shape for question type %q", t))
}

// hasValue is the generic presence test: absent, "" and empty lists fail.
func hasValue(a domain.Answers, key string) bool {
	v, ok := a.Lookup(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

// subQuestionActive reports whether q's sub-question is currently visible.
func subQuestionActive(q *domain.Question, a domain.Answers) bool {
	if q.Type != domain.TypeConditionalRadio || q.SubQuestion == nil {
		return false
	}
	return q.SubQuestion.Triggered(a.String(q.ID))
}

func subQuestionAnswered(q *domain.Question, a domain.Answers) bool {
	return hasValue(a, q.SubQuestion.ID)
}

func single(q *domain.Question, value string) []Cell {
	return []Cell{{Header: q.Text, Value: value}}
}

type scalarShape struct{}

func (scalarShape) Answered(q *domain.Question, a domain.Answers) bool {
	return hasValue(a, q.ID)
}

func (scalarShape) Cells(q *domain.Question, a domain.Answers) []Cell {
	return single(q, a.String(q.ID))
}

type choiceShape struct{}

func (choiceShape) Answered(q *domain.Question, a domain.Answers) bool {
	return hasValue(a, q.ID)
}

func (choiceShape) Cells(q *domain.Question, a domain.Answers) []Cell {
	value := a.String(q.ID)
	if value == "" {
		return single(q, "")
	}

	label := q.OptionLabel(value)
	opt, found := q.FindOption(value)
	if value == "other" || value == "Other" || (found && opt.HasTextInput) {
		if specific := domain.OptionTextKey(q.ID, value); a.Truthy(specific) {
			label += fmt.Sprintf(" (%s)", a.String(specific))
		} else if legacy := domain.OtherKey(q.ID); a.Truthy(legacy) {
			label += fmt.Sprintf(" (%s)", a.String(legacy))
		}
	}
	return single(q, label)
}

type checkboxShape struct{}

func (checkboxShape) Answered(q *domain.Question, a domain.Answers) bool {
	return hasValue(a, q.ID)
}

func (checkboxShape) Cells(q *domain.Question, a domain.Answers) []Cell {
	selected, ok := a.Strings(q.ID)
	if !ok {
		return single(q, "")
	}

	parts := make([]string, 0, len(selected))
	for _, value := range selected {
		text := q.OptionLabel(value)
		if key := domain.OptionTextKey(q.ID, value); a.Truthy(key) {
			text += fmt.Sprintf(" (%s)", a.String(key))
		}
		parts = append(parts, text)
	}
	return single(q, strings.Join(parts, ", "))
}

type sliderShape struct{}

// Zero is a valid slider position; only absence fails.
func (sliderShape) Answered(q *domain.Question, a domain.Answers) bool {
	return a.Has(domain.BeforeKey(q.ID)) && a.Has(domain.NowKey(q.ID))
}

func (s sliderShape) Cells(q *domain.Question, a domain.Answers) []Cell {
	if !s.Answered(q, a) {
		return single(q, "")
	}
	return single(q, fmt.Sprintf("Before: %s%%, Now: %s%%",
		a.String(domain.BeforeKey(q.ID)), a.String(domain.NowKey(q.ID))))
}

type matrixShape struct{}

// A matrix is answered when every declared row holds a non-empty value.
func (matrixShape) Answered(q *domain.Question, a domain.Answers) bool {
	rows := a.Rows(q.ID)
	for _, row := range q.Rows {
		if rows[row.ID] == "" {
			return false
		}
	}
	return true
}

// Cells emits one column per row and no combined column. Row answers are
// shown by option label when the scale defines one.
func (matrixShape) Cells(q *domain.Question, a domain.Answers) []Cell {
	rows := a.Rows(q.ID)
	cells := make([]Cell, 0, len(q.Rows))
	for _, row := range q.Rows {
		value := rows[row.ID]
		if value != "" {
			value = q.OptionLabel(value)
		}
		cells = append(cells, Cell{
			Header: fmt.Sprintf("%s [%s]", q.Text, row.Text),
			Value:  value,
		})
	}
	return cells
}
