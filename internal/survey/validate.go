package survey

import (
	"sort"

	"pulse-survey/internal/domain"
)

// InvalidSet holds the field ids flagged as invalid. Only membership matters.
type InvalidSet map[string]struct{}

func (s InvalidSet) Add(id string) { s[id] = struct{}{} }

func (s InvalidSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted, for stable output.
func (s InvalidSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate returns every required field that is currently unanswered.
// A visible but unanswered sub-question flags both itself and its parent.
func Validate(questions []*domain.Question, a domain.Answers) InvalidSet {
	invalid := InvalidSet{}
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if !ShapeOf(q.Type).Answered(q, a) {
			invalid.Add(q.ID)
		}
		if subQuestionActive(q, a) && !subQuestionAnswered(q, a) {
			invalid.Add(q.ID)
			invalid.Add(q.SubQuestion.ID)
		}
	}
	return invalid
}

// FirstInvalid returns the id of the first question in document order that
// is flagged, either directly or through its sub-question.
func FirstInvalid(questions []*domain.Question, invalid InvalidSet) (string, bool) {
	if len(invalid) == 0 {
		return "", false
	}
	for _, q := range questions {
		if invalid.Has(q.ID) {
			return q.ID, true
		}
		if q.SubQuestion != nil && invalid.Has(q.SubQuestion.ID) {
			return q.ID, true
		}
	}
	return "", false
}
