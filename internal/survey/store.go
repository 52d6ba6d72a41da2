package survey

import (
	"pulse-survey/internal/domain"
)

const (
	// SeededSliderID is the one slider pair whose "before" half starts preset.
	SeededSliderID = "q11_time_spent"
	// SeededSliderBefore is the preset "before" value of SeededSliderID.
	SeededSliderBefore = 65
)

// DefaultAnswers builds the answers a fresh respondent starts with.
func DefaultAnswers(questions []*domain.Question) domain.Answers {
	a := domain.Answers{}
	for _, q := range questions {
		if q.Type == domain.TypeSliderPair && q.ID == SeededSliderID {
			a[domain.BeforeKey(q.ID)] = float64(SeededSliderBefore)
		}
	}
	return a
}

// Store holds one respondent's answers and the fields currently flagged
// invalid. It is not safe for concurrent use; callers serialize access.
type Store struct {
	answers domain.Answers
	invalid InvalidSet
}

// NewStore wraps answers; nil starts empty.
func NewStore(answers domain.Answers) *Store {
	if answers == nil {
		answers = domain.Answers{}
	}
	return &Store{answers: answers, invalid: InvalidSet{}}
}

// SetField overwrites one field and clears its error marker. This is the only
// way answers change.
func (s *Store) SetField(key string, value any) {
	s.answers[key] = value
	s.ClearFieldError(key)
}

// ClearFieldError drops a single error marker without revalidating.
func (s *Store) ClearFieldError(key string) {
	delete(s.invalid, key)
}

// RevalidateAll replaces the error markers with a full validation pass.
func (s *Store) RevalidateAll(questions []*domain.Question) InvalidSet {
	s.invalid = Validate(questions, s.answers)
	return s.Invalid()
}

// Invalid returns a copy of the current error markers.
func (s *Store) Invalid() InvalidSet {
	out := make(InvalidSet, len(s.invalid))
	for id := range s.invalid {
		out.Add(id)
	}
	return out
}

// Answers returns a deep copy of the answers.
func (s *Store) Answers() domain.Answers {
	return s.answers.Clone()
}

// ToggleOption flips one option of a checkbox-family question and stores the
// resulting selection. A bounded multi-select ignores picks past its limit;
// exclusive options replace the whole selection and are dropped when any
// other option is picked. Grouped checkboxes toggle freely.
func (s *Store) ToggleOption(q *domain.Question, value string) []string {
	current, _ := s.answers.Strings(q.ID)
	next := append([]string(nil), current...)

	if i := indexOf(next, value); i >= 0 {
		next = append(next[:i], next[i+1:]...)
		s.SetField(q.ID, next)
		return next
	}

	if q.Type == domain.TypeGroupedCheckbox {
		next = append(next, value)
		s.SetField(q.ID, next)
		return next
	}

	if q.Limit > 0 && len(next) >= q.Limit {
		s.SetField(q.ID, next)
		return next
	}
	if opt, ok := q.FindOption(value); ok && opt.Exclusive {
		next = []string{value}
		s.SetField(q.ID, next)
		return next
	}

	kept := next[:0]
	for _, v := range next {
		if opt, ok := q.FindOption(v); ok && opt.Exclusive {
			continue
		}
		kept = append(kept, v)
	}
	next = append(kept, value)
	s.SetField(q.ID, next)
	return next
}

// SetMatrixRow stores one row's answer of a rating matrix.
func (s *Store) SetMatrixRow(q *domain.Question, rowID, value string) map[string]string {
	rows := make(map[string]string)
	for k, v := range s.answers.Rows(q.ID) {
		rows[k] = v
	}
	rows[rowID] = value
	s.SetField(q.ID, rows)
	return rows
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
