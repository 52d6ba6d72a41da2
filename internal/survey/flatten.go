package survey

import (
	"time"

	"pulse-survey/internal/domain"
)

const (
	// SubmittedAtHeader is always the first column of a row.
	SubmittedAtHeader = "Submitted At"

	// SubmittedAtLayout matches the en-US locale date-time form.
	SubmittedAtLayout = "1/2/2006, 3:04:05 PM"
)

// Flatten turns the answers into one human-readable sheet row.
//
// Headers are question texts, so two questions sharing a text share a
// column and the later one wins. A question owning a sub-question always gets
// the sub-question column right after its own, filled only while the
// sub-question is visible and answered, so every row has the same columns.
func Flatten(sections []domain.Section, a domain.Answers, submittedAt time.Time) *Payload {
	p := NewPayload()
	p.Set(SubmittedAtHeader, submittedAt.Format(SubmittedAtLayout))

	for si := range sections {
		for qi := range sections[si].Questions {
			q := &sections[si].Questions[qi]
			for _, cell := range ShapeOf(q.Type).Cells(q, a) {
				p.Set(cell.Header, cell.Value)
			}
			// matrix rows are the whole output for a matrix question
			if q.Type == domain.TypeLikertMatrix || q.SubQuestion == nil {
				continue
			}
			p.Set(q.SubQuestion.Text, subQuestionLabel(q, a))
		}
	}
	return p
}

func subQuestionLabel(q *domain.Question, a domain.Answers) string {
	if !subQuestionActive(q, a) || !a.Truthy(q.SubQuestion.ID) {
		return ""
	}
	return q.SubQuestion.OptionLabel(a.String(q.SubQuestion.ID))
}
