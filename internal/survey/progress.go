package survey

import (
	"math"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/logger"

	"go.uber.org/zap"
)

// Progress returns the share of required fields answered, 0-100.
// A visible sub-question adds one to both counts it takes part in, so the
// denominator moves with the parent's answer. With nothing required the
// survey is complete. A fault while computing yields 0.
func Progress(questions []*domain.Question, a domain.Answers) (percent int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("Progress computation failed, reporting 0", zap.Any("panic", r))
			percent = 0
		}
	}()

	total, answered := 0, 0
	for _, q := range questions {
		if !q.Required {
			continue
		}

		total++
		if ShapeOf(q.Type).Answered(q, a) {
			answered++
		}

		if subQuestionActive(q, a) {
			total++
			if subQuestionAnswered(q, a) {
				answered++
			}
		}
	}

	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(answered) / float64(total)))
}
