package validation

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/dto"
	"pulse-survey/internal/util"
)

const (
	maxKeyLength   = 128
	maxTextLength  = 5000
	maxListLength  = 100
	maxSliderValue = 100
)

var answerKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID checks that a session id is a canonical ULID.
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(sessionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !util.IsULID(sessionID) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", sessionID))
	}
	return errors
}

// ValidateSetFieldRequest checks the key format and the shape of the value.
// Values are text, numbers, booleans, lists of text, or row maps.
func (v *Validator) ValidateSetFieldRequest(req *dto.SetFieldRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, validateIdentifier("key", req.Key)...)

	switch val := req.Value.(type) {
	case nil, bool, float64:
	case string:
		if n := utf8.RuneCountInString(val); n > maxTextLength {
			errors = append(errors, domain.NewOutOfRangeError("value", n, 0, maxTextLength))
		}
	case []any:
		if len(val) > maxListLength {
			errors = append(errors, domain.NewOutOfRangeError("value", len(val), 0, maxListLength))
		}
		for _, item := range val {
			if _, ok := item.(string); !ok {
				errors = append(errors, domain.NewInvalidFormatError("value", "list items must be strings"))
				break
			}
		}
	case map[string]any:
		for _, item := range val {
			if _, ok := item.(string); !ok {
				errors = append(errors, domain.NewInvalidFormatError("value", "row values must be strings"))
				break
			}
		}
	default:
		errors = append(errors, domain.NewInvalidFormatError("value", "unsupported value type"))
	}
	return errors
}

// ValidateSliderValue checks a value written to one half of a slider pair.
// It must be a number on the 0-100 scale; nil clears it.
func (v *Validator) ValidateSliderValue(value any) domain.ValidationErrors {
	switch val := value.(type) {
	case nil:
		return nil
	case float64:
		if val < 0 || val > maxSliderValue || math.IsNaN(val) {
			return domain.ValidationErrors{domain.NewOutOfRangeError("value", int(val), 0, maxSliderValue)}
		}
		return nil
	}
	return domain.ValidationErrors{domain.NewInvalidFormatError("value", "slider values must be numbers")}
}

func (v *Validator) ValidateToggleOptionRequest(req *dto.ToggleOptionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, validateIdentifier("question_id", req.QuestionID)...)
	if req.Value == "" {
		errors = append(errors, domain.NewMissingFieldError("value"))
	}
	return errors
}

func (v *Validator) ValidateSetMatrixRowRequest(req *dto.SetMatrixRowRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, validateIdentifier("question_id", req.QuestionID)...)
	errors = append(errors, validateIdentifier("row_id", req.RowID)...)
	if req.Value == "" {
		errors = append(errors, domain.NewMissingFieldError("value"))
	}
	return errors
}

func validateIdentifier(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if len(value) > maxKeyLength || !answerKeyPattern.MatchString(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}
