package handler

import (
	"pulse-survey/internal/domain"
	"pulse-survey/internal/dto"
	"pulse-survey/internal/logger"
	"pulse-survey/internal/middleware"
	"pulse-survey/internal/service"
	"pulse-survey/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// SurveyHandler handles survey and session HTTP requests
type SurveyHandler struct {
	service   service.SurveyService
	validator *validation.Validator
}

// NewSurveyHandler creates a new SurveyHandler instance
func NewSurveyHandler(service service.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.SessionIDKey).(string); ok {
		return id
	}
	return utils.CopyString(c.Params("id"))
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		logger.Get().Debug("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return domain.NewInvalidInputError("invalid request body")
	}
	return nil
}

// GetSurvey godoc
// @Summary Get the survey definition
// @Description Returns every section and question of the survey
// @Tags survey
// @Produce json
// @Success 200 {object} domain.Schema
// @Router /survey [get]
func (h *SurveyHandler) GetSurvey(c *fiber.Ctx) error {
	return c.JSON(h.service.Schema())
}

// CreateSession godoc
// @Summary Start a survey session
// @Description Creates a session seeded with default answers
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.SessionResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SurveyHandler) CreateSession(c *fiber.Ctx) error {
	resp, err := h.service.CreateSession(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get a survey session
// @Description Returns answers, error markers, progress and submission state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SurveyHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.service.GetSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetField godoc
// @Summary Write one answer field
// @Description Overwrites a single answer key and clears its error marker
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SetFieldRequest true "Field and value"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/fields [put]
func (h *SurveyHandler) SetField(c *fiber.Ctx) error {
	var req dto.SetFieldRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateSetFieldRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.SetField(c.UserContext(), sessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ToggleOption godoc
// @Summary Toggle a checkbox option
// @Description Selects or deselects one option, honouring limits and exclusive options
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ToggleOptionRequest true "Question and option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/options/toggle [post]
func (h *SurveyHandler) ToggleOption(c *fiber.Ctx) error {
	var req dto.ToggleOptionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateToggleOptionRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.ToggleOption(c.UserContext(), sessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetMatrixRow godoc
// @Summary Answer a matrix row
// @Description Records the rating for one row of a likert matrix
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SetMatrixRowRequest true "Question, row and rating"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/matrix [put]
func (h *SurveyHandler) SetMatrixRow(c *fiber.Ctx) error {
	var req dto.SetMatrixRowRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateSetMatrixRowRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.SetMatrixRow(c.UserContext(), sessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetProgress godoc
// @Summary Get completion progress
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ProgressResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/progress [get]
func (h *SurveyHandler) GetProgress(c *fiber.Ctx) error {
	resp, err := h.service.Progress(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Validate godoc
// @Summary Validate all answers
// @Description Runs a full validation pass and replaces the session's error markers
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ValidationResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/validate [post]
func (h *SurveyHandler) Validate(c *fiber.Ctx) error {
	resp, err := h.service.Validate(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetPayload godoc
// @Summary Preview the sheet row
// @Description Returns the flattened row a submit would send, without sending it
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.PayloadResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/payload [get]
func (h *SurveyHandler) GetPayload(c *fiber.Ctx) error {
	resp, err := h.service.PayloadPreview(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Submit godoc
// @Summary Submit the survey
// @Description Validates, flattens and sends the answers. Invalid answers and delivery failures are reported in the body.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SubmitResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SurveyHandler) Submit(c *fiber.Ctx) error {
	resp, err := h.service.Submit(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Reset godoc
// @Summary Start the survey over
// @Description Replaces the session's answers with the defaults
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/reset [post]
func (h *SurveyHandler) Reset(c *fiber.Ctx) error {
	resp, err := h.service.Reset(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
