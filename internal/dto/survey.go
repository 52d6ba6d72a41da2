package dto

import "time"

// SessionResponse is the current view of one respondent's session
// @Description Survey session state
type SessionResponse struct {
	SessionID     string         `json:"session_id"`
	State         string         `json:"state"`
	Answers       map[string]any `json:"answers"`
	InvalidFields []string       `json:"invalid_fields"`
	Progress      int            `json:"progress"`
}

// SetFieldRequest overwrites one answer key
// @Description Request body for writing a single answer field
type SetFieldRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// ToggleOptionRequest flips one option of a checkbox question
// @Description Request body for toggling a checkbox option
type ToggleOptionRequest struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// SetMatrixRowRequest answers one row of a likert matrix
// @Description Request body for answering a matrix row
type SetMatrixRowRequest struct {
	QuestionID string `json:"question_id"`
	RowID      string `json:"row_id"`
	Value      string `json:"value"`
}

type ProgressResponse struct {
	SessionID string `json:"session_id"`
	Progress  int    `json:"progress"`
}

// ValidationResponse lists the questions that block submission
type ValidationResponse struct {
	Valid         bool     `json:"valid"`
	InvalidFields []string `json:"invalid_fields"`
	FirstInvalid  string   `json:"first_invalid,omitempty"`
}

// PayloadColumn is one cell of the flattened sheet row
type PayloadColumn struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// PayloadResponse is the row that a submit would send, in column order
type PayloadResponse struct {
	SessionID string          `json:"session_id"`
	Columns   []PayloadColumn `json:"columns"`
}

// SubmitResponse reports the outcome of one submit attempt
// @Description Submission result
type SubmitResponse struct {
	Status        string     `json:"status"`
	State         string     `json:"state"`
	InvalidFields []string   `json:"invalid_fields,omitempty"`
	FirstInvalid  string     `json:"first_invalid,omitempty"`
	Message       string     `json:"message,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
}

type KPIResponse struct {
	Participation  string `json:"participation"`
	Satisfaction   string `json:"satisfaction"`
	SolutionsBuilt string `json:"solutions_built"`
	HoursSaved     string `json:"hours_saved"`
}

// DistributionResponse compares a before/after percentage distribution
type DistributionResponse struct {
	Labels []string `json:"labels"`
	Before []int    `json:"before"`
	After  []int    `json:"after"`
}

type RankedItem struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Max   int    `json:"max"`
}

// DashboardResponse is the simulated program analytics view
// @Description Aggregated program impact dashboard
type DashboardResponse struct {
	Respondents      int                  `json:"respondents"`
	Divisions        int                  `json:"divisions"`
	KPI              KPIResponse          `json:"kpi"`
	Mindset          DistributionResponse `json:"mindset"`
	Speed            DistributionResponse `json:"speed"`
	TopBarriers      []RankedItem         `json:"top_barriers"`
	TopImpacts       []RankedItem         `json:"top_impacts"`
	RecordedRows     *int64               `json:"recorded_rows,omitempty"`
	SimulatedDataset bool                 `json:"simulated_dataset"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
