package service

import (
	"context"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/dto"
	"pulse-survey/internal/logger"

	"go.uber.org/zap"
)

// DashboardService serves the program impact dashboard.
type DashboardService interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	archive domain.SubmissionArchive
}

// NewDashboardService returns the dashboard service. When archive is non-nil
// the number of rows recorded in the ledger is reported alongside the
// simulated figures.
func NewDashboardService(archive domain.SubmissionArchive) DashboardService {
	return &dashboardService{archive: archive}
}

// GetDashboard returns a fixed simulated dataset of 150 respondents across
// 8 divisions. Percentages are distributions over the answer scale.
func (s *dashboardService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{
		Respondents: 150,
		Divisions:   8,
		KPI: dto.KPIResponse{
			Participation:  "142",
			Satisfaction:   "4.2/5",
			SolutionsBuilt: "38",
			HoursSaved:     "850+",
		},
		Mindset: dto.DistributionResponse{
			Labels: []string{"Not Confident", "Slightly", "Moderately", "Confident", "Very Confident"},
			Before: []int{45, 30, 15, 8, 2},
			After:  []int{5, 10, 25, 40, 20},
		},
		Speed: dto.DistributionResponse{
			Labels: []string{"No Idea", "Months+", "Weeks", "Days", "Hours"},
			Before: []int{60, 25, 10, 5, 0},
			After:  []int{5, 10, 30, 40, 15},
		},
		TopBarriers: []dto.RankedItem{
			{Label: "Time Constraints", Value: 65, Max: 100},
			{Label: "Data Access", Value: 42, Max: 100},
			{Label: "Integration Challenges", Value: 38, Max: 100},
			{Label: "Scaling from PoC", Value: 25, Max: 100},
		},
		TopImpacts: []dto.RankedItem{
			{Label: "Complete work faster", Value: 78, Max: 100},
			{Label: "Less repetitive tasks", Value: 72, Max: 100},
			{Label: "Higher quality outputs", Value: 60, Max: 100},
			{Label: "More creative/strategic work", Value: 55, Max: 100},
		},
		SimulatedDataset: true,
	}

	if s.archive != nil {
		count, err := s.archive.Count(ctx)
		if err != nil {
			// The simulated figures are still worth showing.
			logger.Get().Warn("Failed to count recorded submissions", zap.Error(err))
		} else {
			resp.RecordedRows = &count
		}
	}
	return resp, nil
}
