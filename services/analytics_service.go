package services

import (
	"context"
	"time"

	"github.com/RitamPal26/student-progress-site/models"
	"github.com/RitamPal26/student-progress-site/repositories"
)

const (
	DefaultContestRangeDays = 365
	DefaultSummaryRangeDays = 30
)

// AnalyticsService answers windowed read queries over already-reconciled
// data. No judge calls happen here.
type AnalyticsService interface {
	ContestsInRange(ctx context.Context, studentID, rangeDays int) ([]models.Contest, error)
	SubmissionsSince(ctx context.Context, studentID int, after *time.Time) ([]models.Submission, error)
	ProblemSummary(ctx context.Context, studentID, rangeDays int) (*models.ProblemSummary, error)
}

type analyticsService struct {
	contestRepo    repositories.ContestRepository
	submissionRepo repositories.SubmissionRepository
	now            func() time.Time
}

func NewAnalyticsService(contestRepo repositories.ContestRepository, submissionRepo repositories.SubmissionRepository) AnalyticsService {
	return &analyticsService{
		contestRepo:    contestRepo,
		submissionRepo: submissionRepo,
		now:            time.Now,
	}
}

// ContestsInRange returns the student's contests from the last rangeDays
// days, oldest first. A non-positive range falls back to the default window.
func (s *analyticsService) ContestsInRange(ctx context.Context, studentID, rangeDays int) ([]models.Contest, error) {
	if rangeDays <= 0 {
		rangeDays = DefaultContestRangeDays
	}
	from := s.now().AddDate(0, 0, -rangeDays)
	return s.contestRepo.ListByStudentSince(ctx, studentID, from)
}

// SubmissionsSince returns the student's submissions, optionally only those
// at or after the cutoff. Nil means the full history.
func (s *analyticsService) SubmissionsSince(ctx context.Context, studentID int, after *time.Time) ([]models.Submission, error) {
	return s.submissionRepo.ListByStudent(ctx, studentID, after)
}

// ProblemSummary aggregates the student's accepted submissions inside the
// window: total count, average and maximum problem rating, and the first
// submission that achieved the maximum. Unrated problems count toward the
// total but are excluded from the average. An empty window yields a zeroed
// summary, never an error.
func (s *analyticsService) ProblemSummary(ctx context.Context, studentID, rangeDays int) (*models.ProblemSummary, error) {
	if rangeDays <= 0 {
		rangeDays = DefaultSummaryRangeDays
	}
	from := s.now().AddDate(0, 0, -rangeDays)

	accepted, err := s.submissionRepo.ListAcceptedSince(ctx, studentID, from)
	if err != nil {
		return nil, err
	}

	summary := &models.ProblemSummary{TotalSolved: len(accepted)}

	var ratingSum, ratedCount int
	for i := range accepted {
		sub := accepted[i]
		if sub.ProblemRating == nil {
			continue
		}
		ratingSum += *sub.ProblemRating
		ratedCount++
		if *sub.ProblemRating > summary.MaxRating {
			summary.MaxRating = *sub.ProblemRating
			top := sub
			summary.Top = &top
		}
	}
	if ratedCount > 0 {
		summary.AvgRating = float64(ratingSum) / float64(ratedCount)
	}

	return summary, nil
}
