package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/RitamPal26/student-progress-site/codeforces"
	"github.com/RitamPal26/student-progress-site/models"
	"github.com/RitamPal26/student-progress-site/repositories"
)

// inactivityThreshold is how long a student may go without a submission
// before the sweep sends a reminder. The comparison is strict: a latest
// submission exactly this old does not trigger one.
const inactivityThreshold = 7 * 24 * time.Hour

// Notifier dispatches an inactivity reminder to a student.
type Notifier interface {
	Notify(ctx context.Context, student *models.Student) error
}

// SyncService reconciles students against the judge. SyncStudent pulls one
// student's full history and merges it into storage; SyncAllStudents runs
// the nightly sweep over everyone, including the inactivity check.
type SyncService interface {
	SyncStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	SyncAllStudents(ctx context.Context) (*models.SweepReport, error)
}

type syncService struct {
	studentRepo    repositories.StudentRepository
	contestRepo    repositories.ContestRepository
	submissionRepo repositories.SubmissionRepository
	judge          codeforces.Client
	notifier       Notifier
	logger         *slog.Logger
	now            func() time.Time
}

func NewSyncService(
	studentRepo repositories.StudentRepository,
	contestRepo repositories.ContestRepository,
	submissionRepo repositories.SubmissionRepository,
	judge codeforces.Client,
	notifier Notifier,
	logger *slog.Logger,
) SyncService {
	return &syncService{
		studentRepo:    studentRepo,
		contestRepo:    contestRepo,
		submissionRepo: submissionRepo,
		judge:          judge,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// SyncStudent re-fetches the student's full rating and submission history
// and reconciles it into storage. The write order is fixed: contest upserts,
// then the student's rating aggregates, then submission upserts, then the
// problems-solved back-fill computed from the just-fetched batch. Every
// write is an upsert on a unique key, so running the sync twice with the
// same upstream data leaves storage unchanged.
func (s *syncService) SyncStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	history, err := s.judge.FetchRatingHistory(ctx, student.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	if len(history) > 0 {
		if err := s.reconcileContests(ctx, student, history); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
		if err := s.updateAggregates(ctx, student, history); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
	}

	submissions, err := s.judge.FetchSubmissions(ctx, student.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	if len(submissions) > 0 {
		if err := s.reconcileSubmissions(ctx, student, submissions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
		if err := s.backfillProblemsSolved(ctx, student, submissions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
	}

	return student, nil
}

// reconcileContests upserts one contest row per rating-history entry, keyed
// by (student, contest). problems_solved starts at zero for new rows and is
// corrected by the back-fill pass.
func (s *syncService) reconcileContests(ctx context.Context, student *models.Student, history []codeforces.RatingChange) error {
	for _, rc := range history {
		contest := &models.Contest{
			StudentID:      student.ID,
			ContestID:      rc.ContestID,
			ContestName:    rc.ContestName,
			Rank:           rc.Rank,
			RatingChange:   rc.NewRating - rc.OldRating,
			NewRating:      rc.NewRating,
			ProblemsSolved: 0,
			ContestDate:    time.Unix(rc.RatingUpdateTimeSeconds, 0).UTC(),
		}
		if err := s.contestRepo.Upsert(ctx, contest); err != nil {
			return fmt.Errorf("upsert contest %d: %w", rc.ContestID, err)
		}
	}
	return nil
}

// updateAggregates recomputes the student's current and max rating from the
// full history. The feed is sorted by update time first rather than trusted
// to arrive chronologically, so "current" is always the latest contest.
func (s *syncService) updateAggregates(ctx context.Context, student *models.Student, history []codeforces.RatingChange) error {
	sorted := make([]codeforces.RatingChange, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RatingUpdateTimeSeconds < sorted[j].RatingUpdateTimeSeconds
	})

	current := sorted[len(sorted)-1].NewRating
	max := sorted[0].NewRating
	for _, rc := range sorted[1:] {
		if rc.NewRating > max {
			max = rc.NewRating
		}
	}

	syncedAt := s.now().UTC()
	if err := s.studentRepo.UpdateRatings(ctx, student.ID, current, max, syncedAt); err != nil {
		return fmt.Errorf("update rating aggregates: %w", err)
	}

	student.CurrentRating = current
	student.MaxRating = max
	student.LastSyncedAt = &syncedAt
	return nil
}

// reconcileSubmissions upserts one row per submission, keyed by the judge's
// globally unique submission id.
func (s *syncService) reconcileSubmissions(ctx context.Context, student *models.Student, submissions []codeforces.Submission) error {
	for _, sub := range submissions {
		var contestID *int
		if sub.ContestID != 0 {
			id := sub.ContestID
			contestID = &id
		}

		record := &models.Submission{
			StudentID:      student.ID,
			SubmissionID:   sub.ID,
			ProblemID:      fmt.Sprintf("%d-%s", sub.Problem.ContestID, sub.Problem.Index),
			ProblemName:    sub.Problem.Name,
			ProblemRating:  sub.Problem.Rating,
			Verdict:        sub.Verdict,
			SubmissionTime: time.Unix(sub.CreationTimeSeconds, 0).UTC(),
			ContestID:      contestID,
		}
		if err := s.submissionRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("upsert submission %d: %w", sub.ID, err)
		}
	}
	return nil
}

// backfillProblemsSolved counts accepted submissions per contest in the
// fetched batch and overwrites problems_solved for each matching contest
// row. Overwrite, not increment, so a repeated full-history sync converges
// to the same counts.
func (s *syncService) backfillProblemsSolved(ctx context.Context, student *models.Student, submissions []codeforces.Submission) error {
	solvedByContest := make(map[int]int)
	for _, sub := range submissions {
		if sub.Verdict == models.VerdictAccepted && sub.ContestID != 0 {
			solvedByContest[sub.ContestID]++
		}
	}

	for contestID, solved := range solvedByContest {
		if err := s.contestRepo.UpdateProblemsSolved(ctx, student.ID, contestID, solved); err != nil {
			return fmt.Errorf("back-fill contest %d: %w", contestID, err)
		}
	}
	return nil
}

// SyncAllStudents runs one sweep: every student is fetched, reconciled and
// checked for inactivity in sequence. A failure for one student is recorded
// in the report and the sweep moves on to the next.
func (s *syncService) SyncAllStudents(ctx context.Context) (*models.SweepReport, error) {
	report := &models.SweepReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
	}

	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students for sweep: %w", err)
	}
	report.Total = len(students)

	for i := range students {
		student := &students[i]

		if _, err := s.SyncStudent(ctx, student); err != nil {
			s.logger.Error("student sync failed",
				slog.Int("student_id", student.ID),
				slog.String("handle", student.Handle),
				slog.Any("error", err),
			)
			report.Failed++
			report.Failures = append(report.Failures, models.SweepFailure{
				StudentID: student.ID,
				Handle:    student.Handle,
				Reason:    err.Error(),
			})
			continue
		}
		report.Synced++

		if err := s.checkInactivity(ctx, student); err != nil {
			s.logger.Error("inactivity check failed",
				slog.Int("student_id", student.ID),
				slog.Any("error", err),
			)
		}
	}

	report.FinishedAt = s.now().UTC()
	return report, nil
}

// checkInactivity sends a reminder when a reminder-enabled student has no
// submissions at all, or none newer than the threshold. It runs after the
// student's reconcile so the check sees freshly synced data. The reminder
// counter increments once the send invocation succeeds.
func (s *syncService) checkInactivity(ctx context.Context, student *models.Student) error {
	if !student.EmailRemindersEnabled {
		return nil
	}

	latest, err := s.submissionRepo.LatestTime(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("latest submission time: %w", err)
	}

	cutoff := s.now().Add(-inactivityThreshold)
	if latest != nil && !latest.Before(cutoff) {
		return nil
	}

	if err := s.notifier.Notify(ctx, student); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	if err := s.studentRepo.IncrementReminderCount(ctx, student.ID); err != nil {
		return fmt.Errorf("increment reminder count: %w", err)
	}
	student.ReminderCount++

	s.logger.Info("inactivity reminder sent",
		slog.Int("student_id", student.ID),
		slog.String("handle", student.Handle),
	)
	return nil
}
