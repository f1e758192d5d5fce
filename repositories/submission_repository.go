package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RitamPal26/student-progress-site/models"
)

type SubmissionRepository interface {
	// Upsert inserts or overwrites one submission keyed by the judge's
	// globally unique submission id.
	Upsert(ctx context.Context, submission *models.Submission) error
	// ListByStudent returns a student's submissions, newest first. A nil
	// after returns the full history, otherwise only submissions at or
	// after the cutoff.
	ListByStudent(ctx context.Context, studentID int, after *time.Time) ([]models.Submission, error)
	// ListAcceptedSince returns accepted submissions at or after the given
	// time, ascending by submission time.
	ListAcceptedSince(ctx context.Context, studentID int, from time.Time) ([]models.Submission, error)
	// LatestTime returns the most recent submission time of a student, or
	// nil when the student has no submissions at all.
	LatestTime(ctx context.Context, studentID int) (*time.Time, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

const submissionColumns = `id, student_id, submission_id, problem_id, problem_name,
	problem_rating, verdict, submission_time, contest_id`

func (r *postgresSubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (student_id, submission_id, problem_id, problem_name, problem_rating, verdict, submission_time, contest_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (submission_id) DO UPDATE SET
			problem_id = EXCLUDED.problem_id,
			problem_name = EXCLUDED.problem_name,
			problem_rating = EXCLUDED.problem_rating,
			verdict = EXCLUDED.verdict,
			submission_time = EXCLUDED.submission_time,
			contest_id = EXCLUDED.contest_id
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		submission.StudentID,
		submission.SubmissionID,
		submission.ProblemID,
		submission.ProblemName,
		submission.ProblemRating,
		submission.Verdict,
		submission.SubmissionTime,
		submission.ContestID,
	).Scan(&submission.ID)
}

func (r *postgresSubmissionRepository) ListByStudent(ctx context.Context, studentID int, after *time.Time) ([]models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE student_id = $1 AND ($2::timestamptz IS NULL OR submission_time >= $2)
		ORDER BY submission_time DESC`

	return r.list(ctx, query, studentID, after)
}

func (r *postgresSubmissionRepository) ListAcceptedSince(ctx context.Context, studentID int, from time.Time) ([]models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE student_id = $1 AND verdict = $2 AND submission_time >= $3
		ORDER BY submission_time ASC`

	return r.list(ctx, query, studentID, models.VerdictAccepted, from)
}

func (r *postgresSubmissionRepository) LatestTime(ctx context.Context, studentID int) (*time.Time, error) {
	query := `
		SELECT submission_time
		FROM submissions
		WHERE student_id = $1
		ORDER BY submission_time DESC
		LIMIT 1`

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, studentID).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

func (r *postgresSubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]models.Submission, 0)
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.SubmissionID, &s.ProblemID, &s.ProblemName,
			&s.ProblemRating, &s.Verdict, &s.SubmissionTime, &s.ContestID,
		); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}
