package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/RitamPal26/student-progress-site/models"
)

type ContestRepository interface {
	// Upsert inserts or overwrites one contest participation keyed by
	// (student_id, contest_id), which makes a full re-sync idempotent.
	Upsert(ctx context.Context, contest *models.Contest) error
	// UpdateProblemsSolved back-fills the solved counter for one contest.
	// A contest id the student never participated in is a no-op.
	UpdateProblemsSolved(ctx context.Context, studentID, contestID, solved int) error
	// ListByStudentSince returns a student's contests dated from or after
	// the given time, ascending by contest date.
	ListByStudentSince(ctx context.Context, studentID int, from time.Time) ([]models.Contest, error)
}

type postgresContestRepository struct {
	db *sql.DB
}

func NewPostgresContestRepository(db *sql.DB) ContestRepository {
	return &postgresContestRepository{db: db}
}

func (r *postgresContestRepository) Upsert(ctx context.Context, contest *models.Contest) error {
	query := `
		INSERT INTO contests (student_id, contest_id, contest_name, rank, rating_change, new_rating, problems_solved, contest_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id, contest_id) DO UPDATE SET
			contest_name = EXCLUDED.contest_name,
			rank = EXCLUDED.rank,
			rating_change = EXCLUDED.rating_change,
			new_rating = EXCLUDED.new_rating,
			contest_date = EXCLUDED.contest_date
		RETURNING id`

	// problems_solved is deliberately left out of the update set: the
	// placeholder only applies on first insert, the back-fill pass owns
	// the column afterwards.
	return r.db.QueryRowContext(ctx, query,
		contest.StudentID,
		contest.ContestID,
		contest.ContestName,
		contest.Rank,
		contest.RatingChange,
		contest.NewRating,
		contest.ProblemsSolved,
		contest.ContestDate,
	).Scan(&contest.ID)
}

func (r *postgresContestRepository) UpdateProblemsSolved(ctx context.Context, studentID, contestID, solved int) error {
	query := `UPDATE contests SET problems_solved = $1 WHERE student_id = $2 AND contest_id = $3`

	_, err := r.db.ExecContext(ctx, query, solved, studentID, contestID)
	return err
}

func (r *postgresContestRepository) ListByStudentSince(ctx context.Context, studentID int, from time.Time) ([]models.Contest, error) {
	query := `
		SELECT id, student_id, contest_id, contest_name, rank, rating_change, new_rating, problems_solved, contest_date
		FROM contests
		WHERE student_id = $1 AND contest_date >= $2
		ORDER BY contest_date ASC`

	rows, err := r.db.QueryContext(ctx, query, studentID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contests := make([]models.Contest, 0)
	for rows.Next() {
		var c models.Contest
		if err := rows.Scan(
			&c.ID, &c.StudentID, &c.ContestID, &c.ContestName,
			&c.Rank, &c.RatingChange, &c.NewRating,
			&c.ProblemsSolved, &c.ContestDate,
		); err != nil {
			return nil, err
		}
		contests = append(contests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contests, nil
}
