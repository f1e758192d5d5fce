package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RitamPal26/student-progress-site/models"
	"github.com/lib/pq"
)

var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrStudentEmailConflict  = errors.New("student email conflict")
	ErrStudentHandleConflict = errors.New("student handle conflict")
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int) error

	// UpdateRatings overwrites the derived aggregate fields after a sync.
	UpdateRatings(ctx context.Context, id, currentRating, maxRating int, syncedAt time.Time) error
	// IncrementReminderCount bumps the reminder counter after a reminder
	// has been dispatched.
	IncrementReminderCount(ctx context.Context, id int) error
}

type postgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) StudentRepository {
	return &postgresStudentRepository{db: db}
}

const studentColumns = `id, name, email, phone, handle, current_rating, max_rating,
	email_reminders_enabled, reminder_count, last_synced_at, created_at`

func (r *postgresStudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (name, email, phone, handle, email_reminders_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, current_rating, max_rating, reminder_count, created_at`

	err := r.db.QueryRowContext(ctx, query,
		student.Name,
		student.Email,
		student.Phone,
		student.Handle,
		student.EmailRemindersEnabled,
	).Scan(
		&student.ID,
		&student.CurrentRating,
		&student.MaxRating,
		&student.ReminderCount,
		&student.CreatedAt,
	)
	if err != nil {
		return mapStudentConstraintError(err)
	}
	return nil
}

func (r *postgresStudentRepository) GetByID(ctx context.Context, id int) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanStudent(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresStudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Email, &s.Phone, &s.Handle,
			&s.CurrentRating, &s.MaxRating,
			&s.EmailRemindersEnabled, &s.ReminderCount,
			&s.LastSyncedAt, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *postgresStudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			email = $2,
			phone = $3,
			handle = $4,
			email_reminders_enabled = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		student.Name,
		student.Email,
		student.Phone,
		student.Handle,
		student.EmailRemindersEnabled,
		student.ID,
	)
	if err != nil {
		return mapStudentConstraintError(err)
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) Delete(ctx context.Context, id int) error {
	// Contest and submission rows go with the student (ON DELETE CASCADE).
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) UpdateRatings(ctx context.Context, id, currentRating, maxRating int, syncedAt time.Time) error {
	query := `
		UPDATE students SET
			current_rating = $1,
			max_rating = $2,
			last_synced_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, currentRating, maxRating, syncedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) IncrementReminderCount(ctx context.Context, id int) error {
	query := `UPDATE students SET reminder_count = reminder_count + 1 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) scanStudent(row *sql.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.Handle,
		&s.CurrentRating, &s.MaxRating,
		&s.EmailRemindersEnabled, &s.ReminderCount,
		&s.LastSyncedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return &s, nil
}

func mapStudentConstraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		switch pqErr.Constraint {
		case "students_email_key":
			return ErrStudentEmailConflict
		case "students_handle_key":
			return ErrStudentHandleConflict
		}
	}
	return err
}
