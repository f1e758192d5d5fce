package models

import "time"

// VerdictAccepted is the judge's verdict string for an accepted submission.
const VerdictAccepted = "OK"

// Submission is one judged submission of a student. SubmissionID is the
// judge's globally unique id; re-sync upserts on it, so a full re-fetch
// never duplicates rows. ProblemRating is nil for unrated problems and
// ContestID is nil for out-of-contest submissions.
type Submission struct {
	ID             int       `json:"id" db:"id"`
	StudentID      int       `json:"student_id" db:"student_id"`
	SubmissionID   int64     `json:"submission_id" db:"submission_id"`
	ProblemID      string    `json:"problem_id" db:"problem_id"`
	ProblemName    string    `json:"problem_name" db:"problem_name"`
	ProblemRating  *int      `json:"problem_rating,omitempty" db:"problem_rating"`
	Verdict        string    `json:"verdict" db:"verdict"`
	SubmissionTime time.Time `json:"submission_time" db:"submission_time"`
	ContestID      *int      `json:"contest_id,omitempty" db:"contest_id"`
}
