package models

import "time"

// Contest is one rated contest participation of a student.
// Unique per (student_id, contest_id); re-sync upserts on that key.
type Contest struct {
	ID             int       `json:"id" db:"id"`
	StudentID      int       `json:"student_id" db:"student_id"`
	ContestID      int       `json:"contest_id" db:"contest_id"`
	ContestName    string    `json:"contest_name" db:"contest_name"`
	Rank           int       `json:"rank" db:"rank"`
	RatingChange   int       `json:"rating_change" db:"rating_change"`
	NewRating      int       `json:"new_rating" db:"new_rating"`
	ProblemsSolved int       `json:"problems_solved" db:"problems_solved"`
	ContestDate    time.Time `json:"contest_date" db:"contest_date"`
}
