package models

// ProblemSummary aggregates a student's accepted submissions inside a time
// window. When no accepted submissions fall in the window all counters are
// zero and Top is nil.
type ProblemSummary struct {
	TotalSolved int         `json:"total_solved"`
	AvgRating   float64     `json:"avg_rating"`
	MaxRating   int         `json:"max_rating"`
	Top         *Submission `json:"top,omitempty"`
}
