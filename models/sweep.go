package models

import "time"

// SweepFailure records why one student could not be processed during a sweep.
type SweepFailure struct {
	StudentID int    `json:"student_id"`
	Handle    string `json:"handle"`
	Reason    string `json:"reason"`
}

// SweepReport summarizes one full pass of the sync pipeline over every
// tracked student. A failure of one student never aborts the sweep, it is
// collected here instead.
type SweepReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Total      int            `json:"total"`
	Synced     int            `json:"synced"`
	Failed     int            `json:"failed"`
	Failures   []SweepFailure `json:"failures,omitempty"`
}
