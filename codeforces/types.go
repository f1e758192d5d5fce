package codeforces

import "encoding/json"

// apiResponse is the envelope every Codeforces API method returns. A call
// can fail with HTTP 200 and status "FAILED", in which case Comment carries
// the reason.
type apiResponse struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

const statusOK = "OK"

// RatingChange is one entry of a handle's rating history
// (user.rating method).
type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

// Problem identifies the problem a submission was made against. Rating is
// nil for problems Codeforces has not assigned a difficulty to.
type Problem struct {
	ContestID int    `json:"contestId"`
	Index     string `json:"index"`
	Name      string `json:"name"`
	Rating    *int   `json:"rating"`
}

// Submission is one verdict event of a handle's submission history
// (user.status method). ContestID is zero for out-of-contest submissions.
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
	Verdict             string  `json:"verdict"`
}
