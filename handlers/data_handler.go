package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/RitamPal26/student-progress-site/services"
)

// DataHandler serves the windowed read queries over reconciled data.
type DataHandler struct {
	analytics services.AnalyticsService
}

func NewDataHandler(analytics services.AnalyticsService) *DataHandler {
	return &DataHandler{analytics: analytics}
}

// Contests handles GET /api/data/contests?studentId=&range=.
func (h *DataHandler) Contests(w http.ResponseWriter, r *http.Request) {
	studentID, err := studentIDQuery(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	rangeDays, err := rangeQuery(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	contests, err := h.analytics.ContestsInRange(r.Context(), studentID, rangeDays)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, contests); err != nil {
		serverErrorResponse(w, err)
	}
}

// Submissions handles GET /api/data/submissions?studentId=&after=. The
// after parameter accepts RFC 3339 or a plain date; omitted means the full
// history.
func (h *DataHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	studentID, err := studentIDQuery(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var after *time.Time
	if raw := r.URL.Query().Get("after"); raw != "" {
		ts, err := parseTimeParam(raw)
		if err != nil {
			badRequestResponse(w, err)
			return
		}
		after = &ts
	}

	subs, err := h.analytics.SubmissionsSince(r.Context(), studentID, after)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, subs); err != nil {
		serverErrorResponse(w, err)
	}
}

// ProblemSummary handles GET /api/summary/problems?studentId=&range=.
func (h *DataHandler) ProblemSummary(w http.ResponseWriter, r *http.Request) {
	studentID, err := studentIDQuery(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	rangeDays, err := rangeQuery(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	summary, err := h.analytics.ProblemSummary(r.Context(), studentID, rangeDays)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, summary); err != nil {
		serverErrorResponse(w, err)
	}
}

func studentIDQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("studentId")
	if raw == "" {
		return 0, fmt.Errorf("studentId query parameter is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid studentId")
	}
	return id, nil
}

// rangeQuery parses the optional range parameter (days). Zero means "use
// the endpoint's default window".
func rangeQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, fmt.Errorf("invalid range: must be a positive number of days")
	}
	return days, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid after: expected RFC 3339 timestamp or YYYY-MM-DD date")
}
