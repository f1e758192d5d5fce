package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/RitamPal26/student-progress-site/services"
)

type StudentHandler struct {
	students services.StudentService
}

func NewStudentHandler(students services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List handles GET /api/students.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, students); err != nil {
		serverErrorResponse(w, err)
	}
}

// Get handles GET /api/students/{id}.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	student, err := h.students.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, student); err != nil {
		serverErrorResponse(w, err)
	}
}

// Create handles POST /api/students. The created student is synced against
// the judge before the response is written.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateStudentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	student, err := h.students.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, student); err != nil {
		serverErrorResponse(w, err)
	}
}

// Update handles PUT /api/students/{id} and re-syncs the student afterwards.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.UpdateStudentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	student, err := h.students.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, student); err != nil {
		serverErrorResponse(w, err)
	}
}

// Delete handles DELETE /api/students/{id}.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.students.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Student deleted successfully"}); err != nil {
		serverErrorResponse(w, err)
	}
}

// Sync handles POST /api/students/{id}/sync, the manual resync endpoint. It
// returns the refreshed student aggregate.
func (h *StudentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	student, err := h.students.Resync(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, student); err != nil {
		serverErrorResponse(w, err)
	}
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid student id")
	}
	return id, nil
}
