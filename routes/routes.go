package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/RitamPal26/student-progress-site/handlers"
)

// SetupRoutes assembles the full route table on the given router.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	studentHandler *handlers.StudentHandler,
	dataHandler *handlers.DataHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "Origin"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Student Progress Management System API"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Get("/", studentHandler.List)
			r.Post("/", studentHandler.Create)
			r.Get("/{id}", studentHandler.Get)
			r.Put("/{id}", studentHandler.Update)
			r.Delete("/{id}", studentHandler.Delete)
			r.Post("/{id}/sync", studentHandler.Sync)
		})

		r.Route("/data", func(r chi.Router) {
			r.Get("/contests", dataHandler.Contests)
			r.Get("/submissions", dataHandler.Submissions)
		})

		r.Get("/summary/problems", dataHandler.ProblemSummary)
	})
}
