// Package http wires the timetabling services to their REST surface.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter assembles the chi router with all resource handlers mounted.
func NewRouter(schedules *ScheduleHandler, lessons *LessonHandler, directory *DirectoryHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", schedules.Create)
		r.Get("/", schedules.List)
		r.Get("/{scheduleID}", schedules.Get)
		r.Delete("/{scheduleID}", schedules.Delete)
		r.Get("/{scheduleID}/lessons", schedules.ListLessons)
	})

	r.Route("/lessons", func(r chi.Router) {
		r.Post("/", lessons.Create)
		r.Get("/{lessonID}", lessons.Get)
		r.Post("/{lessonID}/reschedule", lessons.Reschedule)
		r.Post("/{lessonID}/complete", lessons.Complete)
		r.Post("/{lessonID}/cancel", lessons.Cancel)
		r.Put("/{lessonID}/note", lessons.UpdateNote)
	})

	r.Post("/organizations", directory.CreateOrganization)
	r.Post("/users", directory.CreateUser)
	r.Post("/rooms", directory.CreateRoom)
	r.Post("/groups", directory.CreateGroup)

	return r
}
