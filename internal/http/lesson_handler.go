package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/classtime/internal/application"
)

// LessonHandler exposes lesson lifecycle operations over HTTP.
type LessonHandler struct {
	lessons *application.LessonService
	resp    responder
}

// NewLessonHandler wires the handler to the lesson service.
func NewLessonHandler(lessons *application.LessonService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		lessons: lessons,
		resp:    newResponder(logger),
	}
}

type createLessonRequest struct {
	OrgID     string  `json:"org_id"`
	GroupID   string  `json:"group_id"`
	TeacherID string  `json:"teacher_id"`
	RoomID    string  `json:"room_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Note      *string `json:"note"`
}

// Create handles POST /lessons.
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	date, err := parseDateField("date", req.Date)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}
	start, err := parseClockTime("start_time", req.StartTime)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}
	end, err := parseClockTime("end_time", req.EndTime)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}

	lesson, err := h.lessons.CreateAdHocLesson(r.Context(), application.LessonInput{
		OrgID:     req.OrgID,
		GroupID:   req.GroupID,
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		Date:      date,
		Start:     start,
		End:       end,
		Note:      req.Note,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusCreated, newLessonView(lesson))
}

// Get handles GET /lessons/{lessonID}.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessons.GetLesson(r.Context(), chi.URLParam(r, "lessonID"))
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, newLessonView(lesson))
}

type rescheduleLessonRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

// Reschedule handles POST /lessons/{lessonID}/reschedule.
func (h *LessonHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req rescheduleLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	date, err := parseDateField("date", req.Date)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}
	start, err := parseClockTime("start_time", req.StartTime)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}
	end, err := parseClockTime("end_time", req.EndTime)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}

	lesson, err := h.lessons.RescheduleLesson(r.Context(), chi.URLParam(r, "lessonID"), application.RescheduleInput{
		Date:   date,
		Start:  start,
		End:    end,
		Reason: req.Reason,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, newLessonView(lesson))
}

// Complete handles POST /lessons/{lessonID}/complete.
func (h *LessonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessons.CompleteLesson(r.Context(), chi.URLParam(r, "lessonID"))
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, newLessonView(lesson))
}

type cancelLessonRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /lessons/{lessonID}/cancel.
func (h *LessonHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelLessonRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.resp.writeBadRequest(w, "invalid request body")
			return
		}
	}

	lesson, err := h.lessons.CancelLesson(r.Context(), chi.URLParam(r, "lessonID"), req.Reason)
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, newLessonView(lesson))
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

// UpdateNote handles PUT /lessons/{lessonID}/note.
func (h *LessonHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	lesson, err := h.lessons.UpdateLessonNote(r.Context(), chi.URLParam(r, "lessonID"), req.Note)
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, newLessonView(lesson))
}
