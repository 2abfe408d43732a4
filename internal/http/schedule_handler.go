package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/classtime/internal/application"
)

// ScheduleHandler exposes recurring schedule operations over HTTP.
type ScheduleHandler struct {
	schedules *application.ScheduleService
	lessons   *application.LessonService
	resp      responder
}

// NewScheduleHandler wires the handler to its services.
func NewScheduleHandler(schedules *application.ScheduleService, lessons *application.LessonService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		lessons:   lessons,
		resp:      newResponder(logger),
	}
}

type createScheduleRequest struct {
	OrgID         string `json:"org_id"`
	GroupID       string `json:"group_id"`
	TeacherID     string `json:"teacher_id"`
	RoomID        string `json:"room_id"`
	Weekdays      []int  `json:"weekdays"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to,omitempty"`
}

type createScheduleResponse struct {
	Schedule       scheduleView `json:"schedule"`
	LessonsCreated int          `json:"lessons_created"`
}

// Create handles POST /schedules.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
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
	effectiveFrom, err := parseDateField("effective_from", req.EffectiveFrom)
	if err != nil {
		h.resp.writeBadRequest(w, err.Error())
		return
	}
	var effectiveTo *time.Time
	if req.EffectiveTo != "" {
		to, err := parseDateField("effective_to", req.EffectiveTo)
		if err != nil {
			h.resp.writeBadRequest(w, err.Error())
			return
		}
		effectiveTo = &to
	}

	schedule, lessonsCreated, err := h.schedules.CreateSchedule(r.Context(), application.ScheduleInput{
		OrgID:         req.OrgID,
		GroupID:       req.GroupID,
		TeacherID:     req.TeacherID,
		RoomID:        req.RoomID,
		Weekdays:      req.Weekdays,
		Start:         start,
		End:           end,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}

	h.resp.writeJSON(w, http.StatusCreated, createScheduleResponse{
		Schedule:       newScheduleView(schedule),
		LessonsCreated: lessonsCreated,
	})
}

type listSchedulesResponse struct {
	Schedules []scheduleView `json:"schedules"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageSize  int            `json:"page_size"`
}

// List handles GET /schedules.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	orgID := query.Get("org_id")
	if orgID == "" {
		h.resp.writeBadRequest(w, "org_id is required")
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if page < 1 {
		page = 1
	}

	schedules, total, err := h.schedules.ListSchedules(r.Context(), application.ListSchedulesParams{
		OrgID:     orgID,
		GroupID:   query.Get("group_id"),
		TeacherID: query.Get("teacher_id"),
		RoomID:    query.Get("room_id"),
		SubjectID: query.Get("subject_id"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}

	views := make([]scheduleView, 0, len(schedules))
	for _, schedule := range schedules {
		views = append(views, newScheduleView(schedule))
	}
	h.resp.writeJSON(w, http.StatusOK, listSchedulesResponse{
		Schedules: views,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	})
}

// Get handles GET /schedules/{scheduleID}.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.schedules.GetSchedule(r.Context(), chi.URLParam(r, "scheduleID"))
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, newScheduleView(schedule))
}

// Delete handles DELETE /schedules/{scheduleID}.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.schedules.DeleteSchedule(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusNoContent, nil)
}

// ListLessons handles GET /schedules/{scheduleID}/lessons.
func (h *ScheduleHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var from, to *time.Time
	if value := query.Get("from"); value != "" {
		parsed, err := parseDateField("from", value)
		if err != nil {
			h.resp.writeBadRequest(w, err.Error())
			return
		}
		from = &parsed
	}
	if value := query.Get("to"); value != "" {
		parsed, err := parseDateField("to", value)
		if err != nil {
			h.resp.writeBadRequest(w, err.Error())
			return
		}
		to = &parsed
	}

	lessons, err := h.lessons.ListLessonsBySchedule(r.Context(), chi.URLParam(r, "scheduleID"), from, to)
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, map[string][]lessonView{"lessons": newLessonViews(lessons)})
}
