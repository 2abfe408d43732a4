package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/classtime/internal/application"
)

// DirectoryHandler exposes organization, user, room, and group registration.
type DirectoryHandler struct {
	directory *application.DirectoryService
	resp      responder
}

// NewDirectoryHandler wires the handler to the directory service.
func NewDirectoryHandler(directory *application.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		resp:      newResponder(logger),
	}
}

type createOrganizationRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// CreateOrganization handles POST /organizations.
func (h *DirectoryHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	org, err := h.directory.CreateOrganization(r.Context(), application.OrganizationInput{
		Name:     req.Name,
		Timezone: req.Timezone,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusCreated, newOrganizationView(org))
}

type createUserRequest struct {
	OrgID       string `json:"org_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// CreateUser handles POST /users.
func (h *DirectoryHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.directory.CreateUser(r.Context(), application.UserInput{
		OrgID:       req.OrgID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusCreated, newUserView(user))
}

type createRoomRequest struct {
	OrgID    string `json:"org_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// CreateRoom handles POST /rooms.
func (h *DirectoryHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	room, err := h.directory.CreateRoom(r.Context(), application.RoomInput{
		OrgID:    req.OrgID,
		Name:     req.Name,
		Capacity: req.Capacity,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusCreated, newRoomView(room))
}

type createGroupRequest struct {
	OrgID         string `json:"org_id"`
	Name          string `json:"name"`
	SubjectID     string `json:"subject_id"`
	EnrolledCount int    `json:"enrolled_count"`
}

// CreateGroup handles POST /groups.
func (h *DirectoryHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.writeBadRequest(w, "invalid request body")
		return
	}

	group, err := h.directory.CreateGroup(r.Context(), application.GroupInput{
		OrgID:         req.OrgID,
		Name:          req.Name,
		SubjectID:     req.SubjectID,
		EnrolledCount: req.EnrolledCount,
	})
	if err != nil {
		h.resp.handleServiceError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusCreated, newGroupView(group))
}
