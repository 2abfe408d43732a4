package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/classtime/internal/persistence"
)

// OrganizationInput captures caller provided tenant fields.
type OrganizationInput struct {
	Name     string
	Timezone string
}

// UserInput captures caller provided staff account fields.
type UserInput struct {
	OrgID       string
	DisplayName string
	Email       string
	Role        string
}

// RoomInput captures caller provided classroom fields.
type RoomInput struct {
	OrgID    string
	Name     string
	Capacity int
}

// GroupInput captures caller provided student group fields.
type GroupInput struct {
	OrgID         string
	Name          string
	SubjectID     string
	EnrolledCount int
}

// DirectoryService manages the organizations, users, rooms, and groups the
// timetabling core resolves its references against.
type DirectoryService struct {
	directory   persistence.DirectoryRepository
	idGenerator func() string
	now         func() time.Time
	logger      *zap.Logger
}

// NewDirectoryService wires dependencies for directory operations.
func NewDirectoryService(directory persistence.DirectoryRepository, idGenerator func() string, now func() time.Time, logger *zap.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		directory:   directory,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateOrganization registers a new tenant.
func (s *DirectoryService) CreateOrganization(ctx context.Context, input OrganizationInput) (persistence.Organization, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	} else if _, err := time.LoadLocation(timezone); err != nil {
		vErr.add("timezone", "unknown timezone")
	}
	if vErr.HasErrors() {
		return persistence.Organization{}, vErr
	}

	createdAt := s.now()
	org := persistence.Organization{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Timezone:  timezone,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := s.directory.CreateOrganization(ctx, org); err != nil {
		return persistence.Organization{}, mapRepoError(err)
	}
	return org, nil
}

// CreateUser registers a staff account within an organization.
func (s *DirectoryService) CreateUser(ctx context.Context, input UserInput) (persistence.User, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		vErr.add("email", "email is required")
	}
	switch input.Role {
	case persistence.RoleTeacher, persistence.RoleAdmin, persistence.RoleStaff:
	default:
		vErr.add("role", "role must be teacher, admin, or staff")
	}
	if vErr.HasErrors() {
		return persistence.User{}, vErr
	}

	if _, err := s.directory.GetOrganization(ctx, input.OrgID); err != nil {
		return persistence.User{}, mapRepoError(err)
	}

	createdAt := s.now()
	user := persistence.User{
		ID:          s.idGenerator(),
		OrgID:       input.OrgID,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Email:       strings.TrimSpace(input.Email),
		Role:        input.Role,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := s.directory.CreateUser(ctx, user); err != nil {
		return persistence.User{}, mapRepoError(err)
	}
	return user, nil
}

// CreateRoom registers a classroom within an organization.
func (s *DirectoryService) CreateRoom(ctx context.Context, input RoomInput) (persistence.Room, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity must not be negative")
	}
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	if _, err := s.directory.GetOrganization(ctx, input.OrgID); err != nil {
		return persistence.Room{}, mapRepoError(err)
	}

	createdAt := s.now()
	room := persistence.Room{
		ID:        s.idGenerator(),
		OrgID:     input.OrgID,
		Name:      strings.TrimSpace(input.Name),
		Capacity:  input.Capacity,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := s.directory.CreateRoom(ctx, room); err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	return room, nil
}

// CreateGroup registers a student group within an organization.
func (s *DirectoryService) CreateGroup(ctx context.Context, input GroupInput) (persistence.Group, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.SubjectID) == "" {
		vErr.add("subject_id", "subject is required")
	}
	if input.EnrolledCount < 0 {
		vErr.add("enrolled_count", "enrolled count must not be negative")
	}
	if vErr.HasErrors() {
		return persistence.Group{}, vErr
	}

	if _, err := s.directory.GetOrganization(ctx, input.OrgID); err != nil {
		return persistence.Group{}, mapRepoError(err)
	}

	createdAt := s.now()
	group := persistence.Group{
		ID:            s.idGenerator(),
		OrgID:         input.OrgID,
		Name:          strings.TrimSpace(input.Name),
		SubjectID:     strings.TrimSpace(input.SubjectID),
		EnrolledCount: input.EnrolledCount,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := s.directory.CreateGroup(ctx, group); err != nil {
		return persistence.Group{}, mapRepoError(err)
	}
	return group, nil
}
