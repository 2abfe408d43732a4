package application

import (
	"context"

	"github.com/example/classtime/internal/persistence"
)

// Directory lookups shared by the schedule and lesson services. Every lookup
// is scoped to the caller's organization; a record owned by another tenant
// is reported as not found rather than leaked.

func lookupGroup(ctx context.Context, directory persistence.DirectoryRepository, orgID, groupID string) (persistence.Group, error) {
	group, err := directory.GetGroup(ctx, groupID)
	if err != nil {
		return persistence.Group{}, mapRepoError(err)
	}
	if group.OrgID != orgID {
		return persistence.Group{}, ErrNotFound
	}
	return group, nil
}

// lookupTeacher resolves the user and requires the teacher role. A missing
// user is a not-found failure; an existing user without the role is a
// conflict, so the two render differently.
func lookupTeacher(ctx context.Context, directory persistence.DirectoryRepository, orgID, teacherID string) (persistence.User, error) {
	teacher, err := directory.GetUser(ctx, teacherID)
	if err != nil {
		return persistence.User{}, mapRepoError(err)
	}
	if teacher.OrgID != orgID {
		return persistence.User{}, ErrNotFound
	}
	if teacher.Role != persistence.RoleTeacher {
		return persistence.User{}, conflictf("user %s does not hold the teacher role", teacherID)
	}
	return teacher, nil
}

func lookupRoom(ctx context.Context, directory persistence.DirectoryRepository, orgID, roomID string) (persistence.Room, error) {
	room, err := directory.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	if room.OrgID != orgID {
		return persistence.Room{}, ErrNotFound
	}
	return room, nil
}
