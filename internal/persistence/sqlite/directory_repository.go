package sqlite

import (
	"context"
	"time"

	"github.com/example/classtime/internal/persistence"
)

// DirectoryRepository implements persistence.DirectoryRepository on SQLite.
type DirectoryRepository struct {
	db *DB
}

// NewDirectoryRepository wires a directory repository to the database.
func NewDirectoryRepository(db *DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// CreateOrganization stores a new tenant.
func (r *DirectoryRepository) CreateOrganization(ctx context.Context, org persistence.Organization) error {
	_, err := r.db.sql.ExecContext(ctx, `
		INSERT INTO organizations (id, name, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		org.ID, org.Name, org.Timezone,
		org.CreatedAt.UTC().Format(time.RFC3339),
		org.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetOrganization retrieves a tenant by ID.
func (r *DirectoryRepository) GetOrganization(ctx context.Context, id string) (persistence.Organization, error) {
	var (
		org                  persistence.Organization
		createdAt, updatedAt string
	)
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, name, timezone, created_at, updated_at FROM organizations WHERE id = ?`, id).
		Scan(&org.ID, &org.Name, &org.Timezone, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Organization{}, mapError(err)
	}
	org.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	org.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return org, nil
}

// CreateUser stores a new staff account.
func (r *DirectoryRepository) CreateUser(ctx context.Context, user persistence.User) error {
	_, err := r.db.sql.ExecContext(ctx, `
		INSERT INTO users (id, org_id, display_name, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.OrgID, user.DisplayName, user.Email, user.Role,
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetUser retrieves a staff account by ID.
func (r *DirectoryRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	var (
		user                 persistence.User
		createdAt, updatedAt string
	)
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, org_id, display_name, email, role, created_at, updated_at FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.OrgID, &user.DisplayName, &user.Email, &user.Role, &createdAt, &updatedAt)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	user.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return user, nil
}

// CreateRoom stores a new classroom.
func (r *DirectoryRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	_, err := r.db.sql.ExecContext(ctx, `
		INSERT INTO rooms (id, org_id, name, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		room.ID, room.OrgID, room.Name, room.Capacity,
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetRoom retrieves a classroom by ID.
func (r *DirectoryRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	var (
		room                 persistence.Room
		createdAt, updatedAt string
	)
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, org_id, name, capacity, created_at, updated_at FROM rooms WHERE id = ?`, id).
		Scan(&room.ID, &room.OrgID, &room.Name, &room.Capacity, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}
	room.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	room.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return room, nil
}

// CreateGroup stores a new student group.
func (r *DirectoryRepository) CreateGroup(ctx context.Context, group persistence.Group) error {
	_, err := r.db.sql.ExecContext(ctx, `
		INSERT INTO groups (id, org_id, name, subject_id, enrolled_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.OrgID, group.Name, group.SubjectID, group.EnrolledCount,
		group.CreatedAt.UTC().Format(time.RFC3339),
		group.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetGroup retrieves a student group by ID.
func (r *DirectoryRepository) GetGroup(ctx context.Context, id string) (persistence.Group, error) {
	var (
		group                persistence.Group
		createdAt, updatedAt string
	)
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, org_id, name, subject_id, enrolled_count, created_at, updated_at FROM groups WHERE id = ?`, id).
		Scan(&group.ID, &group.OrgID, &group.Name, &group.SubjectID, &group.EnrolledCount, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Group{}, mapError(err)
	}
	group.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	group.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return group, nil
}
