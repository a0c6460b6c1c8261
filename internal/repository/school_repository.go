package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/checkus/checkus-api/internal/models"
)

// SchoolRepository provides database access for school records.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository creates a new instance of SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// List returns all schools with their student profile counts.
func (r *SchoolRepository) List(ctx context.Context) ([]models.SchoolDetail, error) {
	const query = `SELECT s.id, s.name, s.created_at, s.updated_at,
        COUNT(sp.user_id) AS student_count
        FROM schools s
        LEFT JOIN student_profiles sp ON sp.school_id = s.id
        GROUP BY s.id, s.name, s.created_at, s.updated_at
        ORDER BY s.name ASC`
	schools := []models.SchoolDetail{}
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// FindByID returns a school with its student count.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.SchoolDetail, error) {
	const query = `SELECT s.id, s.name, s.created_at, s.updated_at,
        COUNT(sp.user_id) AS student_count
        FROM schools s
        LEFT JOIN student_profiles sp ON sp.school_id = s.id
        WHERE s.id = $1
        GROUP BY s.id, s.name, s.created_at, s.updated_at`
	var school models.SchoolDetail
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find school: %w", err)
	}
	return &school, nil
}

// ExistsByName reports whether a school with the given name exists.
func (r *SchoolRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM schools WHERE name = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check school name: %w", err)
	}
	return true, nil
}

// Create inserts a new school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if school.CreatedAt.IsZero() {
		school.CreatedAt = now
	}
	school.UpdatedAt = now
	const query = `INSERT INTO schools (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// UpdateName renames a school.
func (r *SchoolRepository) UpdateName(ctx context.Context, id, name string) error {
	const query = `UPDATE schools SET name = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a school.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schools WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
