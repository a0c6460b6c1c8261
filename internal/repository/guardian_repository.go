package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

const pqUniqueViolation = "23505"

const guardianDetailColumns = `sg.student_id, s.full_name AS student_name,
        sg.guardian_id, g.full_name AS guardian_name, sg.relationship`

// GuardianRepository persists student↔guardian relationships. The composite
// (student_id, guardian_id) primary key enforces pair uniqueness at the
// store, so concurrent inserts on the same pair cannot both succeed.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository constructs the repository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// Create inserts a relationship record. A duplicate composite key surfaces
// as a Conflict error; the existing record is left untouched.
func (r *GuardianRepository) Create(ctx context.Context, rel *models.GuardianRelationship) error {
	now := time.Now().UTC()
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = now
	}
	rel.UpdatedAt = now

	const query = `INSERT INTO student_guardians (student_id, guardian_id, relationship, created_at, updated_at)
        VALUES (:student_id, :guardian_id, :relationship, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rel); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "relationship already exists")
		}
		return fmt.Errorf("create relationship: %w", err)
	}
	return nil
}

// FindByKey returns the relationship with the exact composite key.
func (r *GuardianRepository) FindByKey(ctx context.Context, key models.GuardianKey) (*models.GuardianRelationship, error) {
	const query = `SELECT student_id, guardian_id, relationship, created_at, updated_at
        FROM student_guardians WHERE student_id = $1 AND guardian_id = $2 LIMIT 1`
	var rel models.GuardianRelationship
	if err := r.db.GetContext(ctx, &rel, query, key.StudentID, key.GuardianID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find relationship: %w", err)
	}
	return &rel, nil
}

// ListByStudent returns all relationships of a student joined with both
// identities' display names.
func (r *GuardianRepository) ListByStudent(ctx context.Context, studentID string) ([]models.GuardianRelationshipDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM student_guardians sg
        JOIN users s ON s.id = sg.student_id
        JOIN users g ON g.id = sg.guardian_id
        WHERE sg.student_id = $1
        ORDER BY g.full_name ASC`, guardianDetailColumns)
	details := []models.GuardianRelationshipDetail{}
	if err := r.db.SelectContext(ctx, &details, query, studentID); err != nil {
		return nil, fmt.Errorf("list guardians of student: %w", err)
	}
	return details, nil
}

// ListByGuardian returns all relationships of a guardian.
func (r *GuardianRepository) ListByGuardian(ctx context.Context, guardianID string) ([]models.GuardianRelationshipDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM student_guardians sg
        JOIN users s ON s.id = sg.student_id
        JOIN users g ON g.id = sg.guardian_id
        WHERE sg.guardian_id = $1
        ORDER BY s.full_name ASC`, guardianDetailColumns)
	details := []models.GuardianRelationshipDetail{}
	if err := r.db.SelectContext(ctx, &details, query, guardianID); err != nil {
		return nil, fmt.Errorf("list students of guardian: %w", err)
	}
	return details, nil
}

// UpdateKind changes the relationship kind for the composite key. The key
// itself is immutable. sql.ErrNoRows is returned when the pair is absent.
func (r *GuardianRepository) UpdateKind(ctx context.Context, key models.GuardianKey, kind models.RelationshipKind) error {
	const query = `UPDATE student_guardians SET relationship = $3, updated_at = $4
        WHERE student_id = $1 AND guardian_id = $2`
	res, err := r.db.ExecContext(ctx, query, key.StudentID, key.GuardianID, kind, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update relationship kind: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the relationship with the exact composite key.
// sql.ErrNoRows is returned when the pair is absent.
func (r *GuardianRepository) Delete(ctx context.Context, key models.GuardianKey) error {
	const query = `DELETE FROM student_guardians WHERE student_id = $1 AND guardian_id = $2`
	res, err := r.db.ExecContext(ctx, query, key.StudentID, key.GuardianID)
	if err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
