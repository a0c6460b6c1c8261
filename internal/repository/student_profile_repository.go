package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/checkus/checkus-api/internal/models"
)

const profileDetailColumns = `sp.user_id, u.full_name AS student_name, sp.status,
        sp.school_id, sc.name AS school_name, sp.grade, sp.gender`

// StudentProfileRepository provides database access for student profiles.
type StudentProfileRepository struct {
	db *sqlx.DB
}

// NewStudentProfileRepository creates a new instance of StudentProfileRepository.
func NewStudentProfileRepository(db *sqlx.DB) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

// FindByUserID returns the profile of a user.
func (r *StudentProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentProfileDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM student_profiles sp
        JOIN users u ON u.id = sp.user_id
        LEFT JOIN schools sc ON sc.id = sp.school_id
        WHERE sp.user_id = $1`, profileDetailColumns)
	var detail models.StudentProfileDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student profile: %w", err)
	}
	return &detail, nil
}

// Exists reports whether a profile exists for the user.
func (r *StudentProfileRepository) Exists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT 1 FROM student_profiles WHERE user_id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student profile: %w", err)
	}
	return true, nil
}

// Search returns profiles matching the filter with total count.
func (r *StudentProfileRepository) Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfileDetail, int, error) {
	base := `FROM student_profiles sp
        JOIN users u ON u.id = sp.user_id
        LEFT JOIN schools sc ON sc.id = sp.school_id`
	var conditions []string
	var args []interface{}

	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("sp.school_id = $%d", len(args)+1))
		args = append(args, filter.SchoolID)
	}
	if filter.Grade != nil {
		conditions = append(conditions, fmt.Sprintf("sp.grade = $%d", len(args)+1))
		args = append(args, *filter.Grade)
	}
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(u.full_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"student_name": "u.full_name",
		"grade":        "sp.grade",
		"status":       "sp.status",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "u.full_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		profileDetailColumns, base+clause, orderBy, order, size, offset)

	profiles := []models.StudentProfileDetail{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search student profiles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count student profiles: %w", err)
	}
	return profiles, total, nil
}

// ListBySchool returns profiles attached to a school, optionally narrowed to
// a grade.
func (r *StudentProfileRepository) ListBySchool(ctx context.Context, schoolID string, grade *int) ([]models.StudentProfileDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM student_profiles sp
        JOIN users u ON u.id = sp.user_id
        LEFT JOIN schools sc ON sc.id = sp.school_id
        WHERE sp.school_id = $1`, profileDetailColumns)
	args := []interface{}{schoolID}
	if grade != nil {
		query += " AND sp.grade = $2"
		args = append(args, *grade)
	}
	query += " ORDER BY u.full_name ASC"

	profiles := []models.StudentProfileDetail{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("list school profiles: %w", err)
	}
	return profiles, nil
}

// Create inserts a new student profile.
func (r *StudentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO student_profiles (user_id, status, school_id, grade, gender, created_at, updated_at)
        VALUES (:user_id, :status, :school_id, :grade, :gender, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return nil
}

// Update persists mutable fields of a student profile.
func (r *StudentProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_profiles SET status = :status, school_id = :school_id, grade = :grade, gender = :gender, updated_at = :updated_at WHERE user_id = :user_id`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student profile.
func (r *StudentProfileRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM student_profiles WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete student profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
