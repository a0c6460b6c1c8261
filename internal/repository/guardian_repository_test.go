package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

func newGuardianRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGuardianRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newGuardianRepoMock(t)
	defer cleanup()

	repo := NewGuardianRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_guardians")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rel := &models.GuardianRelationship{StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipFather}
	require.NoError(t, repo.Create(context.Background(), rel))
	assert.False(t, rel.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryCreateDuplicateKey(t *testing.T) {
	db, mock, cleanup := newGuardianRepoMock(t)
	defer cleanup()

	repo := NewGuardianRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_guardians")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "student_guardians_pkey"})

	rel := &models.GuardianRelationship{StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipMother}
	err := repo.Create(context.Background(), rel)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newGuardianRepoMock(t)
	defer cleanup()

	repo := NewGuardianRepository(db)
	rows := sqlmock.NewRows([]string{"student_id", "student_name", "guardian_id", "guardian_name", "relationship"}).
		AddRow("s1", "Student One", "g1", "Guardian One", "FATHER").
		AddRow("s1", "Student One", "g2", "Guardian Two", "OTHER")
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_guardians sg")).
		WithArgs("s1").
		WillReturnRows(rows)

	details, err := repo.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, models.RelationshipFather, details[0].Kind)
	assert.Equal(t, "Guardian Two", details[1].GuardianName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryListByStudentEmpty(t *testing.T) {
	db, mock, cleanup := newGuardianRepoMock(t)
	defer cleanup()

	repo := NewGuardianRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_guardians sg")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "student_name", "guardian_id", "guardian_name", "relationship"}))

	details, err := repo.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, details)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryUpdateKindMissing(t *testing.T) {
	db, mock, cleanup := newGuardianRepoMock(t)
	defer cleanup()

	repo := NewGuardianRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_guardians SET relationship")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	key := models.GuardianKey{StudentID: "s1", GuardianID: "g1"}
	err := repo.UpdateKind(context.Background(), key, models.RelationshipOther)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newGuardianRepoMock(t)
	defer cleanup()

	repo := NewGuardianRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_guardians")).
		WithArgs("s1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), models.GuardianKey{StudentID: "s1", GuardianID: "g1"}))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_guardians")).
		WithArgs("s1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), models.GuardianKey{StudentID: "s1", GuardianID: "g1"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
