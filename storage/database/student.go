package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mwalimu/edusight/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	const q = `
		INSERT INTO students (
			id, name, age, gender, attendance_rate, prior_score,
			study_hours_per_week, parental_involvement, extracurricular_count,
			created_at, updated_at
		) VALUES (
			:id, :name, :age, :gender, :attendance_rate, :prior_score,
			:study_hours_per_week, :parental_involvement, :extracurricular_count,
			:created_at, :updated_at
		)`
	if _, err := repo.db.NamedExecContext(ctx, q, st); err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	if err := repo.db.SelectContext(ctx, &students, `SELECT * FROM students ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id uuid.UUID) (student.Student, error) {
	var st student.Student
	err := repo.db.GetContext(ctx, &st, `SELECT * FROM students WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		clauses = append(clauses, "lower(name) LIKE "+arg("%"+strings.ToLower(filter.Search)+"%"))
	}
	if filter.Gender != "" {
		clauses = append(clauses, "gender = "+arg(filter.Gender))
	}
	if filter.Involvement != "" {
		clauses = append(clauses, "parental_involvement = "+arg(filter.Involvement))
	}
	if !filter.CreatedFrom.IsZero() {
		clauses = append(clauses, "created_at >= "+arg(filter.CreatedFrom))
	}
	if !filter.CreatedTo.IsZero() {
		clauses = append(clauses, "created_at <= "+arg(filter.CreatedTo))
	}

	q := `SELECT * FROM students`
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY created_at"

	var students []student.Student
	if err := repo.db.SelectContext(ctx, &students, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	const q = `
		UPDATE students SET
			name = :name, age = :age, gender = :gender,
			attendance_rate = :attendance_rate, prior_score = :prior_score,
			study_hours_per_week = :study_hours_per_week,
			parental_involvement = :parental_involvement,
			extracurricular_count = :extracurricular_count,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, st)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = ANY($1)`, pq.Array(strIDs)); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
