package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mwalimu/edusight/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, st := range repo.db.table {
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.Before(students[j].CreatedAt) })
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id uuid.UUID) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	if filter.Search != "" {
		var filtered []student.Student
		search := strings.ToLower(filter.Search)
		for _, st := range students {
			if strings.Contains(strings.ToLower(st.Name), search) {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}

	if filter.Gender != "" {
		var filtered []student.Student
		for _, st := range students {
			if st.Gender == filter.Gender {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}

	if filter.Involvement != "" {
		var filtered []student.Student
		for _, st := range students {
			if st.ParentalInvolvement == filter.Involvement {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}

	if !filter.CreatedFrom.IsZero() {
		var filtered []student.Student
		for _, st := range students {
			if !st.CreatedAt.Before(filter.CreatedFrom) {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}

	if !filter.CreatedTo.IsZero() {
		var filtered []student.Student
		for _, st := range students {
			if !st.CreatedAt.After(filter.CreatedTo) {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}

	return students, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
