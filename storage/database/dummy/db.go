package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mwalimu/edusight/core/student"
)

type (
	DB struct {
		student *studentTable
	}

	studentTable struct {
		sync.RWMutex
		table map[uuid.UUID]*student.Student
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[uuid.UUID]*student.Student)},
	}
	return db, nil
}
