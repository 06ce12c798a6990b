// Package kv implements the repository interfaces on top of the versioned
// entity store. Each collection is one JSON array under its own key; reads
// decode the whole array and writes go through the store's compare-and-swap
// update loop.
package kv

import (
	"github.com/alshifa-clinic/booking-api/internal/repository"
	"github.com/alshifa-clinic/booking-api/internal/store"
)

type userRepository struct {
	store *store.Store
}

type doctorRepository struct {
	store *store.Store
}

type departmentRepository struct {
	store *store.Store
}

type appointmentRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) repository.UserRepository {
	return &userRepository{store: s}
}

func NewDoctorRepository(s *store.Store) repository.DoctorRepository {
	return &doctorRepository{store: s}
}

func NewDepartmentRepository(s *store.Store) repository.DepartmentRepository {
	return &departmentRepository{store: s}
}

func NewAppointmentRepository(s *store.Store) repository.AppointmentRepository {
	return &appointmentRepository{store: s}
}
