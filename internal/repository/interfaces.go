package repository

import (
	"context"

	"github.com/alshifa-clinic/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id string) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context) ([]model.User, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.Doctor, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, department *model.Department) error
		Get(ctx context.Context, id string) (*model.Department, error)
		GetByName(ctx context.Context, name string) (*model.Department, error)
		Update(ctx context.Context, department *model.Department) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.Department, error)
	}

	AppointmentRepository interface {
		// AppendIfFree adds the appointment, re-checking the doctor and
		// patient slot against the committed collection inside the write. It
		// fails with DoctorSlotTaken or PatientSlotTaken if a racing booking
		// won the slot after the caller's availability check.
		AppendIfFree(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id string) (*model.Appointment, error)
		// UpdateStatus replaces only the status field of the record, after
		// the guard (may be nil) approves the freshly loaded record.
		UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus, guard func(*model.Appointment) error) error
		UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.Appointment, error)
	}
)
