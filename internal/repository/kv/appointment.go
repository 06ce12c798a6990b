package kv

import (
	"context"
	"fmt"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

// AppendIfFree commits the appointment only if its slot is still free in the
// freshly loaded collection. The check runs inside the CAS loop, so a racing
// booking that lands first is seen on retry and rejected rather than
// double-committed.
func (r *appointmentRepository) AppendIfFree(ctx context.Context, appointment *model.Appointment) error {
	return r.store.Update(ctx, store.CollectionAppointments,
		func() interface{} { return &[]model.Appointment{} },
		func(loaded interface{}) (interface{}, error) {
			appointments := *loaded.(*[]model.Appointment)
			for i := range appointments {
				apt := &appointments[i]
				if apt.BlocksDoctor(appointment.DoctorID, appointment.Date, appointment.Time) {
					return nil, apperrors.DoctorSlotTaken(appointment.DoctorID, appointment.Date, appointment.Time)
				}
				if apt.BlocksPatient(appointment.PatientID, appointment.Date, appointment.Time) {
					return nil, apperrors.PatientSlotTaken(appointment.PatientID, appointment.Date, appointment.Time)
				}
			}
			return append(appointments, *appointment), nil
		})
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	appointments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if appointments[i].ID == id {
			return &appointments[i], nil
		}
	}
	return nil, apperrors.NotFound("appointment", nil)
}

// UpdateStatus writes the new status after the guard approves the record as
// freshly loaded inside the CAS loop. A racing writer therefore cannot slip a
// state change in between the caller's read and this write; the guard always
// judges the committed state. A nil guard updates unconditionally.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus, guard func(*model.Appointment) error) error {
	return r.store.Update(ctx, store.CollectionAppointments,
		func() interface{} { return &[]model.Appointment{} },
		func(loaded interface{}) (interface{}, error) {
			appointments := *loaded.(*[]model.Appointment)
			for i := range appointments {
				if appointments[i].ID == id {
					if guard != nil {
						if err := guard(&appointments[i]); err != nil {
							return nil, err
						}
					}
					appointments[i].Status = status
					return appointments, nil
				}
			}
			return nil, apperrors.NotFound("appointment", nil)
		})
}

func (r *appointmentRepository) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	return r.store.Update(ctx, store.CollectionAppointments,
		func() interface{} { return &[]model.Appointment{} },
		func(loaded interface{}) (interface{}, error) {
			appointments := *loaded.(*[]model.Appointment)
			for i := range appointments {
				if appointments[i].ID == id {
					appointments[i].PaymentStatus = status
					return appointments, nil
				}
			}
			return nil, apperrors.NotFound("appointment", nil)
		})
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, store.CollectionAppointments,
		func() interface{} { return &[]model.Appointment{} },
		func(loaded interface{}) (interface{}, error) {
			appointments := *loaded.(*[]model.Appointment)
			for i := range appointments {
				if appointments[i].ID == id {
					return append(appointments[:i], appointments[i+1:]...), nil
				}
			}
			return nil, apperrors.NotFound("appointment", nil)
		})
}

func (r *appointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if _, err := r.store.Load(ctx, store.CollectionAppointments, &appointments); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
