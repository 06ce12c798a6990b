// Package query derives read-only appointment views: per patient, per
// doctor, per day. No method here mutates anything.
package query

import (
	"context"
	"sort"
	"time"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo repository.AppointmentRepository
	now  func() time.Time
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List applies the filter and returns matches sorted by date then time.
// Date comparisons are plain string compares; the fixed-width ISO format
// makes that equivalent to chronological order.
func (s *Service) List(ctx context.Context, filter model.AppointmentFilter) ([]model.Appointment, error) {
	return s.list(ctx, filter, nil)
}

// list is the one place filters are applied. match, when non-nil, narrows the
// result further than AppointmentFilter can express.
func (s *Service) list(ctx context.Context, filter model.AppointmentFilter, match func(*model.Appointment) bool) ([]model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(dateLayout)
	matched := make([]model.Appointment, 0, len(appointments))
	for i := range appointments {
		apt := &appointments[i]
		if !matchesFilter(apt, filter, today) {
			continue
		}
		if match != nil && !match(apt) {
			continue
		}
		matched = append(matched, *apt)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].Time < matched[j].Time
	})
	return matched, nil
}

func matchesFilter(apt *model.Appointment, filter model.AppointmentFilter, today string) bool {
	if filter.PatientID != "" && apt.PatientID != filter.PatientID {
		return false
	}
	// Match on id or name: appointments created before doctor ids were
	// stamped consistently may only carry the name.
	if filter.Doctor != "" && apt.DoctorID != filter.Doctor && apt.DoctorName != filter.Doctor {
		return false
	}
	if filter.Date != "" && apt.Date != filter.Date {
		return false
	}
	if filter.Today && apt.Date != today {
		return false
	}
	if filter.Upcoming && apt.Date <= today {
		return false
	}
	if filter.Status != "" && apt.Status != filter.Status {
		return false
	}
	return true
}

// ForPatient returns every appointment the patient ever booked.
func (s *Service) ForPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	return s.List(ctx, model.AppointmentFilter{PatientID: patientID})
}

// ForDoctor returns every appointment assigned to the doctor, matching on
// doctor id or doctor name.
func (s *Service) ForDoctor(ctx context.Context, doctorIDOrName string) ([]model.Appointment, error) {
	return s.List(ctx, model.AppointmentFilter{Doctor: doctorIDOrName})
}

// ForAssignedDoctor returns the appointments assigned to an authenticated
// doctor, matching their account id against DoctorID and their display name
// against DoctorName. Doctor accounts and directory entries are separate
// records, so both checks are needed. The filter's Today/Upcoming flags
// narrow the view the same way they do for List.
func (s *Service) ForAssignedDoctor(ctx context.Context, actorID, actorName string, filter model.AppointmentFilter) ([]model.Appointment, error) {
	return s.list(ctx, filter, func(apt *model.Appointment) bool {
		return apt.DoctorID == actorID || apt.DoctorName == actorName
	})
}

// Today returns the doctor's appointments on the current calendar date.
func (s *Service) Today(ctx context.Context, doctorIDOrName string) ([]model.Appointment, error) {
	return s.List(ctx, model.AppointmentFilter{Doctor: doctorIDOrName, Today: true})
}

// Upcoming returns the doctor's appointments strictly after today.
func (s *Service) Upcoming(ctx context.Context, doctorIDOrName string) ([]model.Appointment, error) {
	return s.List(ctx, model.AppointmentFilter{Doctor: doctorIDOrName, Upcoming: true})
}

// CountByStatus counts appointments in the given slice with the status.
func CountByStatus(appointments []model.Appointment, status model.AppointmentStatus) int {
	n := 0
	for i := range appointments {
		if appointments[i].Status == status {
			n++
		}
	}
	return n
}
