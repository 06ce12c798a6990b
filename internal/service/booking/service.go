// Package booking validates booking requests and commits new appointments.
package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	"github.com/alshifa-clinic/booking-api/internal/service/availability"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
	"github.com/alshifa-clinic/booking-api/pkg/metrics"
)

// The clinic is closed on Fridays; no slot on that weekday is bookable.
const closureDay = time.Friday

const dateLayout = "2006-01-02"

type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	departments  repository.DepartmentRepository
	availability *availability.Service
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	departments repository.DepartmentRepository,
	avail *availability.Service,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		departments:  departments,
		availability: avail,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Book validates the request and appends a pending appointment.
//
// Checks run in a fixed order: required fields, schedule validity, doctor
// slot conflict, patient slot conflict. The doctor name and department name
// on the created record are snapshots of the current directory entries and
// are never refreshed afterwards.
func (s *Service) Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	start := time.Now()
	apt, err := s.book(ctx, req)
	if s.metrics != nil {
		s.metrics.BookingLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.BookingRejected.WithLabelValues(rejectionReason(err)).Inc()
		} else {
			s.metrics.BookingsTotal.Inc()
		}
	}
	return apt, err
}

func (s *Service) book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	if err := checkRequired(req); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	department, err := s.departments.Get(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSchedule(doctor, req.Date, req.Time); err != nil {
		return nil, err
	}

	free, err := s.availability.IsDoctorSlotFree(ctx, req.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, apperrors.DoctorSlotTaken(req.DoctorID, req.Date, req.Time)
	}

	free, err = s.availability.IsPatientSlotFree(ctx, req.PatientID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, apperrors.PatientSlotTaken(req.PatientID, req.Date, req.Time)
	}

	apt := &model.Appointment{
		ID:            strconv.FormatInt(s.now().UnixNano(), 10),
		PatientID:     req.PatientID,
		PatientName:   req.PatientName,
		DoctorID:      doctor.ID,
		DoctorName:    doctor.Name,
		Department:    department.Name,
		Date:          req.Date,
		Time:          req.Time,
		Status:        model.AppointmentStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentStatusPending,
		Notes:         req.Notes,
	}

	// The availability checks above read a snapshot; a racing booking can
	// commit between them and this write. AppendIfFree re-checks the slot
	// against the committed collection, so the loser of the race still gets
	// the right conflict error instead of a silent double-booking.
	if err := s.appointments.AppendIfFree(ctx, apt); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", apt.ID).
		Str("doctor_id", apt.DoctorID).
		Str("date", apt.Date).
		Str("time", apt.Time).
		Msg("appointment booked")

	return apt, nil
}

func checkRequired(req *model.BookingRequest) error {
	switch {
	case req.DepartmentID == "":
		return apperrors.IncompleteRequest("department_id")
	case req.DoctorID == "":
		return apperrors.IncompleteRequest("doctor_id")
	case req.Date == "":
		return apperrors.IncompleteRequest("date")
	case req.Time == "":
		return apperrors.IncompleteRequest("time")
	case req.PatientID == "":
		return apperrors.IncompleteRequest("patient_id")
	case req.PaymentMethod == "":
		return apperrors.IncompleteRequest("payment_method")
	}
	if !req.PaymentMethod.Valid() {
		return apperrors.IncompleteRequest("payment_method")
	}
	return nil
}

// checkSchedule enforces the constraints the source UI expressed through its
// date and slot pickers: no past dates, no closure-day bookings, only times
// the doctor actually offers.
func (s *Service) checkSchedule(doctor *model.Doctor, date, t string) error {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return apperrors.InvalidSchedule("date must be YYYY-MM-DD")
	}
	today := s.now().In(time.Local).Format(dateLayout)
	if date < today {
		return apperrors.InvalidSchedule("date is in the past")
	}
	if day.Weekday() == closureDay {
		return apperrors.InvalidSchedule("the clinic is closed on this day")
	}
	if !doctor.OffersSlot(t) {
		return apperrors.InvalidSchedule("time is not one of the doctor's slots")
	}
	return nil
}

func rejectionReason(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrIncompleteRequest:
		return "incomplete"
	case apperrors.ErrInvalidSchedule:
		return "schedule"
	case apperrors.ErrDoctorSlotTaken:
		return "doctor_conflict"
	case apperrors.ErrPatientSlotTaken:
		return "patient_conflict"
	case apperrors.ErrNotFound:
		return "not_found"
	default:
		return "internal"
	}
}
