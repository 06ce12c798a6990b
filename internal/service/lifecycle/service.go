// Package lifecycle enforces the appointment status state machine and the
// per-role permission rules around it.
package lifecycle

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
	"github.com/alshifa-clinic/booking-api/pkg/metrics"
)

// transitions is the full state machine. Completed and cancelled are
// terminal: they have no outgoing edges for any actor, admin included.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
	},
}

type Service struct {
	repo    repository.AppointmentRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{repo: repo, metrics: m, logger: logger}
}

// Transition moves the appointment to newStatus on behalf of actor. A request
// that violates either the state machine or the actor's permission fails with
// IllegalTransition and leaves the record untouched.
func (s *Service) Transition(ctx context.Context, appointmentID string, actor model.Actor, newStatus model.AppointmentStatus) error {
	// The guard runs against the record as committed, inside the store's CAS
	// loop. A concurrent transition that lands first is therefore judged,
	// not overwritten: confirming a just-cancelled appointment fails instead
	// of resurrecting it.
	var from model.AppointmentStatus
	guard := func(apt *model.Appointment) error {
		from = apt.Status
		if !newStatus.Valid() || !machineAllows(apt.Status, newStatus) {
			return apperrors.IllegalTransition(string(apt.Status), string(newStatus))
		}
		if !actorAllowed(apt, actor, newStatus) {
			return apperrors.IllegalTransition(string(apt.Status), string(newStatus))
		}
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, newStatus, guard); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(string(newStatus)).Inc()
	}
	s.logger.Info().
		Str("appointment_id", appointmentID).
		Str("actor_role", string(actor.Role)).
		Str("from", string(from)).
		Str("to", string(newStatus)).
		Msg("appointment status changed")

	return nil
}

// Delete removes the appointment entirely. Removal is an admin operation,
// distinct from cancellation: it erases the record instead of releasing the
// slot through a terminal status.
func (s *Service) Delete(ctx context.Context, appointmentID string, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("only admins may delete appointments")
	}
	if err := s.repo.Delete(ctx, appointmentID); err != nil {
		return err
	}
	s.logger.Info().
		Str("appointment_id", appointmentID).
		Str("actor_id", actor.ID).
		Msg("appointment deleted")
	return nil
}

// MarkPaid flips the payment status to paid. Admin only.
func (s *Service) MarkPaid(ctx context.Context, appointmentID string, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("only admins may update payment status")
	}
	if _, err := s.repo.Get(ctx, appointmentID); err != nil {
		return err
	}
	return s.repo.UpdatePaymentStatus(ctx, appointmentID, model.PaymentStatusPaid)
}

func machineAllows(from, to model.AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// actorAllowed applies the per-role rules on top of the state machine.
// Patients may only cancel their own pending appointment. Doctors act on
// appointments assigned to them, matched by id or, for records created
// before ids were stamped consistently, by name. Admins are bound only by
// the state machine itself.
func actorAllowed(apt *model.Appointment, actor model.Actor, to model.AppointmentStatus) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RolePatient:
		return apt.PatientID == actor.ID &&
			apt.Status == model.AppointmentStatusPending &&
			to == model.AppointmentStatusCancelled
	case model.RoleDoctor:
		return apt.DoctorID == actor.ID || apt.DoctorName == actor.Name
	default:
		return false
	}
}
