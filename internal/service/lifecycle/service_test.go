package lifecycle

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

var (
	admin   = model.Actor{ID: "admin-1", Name: "Admin", Role: model.RoleAdmin}
	patient = model.Actor{ID: "p1", Name: "Patient One", Role: model.RolePatient}
	doctor  = model.Actor{ID: "doc-1", Name: "د. أحمد محمد", Role: model.RoleDoctor}
)

func newService(t *testing.T) (*Service, repository.AppointmentRepository) {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil, zerolog.Nop(), nil)
	repo := kv.NewAppointmentRepository(st)
	return NewService(repo, nil, zerolog.Nop()), repo
}

func seedAppointment(t *testing.T, repo repository.AppointmentRepository, status model.AppointmentStatus) *model.Appointment {
	t.Helper()
	apt := &model.Appointment{
		ID:          "apt-1",
		PatientID:   "p1",
		PatientName: "Patient One",
		DoctorID:    "doc-1",
		DoctorName:  "د. أحمد محمد",
		Department:  "القلب والأوعية الدموية",
		Date:        "2024-06-10",
		Time:        "09:00",
		Status:      status,
	}
	require.NoError(t, repo.AppendIfFree(context.Background(), apt))
	return apt
}

func TestTransitionHappyPath(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	seedAppointment(t, repo, model.AppointmentStatusPending)

	require.NoError(t, svc.Transition(ctx, "apt-1", doctor, model.AppointmentStatusConfirmed))
	require.NoError(t, svc.Transition(ctx, "apt-1", doctor, model.AppointmentStatusCompleted))

	stored, err := repo.Get(ctx, "apt-1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, terminal := range []model.AppointmentStatus{
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
	} {
		for _, to := range []model.AppointmentStatus{
			model.AppointmentStatusPending,
			model.AppointmentStatusConfirmed,
			model.AppointmentStatusCompleted,
			model.AppointmentStatusCancelled,
		} {
			svc, repo := newService(t)
			seedAppointment(t, repo, terminal)

			err := svc.Transition(context.Background(), "apt-1", admin, to)
			require.Error(t, err, "expected %s -> %s to fail", terminal, to)
			assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(err))

			stored, err := repo.Get(context.Background(), "apt-1")
			require.NoError(t, err)
			assert.Equal(t, terminal, stored.Status)
		}
	}
}

func TestPatientMayOnlyCancelOwnPending(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel own pending", func(t *testing.T) {
		svc, repo := newService(t)
		seedAppointment(t, repo, model.AppointmentStatusPending)
		require.NoError(t, svc.Transition(ctx, "apt-1", patient, model.AppointmentStatusCancelled))
	})

	t.Run("confirm own pending rejected", func(t *testing.T) {
		svc, repo := newService(t)
		seedAppointment(t, repo, model.AppointmentStatusPending)
		err := svc.Transition(ctx, "apt-1", patient, model.AppointmentStatusConfirmed)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(err))
	})

	t.Run("cancel confirmed rejected", func(t *testing.T) {
		svc, repo := newService(t)
		seedAppointment(t, repo, model.AppointmentStatusConfirmed)
		err := svc.Transition(ctx, "apt-1", patient, model.AppointmentStatusCancelled)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(err))
	})

	t.Run("cancel someone else's pending rejected", func(t *testing.T) {
		svc, repo := newService(t)
		seedAppointment(t, repo, model.AppointmentStatusPending)
		stranger := model.Actor{ID: "p2", Name: "Other", Role: model.RolePatient}
		err := svc.Transition(ctx, "apt-1", stranger, model.AppointmentStatusCancelled)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(err))
	})
}

func TestDoctorMatchedByNameWhenIDDiffers(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	seedAppointment(t, repo, model.AppointmentStatusPending)

	// The doctor's account id differs from the directory id on the record,
	// but the snapshotted name matches.
	actor := model.Actor{ID: "doctor-1", Name: "د. أحمد محمد", Role: model.RoleDoctor}
	require.NoError(t, svc.Transition(ctx, "apt-1", actor, model.AppointmentStatusConfirmed))

	unrelated := model.Actor{ID: "doc-9", Name: "د. خالد سعيد", Role: model.RoleDoctor}
	err := svc.Transition(ctx, "apt-1", unrelated, model.AppointmentStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(err))
}

func TestConcurrentConfirmAndCancel(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	seedAppointment(t, repo, model.AppointmentStatusPending)

	// Doctor confirms while the patient cancels. Whichever commits first is
	// judged against pending; the other must be judged against the committed
	// result and fail, never applied on top of it.
	start := make(chan struct{})
	confirmErr := make(chan error, 1)
	cancelErr := make(chan error, 1)
	go func() {
		<-start
		confirmErr <- svc.Transition(ctx, "apt-1", doctor, model.AppointmentStatusConfirmed)
	}()
	go func() {
		<-start
		cancelErr <- svc.Transition(ctx, "apt-1", patient, model.AppointmentStatusCancelled)
	}()
	close(start)

	confirmed := <-confirmErr
	cancelled := <-cancelErr

	stored, err := repo.Get(ctx, "apt-1")
	require.NoError(t, err)

	switch {
	case confirmed == nil && cancelled != nil:
		assert.Equal(t, model.AppointmentStatusConfirmed, stored.Status)
		assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(cancelled))
	case confirmed != nil && cancelled == nil:
		assert.Equal(t, model.AppointmentStatusCancelled, stored.Status)
		assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(confirmed))
	default:
		t.Fatalf("exactly one transition must win: confirm=%v cancel=%v", confirmed, cancelled)
	}
}

func TestInvalidTargetStatus(t *testing.T) {
	svc, repo := newService(t)
	seedAppointment(t, repo, model.AppointmentStatusPending)

	err := svc.Transition(context.Background(), "apt-1", admin, model.AppointmentStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrIllegalTransition, apperrors.CodeOf(err))
}

func TestTransitionUnknownAppointment(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Transition(context.Background(), "ghost", admin, model.AppointmentStatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	seedAppointment(t, repo, model.AppointmentStatusPending)

	err := svc.Delete(ctx, "apt-1", doctor)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, "apt-1", admin))

	_, err = repo.Get(ctx, "apt-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestMarkPaid(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	seedAppointment(t, repo, model.AppointmentStatusConfirmed)

	err := svc.MarkPaid(ctx, "apt-1", patient)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))

	require.NoError(t, svc.MarkPaid(ctx, "apt-1", admin))

	stored, err := repo.Get(ctx, "apt-1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, stored.PaymentStatus)
}
