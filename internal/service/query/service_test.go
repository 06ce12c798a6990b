package query

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil, zerolog.Nop(), nil)
	repo := kv.NewAppointmentRepository(st)

	ctx := context.Background()
	for _, apt := range []model.Appointment{
		{ID: "1", PatientID: "p1", DoctorID: "doc-1", DoctorName: "د. أحمد محمد", Date: "2024-06-12", Time: "10:00", Status: model.AppointmentStatusPending},
		{ID: "2", PatientID: "p1", DoctorID: "doc-2", DoctorName: "د. فاطمة علي", Date: "2024-06-10", Time: "09:00", Status: model.AppointmentStatusConfirmed},
		{ID: "3", PatientID: "p2", DoctorID: "doc-1", DoctorName: "د. أحمد محمد", Date: "2024-06-10", Time: "11:00", Status: model.AppointmentStatusCancelled},
		// A record written before doctor ids were stamped consistently.
		{ID: "4", PatientID: "p2", DoctorName: "د. أحمد محمد", Date: "2024-06-11", Time: "09:00", Status: model.AppointmentStatusCompleted},
	} {
		apt := apt
		require.NoError(t, repo.AppendIfFree(ctx, &apt))
	}

	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local) }
	return svc
}

func ids(appointments []model.Appointment) []string {
	out := make([]string, len(appointments))
	for i, apt := range appointments {
		out[i] = apt.ID
	}
	return out
}

func TestForPatient(t *testing.T) {
	svc := newService(t)

	got, err := svc.ForPatient(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(got))
}

func TestForDoctorMatchesIDOrName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	byID, err := svc.ForDoctor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "1"}, ids(byID))

	byName, err := svc.ForDoctor(ctx, "د. أحمد محمد")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "1"}, ids(byName))
}

func TestForAssignedDoctor(t *testing.T) {
	svc := newService(t)

	// Account id differs from the directory id on the records; the name
	// still matches.
	got, err := svc.ForAssignedDoctor(context.Background(), "doctor-1", "د. أحمد محمد", model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "1"}, ids(got))
}

func TestForAssignedDoctorViews(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	today, err := svc.ForAssignedDoctor(ctx, "doctor-1", "د. أحمد محمد", model.AppointmentFilter{Today: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(today))

	upcoming, err := svc.ForAssignedDoctor(ctx, "doctor-1", "د. أحمد محمد", model.AppointmentFilter{Upcoming: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1"}, ids(upcoming))
}

func TestTodayAndUpcoming(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	today, err := svc.Today(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(today))

	upcoming, err := svc.Upcoming(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1"}, ids(upcoming))
}

func TestListSortedByDateThenTime(t *testing.T) {
	svc := newService(t)

	got, err := svc.List(context.Background(), model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4", "1"}, ids(got))
}

func TestListByStatus(t *testing.T) {
	svc := newService(t)

	got, err := svc.List(context.Background(), model.AppointmentFilter{Status: model.AppointmentStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestCountByStatus(t *testing.T) {
	appointments := []model.Appointment{
		{Status: model.AppointmentStatusPending},
		{Status: model.AppointmentStatusPending},
		{Status: model.AppointmentStatusCancelled},
	}
	assert.Equal(t, 2, CountByStatus(appointments, model.AppointmentStatusPending))
	assert.Equal(t, 1, CountByStatus(appointments, model.AppointmentStatusCancelled))
	assert.Equal(t, 0, CountByStatus(appointments, model.AppointmentStatusCompleted))
}
