package directory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil, zerolog.Nop(), nil)
	return NewService(kv.NewDoctorRepository(st), kv.NewDepartmentRepository(st), zerolog.Nop())
}

func createDepartment(t *testing.T, svc *Service, name string) *model.Department {
	t.Helper()
	dept, err := svc.CreateDepartment(context.Background(), &model.CreateDepartmentRequest{
		Name:        name,
		Description: "desc",
		Icon:        "heart",
	})
	require.NoError(t, err)
	return dept
}

func TestCreateDoctorRequiresKnownDepartment(t *testing.T) {
	svc := newService(t)

	_, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		Name:       "د. أحمد محمد",
		Department: "قسم غير موجود",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestCreateDoctorUpdatesEmbeddedList(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	dept := createDepartment(t, svc, "القلب والأوعية الدموية")

	doctor, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{
		Name:           "د. أحمد محمد",
		Specialty:      "طبيب قلب",
		Department:     dept.Name,
		AvailableSlots: []string{"09:00"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doctor.ID)

	stored, err := svc.GetDepartment(ctx, dept.ID)
	require.NoError(t, err)
	require.Len(t, stored.Doctors, 1)
	assert.Equal(t, doctor.ID, stored.Doctors[0].ID)
}

func TestMoveDoctorBetweenDepartments(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	cardiology := createDepartment(t, svc, "القلب والأوعية الدموية")
	pediatrics := createDepartment(t, svc, "طب الأطفال")

	doctor, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{
		Name:       "د. فاطمة علي",
		Department: cardiology.Name,
	})
	require.NoError(t, err)

	newDept := pediatrics.Name
	_, err = svc.UpdateDoctor(ctx, doctor.ID, &model.UpdateDoctorRequest{Department: &newDept})
	require.NoError(t, err)

	from, err := svc.GetDepartment(ctx, cardiology.ID)
	require.NoError(t, err)
	assert.Empty(t, from.Doctors)

	to, err := svc.GetDepartment(ctx, pediatrics.ID)
	require.NoError(t, err)
	require.Len(t, to.Doctors, 1)
	assert.Equal(t, doctor.ID, to.Doctors[0].ID)
}

func TestDeleteDoctorUpdatesEmbeddedList(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	dept := createDepartment(t, svc, "العظام والمفاصل")

	doctor, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{
		Name:       "د. محمد حسن",
		Department: dept.Name,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDoctor(ctx, doctor.ID))

	stored, err := svc.GetDepartment(ctx, dept.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Doctors)
}

func TestCreateDepartmentDuplicateName(t *testing.T) {
	svc := newService(t)
	createDepartment(t, svc, "القلب والأوعية الدموية")

	_, err := svc.CreateDepartment(context.Background(), &model.CreateDepartmentRequest{
		Name: "القلب والأوعية الدموية",
	})
	require.Error(t, err)
}

func TestUpdateDoctorPartialFields(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	dept := createDepartment(t, svc, "القلب والأوعية الدموية")

	doctor, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{
		Name:           "د. أحمد محمد",
		Specialty:      "طبيب قلب",
		Department:     dept.Name,
		AvailableSlots: []string{"09:00", "10:00"},
		Rating:         4.8,
	})
	require.NoError(t, err)

	slots := []string{"11:00"}
	updated, err := svc.UpdateDoctor(ctx, doctor.ID, &model.UpdateDoctorRequest{AvailableSlots: &slots})
	require.NoError(t, err)

	assert.Equal(t, []string{"11:00"}, updated.AvailableSlots)
	assert.Equal(t, "د. أحمد محمد", updated.Name)
	assert.Equal(t, "طبيب قلب", updated.Specialty)
	assert.InDelta(t, 4.8, updated.Rating, 0.001)
}
