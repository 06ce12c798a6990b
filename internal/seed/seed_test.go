package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/store"
)

func newRepos(t *testing.T) Repositories {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil, zerolog.Nop(), nil)
	return Repositories{
		Users:       kv.NewUserRepository(st),
		Doctors:     kv.NewDoctorRepository(st),
		Departments: kv.NewDepartmentRepository(st),
	}
}

func TestEnsureDefaults(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, EnsureDefaults(ctx, repos, zerolog.Nop()))

	admin, err := repos.Users.GetByEmail(ctx, "admin@alshifa-clinic.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	doctorUser, err := repos.Users.GetByEmail(ctx, "doctor@alshifa-clinic.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, doctorUser.Role)

	doctors, err := repos.Doctors.List(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 3)

	departments, err := repos.Departments.List(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 3)
	for _, dept := range departments {
		require.Len(t, dept.Doctors, 1, "each seeded department has one doctor")
		assert.Equal(t, dept.Name, dept.Doctors[0].Department)
	}

	// The doctor account shares its display name with directory doctor "1"
	// so name-based appointment matching works for the default login.
	directoryDoctor, err := repos.Doctors.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, directoryDoctor.Name, doctorUser.Name)
}

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, EnsureDefaults(ctx, repos, zerolog.Nop()))
	require.NoError(t, EnsureDefaults(ctx, repos, zerolog.Nop()))

	users, err := repos.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	doctors, err := repos.Doctors.List(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 3)

	departments, err := repos.Departments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 3)
}
