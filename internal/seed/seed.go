// Package seed installs the clinic's default dataset: one admin, one doctor
// account, and the initial departments with their doctors. Seeding is
// idempotent; existing records are left alone.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	"github.com/alshifa-clinic/booking-api/internal/service/auth"
)

const DefaultPassword = "alshifa-dev"

var defaultDoctors = []model.Doctor{
	{
		ID:             "1",
		Name:           "د. أحمد محمد",
		Specialty:      "طبيب قلب",
		Department:     "القلب والأوعية الدموية",
		Experience:     "15 سنة خبرة",
		Image:          "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=400",
		AvailableSlots: []string{"09:00", "10:00", "11:00", "14:00", "15:00"},
		Rating:         4.8,
	},
	{
		ID:             "2",
		Name:           "د. فاطمة علي",
		Specialty:      "طبيبة أطفال",
		Department:     "طب الأطفال",
		Experience:     "12 سنة خبرة",
		Image:          "https://images.unsplash.com/photo-1594824388467-00d8ac9b0c97?w=400",
		AvailableSlots: []string{"09:30", "10:30", "11:30", "14:30", "15:30"},
		Rating:         4.9,
	},
	{
		ID:             "3",
		Name:           "د. محمد حسن",
		Specialty:      "طبيب عظام",
		Department:     "العظام والمفاصل",
		Experience:     "18 سنة خبرة",
		Image:          "https://images.unsplash.com/photo-1622253692010-333f2da6031d?w=400",
		AvailableSlots: []string{"08:00", "09:00", "10:00", "13:00", "14:00"},
		Rating:         4.7,
	},
}

var defaultDepartments = []model.Department{
	{ID: "1", Name: "القلب والأوعية الدموية", Description: "تشخيص وعلاج أمراض القلب والشرايين", Icon: "heart"},
	{ID: "2", Name: "طب الأطفال", Description: "رعاية صحية شاملة للأطفال من الولادة حتى 18 سنة", Icon: "baby"},
	{ID: "3", Name: "العظام والمفاصل", Description: "علاج إصابات وأمراض العظام والمفاصل", Icon: "bone"},
}

type Repositories struct {
	Users       repository.UserRepository
	Doctors     repository.DoctorRepository
	Departments repository.DepartmentRepository
}

// EnsureDefaults creates the default accounts and directory entries that are
// missing. The default doctor account shares its name with seeded doctor "1"
// so name-based appointment matching works out of the box.
func EnsureDefaults(ctx context.Context, repos Repositories, logger zerolog.Logger) error {
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	defaultUsers := []model.User{
		{
			ID:           "admin-1",
			Name:         "مدير النظام",
			Email:        "admin@alshifa-clinic.com",
			Phone:        "+966501234567",
			Role:         model.RoleAdmin,
			PasswordHash: hash,
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:           "doctor-1",
			Name:         "د. أحمد محمد",
			Email:        "doctor@alshifa-clinic.com",
			Phone:        "+966501234568",
			Role:         model.RoleDoctor,
			PasswordHash: hash,
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for i := range defaultUsers {
		u := defaultUsers[i]
		if _, err := repos.Users.GetByEmail(ctx, u.Email); err == nil {
			continue
		}
		if err := repos.Users.Create(ctx, &u); err != nil {
			return err
		}
		logger.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("seeded default user")
	}

	for i := range defaultDepartments {
		d := defaultDepartments[i]
		if _, err := repos.Departments.GetByName(ctx, d.Name); err == nil {
			continue
		}
		d.Doctors = []model.Doctor{}
		if err := repos.Departments.Create(ctx, &d); err != nil {
			return err
		}
	}

	existing, err := repos.Doctors.List(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	for _, d := range existing {
		present[d.ID] = true
	}
	for i := range defaultDoctors {
		d := defaultDoctors[i]
		if present[d.ID] {
			continue
		}
		if err := repos.Doctors.Create(ctx, &d); err != nil {
			return err
		}
	}

	return syncDepartmentDoctors(ctx, repos)
}

func syncDepartmentDoctors(ctx context.Context, repos Repositories) error {
	doctors, err := repos.Doctors.List(ctx)
	if err != nil {
		return err
	}
	departments, err := repos.Departments.List(ctx)
	if err != nil {
		return err
	}

	byDept := make(map[string][]model.Doctor)
	for _, d := range doctors {
		byDept[d.Department] = append(byDept[d.Department], d)
	}
	for i := range departments {
		dept := departments[i]
		dept.Doctors = byDept[dept.Name]
		if dept.Doctors == nil {
			dept.Doctors = []model.Doctor{}
		}
		if err := repos.Departments.Update(ctx, &dept); err != nil {
			return err
		}
	}
	return nil
}
