// Package directory is the admin-managed catalogue of departments and
// doctors. Each department embeds a denormalized copy of its doctors; this
// service is the only writer of either collection and rebuilds the embedded
// lists on every change so they cannot drift from the flat doctors list.
package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
)

type Service struct {
	doctors     repository.DoctorRepository
	departments repository.DepartmentRepository
	logger      zerolog.Logger
}

func NewService(doctors repository.DoctorRepository, departments repository.DepartmentRepository, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, departments: departments, logger: logger}
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	// Department is referenced by name; require it to exist so new doctors
	// cannot point at a department the booking flow will never find.
	if _, err := s.departments.GetByName(ctx, req.Department); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Specialty:      req.Specialty,
		Department:     req.Department,
		Experience:     req.Experience,
		Image:          req.Image,
		AvailableSlots: req.AvailableSlots,
		Rating:         req.Rating,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	if err := s.syncDepartments(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("doctor_id", doctor.ID).Str("department", doctor.Department).Msg("doctor created")
	return doctor, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Department != nil {
		if _, err := s.departments.GetByName(ctx, *req.Department); err != nil {
			return nil, err
		}
		doctor.Department = *req.Department
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Image != nil {
		doctor.Image = *req.Image
	}
	if req.AvailableSlots != nil {
		doctor.AvailableSlots = *req.AvailableSlots
	}
	if req.Rating != nil {
		doctor.Rating = *req.Rating
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	if err := s.syncDepartments(ctx); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	return s.syncDepartments(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	return s.doctors.Get(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	department := &model.Department{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Doctors:     []model.Doctor{},
	}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, err
	}
	if err := s.syncDepartments(ctx); err != nil {
		return nil, err
	}
	s.logger.Info().Str("department_id", department.ID).Str("name", department.Name).Msg("department created")
	return department, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id string, req *model.UpdateDepartmentRequest) (*model.Department, error) {
	department, err := s.departments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.Icon != nil {
		department.Icon = *req.Icon
	}

	if err := s.departments.Update(ctx, department); err != nil {
		return nil, err
	}
	if err := s.syncDepartments(ctx); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	return s.departments.Delete(ctx, id)
}

func (s *Service) GetDepartment(ctx context.Context, id string) (*model.Department, error) {
	return s.departments.Get(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.departments.List(ctx)
}

// syncDepartments regroups the flat doctors list under each department by
// department name and writes every department back with its fresh embedded
// copy.
func (s *Service) syncDepartments(ctx context.Context) error {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return err
	}
	departments, err := s.departments.List(ctx)
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
		if err := s.departments.Update(ctx, &dept); err != nil {
			return err
		}
	}
	return nil
}
