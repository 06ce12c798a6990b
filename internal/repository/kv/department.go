package kv

import (
	"context"
	"fmt"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	err := r.store.Update(ctx, store.CollectionDepartments,
		func() interface{} { return &[]model.Department{} },
		func(loaded interface{}) (interface{}, error) {
			departments := *loaded.(*[]model.Department)
			for _, d := range departments {
				if d.Name == department.Name {
					return nil, fmt.Errorf("department %s already exists", department.Name)
				}
			}
			return append(departments, *department), nil
		})
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id string) (*model.Department, error) {
	departments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range departments {
		if departments[i].ID == id {
			return &departments[i], nil
		}
	}
	return nil, apperrors.NotFound("department", nil)
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*model.Department, error) {
	departments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range departments {
		if departments[i].Name == name {
			return &departments[i], nil
		}
	}
	return nil, apperrors.NotFound("department", nil)
}

func (r *departmentRepository) Update(ctx context.Context, department *model.Department) error {
	return r.store.Update(ctx, store.CollectionDepartments,
		func() interface{} { return &[]model.Department{} },
		func(loaded interface{}) (interface{}, error) {
			departments := *loaded.(*[]model.Department)
			for i := range departments {
				if departments[i].ID == department.ID {
					departments[i] = *department
					return departments, nil
				}
			}
			return nil, apperrors.NotFound("department", nil)
		})
}

func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, store.CollectionDepartments,
		func() interface{} { return &[]model.Department{} },
		func(loaded interface{}) (interface{}, error) {
			departments := *loaded.(*[]model.Department)
			for i := range departments {
				if departments[i].ID == id {
					return append(departments[:i], departments[i+1:]...), nil
				}
			}
			return nil, apperrors.NotFound("department", nil)
		})
}

func (r *departmentRepository) List(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	if _, err := r.store.Load(ctx, store.CollectionDepartments, &departments); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
