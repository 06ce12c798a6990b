package kv

import (
	"context"
	"fmt"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	err := r.store.Update(ctx, store.CollectionDoctors,
		func() interface{} { return &[]model.Doctor{} },
		func(loaded interface{}) (interface{}, error) {
			doctors := *loaded.(*[]model.Doctor)
			return append(doctors, *doctor), nil
		})
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id string) (*model.Doctor, error) {
	doctors, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doctors {
		if doctors[i].ID == id {
			return &doctors[i], nil
		}
	}
	return nil, apperrors.NotFound("doctor", nil)
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	err := r.store.Update(ctx, store.CollectionDoctors,
		func() interface{} { return &[]model.Doctor{} },
		func(loaded interface{}) (interface{}, error) {
			doctors := *loaded.(*[]model.Doctor)
			for i := range doctors {
				if doctors[i].ID == doctor.ID {
					doctors[i] = *doctor
					return doctors, nil
				}
			}
			return nil, apperrors.NotFound("doctor", nil)
		})
	if err != nil {
		return err
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, store.CollectionDoctors,
		func() interface{} { return &[]model.Doctor{} },
		func(loaded interface{}) (interface{}, error) {
			doctors := *loaded.(*[]model.Doctor)
			for i := range doctors {
				if doctors[i].ID == id {
					return append(doctors[:i], doctors[i+1:]...), nil
				}
			}
			return nil, apperrors.NotFound("doctor", nil)
		})
}

func (r *doctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if _, err := r.store.Load(ctx, store.CollectionDoctors, &doctors); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
