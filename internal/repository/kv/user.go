package kv

import (
	"context"
	"fmt"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.store.Update(ctx, store.CollectionUsers,
		func() interface{} { return &[]model.User{} },
		func(loaded interface{}) (interface{}, error) {
			users := *loaded.(*[]model.User)
			for _, u := range users {
				if u.Email == user.Email {
					return nil, fmt.Errorf("email %s already registered", user.Email)
				}
			}
			return append(users, *user), nil
		})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := r.store.Load(ctx, store.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
