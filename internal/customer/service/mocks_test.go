package service

import (
	"context"
	"time"

	"github.com/vmorozov/customer-hub/internal/customer/domain"
	"github.com/vmorozov/customer-hub/internal/customer/repository"
)

type mockCustomerRepo struct {
	listFunc     func(ctx context.Context, offset, limit int, search string) ([]domain.Customer, error)
	countFunc    func(ctx context.Context, search string) (int64, error)
	findByIDFunc func(ctx context.Context, id domain.ID) (domain.Customer, error)
	createFunc   func(ctx context.Context, customer domain.Customer) error
	updateFunc   func(ctx context.Context, id domain.ID, fields domain.Fields, updatedAt time.Time) (domain.Customer, error)
	deleteFunc   func(ctx context.Context, id domain.ID) error
}

func (m *mockCustomerRepo) List(ctx context.Context, offset, limit int, search string) ([]domain.Customer, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, offset, limit, search)
	}
	return nil, nil
}

func (m *mockCustomerRepo) Count(ctx context.Context, search string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, search)
	}
	return 0, nil
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id domain.ID) (domain.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Customer{}, repository.ErrCustomerNotFound
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer domain.Customer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, customer)
	}
	return nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, id domain.ID, fields domain.Fields, updatedAt time.Time) (domain.Customer, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields, updatedAt)
	}
	return domain.Customer{}, repository.ErrCustomerNotFound
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return repository.ErrCustomerNotFound
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "90a1f2d4-1111-4222-8333-444455556666", nil
}
