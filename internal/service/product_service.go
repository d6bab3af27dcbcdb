package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/events"
	"github.com/fusion-kit/auth-service/internal/repository"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

// ProductService implements catalog CRUD over the document store.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

// Create inserts a new active product owned by the creating user.
func (s *ProductService) Create(ctx context.Context, product *domain.Product, createdBy int64) (*domain.Product, error) {
	product.CreatedBy = createdBy
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventProductCreated,
			Actor:     events.Actor{Store: domain.StoreContextUser, PrincipalID: createdBy},
			Timestamp: time.Now(),
			Payload: events.ProductCreatedPayload{
				ProductID: product.ID,
				Name:      product.Name,
				Category:  product.Category,
			},
		})
	}
	return product, nil
}

// List returns all active products.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListActive(ctx)
}

// Get returns one active product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}
	return product, nil
}

// Update applies the given field changes and returns the updated document.
func (s *ProductService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Product, error) {
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	product, err := s.products.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, mapProductError(err)
	}
	return product, nil
}

// Delete soft-deletes a product by flipping its active flag.
func (s *ProductService) Delete(ctx context.Context, id string, deletedBy int64) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return mapProductError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventProductDeleted,
			Actor:     events.Actor{Store: domain.StoreContextUser, PrincipalID: deletedBy},
			Timestamp: time.Now(),
			Payload:   events.ProductDeletedPayload{ProductID: id},
		})
	}
	return nil
}

func mapProductError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return apperrors.NewValidationError("invalid product id", nil)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("product", nil)
	default:
		return err
	}
}
