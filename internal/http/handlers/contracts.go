package handlers

import (
	"context"

	"service-courier/internal/domain"
	"service-courier/internal/listing"
	"service-courier/internal/service/courier"
)

type courierUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, plan listing.Plan) (listing.Page[domain.Courier], error)
	Create(ctx context.Context, in domain.CourierInput) (*domain.Courier, error)
	Update(ctx context.Context, id int64, in domain.CourierInput) (*domain.Courier, error)
	Delete(ctx context.Context, id int64) error
}

// NewCourierUsecase wires a courier Service into a courierUsecase.
func NewCourierUsecase(service *courier.Service) courierUsecase {
	return service
}
