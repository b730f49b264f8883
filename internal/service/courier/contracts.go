//go:generate mockgen -source=contracts.go -destination=courier_mocks_test.go -package=courier

package courier

import (
	"context"

	"service-courier/internal/domain"
	"service-courier/internal/listing"
)

// courierRepository defines storage operations required by the business layer.
type courierRepository interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, plan listing.Plan) ([]domain.Courier, int64, error)
	Create(ctx context.Context, c *domain.Courier) (*domain.Courier, error)
	Update(ctx context.Context, u domain.PartialCourierUpdate) (*domain.Courier, error)
	Delete(ctx context.Context, id int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error)
}

// EventPublisher delivers courier change events.
type EventPublisher interface {
	Publish(ctx context.Context, e domain.CourierEvent) error
}
