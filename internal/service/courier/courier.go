package courier

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-courier/internal/apperr"
	"service-courier/internal/domain"
	"service-courier/internal/listing"
	"service-courier/internal/logx"
)

const phoneTakenMessage = "The phone has already been taken."

// Service coordinates courier business logic and orchestrates repository calls.
type Service struct {
	repo             courierRepository
	events           EventPublisher
	eventFailures    prometheus.Counter
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the publisher for courier change events.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithEventFailures sets the counter incremented when an event cannot be published.
func WithEventFailures(c prometheus.Counter) Option {
	return func(s *Service) {
		if c != nil {
			s.eventFailures = c
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logx.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates and configures a courier Service.
func NewService(r courierRepository, timeout time.Duration, opts ...Option) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	s := &Service{
		repo:             r,
		logger:           logx.Nop(),
		operationTimeout: timeout,
		now:              time.Now,
		eventFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_events_failed_total",
			Help: "Courier change events that could not be published.",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get retrieves a courier by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get courier: %w", err)
	}
	if c == nil {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

// List returns one page of couriers selected by plan.
func (s *Service) List(ctx context.Context, plan listing.Plan) (listing.Page[domain.Courier], error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	items, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return listing.Page[domain.Courier]{}, fmt.Errorf("list couriers: %w", err)
	}
	return listing.NewPage(plan, items, total), nil
}

// Create validates in, stores a new courier and returns the stored record.
func (s *Service) Create(ctx context.Context, in domain.CourierInput) (*domain.Courier, error) {
	c, verr := validateCreate(in)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if c.Phone != nil && !verr.Has("phone") {
		if err := s.checkPhone(ctx, verr, *c.Phone, 0); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create courier: %w", err)
	}
	s.publish(ctx, domain.CourierCreated, created.ID, created)
	return created, nil
}

// Update applies the present fields of in to the courier with the given id.
// A missing courier is reported before the payload is validated.
func (s *Service) Update(ctx context.Context, id int64, in domain.CourierInput) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get courier: %w", err)
	}
	if current == nil {
		return nil, apperr.ErrNotFound
	}

	u, verr := validateUpdate(id, in)
	if u.Phone.Present() && !verr.Has("phone") {
		if err := s.checkPhone(ctx, verr, u.Phone.Value, id); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if u.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("update courier: %w", err)
	}
	if updated == nil {
		return nil, apperr.ErrNotFound
	}
	s.publish(ctx, domain.CourierUpdated, updated.ID, updated)
	return updated, nil
}

// Delete removes the courier with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete courier: %w", err)
	}
	if !ok {
		return apperr.ErrNotFound
	}
	s.publish(ctx, domain.CourierDeleted, id, nil)
	return nil
}

func (s *Service) checkPhone(ctx context.Context, verr *apperr.ValidationError, phone string, exceptID int64) error {
	taken, err := s.repo.PhoneTaken(ctx, phone, exceptID)
	if err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if taken {
		verr.Add("phone", phoneTakenMessage)
	}
	return nil
}

// publish is best effort: the write is already committed.
func (s *Service) publish(ctx context.Context, t domain.CourierEventType, id int64, c *domain.Courier) {
	if s.events == nil {
		return
	}
	e := domain.CourierEvent{Type: t, CourierID: id, Courier: c, OccurredAt: s.now().UTC()}
	if err := s.events.Publish(ctx, e); err != nil {
		s.eventFailures.Inc()
		s.logger.Warn("courier event not published",
			logx.String("type", string(t)),
			logx.Int64("courier_id", id),
			logx.Err(err),
		)
	}
}
