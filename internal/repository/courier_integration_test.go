//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"service-courier/internal/apperr"
	"service-courier/internal/domain"
	"service-courier/internal/listing"
	"service-courier/internal/repository"
)

type CourierRepositorySuite struct {
	suite.Suite
	pool      *pgxpool.Pool
	repo      *repository.CourierRepo
	phoneSeed int
}

func (s *CourierRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewCourierRepo(tcPool)
}

func (s *CourierRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE couriers RESTART IDENTITY`)
	s.Require().NoError(err)
	s.phoneSeed = 8100000000
}

func (s *CourierRepositorySuite) make(name string, level int, registeredAt time.Time) *domain.Courier {
	s.phoneSeed++
	phone := fmt.Sprintf("%d", s.phoneSeed)
	c, err := s.repo.Create(context.Background(), &domain.Courier{
		Name:         name,
		Phone:        &phone,
		Level:        level,
		Status:       domain.StatusActive,
		RegisteredAt: registeredAt,
	})
	s.Require().NoError(err)
	return c
}

func (s *CourierRepositorySuite) list(p listing.Params) ([]domain.Courier, int64) {
	items, total, err := s.repo.List(context.Background(), listing.Compose(p))
	s.Require().NoError(err)
	return items, total
}

func names(list []domain.Courier) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}

func (s *CourierRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()
	phone, email := "08123456789", "budi@example.com"

	created, err := s.repo.Create(ctx, &domain.Courier{
		Name:   "Budi Agung",
		Phone:  &phone,
		Email:  &email,
		Level:  3,
		Status: domain.StatusActive,
	})
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.False(created.RegisteredAt.IsZero(), "registered_at defaults to now")
	s.False(created.CreatedAt.IsZero())

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Budi Agung", got.Name)
	s.Equal(phone, *got.Phone)
	s.Equal(email, *got.Email)
	s.Equal(3, got.Level)
	s.Equal(domain.StatusActive, got.Status)
}

func (s *CourierRepositorySuite) TestCreate_NullPhoneAndEmail() {
	created, err := s.repo.Create(context.Background(), &domain.Courier{
		Name: "No Contacts", Level: 1, Status: domain.StatusInactive,
	})
	s.Require().NoError(err)
	s.Nil(created.Phone)
	s.Nil(created.Email)
}

func (s *CourierRepositorySuite) TestCreate_DuplicatePhoneIsConflict() {
	ctx := context.Background()
	phone := "0811111111"
	_, err := s.repo.Create(ctx, &domain.Courier{Name: "A", Phone: &phone, Level: 1, Status: domain.StatusActive})
	s.Require().NoError(err)

	_, err = s.repo.Create(ctx, &domain.Courier{Name: "B", Phone: &phone, Level: 1, Status: domain.StatusActive})
	s.ErrorIs(err, apperr.ErrConflict)
}

func (s *CourierRepositorySuite) TestGetNotFound() {
	got, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *CourierRepositorySuite) TestUpdate() {
	ctx := context.Background()
	c := s.make("Sari Utami", 2, time.Now().Add(-24*time.Hour))

	name := "Sari Utami Updated"
	level := 3
	status := domain.StatusInactive
	now := time.Now().UTC().Truncate(time.Second)

	updated, err := s.repo.Update(ctx, domain.PartialCourierUpdate{
		ID:           c.ID,
		Name:         &name,
		Phone:        domain.Some("0822222222"),
		Email:        domain.Some("sari.updated@example.com"),
		Level:        &level,
		Status:       &status,
		RegisteredAt: &now,
	})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Equal(name, updated.Name)
	s.Equal("0822222222", *updated.Phone)
	s.Equal("sari.updated@example.com", *updated.Email)
	s.Equal(3, updated.Level)
	s.Equal(domain.StatusInactive, updated.Status)
	s.True(now.Equal(updated.RegisteredAt))
	s.False(updated.UpdatedAt.Before(c.UpdatedAt))
}

func (s *CourierRepositorySuite) TestUpdate_PartialKeepsOtherFieldsAndClearsPhone() {
	ctx := context.Background()
	c := s.make("Keep Me", 4, time.Time{})

	level := 5
	updated, err := s.repo.Update(ctx, domain.PartialCourierUpdate{
		ID:    c.ID,
		Level: &level,
		Phone: domain.Null[string](),
	})
	s.Require().NoError(err)
	s.Equal("Keep Me", updated.Name)
	s.Equal(5, updated.Level)
	s.Nil(updated.Phone)
	s.Equal(c.Status, updated.Status)
}

func (s *CourierRepositorySuite) TestUpdate_NotFound() {
	name := "ghost"
	got, err := s.repo.Update(context.Background(), domain.PartialCourierUpdate{ID: 777, Name: &name})
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *CourierRepositorySuite) TestDelete() {
	ctx := context.Background()
	c := s.make("Doni Pratama", 2, time.Time{})

	ok, err := s.repo.Delete(ctx, c.ID)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Nil(got)

	ok, err = s.repo.Delete(ctx, c.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CourierRepositorySuite) TestPhoneTaken_ExcludesSelf() {
	ctx := context.Background()
	c := s.make("Owner", 2, time.Time{})

	taken, err := s.repo.PhoneTaken(ctx, *c.Phone, 0)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.repo.PhoneTaken(ctx, *c.Phone, c.ID)
	s.Require().NoError(err)
	s.False(taken)

	taken, err = s.repo.PhoneTaken(ctx, "000", 0)
	s.Require().NoError(err)
	s.False(taken)
}

func (s *CourierRepositorySuite) TestList_Paginates() {
	for i := 0; i < 25; i++ {
		s.make(fmt.Sprintf("Courier %02d", i), 2, time.Time{})
	}

	plan := listing.Compose(listing.Params{PerPage: "10"})
	items, total, err := s.repo.List(context.Background(), plan)
	s.Require().NoError(err)

	meta := listing.NewPage(plan, items, total).Meta
	s.Equal(10, meta.Count)
	s.Equal(1, *meta.From)
	s.Equal(10, *meta.To)
	s.Equal(int64(25), meta.Total)
	s.Equal(3, meta.TotalPages)

	items, _ = s.list(listing.Params{PerPage: "10", Page: "3"})
	s.Equal([]string{"Courier 20", "Courier 21", "Courier 22", "Courier 23", "Courier 24"}, names(items))
}

func (s *CourierRepositorySuite) TestList_DefaultSortByName() {
	s.make("Charlie", 2, time.Time{})
	s.make("Alpha", 2, time.Time{})
	s.make("Bravo", 2, time.Time{})

	items, _ := s.list(listing.Params{})
	s.Equal([]string{"Alpha", "Bravo", "Charlie"}, names(items))
}

func (s *CourierRepositorySuite) TestList_TieBreakByID() {
	first := s.make("Same", 2, time.Time{})
	second := s.make("Same", 3, time.Time{})

	items, _ := s.list(listing.Params{})
	s.Require().Len(items, 2)
	s.Equal(first.ID, items[0].ID)
	s.Equal(second.ID, items[1].ID)
}

func (s *CourierRepositorySuite) TestList_SortByRegisteredAt() {
	now := time.Now()
	s.make("Oldest", 2, now.Add(-72*time.Hour))
	s.make("Middle", 2, now.Add(-48*time.Hour))
	s.make("Newest", 2, now.Add(-24*time.Hour))

	items, _ := s.list(listing.Params{Sort: "registered_at", Direction: "desc"})
	s.Equal([]string{"Newest", "Middle", "Oldest"}, names(items))

	items, _ = s.list(listing.Params{Sort: "registered_at", Direction: "sideways"})
	s.Equal([]string{"Oldest", "Middle", "Newest"}, names(items))
}

func (s *CourierRepositorySuite) TestList_SearchMatchesAllTerms() {
	s.make("Budiono Hadi Agung", 2, time.Time{})
	s.make("Budiono Hadi", 2, time.Time{})
	s.make("Agung Pratama", 2, time.Time{})

	items, total := s.list(listing.Params{Search: "budi agung"})
	s.Equal(int64(1), total)
	s.Equal([]string{"Budiono Hadi Agung"}, names(items))
}

func (s *CourierRepositorySuite) TestList_SearchWildcardsAreLiteral() {
	s.make("100% Fast", 2, time.Time{})
	s.make("1000 Slow", 2, time.Time{})

	items, _ := s.list(listing.Params{Search: "100%"})
	s.Equal([]string{"100% Fast"}, names(items))
}

func (s *CourierRepositorySuite) TestList_LevelFilter() {
	for l := 1; l <= 4; l++ {
		s.make(fmt.Sprintf("Level %d", l), l, time.Time{})
	}

	items, _ := s.list(listing.Params{Level: "2,3"})
	s.Equal([]string{"Level 2", "Level 3"}, names(items))

	items, _ = s.list(listing.Params{Level: "1,4"})
	s.Len(items, 4, "no filterable level means no filter")

	items, _ = s.list(listing.Params{Level: "3,x"})
	s.Equal([]string{"Level 3"}, names(items))
}

func (s *CourierRepositorySuite) TestList_PastLastPage() {
	s.make("Only", 2, time.Time{})

	items, total := s.list(listing.Params{Page: "5"})
	s.Empty(items)
	s.Equal(int64(1), total)
}

func (s *CourierRepositorySuite) TestList_HugePageIsEmpty() {
	s.make("Only", 2, time.Time{})

	items, total := s.list(listing.Params{Page: "9223372036854775807", PerPage: "100"})
	s.Empty(items)
	s.Equal(int64(1), total)
}

func (s *CourierRepositorySuite) TestList_SearchWithInvalidBytes() {
	s.make("Budi", 2, time.Time{})

	items, _ := s.list(listing.Params{Search: "\xff"})
	s.Equal([]string{"Budi"}, names(items))

	items, _ = s.list(listing.Params{Search: "Bu\x00di"})
	s.Equal([]string{"Budi"}, names(items))
}

func TestCourierRepositorySuite(t *testing.T) {
	suite.Run(t, new(CourierRepositorySuite))
}
