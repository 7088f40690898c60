package booking

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studiopromise/internal/domain"
)

// Mock repositories
type MockEventBookingRepository struct {
	mock.Mock
}

func (m *MockEventBookingRepository) CountForDate(ctx context.Context, studioID int64, date time.Time) (int64, []int64, error) {
	args := m.Called(ctx, studioID, date)
	if args.Get(1) == nil {
		return args.Get(0).(int64), nil, args.Error(2)
	}
	return args.Get(0).(int64), args.Get(1).([]int64), args.Error(2)
}

func (m *MockEventBookingRepository) CreateWithinLimit(ctx context.Context, b *domain.EventBooking, limit int) (bool, error) {
	args := m.Called(ctx, b, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventBookingRepository) GetByDeal(ctx context.Context, dealID int64) (*domain.EventBooking, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventBooking), args.Error(1)
}

func (m *MockEventBookingRepository) DeleteByDeal(ctx context.Context, dealID int64) error {
	args := m.Called(ctx, dealID)
	return args.Error(0)
}

type MockStudioRepository struct {
	mock.Mock
}

func (m *MockStudioRepository) GetByID(ctx context.Context, id int64) (*domain.Studio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Studio), args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestService_Check(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	studios.On("GetByID", mock.Anything, int64(10)).Return(&domain.Studio{ID: 10, DailyEventLimit: 2}, nil)
	bookings.On("CountForDate", mock.Anything, int64(10), day(2027, time.June, 20)).Return(int64(2), []int64{5, 6}, nil)

	report, err := svc.Check(context.Background(), 10, day(2027, time.June, 20).Add(13*time.Hour))

	assert.NoError(t, err)
	assert.True(t, report.IsFull)
	assert.Equal(t, 2, report.CurrentCount)
	assert.Equal(t, 2, report.Limit)
	assert.Equal(t, []int64{5, 6}, report.ConflictingDealIDs)
}

func TestService_Check_DefaultLimit(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	studios.On("GetByID", mock.Anything, int64(10)).Return(&domain.Studio{ID: 10}, nil)
	bookings.On("CountForDate", mock.Anything, int64(10), day(2027, time.June, 20)).Return(int64(0), []int64{}, nil)

	report, err := svc.Check(context.Background(), 10, day(2027, time.June, 20))

	assert.NoError(t, err)
	assert.False(t, report.IsFull)
	assert.Equal(t, 1, report.Limit)
}

func TestService_Reserve(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("GetByDeal", mock.Anything, int64(1)).Return(nil, nil)
	studios.On("GetByID", mock.Anything, int64(10)).Return(&domain.Studio{ID: 10, DailyEventLimit: 1}, nil)
	bookings.On("CreateWithinLimit", mock.Anything, mock.MatchedBy(func(b *domain.EventBooking) bool {
		return b.DealID == 1 && b.EventDate.Equal(day(2027, time.June, 20))
	}), 1).Return(true, nil)

	err := svc.Reserve(context.Background(), 10, 1, day(2027, time.June, 20).Add(9*time.Hour))

	assert.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestService_Reserve_CapacityExceeded(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("GetByDeal", mock.Anything, int64(1)).Return(nil, nil)
	studios.On("GetByID", mock.Anything, int64(10)).Return(&domain.Studio{ID: 10, DailyEventLimit: 1}, nil)
	bookings.On("CreateWithinLimit", mock.Anything, mock.Anything, 1).Return(false, nil)

	err := svc.Reserve(context.Background(), 10, 1, day(2027, time.June, 20))

	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestService_Reserve_SameDateIsIdempotent(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("GetByDeal", mock.Anything, int64(1)).Return(&domain.EventBooking{
		DealID: 1, StudioID: 10, EventDate: day(2027, time.June, 20),
	}, nil)

	err := svc.Reserve(context.Background(), 10, 1, day(2027, time.June, 20))

	assert.NoError(t, err)
	bookings.AssertNotCalled(t, "CreateWithinLimit", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Reserve_DateMoveFreesOldSlot(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("GetByDeal", mock.Anything, int64(1)).Return(&domain.EventBooking{
		DealID: 1, StudioID: 10, EventDate: day(2027, time.June, 20),
	}, nil)
	bookings.On("DeleteByDeal", mock.Anything, int64(1)).Return(nil)
	studios.On("GetByID", mock.Anything, int64(10)).Return(&domain.Studio{ID: 10, DailyEventLimit: 1}, nil)
	bookings.On("CreateWithinLimit", mock.Anything, mock.MatchedBy(func(b *domain.EventBooking) bool {
		return b.EventDate.Equal(day(2027, time.July, 4))
	}), 1).Return(true, nil)

	err := svc.Reserve(context.Background(), 10, 1, day(2027, time.July, 4))

	assert.NoError(t, err)
	bookings.AssertCalled(t, "DeleteByDeal", mock.Anything, int64(1))
}

func TestService_Reserve_DuplicateKeyIsIdempotent(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("GetByDeal", mock.Anything, int64(1)).Return(nil, nil)
	studios.On("GetByID", mock.Anything, int64(10)).Return(&domain.Studio{ID: 10, DailyEventLimit: 1}, nil)
	bookings.On("CreateWithinLimit", mock.Anything, mock.Anything, 1).Return(false, &pgconn.PgError{Code: "23505"})

	err := svc.Reserve(context.Background(), 10, 1, day(2027, time.June, 20))

	assert.NoError(t, err)
}

func TestService_Reserve_UnknownStudio(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("GetByDeal", mock.Anything, int64(1)).Return(nil, nil)
	studios.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	err := svc.Reserve(context.Background(), 99, 1, day(2027, time.June, 20))

	assert.ErrorIs(t, err, ErrStudioNotFound)
}

func TestService_Release(t *testing.T) {
	bookings := new(MockEventBookingRepository)
	studios := new(MockStudioRepository)
	svc := NewService(bookings, studios, 1)

	bookings.On("DeleteByDeal", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, svc.Release(context.Background(), 1))
}
