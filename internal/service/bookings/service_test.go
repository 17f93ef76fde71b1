package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	bookingRepo "github.com/kmalyshev/ABS-BookingService/internal/infra/storage/booking"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/notifyservice"
	"github.com/kmalyshev/ABS-BookingService/internal/service/bookings/models"
	"github.com/kmalyshev/ABS-BookingService/pkg/ptr"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	cancelledID     *int64
	cancelledReason string
	updatedStatus   *domain.BookingStatus
	listStatus      *domain.BookingStatus
	listFilter      *domain.BusinessBookingsFilter
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	m := make(map[int64]*domain.Booking)
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return booking, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByClientID(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.listStatus = status
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ClientID != nil && *b.ClientID == clientID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	f.listFilter = &filter
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.BusinessID == filter.BusinessID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updatedStatus = &status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.cancelledID = &id
	f.cancelledReason = reason
	return nil
}

type fakeDirectoryClient struct {
	business *directoryservice.Business
	err      error
}

func (f *fakeDirectoryClient) GetBusiness(_ context.Context, _ int64) (*directoryservice.Business, error) {
	return f.business, f.err
}

type fakeNotifyClient struct {
	sent []*notifyservice.Notification
	err  error
}

func (f *fakeNotifyClient) SendBookingCancelled(_ context.Context, n *notifyservice.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Хелперы

const (
	ownerID    = int64(100)
	managerID  = int64(101)
	clientID   = int64(200)
	strangerID = int64(999)
)

func testBusiness() *directoryservice.Business {
	return &directoryservice.Business{
		ID:         1,
		Name:       "Салон Ромашка",
		OwnerID:    ownerID,
		ManagerIDs: []int64{managerID},
	}
}

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:           7,
		BusinessID:   1,
		StaffID:      10,
		ServiceID:    5,
		ClientID:     ptr.Ptr(clientID),
		StartTs:      time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTs:        time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC),
		Status:       status,
		ServiceTitle: "Стрижка",
	}
}

func newTestService(repo *fakeBookingRepo, directory *fakeDirectoryClient, notify *fakeNotifyClient) *Service {
	return NewService(repo, directory, notify, nopLogger{})
}

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{"client sees own booking", clientID, nil},
		{"owner sees business booking", ownerID, nil},
		{"manager sees business booking", managerID, nil},
		{"stranger denied", strangerID, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
			svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

			resp, err := svc.GetByID(context.Background(), 7, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), resp.ID)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	_, err := svc.GetByID(context.Background(), 404, clientID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetClientBookings_OwnHistoryOnly(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: clientID,
		UserID:   clientID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	// Чужая история недоступна
	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: clientID,
		UserID:   strangerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetClientBookings_StatusFilter(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	_, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: clientID,
		UserID:   clientID,
		Status:   ptr.Ptr("completed"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.listStatus)
	assert.Equal(t, domain.StatusCompleted, *repo.listStatus)

	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: clientID,
		UserID:   clientID,
		Status:   ptr.Ptr("bogus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessBookings_AccessAndFilter(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	resp, err := svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		UserID:     ownerID,
		BusinessID: 1,
		StaffID:    ptr.Ptr(int64(10)),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	require.NotNil(t, repo.listFilter)
	require.NotNil(t, repo.listFilter.StaffID)
	assert.Equal(t, int64(10), *repo.listFilter.StaffID)

	// Клиент не видит записи бизнеса целиком
	_, err = svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		UserID:     clientID,
		BusinessID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_ByClient(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, notify)

	err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: "не смогу прийти",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.cancelledID)
	assert.Equal(t, int64(7), *repo.cancelledID)
	assert.Equal(t, "не смогу прийти", repo.cancelledReason)

	require.Len(t, notify.sent, 1)
	assert.Equal(t, notifyservice.EventBookingCancelled, notify.sent[0].Event)
}

func TestCancel_ByOwnerAndStranger(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusPending))
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	// Владелец отменяет чужую запись своего бизнеса
	err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{UserID: ownerID})
	require.NoError(t, err)

	// Посторонний пользователь - отказ
	repo = newFakeBookingRepo(testBooking(domain.StatusPending))
	svc = newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	err = svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{UserID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.cancelledID)
}

func TestCancel_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeBookingRepo(testBooking(status))
			svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

			err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{UserID: clientID})
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: strings.Repeat("а", domain.MaxCancellationReasonLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_NotifyFailureIsNotFatal(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusConfirmed))
	notify := &fakeNotifyClient{err: errors.New("notify service unavailable")}
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, notify)

	err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{UserID: clientID})
	assert.NoError(t, err)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{"pending to confirmed", domain.StatusPending, "confirmed", nil},
		{"confirmed to completed", domain.StatusConfirmed, "completed", nil},
		{"confirmed to no_show", domain.StatusConfirmed, "no_show", nil},
		{"completed is terminal", domain.StatusCompleted, "confirmed", ErrInvalidTransition},
		{"pending to completed forbidden", domain.StatusPending, "completed", ErrInvalidTransition},
		{"unknown status", domain.StatusPending, "bogus", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBookingRepo(testBooking(tt.from))
			svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

			err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{
				UserID: ownerID,
				Status: tt.to,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, repo.updatedStatus)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, repo.updatedStatus)
			assert.Equal(t, domain.BookingStatus(tt.to), *repo.updatedStatus)
		})
	}
}

func TestUpdateStatus_OnlyBusinessStaff(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(domain.StatusPending))
	svc := newTestService(repo, &fakeDirectoryClient{business: testBusiness()}, &fakeNotifyClient{})

	// Даже собственный клиент записи не управляет её статусом
	err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{
		UserID: clientID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
