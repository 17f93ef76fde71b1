package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalyshev/ABS-BookingService/internal/availability"
	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/notifyservice"
	"github.com/kmalyshev/ABS-BookingService/pkg/ptr"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	existing  []*domain.Booking
	created   *domain.Booking
	createErr error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *booking
	stored.ID = 101
	stored.CreatedAt = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	stored.UpdatedAt = stored.CreatedAt
	f.created = &stored
	return &stored, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	return f.existing, nil
}

type fakeExceptionRepo struct {
	exceptions []*domain.AvailabilityException
}

func (f *fakeExceptionRepo) GetByBusinessAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.AvailabilityException, error) {
	return f.exceptions, nil
}

type fakeDirectoryClient struct {
	business   *directoryservice.Business
	service    *directoryservice.Service
	profile    *directoryservice.ClientProfile
	profileErr error
}

func (f *fakeDirectoryClient) GetBusiness(_ context.Context, _ int64) (*directoryservice.Business, error) {
	return f.business, nil
}

func (f *fakeDirectoryClient) GetService(_ context.Context, _, _ int64) (*directoryservice.Service, error) {
	return f.service, nil
}

func (f *fakeDirectoryClient) GetClientProfileWithGracefulDegradation(_ context.Context, _ int64) (*directoryservice.ClientProfile, error) {
	return f.profile, f.profileErr
}

type fakeNotifyClient struct {
	sent []*notifyservice.Notification
	err  error
}

func (f *fakeNotifyClient) SendBookingCreated(_ context.Context, n *notifyservice.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Хелперы

var (
	testNow  = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) // вторник
	testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // понедельник
)

func workingWeek(start, end string) domain.WeekSchedule {
	day := domain.DaySchedule{
		IsWorking: true,
		Start:     ptr.Ptr(types.TimeString(start)),
		End:       ptr.Ptr(types.TimeString(end)),
	}
	return domain.WeekSchedule{
		Monday:    day,
		Tuesday:   day,
		Wednesday: day,
		Thursday:  day,
		Friday:    day,
		Saturday:  day,
		Sunday:    domain.DaySchedule{IsWorking: false},
	}
}

func testDirectory(duration, bufBefore, bufAfter int) *fakeDirectoryClient {
	return &fakeDirectoryClient{
		business: &directoryservice.Business{
			ID:           1,
			Name:         "Салон Ромашка",
			OwnerID:      100,
			WeekSchedule: workingWeek("09:00", "18:00"),
			Staff: []directoryservice.Staff{
				{ID: 10, Name: "Анна", IsActive: true},
			},
		},
		service: &directoryservice.Service{
			ID:                  5,
			BusinessID:          1,
			Title:               "Стрижка",
			DurationMinutes:     duration,
			BufferBeforeMinutes: bufBefore,
			BufferAfterMinutes:  bufAfter,
			Price:               ptr.Ptr(1500.0),
			StaffIDs:            []int64{10},
		},
		profile: &directoryservice.ClientProfile{ID: 200, DisplayName: "Иван Петров"},
	}
}

type testEnv struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	notify      *fakeNotifyClient
}

func newTestEnv(
	bookingRepo *fakeBookingRepo,
	exceptionRepo *fakeExceptionRepo,
	directory *fakeDirectoryClient,
) *testEnv {
	notify := &fakeNotifyClient{}
	uc := NewUseCase(bookingRepo, exceptionRepo, directory, notify, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return &testEnv{uc: uc, bookingRepo: bookingRepo, notify: notify}
}

func validRequest() *Request {
	return &Request{
		UserID:     200,
		BusinessID: 1,
		StaffID:    10,
		ServiceID:  5,
		Date:       testDate,
		StartTime:  "10:00",
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 15))

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), resp.StartTs)
	// EndTs включает буфер после услуги
	assert.Equal(t, time.Date(2026, 9, 7, 11, 15, 0, 0, time.UTC), resp.EndTs)

	// Денормализация данных услуги и клиента
	assert.Equal(t, "Стрижка", resp.ServiceTitle)
	require.NotNil(t, resp.ServicePrice)
	assert.Equal(t, 1500.0, *resp.ServicePrice)
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Иван Петров", *resp.ClientName)
	require.NotNil(t, resp.ClientID)
	assert.Equal(t, int64(200), *resp.ClientID)

	// Уведомление отправлено после коммита
	require.Len(t, env.notify.sent, 1)
	assert.Equal(t, int64(101), env.notify.sent[0].BookingID)
}

func TestExecute_ServiceWithoutPrice(t *testing.T) {
	directory := testDirectory(60, 0, 0)
	directory.service.Price = nil

	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, directory)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.ServicePrice)
	require.NotNil(t, env.bookingRepo.created)
	assert.Nil(t, env.bookingRepo.created.ServicePrice)
}

func TestExecute_GuestFallbackWhenProfileUnavailable(t *testing.T) {
	directory := testDirectory(60, 0, 0)
	directory.profile = nil
	directory.profileErr = errors.New("directory service unavailable")

	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, directory)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.ClientName)
	assert.Equal(t, domain.GuestClientName, *resp.ClientName)
}

func TestExecute_NotifyFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))
	env.notify.err = errors.New("notify service unavailable")

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
}

func TestExecute_BusinessClosed(t *testing.T) {
	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))

	req := validRequest()
	req.Date = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)
	assert.Nil(t, env.bookingRepo.created)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))

	// Услуга не помещается до конца рабочего дня
	req := validRequest()
	req.StartTime = "17:30"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_SlotBlackedOut(t *testing.T) {
	exceptionRepo := &fakeExceptionRepo{exceptions: []*domain.AvailabilityException{{
		ID:         1,
		BusinessID: 1,
		Date:       testDate,
		Kind:       domain.ExceptionClosed,
		StartTime:  ptr.Ptr(types.TimeString("13:00")),
		EndTime:    ptr.Ptr(types.TimeString("15:00")),
		Reason:     ptr.Ptr("обед"),
	}}}

	env := newTestEnv(&fakeBookingRepo{}, exceptionRepo, testDirectory(60, 0, 0))

	req := validRequest()
	req.StartTime = "13:00"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotBlackedOut)
}

func TestExecute_SlotConflictWithSuggestions(t *testing.T) {
	occupied := &domain.Booking{
		ID:         42,
		BusinessID: 1,
		StaffID:    10,
		Status:     domain.StatusConfirmed,
		StartTs:    time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTs:      time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC),
	}

	env := newTestEnv(&fakeBookingRepo{existing: []*domain.Booking{occupied}}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.Error(t, err)

	var conflict *ConflictDetails
	require.ErrorAs(t, err, &conflict)

	assert.Equal(t, string(availability.CodeSlotConflict), conflict.Code)
	require.NotNil(t, conflict.Conflicting)
	assert.Equal(t, int64(42), conflict.Conflicting.ID)

	// Ближайшие свободные альтернативы с шагом 30 минут
	require.Len(t, conflict.Suggested, domain.MaxSuggestedSlots)
	assert.Equal(t, types.TimeString("09:00"), conflict.Suggested[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), conflict.Suggested[0].EndTime)
	assert.Equal(t, types.TimeString("11:00"), conflict.Suggested[1].StartTime)
	assert.Equal(t, types.TimeString("11:30"), conflict.Suggested[2].StartTime)
	for _, slot := range conflict.Suggested {
		assert.True(t, slot.IsAvailable)
	}

	assert.Nil(t, env.bookingRepo.created)
}

func TestExecute_SuggestionsSurviveRetryUnderBufferBefore(t *testing.T) {
	existing := &domain.Booking{
		ID:         42,
		BusinessID: 1,
		StaffID:    10,
		Status:     domain.StatusConfirmed,
		StartTs:    time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndTs:      time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
	}

	env := newTestEnv(&fakeBookingRepo{existing: []*domain.Booking{existing}}, &fakeExceptionRepo{}, testDirectory(60, 15, 0))

	req := validRequest()
	req.StartTime = "09:30"

	_, err := env.uc.Execute(context.Background(), req)

	var conflict *ConflictDetails
	require.ErrorAs(t, err, &conflict)
	require.NotEmpty(t, conflict.Suggested)

	// Слот 10:00 на повторной попытке отклонился бы из-за буфера до услуги
	for _, slot := range conflict.Suggested {
		assert.NotEqual(t, types.TimeString("10:00"), slot.StartTime)
	}
	assert.Equal(t, types.TimeString("10:30"), conflict.Suggested[0].StartTime)

	// Каждая альтернатива проходит проверку конфликтов как есть
	for _, slot := range conflict.Suggested {
		start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(slot.StartTime.Minutes()) * time.Minute)
		end := start.Add(60 * time.Minute) // длительность + буфер после (0)

		retry := availability.CheckConflict(start, end, 15, testNow, []*domain.Booking{existing})
		assert.Nilf(t, retry, "suggested slot %s must pass the conflict check on retry", slot.StartTime)
	}
}

func TestExecute_CancelledBookingDoesNotConflict(t *testing.T) {
	cancelled := &domain.Booking{
		ID:         42,
		BusinessID: 1,
		StaffID:    10,
		Status:     domain.StatusCancelled,
		StartTs:    time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTs:      time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC),
	}

	env := newTestEnv(&fakeBookingRepo{existing: []*domain.Booking{cancelled}}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_BufferBeforeCausesConflict(t *testing.T) {
	occupied := &domain.Booking{
		ID:         42,
		BusinessID: 1,
		StaffID:    10,
		Status:     domain.StatusConfirmed,
		StartTs:    time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		EndTs:      time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC),
	}

	env := newTestEnv(&fakeBookingRepo{existing: []*domain.Booking{occupied}}, &fakeExceptionRepo{}, testDirectory(60, 30, 0))

	// Сам слот 13:00-14:00 свободен, но буфер до услуги упирается в 12:00-13:00
	req := validRequest()
	req.StartTime = "13:00"

	_, err := env.uc.Execute(context.Background(), req)

	var conflict *ConflictDetails
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, string(availability.CodeSlotConflict), conflict.Code)
}

func TestExecute_PastTime(t *testing.T) {
	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))
	env.uc.timeProvider = fixedTime{now: time.Date(2026, 9, 7, 12, 30, 0, 0, time.UTC)}

	req := validRequest() // слот 10:00 сегодняшнего дня уже прошел

	_, err := env.uc.Execute(context.Background(), req)

	var conflict *ConflictDetails
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, string(availability.CodePastTime), conflict.Code)
	assert.Nil(t, conflict.Conflicting)
	assert.Empty(t, conflict.Suggested)
}

func TestExecute_TooFarInFuture(t *testing.T) {
	env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))

	req := validRequest()
	req.Date = testNow.AddDate(0, 4, 0)

	_, err := env.uc.Execute(context.Background(), req)

	var conflict *ConflictDetails
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, string(availability.CodeTooFarFuture), conflict.Code)
	assert.Empty(t, conflict.Suggested)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero user id", func(r *Request) { r.UserID = 0 }},
		{"zero business id", func(r *Request) { r.BusinessID = 0 }},
		{"bad start time", func(r *Request) { r.StartTime = "25:99" }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(&fakeBookingRepo{}, &fakeExceptionRepo{}, testDirectory(60, 0, 0))

			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
