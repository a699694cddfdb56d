package create_walkin_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type fakeBookingRepo struct {
	overlapping []*domain.Booking
	created     *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = 42
	f.created = booking
	return booking, nil
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.overlapping, nil
}

type fakeSlotRepo struct {
	slot *domain.Slot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, _ int64) (*domain.Slot, error) {
	return f.slot, nil
}

type fakeSlotSync struct {
	occupied []int64
}

func (f *fakeSlotSync) Occupy(_ context.Context, slotID int64) error {
	f.occupied = append(f.occupied, slotID)
	return nil
}

type fakePaymentRepo struct {
	created *domain.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	payment.ID = 77
	f.created = payment
	return payment, nil
}

type fakeUserClient struct {
	attendant *userservice.User
	customer  *userservice.User
}

func (f *fakeUserClient) GetUser(_ context.Context, _ int64) (*userservice.User, error) {
	return f.attendant, nil
}

func (f *fakeUserClient) GetOrCreateByPhone(_ context.Context, _ string) (*userservice.User, error) {
	return f.customer, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEvents struct {
	created []*domain.Booking
}

func (f *fakeEvents) BookingCreated(_ context.Context, booking *domain.Booking) {
	f.created = append(f.created, booking)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	slot := &domain.Slot{ID: 10, LocationID: 3, HourlyPrice: 100, Status: domain.SlotAvailable}
	attendant := &userservice.User{ID: 50, Role: userservice.RoleAttendant, LocationID: ptr.Ptr(int64(3))}
	customer := &userservice.User{ID: 8, Role: userservice.RoleCustomer}

	newUC := func(bookingRepo *fakeBookingRepo, slotRepo *fakeSlotRepo, slotSync *fakeSlotSync, paymentRepo *fakePaymentRepo, users *fakeUserClient, events *fakeEvents) *UseCase {
		return &UseCase{
			bookingRepo:  bookingRepo,
			slotRepo:     slotRepo,
			slotSync:     slotSync,
			paymentRepo:  paymentRepo,
			userClient:   users,
			txManager:    &fakeTxManager{},
			events:       events,
			timeProvider: &fixedTime{now: now},
			logger:       nopLogger{},
		}
	}

	baseRequest := func() *Request {
		return &Request{
			AttendantUserID: 50,
			SlotID:          10,
			CustomerPhone:   "+79990001122",
			PlateNumber:     "А123БВ777",
			DurationHours:   2,
			PaymentMethod:   "cash",
		}
	}

	t.Run("walk-in booking is active and paid immediately", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{}
		slotSync := &fakeSlotSync{}
		paymentRepo := &fakePaymentRepo{}
		events := &fakeEvents{}
		uc := newUC(bookingRepo, &fakeSlotRepo{slot: slot}, slotSync, paymentRepo, &fakeUserClient{attendant: attendant, customer: customer}, events)

		resp, err := uc.Execute(context.Background(), baseRequest())

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusActive), resp.Status)
		assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
		assert.Equal(t, int64(8), resp.UserID)
		assert.Equal(t, int64(50), resp.AttendantUserID)
		assert.Equal(t, now, resp.StartTime)
		assert.Equal(t, now.Add(2*time.Hour), resp.EndTime)
		assert.Equal(t, 200.0, resp.TotalPrice)
		assert.True(t, strings.HasPrefix(resp.ReceiptNumber, "PRK-"))

		// Место занято синхронно через синхронизатор статусов
		assert.Equal(t, []int64{10}, slotSync.occupied)

		// Платеж принят на месте
		require.NotNil(t, paymentRepo.created)
		assert.Equal(t, domain.PaymentKindBooking, paymentRepo.created.Kind)
		assert.Equal(t, domain.MethodCash, paymentRepo.created.Method)
		assert.Equal(t, domain.PaymentRecordCompleted, paymentRepo.created.Status)
		require.NotNil(t, paymentRepo.created.ReceiptNumber)

		require.NotNil(t, bookingRepo.created.AttendantUserID)
		assert.Equal(t, int64(50), *bookingRepo.created.AttendantUserID)
		require.Len(t, events.created, 1)
	})

	t.Run("attendant of another location is rejected", func(t *testing.T) {
		other := &userservice.User{ID: 50, Role: userservice.RoleAttendant, LocationID: ptr.Ptr(int64(99))}
		slotSync := &fakeSlotSync{}
		uc := newUC(&fakeBookingRepo{}, &fakeSlotRepo{slot: slot}, slotSync, &fakePaymentRepo{}, &fakeUserClient{attendant: other, customer: customer}, &fakeEvents{})

		_, err := uc.Execute(context.Background(), baseRequest())

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, slotSync.occupied)
	})

	t.Run("customer cannot create walk-in booking", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{}, &fakeSlotRepo{slot: slot}, &fakeSlotSync{}, &fakePaymentRepo{}, &fakeUserClient{attendant: customer, customer: customer}, &fakeEvents{})

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("busy slot is rejected", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{
			overlapping: []*domain.Booking{
				{ID: 5, StartTime: now, EndTime: now.Add(time.Hour), Status: domain.StatusActive},
			},
		}
		slotSync := &fakeSlotSync{}
		uc := newUC(bookingRepo, &fakeSlotRepo{slot: slot}, slotSync, &fakePaymentRepo{}, &fakeUserClient{attendant: attendant, customer: customer}, &fakeEvents{})

		_, err := uc.Execute(context.Background(), baseRequest())

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Empty(t, slotSync.occupied)
	})

	t.Run("maintenance slot is rejected", func(t *testing.T) {
		maintenance := &domain.Slot{ID: 10, LocationID: 3, Status: domain.SlotMaintenance}
		uc := newUC(&fakeBookingRepo{}, &fakeSlotRepo{slot: maintenance}, &fakeSlotSync{}, &fakePaymentRepo{}, &fakeUserClient{attendant: attendant, customer: customer}, &fakeEvents{})

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrSlotUnderMaintenance)
	})

	t.Run("gateway method is rejected", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{}, &fakeSlotRepo{slot: slot}, &fakeSlotSync{}, &fakePaymentRepo{}, &fakeUserClient{attendant: attendant, customer: customer}, &fakeEvents{})

		req := baseRequest()
		req.PaymentMethod = "gateway"

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("missing customer phone", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{}, &fakeSlotRepo{slot: slot}, &fakeSlotSync{}, &fakePaymentRepo{}, &fakeUserClient{attendant: attendant, customer: customer}, &fakeEvents{})

		req := baseRequest()
		req.CustomerPhone = " "

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestNewReceiptNumber(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	receipt := newReceiptNumber(now)

	parts := strings.Split(receipt, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "PRK", parts[0])
	assert.Len(t, parts[2], 8)
}
