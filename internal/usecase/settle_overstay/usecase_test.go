package settle_overstay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	paymentstorage "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, nil
}

type fakePaymentRepo struct {
	existing *domain.Payment
	created  *domain.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	payment.ID = 77
	f.created = payment
	return payment, nil
}

func (f *fakePaymentRepo) GetByBookingAndKind(_ context.Context, _ int64, _ domain.PaymentKind) (*domain.Payment, error) {
	if f.existing == nil {
		return nil, paymentstorage.ErrPaymentNotFound
	}
	return f.existing, nil
}

type fakeUserClient struct {
	user *userservice.User
	err  error
}

func (f *fakeUserClient) GetUser(_ context.Context, _ int64) (*userservice.User, error) {
	return f.user, f.err
}

type fakeCalculator struct {
	result *domain.OverstayResult
}

func (f *fakeCalculator) ComputeForBooking(_ context.Context, _ *domain.Booking, _ time.Time) (*domain.OverstayResult, error) {
	return f.result, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	effectiveEnd := now.Add(-80 * time.Minute)

	booking := &domain.Booking{
		ID:         1,
		SlotID:     10,
		UserID:     7,
		LocationID: 3,
		Status:     domain.StatusActive,
	}

	attendant := &userservice.User{
		ID:         50,
		Role:       userservice.RoleAttendant,
		LocationID: ptr.Ptr(int64(3)),
	}

	overstayed := &domain.OverstayResult{
		Booking:         booking,
		EffectiveEnd:    effectiveEnd,
		IsOverstayed:    true,
		OverstayMinutes: 80,
		BillableHours:   2,
		HourlyRate:      100,
		AdditionalCost:  200,
	}

	newUC := func(paymentRepo *fakePaymentRepo, users *fakeUserClient, calc *fakeCalculator) *UseCase {
		return &UseCase{
			bookingRepo:  &fakeBookingRepo{booking: booking},
			paymentRepo:  paymentRepo,
			userClient:   users,
			calculator:   calc,
			txManager:    &fakeTxManager{},
			timeProvider: &fixedTime{now: now},
			logger:       nopLogger{},
		}
	}

	baseRequest := func() *Request {
		return &Request{BookingID: 1, AttendantUserID: 50, PaymentMethod: "cash"}
	}

	t.Run("settles billable overstay with receipt", func(t *testing.T) {
		paymentRepo := &fakePaymentRepo{}
		uc := newUC(paymentRepo, &fakeUserClient{user: attendant}, &fakeCalculator{result: overstayed})

		resp, err := uc.Execute(context.Background(), baseRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(77), resp.PaymentID)
		assert.Equal(t, int64(1), resp.BookingID)
		assert.Equal(t, 200.0, resp.Amount)
		assert.Equal(t, string(domain.MethodCash), resp.Method)
		assert.Equal(t, string(domain.PaymentRecordCompleted), resp.Status)
		assert.Equal(t, 80, resp.OverstayMinutes)
		assert.Equal(t, 2, resp.BillableHours)
		assert.True(t, strings.HasPrefix(resp.ReceiptNumber, "OVS-"))

		require.NotNil(t, paymentRepo.created)
		assert.Equal(t, domain.PaymentKindOverstay, paymentRepo.created.Kind)
		assert.Equal(t, domain.PaymentRecordCompleted, paymentRepo.created.Status)
	})

	t.Run("settlement attaches to the chain root", func(t *testing.T) {
		link := &domain.Booking{
			ID:                9,
			SlotID:            10,
			LocationID:        3,
			Status:            domain.StatusActive,
			OriginalBookingID: ptr.Ptr(int64(1)),
		}
		paymentRepo := &fakePaymentRepo{}
		uc := newUC(paymentRepo, &fakeUserClient{user: attendant}, &fakeCalculator{result: overstayed})
		uc.bookingRepo = &fakeBookingRepo{booking: link}

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 9, AttendantUserID: 50, PaymentMethod: "pos"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.BookingID)
		assert.Equal(t, int64(1), paymentRepo.created.BookingID)
	})

	t.Run("completed session cannot be settled", func(t *testing.T) {
		done := &domain.Booking{ID: 1, SlotID: 10, LocationID: 3, Status: domain.StatusCompleted}
		paymentRepo := &fakePaymentRepo{}
		uc := newUC(paymentRepo, &fakeUserClient{user: attendant}, &fakeCalculator{result: overstayed})
		uc.bookingRepo = &fakeBookingRepo{booking: done}

		_, err := uc.Execute(context.Background(), baseRequest())

		assert.ErrorIs(t, err, ErrSessionNotActive)
		assert.Nil(t, paymentRepo.created)
	})

	t.Run("cancelled booking cannot be settled", func(t *testing.T) {
		cancelled := &domain.Booking{ID: 1, SlotID: 10, LocationID: 3, Status: domain.StatusCancelled}
		uc := newUC(&fakePaymentRepo{}, &fakeUserClient{user: attendant}, &fakeCalculator{result: overstayed})
		uc.bookingRepo = &fakeBookingRepo{booking: cancelled}

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrSessionNotActive)
	})

	t.Run("no billable overstay", func(t *testing.T) {
		inGrace := &domain.OverstayResult{
			Booking:      booking,
			EffectiveEnd: effectiveEnd,
			IsOverstayed: true,
		}
		uc := newUC(&fakePaymentRepo{}, &fakeUserClient{user: attendant}, &fakeCalculator{result: inGrace})

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrNoOverstay)
	})

	t.Run("already settled", func(t *testing.T) {
		paymentRepo := &fakePaymentRepo{
			existing: &domain.Payment{ID: 5, Kind: domain.PaymentKindOverstay, Status: domain.PaymentRecordCompleted},
		}
		uc := newUC(paymentRepo, &fakeUserClient{user: attendant}, &fakeCalculator{result: overstayed})

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrAlreadySettled)
	})

	t.Run("customer cannot settle", func(t *testing.T) {
		customer := &userservice.User{ID: 50, Role: userservice.RoleCustomer}
		uc := newUC(&fakePaymentRepo{}, &fakeUserClient{user: customer}, &fakeCalculator{result: overstayed})

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("attendant of another location cannot settle", func(t *testing.T) {
		other := &userservice.User{ID: 50, Role: userservice.RoleAttendant, LocationID: ptr.Ptr(int64(99))}
		uc := newUC(&fakePaymentRepo{}, &fakeUserClient{user: other}, &fakeCalculator{result: overstayed})

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("gateway method is not collectable on site", func(t *testing.T) {
		uc := newUC(&fakePaymentRepo{}, &fakeUserClient{user: attendant}, &fakeCalculator{result: overstayed})

		req := baseRequest()
		req.PaymentMethod = "gateway"

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})
}

func TestNewReceiptNumber(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	receipt := newReceiptNumber(now)

	parts := strings.Split(receipt, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "OVS", parts[0])
	assert.Equal(t, "1748782800", parts[1])
	assert.Len(t, parts[2], 8)
}
