package verify_payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	paymentstorage "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
)

type fakeBookingRepo struct {
	booking   *domain.Booking
	activated []int64
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, nil
}

func (f *fakeBookingRepo) Activate(_ context.Context, id int64) error {
	f.activated = append(f.activated, id)
	return nil
}

type fakePaymentRepo struct {
	payment        *domain.Payment
	notFound       bool
	statusUpdates  []domain.PaymentRecordStatus
	completeOnRead bool // имитация параллельной проверки, успевшей раньше
	reads          int
}

func (f *fakePaymentRepo) GetByProviderRef(_ context.Context, _ string) (*domain.Payment, error) {
	if f.notFound {
		return nil, paymentstorage.ErrPaymentNotFound
	}
	f.reads++
	if f.completeOnRead && f.reads > 1 {
		completed := *f.payment
		completed.Status = domain.PaymentRecordCompleted
		return &completed, nil
	}
	return f.payment, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentRecordStatus) error {
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

type fakeSlotSync struct {
	occupied []int64
}

func (f *fakeSlotSync) Occupy(_ context.Context, slotID int64) error {
	f.occupied = append(f.occupied, slotID)
	return nil
}

type fakePaymentClient struct {
	resp  *paymentservice.VerifyResponse
	err   error
	calls int
}

func (f *fakePaymentClient) VerifyPayment(_ context.Context, _ string) (*paymentservice.VerifyResponse, error) {
	f.calls++
	return f.resp, f.err
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEvents struct {
	updated []*domain.Booking
}

func (f *fakeEvents) BookingStatusUpdated(_ context.Context, booking *domain.Booking) {
	f.updated = append(f.updated, booking)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	providerRef := "prov-abc-123"

	newPayment := func() *domain.Payment {
		return &domain.Payment{
			ID:        1,
			BookingID: 2,
			Kind:      domain.PaymentKindBooking,
			Amount:    200,
			Method:    domain.MethodGateway,
			Status:    domain.PaymentRecordPending,
		}
	}

	newBooking := func() *domain.Booking {
		return &domain.Booking{
			ID:            2,
			SlotID:        10,
			UserID:        7,
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
		}
	}

	t.Run("successful verification activates the booking", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{booking: newBooking()}
		paymentRepo := &fakePaymentRepo{payment: newPayment()}
		slotSync := &fakeSlotSync{}
		client := &fakePaymentClient{resp: &paymentservice.VerifyResponse{Status: "success"}}
		events := &fakeEvents{}

		uc := NewUseCase(bookingRepo, paymentRepo, slotSync, client, &fakeTxManager{}, events, nopLogger{})

		resp, err := uc.Execute(context.Background(), &Request{ProviderRef: providerRef})

		require.NoError(t, err)
		assert.True(t, resp.Verified)
		assert.Equal(t, string(domain.PaymentRecordCompleted), resp.Status)
		assert.Equal(t, []domain.PaymentRecordStatus{domain.PaymentRecordCompleted}, paymentRepo.statusUpdates)
		assert.Equal(t, []int64{2}, bookingRepo.activated)
		// Место занимается через синхронизатор статусов
		assert.Equal(t, []int64{10}, slotSync.occupied)
		require.Len(t, events.updated, 1)
		assert.Equal(t, domain.StatusActive, events.updated[0].Status)
	})

	t.Run("repeat verification is a no-op", func(t *testing.T) {
		payment := newPayment()
		payment.Status = domain.PaymentRecordCompleted

		paymentRepo := &fakePaymentRepo{payment: payment}
		client := &fakePaymentClient{}
		events := &fakeEvents{}

		uc := NewUseCase(&fakeBookingRepo{}, paymentRepo, &fakeSlotSync{}, client, &fakeTxManager{}, events, nopLogger{})

		resp, err := uc.Execute(context.Background(), &Request{ProviderRef: providerRef})

		require.NoError(t, err)
		assert.True(t, resp.Verified)
		// Провайдер не вызывается, статусы не трогаются
		assert.Zero(t, client.calls)
		assert.Empty(t, paymentRepo.statusUpdates)
		assert.Empty(t, events.updated)
	})

	t.Run("concurrent verification wins the race", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{booking: newBooking()}
		paymentRepo := &fakePaymentRepo{payment: newPayment(), completeOnRead: true}
		slotSync := &fakeSlotSync{}
		client := &fakePaymentClient{resp: &paymentservice.VerifyResponse{Status: "success"}}
		events := &fakeEvents{}

		uc := NewUseCase(bookingRepo, paymentRepo, slotSync, client, &fakeTxManager{}, events, nopLogger{})

		resp, err := uc.Execute(context.Background(), &Request{ProviderRef: providerRef})

		require.NoError(t, err)
		assert.True(t, resp.Verified)
		assert.Empty(t, paymentRepo.statusUpdates)
		assert.Empty(t, bookingRepo.activated)
		assert.Empty(t, slotSync.occupied)
		assert.Empty(t, events.updated)
	})

	t.Run("provider rejection leaves everything pending", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{booking: newBooking()}
		paymentRepo := &fakePaymentRepo{payment: newPayment()}
		slotSync := &fakeSlotSync{}
		client := &fakePaymentClient{resp: &paymentservice.VerifyResponse{Status: "declined"}}

		uc := NewUseCase(bookingRepo, paymentRepo, slotSync, client, &fakeTxManager{}, &fakeEvents{}, nopLogger{})

		resp, err := uc.Execute(context.Background(), &Request{ProviderRef: providerRef})

		require.NoError(t, err)
		assert.False(t, resp.Verified)
		assert.Equal(t, string(domain.PaymentRecordPending), resp.Status)
		assert.Empty(t, paymentRepo.statusUpdates)
		assert.Empty(t, bookingRepo.activated)
		assert.Empty(t, slotSync.occupied)
	})

	t.Run("provider unavailable", func(t *testing.T) {
		paymentRepo := &fakePaymentRepo{payment: newPayment()}
		client := &fakePaymentClient{err: paymentservice.ErrProviderUnavailable}

		uc := NewUseCase(&fakeBookingRepo{}, paymentRepo, &fakeSlotSync{}, client, &fakeTxManager{}, &fakeEvents{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{ProviderRef: providerRef})
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("unknown provider ref", func(t *testing.T) {
		paymentRepo := &fakePaymentRepo{notFound: true}
		uc := NewUseCase(&fakeBookingRepo{}, paymentRepo, &fakeSlotSync{}, &fakePaymentClient{}, &fakeTxManager{}, &fakeEvents{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{ProviderRef: providerRef})
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("empty provider ref", func(t *testing.T) {
		uc := NewUseCase(&fakeBookingRepo{}, &fakePaymentRepo{}, &fakeSlotSync{}, &fakePaymentClient{}, &fakeTxManager{}, &fakeEvents{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{ProviderRef: "  "})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
