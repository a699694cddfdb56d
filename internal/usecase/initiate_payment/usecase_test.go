package initiate_payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingstorage "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	paymentstorage "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
)

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, bookingstorage.ErrBookingNotFound
	}
	return f.booking, nil
}

type fakePaymentRepo struct {
	existing     *domain.Payment
	created      *domain.Payment
	providerRefs map[int64]string
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

func (f *fakePaymentRepo) SetProviderRef(_ context.Context, id int64, providerRef string) error {
	if f.providerRefs == nil {
		f.providerRefs = map[int64]string{}
	}
	f.providerRefs[id] = providerRef
	return nil
}

type fakePaymentClient struct {
	resp *paymentservice.InitiateResponse
	err  error
}

func (f *fakePaymentClient) InitiatePayment(_ context.Context, _ *paymentservice.InitiateRequest) (*paymentservice.InitiateResponse, error) {
	return f.resp, f.err
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	booking := &domain.Booking{
		ID:            2,
		SlotID:        10,
		UserID:        7,
		TotalPrice:    200,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}

	providerResp := &paymentservice.InitiateResponse{
		PaymentURL:  "https://pay.example.com/p/abc",
		ProviderRef: "prov-abc-123",
	}

	t.Run("creates payment and returns the gateway link", func(t *testing.T) {
		paymentRepo := &fakePaymentRepo{}
		uc := NewUseCase(&fakeBookingRepo{booking: booking}, paymentRepo, &fakePaymentClient{resp: providerResp}, &fakeTxManager{}, nopLogger{})

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 7})

		require.NoError(t, err)
		assert.Equal(t, int64(77), resp.PaymentID)
		assert.Equal(t, 200.0, resp.Amount)
		assert.Equal(t, providerResp.PaymentURL, resp.PaymentURL)
		assert.Equal(t, providerResp.ProviderRef, resp.ProviderRef)

		require.NotNil(t, paymentRepo.created)
		assert.Equal(t, domain.PaymentKindBooking, paymentRepo.created.Kind)
		assert.Equal(t, domain.MethodGateway, paymentRepo.created.Method)
		assert.Equal(t, domain.PaymentRecordPending, paymentRepo.created.Status)
		assert.Equal(t, "prov-abc-123", paymentRepo.providerRefs[77])
	})

	t.Run("reuses a pending payment", func(t *testing.T) {
		pending := &domain.Payment{
			ID:        5,
			BookingID: 2,
			Kind:      domain.PaymentKindBooking,
			Amount:    200,
			Status:    domain.PaymentRecordPending,
		}
		paymentRepo := &fakePaymentRepo{existing: pending}
		uc := NewUseCase(&fakeBookingRepo{booking: booking}, paymentRepo, &fakePaymentClient{resp: providerResp}, &fakeTxManager{}, nopLogger{})

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 7})

		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.PaymentID)
		assert.Nil(t, paymentRepo.created)
	})

	t.Run("already paid booking", func(t *testing.T) {
		paid := *booking
		paid.PaymentStatus = domain.PaymentPaid
		uc := NewUseCase(&fakeBookingRepo{booking: &paid}, &fakePaymentRepo{}, &fakePaymentClient{resp: providerResp}, &fakeTxManager{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 7})
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("completed payment record counts as paid", func(t *testing.T) {
		completed := &domain.Payment{ID: 5, BookingID: 2, Kind: domain.PaymentKindBooking, Status: domain.PaymentRecordCompleted}
		uc := NewUseCase(&fakeBookingRepo{booking: booking}, &fakePaymentRepo{existing: completed}, &fakePaymentClient{resp: providerResp}, &fakeTxManager{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 7})
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("only the owner can pay", func(t *testing.T) {
		uc := NewUseCase(&fakeBookingRepo{booking: booking}, &fakePaymentRepo{}, &fakePaymentClient{resp: providerResp}, &fakeTxManager{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("provider unavailable", func(t *testing.T) {
		client := &fakePaymentClient{err: paymentservice.ErrProviderUnavailable}
		uc := NewUseCase(&fakeBookingRepo{booking: booking}, &fakePaymentRepo{}, client, &fakeTxManager{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 7})
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("booking not found", func(t *testing.T) {
		uc := NewUseCase(&fakeBookingRepo{}, &fakePaymentRepo{}, &fakePaymentClient{resp: providerResp}, &fakeTxManager{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 404, UserID: 7})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}
