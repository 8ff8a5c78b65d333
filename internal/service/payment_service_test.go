package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []domain.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = "pay-" + strconv.Itoa(len(f.payments)+1)
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID string) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListAll(_ context.Context) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Payment(nil), f.payments...), nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.payments {
		if f.payments[i].ID == id {
			f.payments[i].Status = status
			copied := f.payments[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func TestRecord_MasksCardNumber(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := NewPaymentService(PaymentDependencies{PaymentRepo: repo})

	payment, err := svc.Record(context.Background(), "cust-1", PaymentInput{
		ServiceKey:       "ticketing-per-use",
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           9.99,
		CardNumber:       "4111 1111 1111 1234",
	})
	require.NoError(t, err)
	require.NotNil(t, payment.CardNumber)
	require.Equal(t, "****-****-****-1234", *payment.CardNumber)
	require.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	require.Equal(t, "card", payment.PaymentMethod)
}

func TestRecord_DropsUnmaskableCard(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := NewPaymentService(PaymentDependencies{PaymentRepo: repo})

	payment, err := svc.Record(context.Background(), "cust-1", PaymentInput{
		ServiceKey: "ticketing-monthly",
		Amount:     29.99,
		CardNumber: "12",
	})
	require.NoError(t, err)
	require.Nil(t, payment.CardNumber)
}

func TestRecord_RejectsNegativeAmount(t *testing.T) {
	svc := NewPaymentService(PaymentDependencies{PaymentRepo: &fakePaymentRepo{}})

	_, err := svc.Record(context.Background(), "cust-1", PaymentInput{
		ServiceKey: "ticketing-monthly",
		Amount:     -1,
	})
	require.Error(t, err)
}

func TestMaskCard_StripsNonDigits(t *testing.T) {
	masked := maskCard("4111-1111-1111-9876")
	require.NotNil(t, masked)
	require.Equal(t, "****-****-****-9876", *masked)

	require.Nil(t, maskCard(""))
	require.Nil(t, maskCard("abc"))
}
