package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.ServiceRequest
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*domain.ServiceRequest{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	req.ID = "req-" + strconv.Itoa(f.seq)
	req.RequestNumber = f.seq
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRequestRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ServiceRequest
	for _, req := range f.requests {
		if req.CustomerID == customerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListAll(_ context.Context) ([]domain.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ServiceRequest
	for _, req := range f.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, id string, update repository.ServiceRequestUpdate) (*domain.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Status != nil {
		req.Status = *update.Status
	}
	if update.AssignedTo != nil {
		req.AssignedTo = update.AssignedTo
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRequestRepo) MarkReported(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	req.Reported = true
	return nil
}

func requestFixture(t *testing.T) (*ServiceRequestService, *fakeSubscriptionRepo, *fakeRequestRepo) {
	t.Helper()
	subRepo := &fakeSubscriptionRepo{}
	subscriptionService := NewSubscriptionService(SubscriptionDependencies{
		Engine:  entitlement.NewEngine(subRepo),
		SubRepo: subRepo,
	})
	requestRepo := newFakeRequestRepo()
	svc := NewServiceRequestService(ServiceRequestDependencies{
		RequestRepo:  requestRepo,
		RatingRepo:   &fakeRatingRepo{},
		Subscription: subscriptionService,
	})
	return svc, subRepo, requestRepo
}

func TestServiceRequestCreate_GatedOnHomeServiceFamily(t *testing.T) {
	svc, subRepo, requestRepo := requestFixture(t)
	ctx := context.Background()
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.Create(ctx, "cust-1", ServiceRequestInput{
		Service:       "plumbing",
		ScheduledDate: date,
	})
	require.ErrorIs(t, err, entitlement.ErrSubscriptionRequired)
	require.Empty(t, requestRepo.requests)

	// A ticketing subscription does not unlock home services.
	require.NoError(t, subRepo.Replace(ctx, &domain.Subscription{
		UserID:           "cust-1",
		ServiceKey:       entitlement.KeyTicketingMonthly,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		IsActive:         true,
	}))
	_, _, err = svc.Create(ctx, "cust-1", ServiceRequestInput{
		Service:       "plumbing",
		ScheduledDate: date,
	})
	require.ErrorIs(t, err, entitlement.ErrSubscriptionRequired)

	require.NoError(t, subRepo.Replace(ctx, &domain.Subscription{
		UserID:           "cust-1",
		ServiceKey:       entitlement.KeyHomeServicePerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		RemainingCredits: 1,
		IsActive:         true,
	}))
	req, sub, err := svc.Create(ctx, "cust-1", ServiceRequestInput{
		Service:       "plumbing",
		ScheduledDate: date,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ServiceRequestStatusPending, req.Status)
	require.Equal(t, "SRV-001", req.DisplayID())
	require.Equal(t, 0, sub.RemainingCredits)
}

func TestServiceRequestRate_CompletedOnly(t *testing.T) {
	svc, subRepo, _ := requestFixture(t)
	ctx := context.Background()

	require.NoError(t, subRepo.Replace(ctx, &domain.Subscription{
		UserID:           "cust-1",
		ServiceKey:       entitlement.KeyHomeServiceMonthly,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		IsActive:         true,
	}))
	req, _, err := svc.Create(ctx, "cust-1", ServiceRequestInput{
		Service:       "electrical",
		ScheduledDate: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.Rate(ctx, customer("cust-1"), req.ID, 5, nil)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	completed := domain.ServiceRequestStatusCompleted
	_, err = svc.Update(ctx, staff("emp-1"), req.ID, repository.ServiceRequestUpdate{Status: &completed})
	require.NoError(t, err)

	rating, err := svc.Rate(ctx, customer("cust-1"), req.ID, 5, nil)
	require.NoError(t, err)
	require.Equal(t, 5, rating.Score)

	_, err = svc.Rate(ctx, customer("cust-1"), req.ID, 4, nil)
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CONFLICT", domainErr.Code)
}
