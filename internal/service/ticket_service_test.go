package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// fakeSubscriptionRepo backs the entitlement engine in-memory.
type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*domain.Subscription
	seq  int
}

func (f *fakeSubscriptionRepo) ActiveByUser(_ context.Context, userID string) ([]domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Subscription
	for _, sub := range f.subs {
		if sub.UserID == userID && sub.IsActive {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) Replace(_ context.Context, sub *domain.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.subs {
		if existing.UserID != sub.UserID || !existing.IsActive {
			continue
		}
		if sub.IsGlobal == existing.IsGlobal && (sub.IsGlobal || existing.ServiceKey == sub.ServiceKey) {
			existing.IsActive = false
		}
	}
	f.seq++
	sub.ID = "sub-" + strconv.Itoa(f.seq)
	stored := *sub
	f.subs = append(f.subs, &stored)
	return nil
}

func (f *fakeSubscriptionRepo) ConsumeCredit(_ context.Context, userID, serviceKey string) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.UserID != userID || sub.ServiceKey != serviceKey || sub.IsGlobal || !sub.IsActive {
			continue
		}
		if sub.SubscriptionType != domain.SubscriptionTypePerUse || sub.RemainingCredits <= 0 {
			continue
		}
		sub.RemainingCredits--
		sub.IsActive = sub.RemainingCredits > 0
		copied := *sub
		return &copied, nil
	}
	return nil, entitlement.ErrInsufficientCredit
}

func (f *fakeSubscriptionRepo) ListByUser(_ context.Context, userID string) ([]domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Subscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ticket.ID = "ticket-" + strconv.Itoa(f.seq)
	ticket.TicketNumber = f.seq
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.IsArchived != filter.Archived {
			continue
		}
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (f *fakeTicketRepo) Update(_ context.Context, id string, update repository.TicketUpdate) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	if update.AssignedTo != nil {
		ticket.AssignedTo = update.AssignedTo
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) MarkRated(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Rated = true
	return nil
}

func (f *fakeTicketRepo) SetArchived(_ context.Context, id string, archived bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.IsArchived = archived
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.TicketMessage
	seq      int
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.ID = "msg-" + strconv.Itoa(f.seq)
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketMessage
	for _, msg := range f.messages {
		if msg.TicketID == ticketID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings []domain.Rating
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rating.ID = "rating-" + strconv.Itoa(len(f.ratings)+1)
	f.ratings = append(f.ratings, *rating)
	return nil
}

func (f *fakeRatingRepo) Exists(_ context.Context, userID, entityID string, entityType domain.RatingEntityType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		if r.UserID == userID && r.EntityID == entityID && r.EntityType == entityType {
			return true, nil
		}
	}
	return false, nil
}

type ticketFixture struct {
	service *TicketService
	tickets *fakeTicketRepo
	subs    *fakeSubscriptionRepo
}

func newTicketFixture(t *testing.T) ticketFixture {
	t.Helper()
	subRepo := &fakeSubscriptionRepo{}
	subscriptionService := NewSubscriptionService(SubscriptionDependencies{
		Engine:  entitlement.NewEngine(subRepo),
		SubRepo: subRepo,
	})
	ticketRepo := newFakeTicketRepo()
	ticketService := NewTicketService(TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  &fakeMessageRepo{},
		RatingRepo:   &fakeRatingRepo{},
		Subscription: subscriptionService,
	})
	return ticketFixture{service: ticketService, tickets: ticketRepo, subs: subRepo}
}

func customer(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.UserRoleCustomer, Status: domain.UserStatusActive}
}

func staff(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.UserRoleEmployee, Status: domain.UserStatusActive}
}

func grantPerUse(t *testing.T, fx ticketFixture, userID, key string, credits int) {
	t.Helper()
	require.NoError(t, fx.subs.Replace(context.Background(), &domain.Subscription{
		UserID:           userID,
		ServiceKey:       key,
		SubscriptionType: domain.SubscriptionTypePerUse,
		RemainingCredits: credits,
		IsActive:         true,
	}))
}

func TestCreateTicket_BlockedWithoutSubscription(t *testing.T) {
	fx := newTicketFixture(t)

	_, _, err := fx.service.CreateTicket(context.Background(), "cust-1", TicketCreateInput{
		Title:       "Router down",
		Description: "No connection since morning",
	})
	require.ErrorIs(t, err, entitlement.ErrSubscriptionRequired)
	require.Empty(t, fx.tickets.tickets, "no ticket may be written when entitlement fails")
}

func TestCreateTicket_ConsumesOnePerUseCredit(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 2)

	ticket, sub, err := fx.service.CreateTicket(context.Background(), "cust-1", TicketCreateInput{
		Title:       "Router down",
		Description: "No connection since morning",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.Equal(t, "TICKET-001", ticket.DisplayID())
	require.Equal(t, 1, sub.RemainingCredits)
}

func TestCreateTicket_ExhaustedCreditsBlockAfterLastUse(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 1)
	ctx := context.Background()

	_, sub, err := fx.service.CreateTicket(ctx, "cust-1", TicketCreateInput{
		Title:       "First",
		Description: "uses the last credit",
	})
	require.NoError(t, err)
	require.Equal(t, 0, sub.RemainingCredits)

	_, _, err = fx.service.CreateTicket(ctx, "cust-1", TicketCreateInput{
		Title:       "Second",
		Description: "should be blocked",
	})
	require.ErrorIs(t, err, entitlement.ErrSubscriptionRequired)
	require.Len(t, fx.tickets.tickets, 1)
}

func TestCreateTicket_MonthlyIsNotCharged(t *testing.T) {
	fx := newTicketFixture(t)
	require.NoError(t, fx.subs.Replace(context.Background(), &domain.Subscription{
		UserID:           "cust-1",
		ServiceKey:       entitlement.KeyTicketingMonthly,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		IsActive:         true,
	}))

	for i := 0; i < 3; i++ {
		_, _, err := fx.service.CreateTicket(context.Background(), "cust-1", TicketCreateInput{
			Title:       "Ticket",
			Description: "monthly pass",
		})
		require.NoError(t, err)
	}
	require.Len(t, fx.tickets.tickets, 3)
}

func TestGet_CustomerCannotSeeForeignTicket(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 1)
	ticket, _, err := fx.service.CreateTicket(context.Background(), "cust-1", TicketCreateInput{
		Title:       "Mine",
		Description: "private",
	})
	require.NoError(t, err)

	_, _, err = fx.service.Get(context.Background(), customer("cust-2"), ticket.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)

	// Staff can see it.
	_, _, err = fx.service.Get(context.Background(), staff("emp-1"), ticket.ID)
	require.NoError(t, err)
}

func TestAddMessage_RejectedOnResolvedTicket(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 1)
	ctx := context.Background()

	ticket, _, err := fx.service.CreateTicket(ctx, "cust-1", TicketCreateInput{
		Title:       "Router down",
		Description: "details",
	})
	require.NoError(t, err)

	_, err = fx.service.AddMessage(ctx, customer("cust-1"), ticket.ID, "any update?")
	require.NoError(t, err)

	resolved := domain.TicketStatusResolved
	_, err = fx.service.Update(ctx, staff("emp-1"), ticket.ID, repository.TicketUpdate{Status: &resolved})
	require.NoError(t, err)

	_, err = fx.service.AddMessage(ctx, customer("cust-1"), ticket.ID, "one more thing")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestRate_OnlyResolvedAndOnlyOnce(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 1)
	ctx := context.Background()

	ticket, _, err := fx.service.CreateTicket(ctx, "cust-1", TicketCreateInput{
		Title:       "Router down",
		Description: "details",
	})
	require.NoError(t, err)

	_, err = fx.service.Rate(ctx, customer("cust-1"), ticket.ID, 5, nil)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	resolved := domain.TicketStatusResolved
	_, err = fx.service.Update(ctx, staff("emp-1"), ticket.ID, repository.TicketUpdate{Status: &resolved})
	require.NoError(t, err)

	rating, err := fx.service.Rate(ctx, customer("cust-1"), ticket.ID, 4, nil)
	require.NoError(t, err)
	require.Equal(t, 4, rating.Score)

	_, err = fx.service.Rate(ctx, customer("cust-1"), ticket.ID, 5, nil)
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CONFLICT", domainErr.Code)
}

func TestArchive_RoundTrip(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 5)
	ctx := context.Background()

	ticket, _, err := fx.service.CreateTicket(ctx, "cust-1", TicketCreateInput{
		Title:       "Router down",
		Description: "No connection since morning",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.Archive(ctx, ticket.ID))
	visible, err := fx.service.ListForUser(ctx, staff("emp-1"), false)
	require.NoError(t, err)
	require.Empty(t, visible)
	archived, err := fx.service.ListForUser(ctx, staff("emp-1"), true)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	require.NoError(t, fx.service.Unarchive(ctx, ticket.ID))
	visible, err = fx.service.ListForUser(ctx, staff("emp-1"), false)
	require.NoError(t, err)
	require.Len(t, visible, 1)

	err = fx.service.Unarchive(ctx, "no-such-ticket")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListForUser_ScopesByRole(t *testing.T) {
	fx := newTicketFixture(t)
	grantPerUse(t, fx, "cust-1", entitlement.KeyTicketingPerUse, 5)
	grantPerUse(t, fx, "cust-2", entitlement.KeyTicketingPerUse, 5)
	ctx := context.Background()

	for _, cust := range []string{"cust-1", "cust-1", "cust-2"} {
		_, _, err := fx.service.CreateTicket(ctx, cust, TicketCreateInput{
			Title:       "t",
			Description: "d",
		})
		require.NoError(t, err)
	}

	mine, err := fx.service.ListForUser(ctx, customer("cust-1"), false)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	all, err := fx.service.ListForUser(ctx, staff("emp-1"), false)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
