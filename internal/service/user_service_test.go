package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/callcenter-service/internal/domain"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

func userFixture(t *testing.T) (*UserService, *fakeUserRepo, *domain.User) {
	t.Helper()
	admin := &domain.User{ID: "admin-1", Role: domain.UserRoleAdmin, Status: domain.UserStatusActive}
	repo := newFakeUserRepo(
		admin,
		&domain.User{ID: "cust-1", Role: domain.UserRoleCustomer, Status: domain.UserStatusActive},
	)
	svc := NewUserService(UserDependencies{UserRepo: repo})
	return svc, repo, admin
}

func TestSetRole_PromotesCustomer(t *testing.T) {
	svc, repo, admin := userFixture(t)

	user, err := svc.SetRole(context.Background(), admin, "cust-1", domain.UserRoleEmployee)
	require.NoError(t, err)
	require.Equal(t, domain.UserRoleEmployee, user.Role)

	stored, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Equal(t, domain.UserRoleEmployee, stored.Role)
}

func TestSetRole_RejectsUnknownRoleAndSelfChange(t *testing.T) {
	svc, _, admin := userFixture(t)
	ctx := context.Background()

	_, err := svc.SetRole(ctx, admin, "cust-1", domain.UserRole("superuser"))
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	_, err = svc.SetRole(ctx, admin, admin.ID, domain.UserRoleCustomer)
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestDelete_RemovesAccountButNeverSelf(t *testing.T) {
	svc, repo, admin := userFixture(t)
	ctx := context.Background()

	err := svc.Delete(ctx, admin, admin.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	require.NoError(t, svc.Delete(ctx, admin, "cust-1"))
	_, err = repo.GetByID(ctx, "cust-1")
	require.Error(t, err)

	err = svc.Delete(ctx, admin, "cust-1")
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
}
