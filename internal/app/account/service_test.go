package account_test

import (
	"context"
	"testing"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/account"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/authtest"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (account.Service, *authtest.UserRepo, uuid.UUID) {
	t.Helper()
	users := authtest.NewUserRepo()
	u := model.User{ID: uuid.New(), Email: "a@x.com", FullName: "A", PasswordHash: "h"}
	users.Put(u)
	return account.New(users, dto.NewValidator()), users, u.ID
}

func addressDTO() dto.AddressDTO {
	return dto.AddressDTO{
		StreetAddress: "1 Main St",
		Town:          "Springfield",
		City:          "Springfield",
		Country:       "US",
		ZipCode:       "12345",
		AddressType:   "home",
	}
}

func TestAddAddress_SixthRejected(t *testing.T) {
	svc, users, uid := setup(t)
	ctx := context.Background()

	for i := 0; i < model.MaxAddresses; i++ {
		_, err := svc.AddAddress(ctx, uid, addressDTO())
		require.NoError(t, err)
	}

	before, err := svc.ListAddresses(ctx, uid)
	require.NoError(t, err)
	require.Len(t, before, model.MaxAddresses)

	_, err = svc.AddAddress(ctx, uid, addressDTO())
	require.True(t, customErrors.IsLimitExceeded(err))

	after, err := svc.ListAddresses(ctx, uid)
	require.NoError(t, err)
	require.ElementsMatch(t, before, after, "list unchanged")
	require.Equal(t, model.MaxAddresses, users.User(uid).AddressCount)
}

func TestAddAddress_Validation(t *testing.T) {
	svc, _, uid := setup(t)

	in := addressDTO()
	in.City = "   "
	_, err := svc.AddAddress(context.Background(), uid, in)
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestAddress_OwnerScoped(t *testing.T) {
	svc, users, uid := setup(t)
	ctx := context.Background()

	other := model.User{ID: uuid.New(), Email: "b@x.com", FullName: "B", PasswordHash: "h"}
	users.Put(other)

	a, err := svc.AddAddress(ctx, uid, addressDTO())
	require.NoError(t, err)

	_, err = svc.GetAddress(ctx, other.ID, a.ID)
	require.True(t, customErrors.IsNotFound(err))

	_, err = svc.UpdateAddress(ctx, other.ID, a.ID, dto.UpdateAddressDTO{City: "X"})
	require.True(t, customErrors.IsNotFound(err))

	require.True(t, customErrors.IsNotFound(svc.DeleteAddress(ctx, other.ID, a.ID)))

	got, err := svc.GetAddress(ctx, uid, a.ID)
	require.NoError(t, err)
	require.Equal(t, "Springfield", got.City)
}

func TestUpdateAndDeleteAddress(t *testing.T) {
	svc, users, uid := setup(t)
	ctx := context.Background()

	a, err := svc.AddAddress(ctx, uid, addressDTO())
	require.NoError(t, err)

	_, err = svc.UpdateAddress(ctx, uid, a.ID, dto.UpdateAddressDTO{})
	require.True(t, customErrors.IsInvalidArgument(err), "at least one field")

	got, err := svc.UpdateAddress(ctx, uid, a.ID, dto.UpdateAddressDTO{ZipCode: " 54321 "})
	require.NoError(t, err)
	require.Equal(t, "54321", got.ZipCode)
	require.Equal(t, "1 Main St", got.StreetAddress)

	require.NoError(t, svc.DeleteAddress(ctx, uid, a.ID))
	require.Equal(t, 0, users.User(uid).AddressCount)

	_, err = svc.GetAddress(ctx, uid, a.ID)
	require.True(t, customErrors.IsNotFound(err))
}
