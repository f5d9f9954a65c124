package account

import (
	"context"
	"strings"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service manages the address book of the authenticated user. Every call is
// scoped to userID, so another user's address reads as not found.
type Service interface {
	AddAddress(ctx context.Context, userID uuid.UUID, in dto.AddressDTO) (model.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	GetAddress(ctx context.Context, userID, id uuid.UUID) (model.Address, error)
	UpdateAddress(ctx context.Context, userID, id uuid.UUID, in dto.UpdateAddressDTO) (model.Address, error)
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error
}

type accountService struct {
	addresses repo.AddressRepo
	v         *validator.Validate
}

func New(ar repo.AddressRepo, v *validator.Validate) Service {
	return &accountService{addresses: ar, v: v}
}

func (s *accountService) AddAddress(ctx context.Context, userID uuid.UUID, in dto.AddressDTO) (model.Address, error) {
	in = trimAddress(in)
	if err := s.v.Struct(in); err != nil {
		return model.Address{}, customErrors.NewInvalidArgument(err.Error())
	}

	a, err := s.addresses.CreateAddress(ctx, model.Address{
		ID:            uuid.New(),
		UserID:        userID,
		StreetAddress: in.StreetAddress,
		Town:          in.Town,
		City:          in.City,
		Country:       in.Country,
		ZipCode:       in.ZipCode,
		AddressType:   in.AddressType,
	}, model.MaxAddresses)
	if err != nil {
		return model.Address{}, passThrough(err, "AddAddress")
	}
	return a, nil
}

func (s *accountService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	list, err := s.addresses.ListAddresses(ctx, userID)
	if err != nil {
		return nil, passThrough(err, "ListAddresses")
	}
	return list, nil
}

func (s *accountService) GetAddress(ctx context.Context, userID, id uuid.UUID) (model.Address, error) {
	a, err := s.addresses.GetAddress(ctx, userID, id)
	if err != nil {
		return model.Address{}, passThrough(err, "GetAddress")
	}
	return a, nil
}

func (s *accountService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, in dto.UpdateAddressDTO) (model.Address, error) {
	in = trimAddressUpdate(in)
	if err := s.v.Struct(in); err != nil {
		return model.Address{}, customErrors.NewInvalidArgument(err.Error())
	}

	upd := model.AddressUpdate{
		StreetAddress: in.StreetAddress,
		Town:          in.Town,
		City:          in.City,
		Country:       in.Country,
		ZipCode:       in.ZipCode,
		AddressType:   in.AddressType,
	}
	if upd.IsEmpty() {
		return model.Address{}, customErrors.NewInvalidArgument("at least one field is required")
	}

	a, err := s.addresses.UpdateAddress(ctx, userID, id, upd)
	if err != nil {
		return model.Address{}, passThrough(err, "UpdateAddress")
	}
	return a, nil
}

func (s *accountService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.addresses.DeleteAddress(ctx, userID, id); err != nil {
		return passThrough(err, "DeleteAddress")
	}
	return nil
}

// passThrough keeps classified repository errors and wraps anything else as internal.
func passThrough(err error, op string) error {
	switch {
	case customErrors.IsNotFound(err), customErrors.IsLimitExceeded(err), customErrors.IsInternal(err):
		return err
	default:
		return customErrors.WrapInternal(err, op)
	}
}

func trimAddress(in dto.AddressDTO) dto.AddressDTO {
	in.StreetAddress = strings.TrimSpace(in.StreetAddress)
	in.Town = strings.TrimSpace(in.Town)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	in.AddressType = strings.TrimSpace(in.AddressType)
	return in
}

func trimAddressUpdate(in dto.UpdateAddressDTO) dto.UpdateAddressDTO {
	return dto.UpdateAddressDTO(trimAddress(dto.AddressDTO(in)))
}
