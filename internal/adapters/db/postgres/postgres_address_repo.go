package postgres

import (
	"context"
	"errors"
	"fmt"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresAddressRepo struct {
	db *gorm.DB
}

func NewPostgresAddressRepo(db *gorm.DB) *PostgresAddressRepo {
	return &PostgresAddressRepo{db: db}
}

func (p *PostgresAddressRepo) CreateAddress(ctx context.Context, a model.Address, limit int) (model.Address, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND address_count < ?", a.UserID, limit).
			Update("address_count", gorm.Expr("address_count + 1"))
		if res.Error != nil {
			return customErrors.WrapInternal(res.Error, "CreateAddress")
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.User{}).Where("id = ?", a.UserID).Count(&n).Error; err != nil {
				return customErrors.WrapInternal(err, "CreateAddress")
			}
			if n == 0 {
				return customErrors.NewNotFound("user")
			}
			return customErrors.NewLimitExceeded(fmt.Sprintf("a user can have at most %d addresses", limit))
		}

		if err := tx.Create(&a).Error; err != nil {
			return customErrors.WrapInternal(err, "CreateAddress")
		}
		return nil
	})
	if err != nil {
		return model.Address{}, err
	}

	return a, nil
}

func (p *PostgresAddressRepo) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	var out []model.Address
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&out).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListAddresses")
	}
	return out, nil
}

func (p *PostgresAddressRepo) GetAddress(ctx context.Context, userID, id uuid.UUID) (model.Address, error) {
	var a model.Address
	res := p.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Address{}, customErrors.NewNotFound("address")
	}
	if err := res.Error; err != nil {
		return model.Address{}, customErrors.WrapInternal(err, "GetAddress")
	}
	return a, nil
}

func (p *PostgresAddressRepo) UpdateAddress(ctx context.Context, userID, id uuid.UUID, upd model.AddressUpdate) (model.Address, error) {
	// Zero-valued fields of the struct are skipped by Updates.
	res := p.db.WithContext(ctx).Model(&model.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(model.Address{
			StreetAddress: upd.StreetAddress,
			Town:          upd.Town,
			City:          upd.City,
			Country:       upd.Country,
			ZipCode:       upd.ZipCode,
			AddressType:   upd.AddressType,
		})
	if err := res.Error; err != nil {
		return model.Address{}, customErrors.WrapInternal(err, "UpdateAddress")
	}
	if res.RowsAffected == 0 {
		return model.Address{}, customErrors.NewNotFound("address")
	}
	return p.GetAddress(ctx, userID, id)
}

func (p *PostgresAddressRepo) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Address{})
		if res.Error != nil {
			return customErrors.WrapInternal(res.Error, "DeleteAddress")
		}
		if res.RowsAffected == 0 {
			return customErrors.NewNotFound("address")
		}

		err := tx.Model(&model.User{}).
			Where("id = ? AND address_count > 0", userID).
			Update("address_count", gorm.Expr("address_count - 1")).Error
		if err != nil {
			return customErrors.WrapInternal(err, "DeleteAddress")
		}
		return nil
	})
}
