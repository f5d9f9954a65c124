package postgres

import (
	"context"
	"errors"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Omit(clause.Associations).Create(&user)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, customErrors.NewAlreadyExists("user with this email")
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.NewNotFound("user")
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.NewNotFound("user")
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByID")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserWithAddresses(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Where("id = ?", id).
		First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.NewNotFound("user")
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserWithAddresses")
	}

	return u, nil
}

func (p *PostgresUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.User, error) {
	fields := map[string]any{}
	if upd.FullName != nil {
		fields["full_name"] = *upd.FullName
	}
	if upd.Avatar != nil {
		fields["avatar"] = *upd.Avatar
	}
	if len(fields) > 0 {
		if err := p.updateUser("UpdateProfile", p.byID(ctx, id), fields); err != nil {
			return model.User{}, err
		}
	}
	return p.GetUserWithAddresses(ctx, id)
}

func (p *PostgresUserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, tokenHash string) error {
	return p.updateUser("SetRefreshToken", p.byID(ctx, id), map[string]any{
		"refresh_token_hash": tokenHash,
	})
}

func (p *PostgresUserRepo) RotateRefreshToken(ctx context.Context, id uuid.UUID, presentedHash, newHash string) error {
	res := p.byID(ctx, id).
		Where("refresh_token_hash = ?", presentedHash).
		Update("refresh_token_hash", newHash)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "RotateRefreshToken")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrTokenReused
	}
	return nil
}

func (p *PostgresUserRepo) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	res := p.byID(ctx, id).Update("refresh_token_hash", nil)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "ClearRefreshToken")
	}
	return nil
}

func (p *PostgresUserRepo) SetOTP(ctx context.Context, id uuid.UUID, otpHash string, expiresAt time.Time) error {
	return p.updateUser("SetOTP", p.byID(ctx, id), map[string]any{
		"otp_hash":       otpHash,
		"otp_expires_at": expiresAt,
		"otp_attempts":   0,
	})
}

func (p *PostgresUserRepo) RecordOTPFailure(ctx context.Context, id uuid.UUID, maxAttempts int) error {
	res := p.byID(ctx, id).
		Where("otp_hash IS NOT NULL").
		Updates(map[string]any{
			"otp_attempts":   gorm.Expr("otp_attempts + 1"),
			"otp_hash":       gorm.Expr("CASE WHEN otp_attempts + 1 >= ? THEN NULL ELSE otp_hash END", maxAttempts),
			"otp_expires_at": gorm.Expr("CASE WHEN otp_attempts + 1 >= ? THEN NULL ELSE otp_expires_at END", maxAttempts),
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "RecordOTPFailure")
	}
	return nil
}

func (p *PostgresUserRepo) ConsumeOTP(
	ctx context.Context,
	id uuid.UUID,
	otpHash string,
	now time.Time,
	maxAttempts int,
	resetHash string,
	resetExpiresAt time.Time,
) error {
	res := p.byID(ctx, id).
		Where("otp_hash = ? AND otp_expires_at > ? AND otp_attempts < ?", otpHash, now, maxAttempts).
		Updates(map[string]any{
			"otp_hash":               nil,
			"otp_expires_at":         nil,
			"otp_attempts":           0,
			"reset_token_hash":       resetHash,
			"reset_token_expires_at": resetExpiresAt,
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "ConsumeOTP")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrInvalidOtp
	}
	return nil
}

func (p *PostgresUserRepo) GetUserByResetToken(ctx context.Context, resetHash string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("reset_token_hash = ?", resetHash).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.NewNotFound("user")
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByResetToken")
	}

	return u, nil
}

func (p *PostgresUserRepo) ConsumeResetToken(ctx context.Context, resetHash string, now time.Time, passwordHash string) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_token_hash = ? AND reset_token_expires_at > ?", resetHash, now).
		Updates(map[string]any{
			"password_hash":          passwordHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
			"refresh_token_hash":     nil,
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "ConsumeResetToken")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrInvalidToken
	}
	return nil
}

func (p *PostgresUserRepo) byID(ctx context.Context, id uuid.UUID) *gorm.DB {
	return p.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id)
}

func (p *PostgresUserRepo) updateUser(op string, q *gorm.DB, fields map[string]any) error {
	res := q.Updates(fields)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, op)
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("user")
	}
	return nil
}
