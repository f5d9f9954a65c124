package repo

import (
	"context"
	"time"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	// GetUserWithAddresses loads the user with its address book populated.
	GetUserWithAddresses(ctx context.Context, id uuid.UUID) (model.User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.User, error)

	SetRefreshToken(ctx context.Context, id uuid.UUID, tokenHash string) error

	// RotateRefreshToken replaces the stored refresh token hash only if it still
	// equals presentedHash. It returns ErrTokenReused otherwise.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, presentedHash, newHash string) error

	ClearRefreshToken(ctx context.Context, id uuid.UUID) error

	SetOTP(ctx context.Context, id uuid.UUID, otpHash string, expiresAt time.Time) error

	// RecordOTPFailure counts a wrong code and drops the OTP once maxAttempts is reached.
	RecordOTPFailure(ctx context.Context, id uuid.UUID, maxAttempts int) error

	// ConsumeOTP clears a live, matching OTP and stores the reset token in the same
	// statement. It returns ErrInvalidOtp when nothing matched.
	ConsumeOTP(ctx context.Context, id uuid.UUID, otpHash string, now time.Time, maxAttempts int, resetHash string, resetExpiresAt time.Time) error

	// GetUserByResetToken finds the owner of a reset token hash, expired or not.
	GetUserByResetToken(ctx context.Context, resetHash string) (model.User, error)

	// ConsumeResetToken sets a new password for the owner of a live reset token and
	// clears the token and any stored refresh token. It returns ErrInvalidToken when
	// nothing matched.
	ConsumeResetToken(ctx context.Context, resetHash string, now time.Time, passwordHash string) error
}

type AddressRepo interface {
	// CreateAddress inserts the address and bumps the owner's address counter in one
	// transaction. It returns ErrLimitExceeded when the owner already has limit addresses.
	CreateAddress(ctx context.Context, a model.Address, limit int) (model.Address, error)

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	GetAddress(ctx context.Context, userID, id uuid.UUID) (model.Address, error)

	UpdateAddress(ctx context.Context, userID, id uuid.UUID, upd model.AddressUpdate) (model.Address, error)

	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error
}

type TokenRepo interface {
	RevokeAccess(ctx context.Context, jti string, expiresAt time.Time) error

	IsAccessRevoked(ctx context.Context, jti string) (bool, error)
}

type CooldownRepo interface {
	// StartCooldown reports false if a cooldown for key is already running.
	StartCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error)

	ClearCooldown(ctx context.Context, key string) error
}
