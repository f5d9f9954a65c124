// Package reset implements forgot-password: an emailed one-time code is traded
// for a single-use reset token, which is traded for a new password.
package reset

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/password"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/secret"
	appsvc "github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/service"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/notify"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	otpDigits       = 6
	resetTokenBytes = 32
)

type Options struct {
	OTPTTL        time.Duration
	MaxAttempts   int
	Cooldown      time.Duration
	ResetTokenTTL time.Duration
}

type Service interface {
	ForgotPassword(context.Context, dto.ForgotPasswordDTO) error
	// VerifyOTP returns the plain reset token.
	VerifyOTP(context.Context, dto.VerifyOtpDTO) (string, error)
	ResetPassword(context.Context, dto.ResetPasswordDTO) error
}

type resetService struct {
	userRepo  repo.UserRepo
	cooldowns repo.CooldownRepo
	sender    notify.OTPSender
	hasher    *password.Hasher
	v         *validator.Validate
	log       *zap.Logger
	opts      Options
	now       func() time.Time
}

func New(
	ur repo.UserRepo,
	cr repo.CooldownRepo,
	sender notify.OTPSender,
	h *password.Hasher,
	v *validator.Validate,
	log *zap.Logger,
	opts Options,
) Service {
	return &resetService{
		userRepo:  ur,
		cooldowns: cr,
		sender:    sender,
		hasher:    h,
		v:         v,
		log:       log,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *resetService) ForgotPassword(ctx context.Context, in dto.ForgotPasswordDTO) error {
	in.Email = appsvc.NormalizeEmail(in.Email)
	if err := s.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case customErrors.IsNotFound(err):
		return err
	case err != nil:
		return customErrors.WrapInternal(err, "ForgotPassword")
	}

	started, err := s.cooldowns.StartCooldown(ctx, in.Email, s.opts.Cooldown)
	if err != nil {
		return customErrors.WrapInternal(err, "ForgotPassword")
	}
	if !started {
		return fmt.Errorf("%w: wait before requesting another code", customErrors.ErrTooManyRequests)
	}

	if err := s.issueOTP(ctx, user); err != nil {
		if cerr := s.cooldowns.ClearCooldown(ctx, in.Email); cerr != nil {
			s.log.Warn("release otp cooldown", zap.Error(cerr))
		}
		return err
	}

	s.log.Info("otp issued", zap.String("user", digest(in.Email)))
	return nil
}

func (s *resetService) issueOTP(ctx context.Context, user model.User) error {
	code, err := secret.NumericCode(otpDigits)
	if err != nil {
		return customErrors.WrapInternal(err, "generate otp")
	}

	expiresAt := s.now().UTC().Add(s.opts.OTPTTL)
	if err := s.userRepo.SetOTP(ctx, user.ID, secret.HashHex(code), expiresAt); err != nil {
		return customErrors.WrapInternal(err, "SetOTP")
	}

	if err := s.sender.SendOTP(ctx, user.Email, user.FullName, code); err != nil {
		s.log.Error("send otp", zap.String("user", digest(user.Email)), zap.Error(err))
		return customErrors.WrapInternal(err, "SendOTP")
	}
	return nil
}

func (s *resetService) VerifyOTP(ctx context.Context, in dto.VerifyOtpDTO) (string, error) {
	in.Email = appsvc.NormalizeEmail(in.Email)
	if err := s.v.Struct(in); err != nil {
		return "", customErrors.NewInvalidArgument(err.Error())
	}

	user, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case customErrors.IsNotFound(err):
		return "", customErrors.ErrInvalidOtp
	case err != nil:
		return "", customErrors.WrapInternal(err, "VerifyOTP")
	}

	now := s.now().UTC()
	if user.OTPHash == nil || user.OTPExpiresAt == nil || !now.Before(*user.OTPExpiresAt) {
		return "", customErrors.ErrInvalidOtp
	}

	presented := secret.HashHex(in.Otp)
	if !secret.Equal(*user.OTPHash, presented) {
		if err := s.userRepo.RecordOTPFailure(ctx, user.ID, s.opts.MaxAttempts); err != nil {
			return "", customErrors.WrapInternal(err, "RecordOTPFailure")
		}
		return "", customErrors.ErrInvalidOtp
	}

	resetToken, err := secret.OpaqueToken(resetTokenBytes)
	if err != nil {
		return "", customErrors.WrapInternal(err, "generate reset token")
	}

	err = s.userRepo.ConsumeOTP(ctx, user.ID, presented, now, s.opts.MaxAttempts,
		secret.HashHex(resetToken), now.Add(s.opts.ResetTokenTTL))
	switch {
	case customErrors.IsInvalidOtp(err):
		return "", err
	case err != nil:
		return "", customErrors.WrapInternal(err, "ConsumeOTP")
	}

	return resetToken, nil
}

func (s *resetService) ResetPassword(ctx context.Context, in dto.ResetPasswordDTO) error {
	if err := s.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	tokenHash := secret.HashHex(in.ResetToken)
	user, err := s.userRepo.GetUserByResetToken(ctx, tokenHash)
	switch {
	case customErrors.IsNotFound(err):
		return customErrors.ErrInvalidToken
	case err != nil:
		return customErrors.WrapInternal(err, "ResetPassword")
	}

	now := s.now().UTC()
	if user.ResetTokenExpiresAt == nil || !now.Before(*user.ResetTokenExpiresAt) {
		return customErrors.ErrInvalidToken
	}

	passwordHash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	err = s.userRepo.ConsumeResetToken(ctx, tokenHash, now, passwordHash)
	switch {
	case customErrors.IsInvalidToken(err):
		return err
	case err != nil:
		return customErrors.WrapInternal(err, "ConsumeResetToken")
	}

	s.log.Info("password reset", zap.String("user", digest(user.Email)))
	return nil
}

func digest(email string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(email)))
}
