package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/password"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/secret"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/media"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authService struct {
	userRepo  repo.UserRepo
	tokenRepo repo.TokenRepo
	jwtUtil   jwt.JWTUtil
	hasher    *password.Hasher
	storage   media.Storage
	v         *validator.Validate
	log       *zap.Logger
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.User, error)
	Login(context.Context, dto.LoginDTO) (model.Session, error)
	Refresh(context.Context, dto.RefreshDTO) (model.TokenPair, error)
	Logout(context.Context, jwt.AccessClaims) error
	// Authenticate validates an access token and checks it against the deny list.
	Authenticate(ctx context.Context, accessToken string) (jwt.AccessClaims, error)
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.User, error)
}

func New(
	ur repo.UserRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	h *password.Hasher,
	st media.Storage,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		userRepo: ur, tokenRepo: tr, jwtUtil: jm, hasher: h, storage: st, v: v, log: log,
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.User, error) {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	_, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.User{}, customErrors.NewAlreadyExists("user with this email")
	case !customErrors.IsNotFound(err):
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: passwordHash,
		FullName:     in.FullName,
	}

	if in.AvatarPath != "" {
		url, err := a.storage.Upload(ctx, in.AvatarPath)
		if err != nil {
			return model.User{}, err
		}
		user.Avatar = &url
	}

	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if user.Avatar != nil {
			a.deleteBestEffort(ctx, *user.Avatar)
		}
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, err
		}
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	return user, nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.Session, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Session{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.Session{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return model.Session{}, err
	}
	if !ok {
		return model.Session{}, customErrors.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(user.ID)
	if err != nil {
		return model.Session{}, err
	}
	if err := a.userRepo.SetRefreshToken(ctx, user.ID, secret.HashHex(pair.RefreshToken)); err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "StoreRefresh")
	}

	full, err := a.userRepo.GetUserWithAddresses(ctx, user.ID)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "Login")
	}

	return model.Session{Tokens: pair, User: full}, nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	pair, err := a.issueTokens(uid)
	if err != nil {
		return model.TokenPair{}, err
	}

	// The new pair only exists for the caller once the swap succeeded.
	err = a.userRepo.RotateRefreshToken(ctx, uid,
		secret.HashHex(in.RefreshToken), secret.HashHex(pair.RefreshToken))
	switch {
	case customErrors.IsInvalidToken(err):
		return model.TokenPair{}, err
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	return pair, nil
}

func (a *authService) Logout(ctx context.Context, claims jwt.AccessClaims) error {
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return customErrors.ErrInvalidToken
	}

	if err := a.userRepo.ClearRefreshToken(ctx, uid); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}

	if claims.ExpiresAt != nil {
		if err := a.tokenRepo.RevokeAccess(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return customErrors.WrapInternal(err, "Logout")
		}
	}
	return nil
}

func (a *authService) Authenticate(ctx context.Context, accessToken string) (jwt.AccessClaims, error) {
	if accessToken == "" {
		return jwt.AccessClaims{}, customErrors.ErrUnauthorized
	}

	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return jwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	revoked, err := a.tokenRepo.IsAccessRevoked(ctx, claims.ID)
	if err != nil {
		return jwt.AccessClaims{}, customErrors.WrapInternal(err, "Authenticate")
	}
	if revoked {
		return jwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	return claims, nil
}

func (a *authService) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userRepo.GetUserWithAddresses(ctx, userID)
	switch {
	case customErrors.IsNotFound(err):
		return model.User{}, err
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "Me")
	}
	return user, nil
}

func (a *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.User, error) {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		in.FullName = &name
	}
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}
	if in.FullName == nil && in.AvatarPath == "" {
		return model.User{}, customErrors.NewInvalidArgument("fullName or avatar is required")
	}

	current, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	upd := model.ProfileUpdate{FullName: in.FullName}
	if in.AvatarPath != "" {
		url, err := a.storage.Upload(ctx, in.AvatarPath)
		if err != nil {
			return model.User{}, err
		}
		upd.Avatar = &url
	}

	updated, err := a.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if upd.Avatar != nil {
			a.deleteBestEffort(ctx, *upd.Avatar)
		}
		return model.User{}, err
	}

	if upd.Avatar != nil && current.Avatar != nil && *current.Avatar != "" {
		a.deleteBestEffort(ctx, *current.Avatar)
	}

	return updated, nil
}

func (a *authService) issueTokens(uid uuid.UUID) (model.TokenPair, error) {
	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(uid)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, rtExp, jti, err := a.jwtUtil.GenerateRefreshToken(uid)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:     at,
		RefreshToken:    rt,
		AccessTTL:       atExp.Sub(now),
		RefreshTTL:      rtExp.Sub(now),
		UserID:          uid,
		RefreshTokenJTI: jti,
	}, nil
}

func (a *authService) deleteBestEffort(ctx context.Context, url string) {
	if err := a.storage.Delete(ctx, url); err != nil {
		a.log.Warn("delete image", zap.String("url", url), zap.Error(err))
	}
}
