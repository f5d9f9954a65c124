// Package authtest provides in-memory implementations of the auth repositories
// and collaborators for tests.
package authtest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

// UserRepo mirrors the conditional-update semantics of the gorm repositories.
type UserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]model.User
	addresses map[uuid.UUID]model.Address
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:     map[uuid.UUID]model.User{},
		addresses: map[uuid.UUID]model.Address{},
	}
}

func (r *UserRepo) CreateUser(_ context.Context, u model.User) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.users {
		if v.Email == u.Email {
			return uuid.Nil, customErrors.NewAlreadyExists("user with this email")
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Addresses = nil
	r.users[u.ID] = u
	return u.ID, nil
}

func (r *UserRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.users {
		if v.Email == email {
			return v, nil
		}
	}
	return model.User{}, customErrors.NewNotFound("user")
}

func (r *UserRepo) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.get(id)
}

func (r *UserRepo) GetUserWithAddresses(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.get(id)
	if err != nil {
		return model.User{}, err
	}
	u.Addresses = r.list(id)
	return u, nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.get(id)
	if err != nil {
		return model.User{}, err
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Avatar != nil {
		avatar := *upd.Avatar
		u.Avatar = &avatar
	}
	r.users[id] = u
	u.Addresses = r.list(id)
	return u, nil
}

func (r *UserRepo) SetRefreshToken(_ context.Context, id uuid.UUID, tokenHash string) error {
	return r.update(id, func(u *model.User) error {
		u.RefreshTokenHash = &tokenHash
		return nil
	})
}

func (r *UserRepo) RotateRefreshToken(_ context.Context, id uuid.UUID, presentedHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != presentedHash {
		return customErrors.ErrTokenReused
	}
	u.RefreshTokenHash = &newHash
	r.users[id] = u
	return nil
}

func (r *UserRepo) ClearRefreshToken(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.RefreshTokenHash = nil
		r.users[id] = u
	}
	return nil
}

func (r *UserRepo) SetOTP(_ context.Context, id uuid.UUID, otpHash string, expiresAt time.Time) error {
	return r.update(id, func(u *model.User) error {
		u.OTPHash = &otpHash
		u.OTPExpiresAt = &expiresAt
		u.OTPAttempts = 0
		return nil
	})
}

func (r *UserRepo) RecordOTPFailure(_ context.Context, id uuid.UUID, maxAttempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.OTPHash == nil {
		return nil
	}
	u.OTPAttempts++
	if u.OTPAttempts >= maxAttempts {
		u.OTPHash = nil
		u.OTPExpiresAt = nil
	}
	r.users[id] = u
	return nil
}

func (r *UserRepo) ConsumeOTP(
	_ context.Context,
	id uuid.UUID,
	otpHash string,
	now time.Time,
	maxAttempts int,
	resetHash string,
	resetExpiresAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.OTPHash == nil || *u.OTPHash != otpHash ||
		u.OTPExpiresAt == nil || !u.OTPExpiresAt.After(now) || u.OTPAttempts >= maxAttempts {
		return customErrors.ErrInvalidOtp
	}
	u.OTPHash, u.OTPExpiresAt, u.OTPAttempts = nil, nil, 0
	u.ResetTokenHash = &resetHash
	u.ResetTokenExpiresAt = &resetExpiresAt
	r.users[id] = u
	return nil
}

func (r *UserRepo) GetUserByResetToken(_ context.Context, resetHash string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == resetHash {
			return u, nil
		}
	}
	return model.User{}, customErrors.NewNotFound("user")
}

func (r *UserRepo) ConsumeResetToken(_ context.Context, resetHash string, now time.Time, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.ResetTokenHash == nil || *u.ResetTokenHash != resetHash {
			continue
		}
		if u.ResetTokenExpiresAt == nil || !u.ResetTokenExpiresAt.After(now) {
			break
		}
		u.PasswordHash = passwordHash
		u.ResetTokenHash, u.ResetTokenExpiresAt = nil, nil
		u.RefreshTokenHash = nil
		r.users[id] = u
		return nil
	}
	return customErrors.ErrInvalidToken
}

func (r *UserRepo) CreateAddress(_ context.Context, a model.Address, limit int) (model.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.get(a.UserID)
	if err != nil {
		return model.Address{}, err
	}
	if u.AddressCount >= limit {
		return model.Address{}, customErrors.NewLimitExceeded(fmt.Sprintf("a user can have at most %d addresses", limit))
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.addresses[a.ID] = a
	u.AddressCount++
	r.users[u.ID] = u
	return a, nil
}

func (r *UserRepo) ListAddresses(_ context.Context, userID uuid.UUID) ([]model.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.list(userID), nil
}

func (r *UserRepo) GetAddress(_ context.Context, userID, id uuid.UUID) (model.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return model.Address{}, customErrors.NewNotFound("address")
	}
	return a, nil
}

func (r *UserRepo) UpdateAddress(_ context.Context, userID, id uuid.UUID, upd model.AddressUpdate) (model.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return model.Address{}, customErrors.NewNotFound("address")
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&a.StreetAddress, upd.StreetAddress)
	set(&a.Town, upd.Town)
	set(&a.City, upd.City)
	set(&a.Country, upd.Country)
	set(&a.ZipCode, upd.ZipCode)
	set(&a.AddressType, upd.AddressType)
	a.UpdatedAt = time.Now()
	r.addresses[id] = a
	return a, nil
}

func (r *UserRepo) DeleteAddress(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return customErrors.NewNotFound("address")
	}
	delete(r.addresses, id)
	if u, ok := r.users[userID]; ok && u.AddressCount > 0 {
		u.AddressCount--
		r.users[userID] = u
	}
	return nil
}

// User returns the stored record including secret fields.
func (r *UserRepo) User(id uuid.UUID) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.users[id]
}

// Put stores u as is.
func (r *UserRepo) Put(u model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.ID] = u
}

func (r *UserRepo) get(id uuid.UUID) (model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return model.User{}, customErrors.NewNotFound("user")
	}
	return u, nil
}

func (r *UserRepo) list(userID uuid.UUID) []model.Address {
	var out []model.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (r *UserRepo) update(id uuid.UUID, f func(u *model.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.get(id)
	if err != nil {
		return err
	}
	if err := f(&u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

type TokenRepo struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	Err     error
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{revoked: map[string]time.Time{}}
}

func (t *TokenRepo) RevokeAccess(_ context.Context, jti string, exp time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Err != nil {
		return t.Err
	}
	t.revoked[jti] = exp
	return nil
}

func (t *TokenRepo) IsAccessRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Err != nil {
		return true, t.Err
	}
	_, ok := t.revoked[jti]
	return ok, nil
}

type CooldownRepo struct {
	mu     sync.Mutex
	active map[string]bool
}

func NewCooldownRepo() *CooldownRepo {
	return &CooldownRepo{active: map[string]bool{}}
}

func (c *CooldownRepo) StartCooldown(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active[key] {
		return false, nil
	}
	c.active[key] = true
	return true, nil
}

func (c *CooldownRepo) ClearCooldown(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.active, key)
	return nil
}

// Expire ends a running cooldown, as its TTL would.
func (c *CooldownRepo) Expire(key string) {
	_ = c.ClearCooldown(context.Background(), key)
}

// Storage records uploads and deletes. Like the real one it removes the local file.
type Storage struct {
	mu        sync.Mutex
	n         int
	Uploaded  []string
	Deleted   []string
	UploadErr error
	DeleteErr error
}

func (s *Storage) Upload(_ context.Context, localPath string) (string, error) {
	_ = os.Remove(localPath)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.n++
	url := fmt.Sprintf("https://cdn.test/%d.png", s.n)
	s.Uploaded = append(s.Uploaded, url)
	return url, nil
}

func (s *Storage) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.Deleted = append(s.Deleted, url)
	return nil
}

// Mailbox captures OTP codes instead of sending them.
type Mailbox struct {
	mu    sync.Mutex
	codes map[string]string
	Err   error
}

func NewMailbox() *Mailbox {
	return &Mailbox{codes: map[string]string{}}
}

func (m *Mailbox) SendOTP(_ context.Context, email, _ string, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.codes[email] = code
	return nil
}

// Code is the last code sent to email.
func (m *Mailbox) Code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.codes[email]
}
