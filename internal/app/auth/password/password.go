// Package password hashes and verifies user passwords with argon2id and a
// server-side pepper.
package password

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
)

var DefaultParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type Hasher struct {
	pepper string
	params *argon2id.Params
}

func NewHasher(pepper string) *Hasher {
	return NewHasherWithParams(pepper, DefaultParams)
}

func NewHasherWithParams(pepper string, params *argon2id.Params) *Hasher {
	return &Hasher{pepper: pepper, params: params}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return hash, nil
}

// Verify reports whether plain matches hash. A malformed hash is an internal error.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, hash)
	if err != nil {
		return false, customErrors.WrapInternal(err, "verify password")
	}
	return ok, nil
}
