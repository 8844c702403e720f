// Package cryptox implements the salted password hashing used for user
// accounts: per-user random salts and argon2id digests whose parameters are
// stored alongside the key so they can be tuned without invalidating
// existing accounts.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"golang.org/x/crypto/argon2"
)

// MinSaltSize is the smallest accepted salt, in bytes.
const MinSaltSize = 16

const hashPrefix = "argon2id"

var (
	ErrMalformedHash = errors.New("malformed password hash")
	ErrMalformedSalt = errors.New("malformed salt")
	ErrSaltTooShort  = fmt.Errorf("salt must be at least %d bytes", MinSaltSize)
)

// Params are the argon2id cost parameters.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

// DefaultParams follow the RFC 9106 second recommended option.
var DefaultParams = Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32}

func (p Params) valid() bool {
	return p.Time > 0 && p.MemoryKiB > 0 && p.Threads > 0 && p.KeyLen > 0
}

// Hasher derives and verifies password hashes. It is safe for concurrent use.
type Hasher struct {
	params   Params
	saltSize int
}

// NewHasher returns a Hasher producing saltSize-byte salts.
func NewHasher(p Params, saltSize int) (*Hasher, error) {
	if saltSize < MinSaltSize {
		return nil, ErrSaltTooShort
	}
	if !p.valid() {
		return nil, fmt.Errorf("invalid argon2 parameters: %+v", p)
	}
	return &Hasher{params: p, saltSize: saltSize}, nil
}

// NewSalt returns a fresh hex-encoded random salt.
func (h *Hasher) NewSalt() (string, error) {
	return common.MakeRandHexString(h.saltSize)
}

// Hash derives the encoded hash of password under salt using the
// Hasher's current parameters. The result has the form
//
//	argon2id$v=19$m=65536,t=1,p=4$<base64 key>
func (h *Hasher) Hash(password []byte, salt string) (string, error) {
	s, err := decodeSalt(salt)
	if err != nil {
		return "", err
	}
	key := argon2.IDKey(password, s, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)
	return encode(h.params, key), nil
}

// Verify reports whether password hashed under salt matches encoded.
// The parameters recorded in encoded are used, not the Hasher's own.
func (h *Hasher) Verify(encoded string, password []byte, salt string) (bool, error) {
	p, want, err := decode(encoded)
	if err != nil {
		return false, err
	}
	s, err := decodeSalt(salt)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey(password, s, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodeSalt(salt string) ([]byte, error) {
	s, err := hex.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSalt, err)
	}
	if len(s) < MinSaltSize {
		return nil, ErrSaltTooShort
	}
	return s, nil
}

func encode(p Params, key []byte) string {
	return fmt.Sprintf("%s$v=%d$m=%d,t=%d,p=%d$%s",
		hashPrefix, argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(key))
}

func decode(encoded string) (Params, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != hashPrefix {
		return Params{}, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, ErrMalformedHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(key) == 0 {
		return Params{}, nil, ErrMalformedHash
	}
	p.KeyLen = uint32(len(key))

	if !p.valid() {
		return Params{}, nil, ErrMalformedHash
	}
	return p, key, nil
}
