// Package cryptox implements password hashing with Argon2.
//
// Digests are self-describing strings in the PHC format used by most Argon2
// libraries:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
//
// salt and hash are unpadded standard base64. Verification reads the
// algorithm and cost parameters from the digest itself, so the configured
// parameters can change without invalidating stored digests.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/antirev/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algArgon2id = "argon2id"
	algArgon2i  = "argon2i"
)

// Upper bounds for cost parameters, both configured and read from digests.
// Argon2 allocates Memory KiB up front, so an unbounded value read from a
// stored digest could exhaust the process.
const (
	MaxMemoryKiB   = 1 << 20 // 1 GiB
	MaxIterations  = 64
	MaxParallelism = 64
)

// Params are the Argon2 cost parameters used for new digests.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams matches the OWASP-recommended Argon2id baseline
// (19 MiB, 2 passes, 1 lane).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Validate checks the cost parameters against the Max* limits.
func (p Params) Validate() error {
	var errs []error
	if p.Memory == 0 || p.Memory > MaxMemoryKiB {
		errs = append(errs, fmt.Errorf("memory out of range: %d KiB (max %d)", p.Memory, MaxMemoryKiB))
	}
	if p.Iterations == 0 || p.Iterations > MaxIterations {
		errs = append(errs, fmt.Errorf("iterations out of range: %d (max %d)", p.Iterations, MaxIterations))
	}
	if p.Parallelism == 0 || p.Parallelism > MaxParallelism {
		errs = append(errs, fmt.Errorf("parallelism out of range: %d (max %d)", p.Parallelism, MaxParallelism))
	}
	return errors.Join(errs...)
}

// Argon2Hasher hashes and verifies passwords.
type Argon2Hasher struct {
	params Params
}

// NewArgon2Hasher returns a hasher producing argon2id digests with p.
// Zero fields fall back to DefaultParams.
func NewArgon2Hasher(p Params) *Argon2Hasher {
	if p.Memory == 0 {
		p.Memory = DefaultParams.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultParams.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultParams.Parallelism
	}
	if p.SaltLength == 0 {
		p.SaltLength = DefaultParams.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = DefaultParams.KeyLength
	}
	return &Argon2Hasher{params: p}
}

// Hash derives an argon2id digest of password with a fresh random salt.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	if err := h.params.Validate(); err != nil {
		return "", fmt.Errorf("hash parameters: %w", err)
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	d := digest{
		alg:         algArgon2id,
		version:     argon2.Version,
		memory:      h.params.Memory,
		iterations:  h.params.Iterations,
		parallelism: h.params.Parallelism,
		salt:        salt,
		key:         key,
	}
	return d.String(), nil
}

// Verify reports whether password matches encoded. A mismatch is (false, nil);
// an error is returned only when encoded cannot be parsed, and it wraps
// common.ErrorMalformedDigest.
func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	d, err := parseDigest(encoded)
	if err != nil {
		return false, err
	}

	var candidate []byte
	switch d.alg {
	case algArgon2id:
		candidate = argon2.IDKey([]byte(password), d.salt, d.iterations, d.memory, d.parallelism, uint32(len(d.key)))
	case algArgon2i:
		candidate = argon2.Key([]byte(password), d.salt, d.iterations, d.memory, d.parallelism, uint32(len(d.key)))
	}

	return subtle.ConstantTimeCompare(candidate, d.key) == 1, nil
}

type digest struct {
	alg         string
	version     int
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (d digest) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		d.alg, d.version, d.memory, d.iterations, d.parallelism,
		base64.RawStdEncoding.EncodeToString(d.salt),
		base64.RawStdEncoding.EncodeToString(d.key),
	)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorMalformedDigest, fmt.Sprintf(format, args...))
}

func parseDigest(encoded string) (digest, error) {
	var d digest

	// "", alg, version, params, salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return d, malformed("expected 5 '$'-separated fields")
	}

	d.alg = parts[1]
	if d.alg != algArgon2id && d.alg != algArgon2i {
		return d, malformed("unsupported algorithm %q", d.alg)
	}

	v, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return d, malformed("missing version")
	}
	version, err := strconv.Atoi(v)
	if err != nil || version != argon2.Version {
		return d, malformed("unsupported version %q", v)
	}
	d.version = version

	if err := d.parseParams(parts[3]); err != nil {
		return d, err
	}

	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(d.salt) == 0 {
		return d, malformed("bad salt")
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return d, malformed("bad hash")
	}

	return d, nil
}

func (d *digest) parseParams(s string) error {
	seen := map[string]bool{}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return malformed("bad parameter %q", kv)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return malformed("bad value for %q", k)
		}
		switch k {
		case "m":
			if n > MaxMemoryKiB {
				return malformed("memory %d KiB exceeds limit", n)
			}
			d.memory = uint32(n)
		case "t":
			if n > MaxIterations {
				return malformed("iterations %d exceed limit", n)
			}
			d.iterations = uint32(n)
		case "p":
			if n > MaxParallelism {
				return malformed("parallelism %d exceeds limit", n)
			}
			d.parallelism = uint8(n)
		default:
			return malformed("unknown parameter %q", k)
		}
		seen[k] = true
	}
	if !seen["m"] || !seen["t"] || !seen["p"] {
		return malformed("missing cost parameter")
	}
	return nil
}
