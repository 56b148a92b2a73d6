package auth

import (
	"crypto/subtle"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefix = regexp.MustCompile(`^\$2[aby]\$\d{2}\$`)

// IsHashed reports whether stored looks like a bcrypt hash. Anything else is
// treated as a legacy plaintext password.
func IsHashed(stored string) bool {
	return bcryptPrefix.MatchString(stored)
}

// Password wraps a stored credential.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

// Matches compares plaintextPassword against the stored value, accepting
// legacy plaintext rows.
func (p *Password) Matches(plaintextPassword string) (bool, error) {
	if !IsHashed(p.Hash) {
		return subtle.ConstantTimeCompare([]byte(p.Hash), []byte(plaintextPassword)) == 1, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NeedsUpgrade is true when the stored value is not yet a bcrypt hash.
func (p *Password) NeedsUpgrade() bool {
	return !IsHashed(p.Hash)
}
