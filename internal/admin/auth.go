// Package admin guards the catalog's write routes behind a single shared
// admin password and cookie-borne sessions.
package admin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("wrong password")

// Authenticator checks the admin password against a bcrypt hash.
type Authenticator struct {
	hash []byte
}

// NewAuthenticator hashes password, or uses hash as given when it is set.
func NewAuthenticator(password, hash string) (*Authenticator, error) {
	if hash != "" {
		if !looksLikeBcrypt(hash) {
			return nil, errors.New("admin password hash is not a bcrypt hash")
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &Authenticator{hash: []byte(hash)}, nil
	}
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{hash: hashed}, nil
}

func (a *Authenticator) Check(password string) error {
	if password == "" {
		return ErrInvalidPassword
	}
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return ErrInvalidPassword
	}
	return nil
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
