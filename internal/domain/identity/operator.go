package identity

import (
	"strings"

	"github.com/rentdesk/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Operator is the single configured account allowed to manage the property
type Operator struct {
	Username     string
	PasswordHash string
}

// NewOperator creates an operator from a stored bcrypt hash
func NewOperator(username, passwordHash string) (*Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewValidationError("Operator username cannot be empty")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, shared.NewValidationError("Operator password hash is not a valid bcrypt hash")
	}
	return &Operator{Username: username, PasswordHash: passwordHash}, nil
}

// NewOperatorWithPassword hashes a plaintext password into a new operator
func NewOperatorWithPassword(username, password string) (*Operator, error) {
	if password == "" {
		return nil, shared.NewValidationError("Operator password cannot be empty")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return NewOperator(username, hash)
}

// Authenticate reports whether username and password match this operator
func (o *Operator) Authenticate(username, password string) bool {
	// hash is compared even on a username mismatch to keep timing uniform
	passwordOK := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)) == nil
	return passwordOK && username == o.Username
}

// HashPassword returns the bcrypt hash of a plaintext password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
