package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domuser "example.com/food-storefront/internal/domain/user"
)

const (
	MinPasswordLen = 6
	// bcrypt only reads the first 72 bytes of its input.
	MaxPasswordBytes = 72
)

// PasswordService hashes account passwords with bcrypt and maps its failures
// onto the user domain errors.
type PasswordService struct {
	cost int
}

// NewPasswordService falls back to bcrypt.DefaultCost for a cost bcrypt
// would reject.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

func (s *PasswordService) Hash(password string) (string, error) {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password must be %d to %d bytes", domuser.ErrInvalidCredential, MinPasswordLen, MaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports ErrUnauthorized for a wrong password and passes any other
// bcrypt failure through, such as a malformed stored hash.
func (s *PasswordService) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domuser.ErrUnauthorized
	}
	return err
}
