package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domuser "example.com/food-storefront/internal/domain/user"
)

func TestPasswordService_HashAndCompare(t *testing.T) {
	svc := NewPasswordService(4)

	hash, err := svc.Hash("hunter22")
	require.NoError(t, err)
	require.NoError(t, svc.Compare(hash, "hunter22"))
	require.ErrorIs(t, svc.Compare(hash, "hunter23"), domuser.ErrUnauthorized)

	err = svc.Compare("not-a-bcrypt-hash", "hunter22")
	require.Error(t, err)
	require.NotErrorIs(t, err, domuser.ErrUnauthorized)
}

func TestPasswordService_LengthBounds(t *testing.T) {
	svc := NewPasswordService(4)

	_, err := svc.Hash("short")
	require.ErrorIs(t, err, domuser.ErrInvalidCredential)

	_, err = svc.Hash(strings.Repeat("p", MaxPasswordBytes+1))
	require.ErrorIs(t, err, domuser.ErrInvalidCredential)

	_, err = svc.Hash(strings.Repeat("p", MaxPasswordBytes))
	require.NoError(t, err)
}

func TestNewPasswordService_CostOutOfRange(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewPasswordService(0).cost)
	require.Equal(t, bcrypt.DefaultCost, NewPasswordService(bcrypt.MaxCost+1).cost)
	require.Equal(t, 4, NewPasswordService(4).cost)
}
