// internal/domain/user/entity_test.go
package user

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLocked(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	assert.True(t, (&User{LockedUntil: &future}).IsLocked(now))
	assert.False(t, (&User{LockedUntil: &past}).IsLocked(now))
	assert.False(t, (&User{}).IsLocked(now))
}

func TestGetFullName(t *testing.T) {
	assert.Equal(t, "Ana Flores", (&User{FirstName: "Ana", LastName: "Flores"}).GetFullName())
	assert.Equal(t, "Ana", (&User{FirstName: "Ana"}).GetFullName())
	assert.Equal(t, "", (&User{}).GetFullName())
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleCustomer}).IsAdmin())
}

func TestIsAccountLocked(t *testing.T) {
	until := time.Now().UTC().Add(30 * time.Minute)
	lockErr := &AccountLockedError{Until: until}

	assert.True(t, IsAccountLocked(lockErr))
	assert.True(t, IsAccountLocked(fmt.Errorf("login: %w", lockErr)))
	assert.False(t, IsAccountLocked(ErrInvalidCredentials))
	assert.False(t, IsAccountLocked(nil))

	var target *AccountLockedError
	if assert.True(t, errors.As(lockErr, &target)) {
		assert.Equal(t, until, target.Until)
	}
}
