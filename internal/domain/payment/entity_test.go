// internal/domain/payment/entity_test.go
package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSettled(t *testing.T) {
	settled := []Status{StatusApproved, StatusRejected, StatusRefunded, StatusCancelled}
	for _, st := range settled {
		assert.True(t, (&Payment{Status: st}).IsSettled(), string(st))
	}

	open := []Status{StatusPending, StatusProcessing}
	for _, st := range open {
		assert.False(t, (&Payment{Status: st}).IsSettled(), string(st))
	}
}

func TestIsValidMethod(t *testing.T) {
	assert.True(t, IsValidMethod(MethodStripe))
	assert.True(t, IsValidMethod(MethodPayPal))
	assert.True(t, IsValidMethod(MethodCash))
	assert.False(t, IsValidMethod("barter"))
	assert.False(t, IsValidMethod(""))
}
