package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardChain(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusProcessing))
	assert.True(t, CanTransition(StatusProcessing, StatusShipped))
	assert.True(t, CanTransition(StatusShipped, StatusDelivered))
}

func TestCanTransition_NoSkippingOrBackward(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusDelivered), "pending tidak boleh lompat ke delivered")
	assert.False(t, CanTransition(StatusPending, StatusShipped))
	assert.False(t, CanTransition(StatusShipped, StatusPending), "mundur tidak boleh")
	assert.False(t, CanTransition(StatusDelivered, StatusShipped))
	assert.False(t, CanTransition(StatusProcessing, StatusPending))
}

func TestCanTransition_Cancellation(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusProcessing, StatusCancelled))
	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, to := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.False(t, CanTransition(StatusDelivered, to))
		assert.False(t, CanTransition(StatusCancelled, to))
	}
}

func TestCanTransitionPay(t *testing.T) {
	assert.True(t, CanTransitionPay(PayPending, PayPaid))
	assert.True(t, CanTransitionPay(PayPending, PayFailed))
	assert.False(t, CanTransitionPay(PayPaid, PayPending))
	assert.False(t, CanTransitionPay(PayPaid, PayFailed))
	assert.False(t, CanTransitionPay(PayFailed, PayPaid))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus(Status("refunded")))
	assert.False(t, ValidStatus(Status("")))
}
