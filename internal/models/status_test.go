package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanUpdateStatus(t *testing.T) {
	cases := []struct {
		current Status
		next    Status
		want    bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusProcessing, true},
		{StatusProcessing, StatusPacked, true},
		{StatusPacked, StatusShipped, true},
		{StatusShipped, StatusOutForDelivery, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusOutForDelivery, StatusReturned, true},
		{StatusDelivered, StatusRefunded, true},
		{StatusCancelled, StatusRefunded, true},
		{StatusReturned, StatusRefunded, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanUpdateStatus(tc.current, tc.next),
			"%s -> %s", tc.current, tc.next)
	}
}

func TestCanUpdateStatus_RefundedIsTerminal(t *testing.T) {
	all := []Status{
		StatusPending, StatusConfirmed, StatusProcessing, StatusPacked,
		StatusShipped, StatusOutForDelivery, StatusDelivered,
		StatusCancelled, StatusReturned, StatusRefunded,
	}
	for _, s := range all {
		assert.False(t, CanUpdateStatus(StatusRefunded, s), "refunded -> %s", s)
	}
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(StatusPending)
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, next)

	_, ok = NextStatus(StatusRefunded)
	assert.False(t, ok)
}

func TestStatusInfo(t *testing.T) {
	assert.Equal(t, "Pending", StatusInfo(StatusPending).Label)
	assert.Equal(t, "Delivered", StatusInfo(StatusDelivered).Label)

	// unknown keys fall back to the neutral entry
	assert.Equal(t, "Unknown", StatusInfo("bogus").Label)
	assert.Equal(t, "Unknown", PriorityInfo("bogus").Label)
	assert.Equal(t, "Unknown", PaymentStatusInfo("bogus").Label)
}
