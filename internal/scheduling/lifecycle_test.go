package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"biblio/internal/scheduling"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    scheduling.Status
		to      scheduling.Status
		wantErr bool
	}{
		{name: "pending to approved", from: scheduling.StatusPending, to: scheduling.StatusApproved},
		{name: "pending to rejected", from: scheduling.StatusPending, to: scheduling.StatusRejected},
		{name: "pending to cancelled", from: scheduling.StatusPending, to: scheduling.StatusCancelled},
		{name: "approved to cancelled", from: scheduling.StatusApproved, to: scheduling.StatusCancelled},
		{name: "approved to completed", from: scheduling.StatusApproved, to: scheduling.StatusCompleted},
		{name: "pending to completed", from: scheduling.StatusPending, to: scheduling.StatusCompleted, wantErr: true},
		{name: "rejected to approved", from: scheduling.StatusRejected, to: scheduling.StatusApproved, wantErr: true},
		{name: "cancelled to pending", from: scheduling.StatusCancelled, to: scheduling.StatusPending, wantErr: true},
		{name: "completed to cancelled", from: scheduling.StatusCompleted, to: scheduling.StatusCancelled, wantErr: true},
		{name: "approved to approved", from: scheduling.StatusApproved, to: scheduling.StatusApproved, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scheduling.Transition(tt.from, tt.to)

			if tt.wantErr {
				var invalid *scheduling.InvalidTransitionError
				assert.ErrorAs(t, err, &invalid)
				assert.Equal(t, tt.from, invalid.From)
				assert.Equal(t, tt.to, invalid.To)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTerminalStatusesAdmitNoTransition(t *testing.T) {
	terminal := []scheduling.Status{
		scheduling.StatusRejected,
		scheduling.StatusCancelled,
		scheduling.StatusCompleted,
	}
	all := []scheduling.Status{
		scheduling.StatusPending,
		scheduling.StatusApproved,
		scheduling.StatusRejected,
		scheduling.StatusCancelled,
		scheduling.StatusCompleted,
	}

	for _, from := range terminal {
		assert.True(t, from.Terminal())

		for _, to := range all {
			assert.False(t, scheduling.CanTransition(from, to), "%s -> %s should be illegal", from, to)
		}
	}
}

func TestStatusBlocking(t *testing.T) {
	assert.True(t, scheduling.StatusPending.Blocking())
	assert.True(t, scheduling.StatusApproved.Blocking())
	assert.False(t, scheduling.StatusRejected.Blocking())
	assert.False(t, scheduling.StatusCancelled.Blocking())
	assert.False(t, scheduling.StatusCompleted.Blocking())
}

func TestValidateCancel(t *testing.T) {
	startsAt := at(10, 0)

	tests := []struct {
		name    string
		status  scheduling.Status
		now     time.Time
		wantErr bool
	}{
		{name: "pending before start", status: scheduling.StatusPending, now: at(8, 0)},
		{name: "approved before start", status: scheduling.StatusApproved, now: at(9, 59)},
		{name: "at start instant", status: scheduling.StatusApproved, now: at(10, 0), wantErr: true},
		{name: "after start", status: scheduling.StatusPending, now: at(11, 0), wantErr: true},
		{name: "already rejected", status: scheduling.StatusRejected, now: at(8, 0), wantErr: true},
		{name: "already completed", status: scheduling.StatusCompleted, now: at(8, 0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scheduling.ValidateCancel(tt.status, startsAt, tt.now)

			if tt.wantErr {
				var invalid *scheduling.InvalidTransitionError
				assert.ErrorAs(t, err, &invalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeletable(t *testing.T) {
	assert.True(t, scheduling.Deletable(scheduling.StatusCancelled))
	assert.True(t, scheduling.Deletable(scheduling.StatusRejected))
	assert.True(t, scheduling.Deletable(scheduling.StatusCompleted))
	assert.False(t, scheduling.Deletable(scheduling.StatusPending))
	assert.False(t, scheduling.Deletable(scheduling.StatusApproved))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, scheduling.Status("pending").Valid())
	assert.False(t, scheduling.Status("confirmed").Valid())
	assert.False(t, scheduling.Status("").Valid())
}
