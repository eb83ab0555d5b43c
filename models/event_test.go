package models

import (
	"testing"
	"time"
)

func TestEvent_ComputeStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	deadlineFuture := now.Add(7 * 24 * time.Hour)
	deadlinePast := now.Add(-time.Hour)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			"événement annulé reste annulé",
			Event{EventStatus: EventStatusCancelled, Date: future},
			EventStatusCancelled,
		},
		{
			"date passée donne completed",
			Event{Date: past},
			EventStatusCompleted,
		},
		{
			"inscriptions ouvertes avant la deadline",
			Event{Date: future, RegistrationEnabled: true, RegistrationDeadline: &deadlineFuture},
			EventStatusRegistrationOpen,
		},
		{
			"inscriptions fermées après la deadline",
			Event{Date: future, RegistrationEnabled: true, RegistrationDeadline: &deadlinePast},
			EventStatusRegistrationClosed,
		},
		{
			"sans offre d'inscription",
			Event{Date: future},
			EventStatusUpcoming,
		},
		{
			"deadline sans registration_enabled",
			Event{Date: future, RegistrationDeadline: &deadlineFuture},
			EventStatusUpcoming,
		},
		{
			"annulé prime sur la date passée",
			Event{EventStatus: EventStatusCancelled, Date: past},
			EventStatusCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.ComputeStatus(now); got != tt.want {
				t.Errorf("ComputeStatus() = %v, attendu %v", got, tt.want)
			}
		})
	}
}
