package models

import "testing"

func TestIsValidPaymentStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{PaymentStatusPending, true},
		{PaymentStatusCompleted, true},
		{PaymentStatusFailed, true},
		{PaymentStatusRefunded, true},
		{"paid", false},
		{"", false},
		{"COMPLETED", false},
	}
	for _, tt := range tests {
		if got := IsValidPaymentStatus(tt.status); got != tt.want {
			t.Errorf("IsValidPaymentStatus(%q) = %v, attendu %v", tt.status, got, tt.want)
		}
	}
}
